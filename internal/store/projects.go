package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskforge/taskforge/internal/model"
)

// ProjectStore persists projects
type ProjectStore struct {
	db *sql.DB
}

const projectColumns = `id, name, description, status, owner_id, start_date, end_date, created_at, updated_at`

// Insert persists a new project
func (s *ProjectStore) Insert(ctx context.Context, p *model.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, status, owner_id, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, p.Status, p.OwnerID, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindByID returns the project with the given id, or (nil, nil)
func (s *ProjectStore) FindByID(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// ListAll returns all projects, paginated
func (s *ProjectStore) ListAll(ctx context.Context, skip, limit int) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListByOwner returns the projects owned by ownerID, paginated
func (s *ProjectStore) ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// Update overwrites the mutable fields of a project
func (s *ProjectStore) Update(ctx context.Context, p *model.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET name = $1, description = $2, status = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $7`,
		p.Name, p.Description, p.Status, p.StartDate, p.EndDate, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("project not found")
	}

	return tx.Commit()
}

// Delete removes a project. Its tasks, and their comments, cascade.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanProject(row *sql.Row) (*model.Project, error) {
	var p model.Project
	var start, end sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID,
		&start, &end, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if start.Valid {
		p.StartDate = &start.Time
	}
	if end.Valid {
		p.EndDate = &end.Time
	}
	return &p, nil
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		var start, end sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID,
			&start, &end, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if start.Valid {
			p.StartDate = &start.Time
		}
		if end.Valid {
			p.EndDate = &end.Time
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
