package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskforge/taskforge/internal/model"
)

// TaskStore persists tasks
type TaskStore struct {
	db *sql.DB
}

const taskColumns = `id, title, description, status, priority, project_id, assignee_id, creator_id, due_date, created_at, updated_at`

// Insert persists a new task
func (s *TaskStore) Insert(ctx context.Context, t *model.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, project_id, assignee_id, creator_id, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.ProjectID,
		t.AssigneeID, t.CreatorID, t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindByID returns the task with the given id, or (nil, nil)
func (s *TaskStore) FindByID(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// ListByProject returns the tasks belonging to projectID, paginated
func (s *TaskStore) ListByProject(ctx context.Context, projectID string, skip, limit int) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListByAssignee returns the tasks assigned to assigneeID, paginated
func (s *TaskStore) ListByAssignee(ctx context.Context, assigneeID string, skip, limit int) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		assigneeID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListByCreator returns the tasks created by creatorID, paginated
func (s *TaskStore) ListByCreator(ctx context.Context, creatorID string, skip, limit int) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE creator_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		creatorID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Update overwrites the mutable fields of a task
func (s *TaskStore) Update(ctx context.Context, t *model.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, assignee_id = $5, due_date = $6, updated_at = $7
		WHERE id = $8`,
		t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.DueDate, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("task not found")
	}

	return tx.Commit()
}

// Delete removes a task. Its comments cascade.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanTask(row *sql.Row) (*model.Task, error) {
	var t model.Task
	var assignee sql.NullString
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.ProjectID, &assignee, &t.CreatorID, &due, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssigneeID = &assignee.String
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		var assignee sql.NullString
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.ProjectID, &assignee, &t.CreatorID, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if assignee.Valid {
			t.AssigneeID = &assignee.String
		}
		if due.Valid {
			t.DueDate = &due.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
