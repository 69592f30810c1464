package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskforge/taskforge/internal/model"
)

// CommentStore persists task comments. Reads join the users table so
// listings carry an author summary.
type CommentStore struct {
	db *sql.DB
}

const commentSelect = `
	SELECT c.id, c.content, c.task_id, c.author_id, c.created_at, c.updated_at,
	       u.username, u.full_name
	FROM comments c
	JOIN users u ON u.id = c.author_id`

// Insert persists a new comment
func (s *CommentStore) Insert(ctx context.Context, c *model.Comment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comments (id, content, task_id, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Content, c.TaskID, c.AuthorID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindByID returns the comment with the given id, or (nil, nil)
func (s *CommentStore) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	row := s.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByTask returns the comments on taskID, newest first, paginated
func (s *CommentStore) ListByTask(ctx context.Context, taskID string, skip, limit int) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at DESC LIMIT $2 OFFSET $3`,
		taskID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListByAuthor returns the comments written by authorID, newest first
func (s *CommentStore) ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		commentSelect+` WHERE c.author_id = $1 ORDER BY c.created_at DESC LIMIT $2 OFFSET $3`,
		authorID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

// CountByTask returns the number of comments on taskID
func (s *CommentStore) CountByTask(ctx context.Context, taskID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE task_id = $1`, taskID).Scan(&n)
	return n, err
}

// Update overwrites the comment content
func (s *CommentStore) Update(ctx context.Context, c *model.Comment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		c.Content, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("comment not found")
	}

	return tx.Commit()
}

// Delete removes a comment
func (s *CommentStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanComment(row *sql.Row) (*model.Comment, error) {
	var c model.Comment
	var author model.CommentAuthor
	err := row.Scan(&c.ID, &c.Content, &c.TaskID, &c.AuthorID,
		&c.CreatedAt, &c.UpdatedAt, &author.Username, &author.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	author.ID = c.AuthorID
	c.Author = &author
	return &c, nil
}

func collectComments(rows *sql.Rows) ([]model.Comment, error) {
	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		var author model.CommentAuthor
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID, &c.AuthorID,
			&c.CreatedAt, &c.UpdatedAt, &author.Username, &author.FullName); err != nil {
			return nil, err
		}
		author.ID = c.AuthorID
		c.Author = &author
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
