// Package store implements persistence over database/sql. It speaks
// postgres for deployment and sqlite for local mode and tests; queries are
// written with numbered placeholders that each appear exactly once, in
// order, which both drivers bind positionally.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store wraps the database connection and the per-entity repositories
type Store struct {
	db *sql.DB

	Users    *UserStore
	Projects *ProjectStore
	Tasks    *TaskStore
	Comments *CommentStore
}

// Open opens the database, verifies the connection, and runs migrations.
// driver is "postgres" or "sqlite".
func Open(driver, dsn string) (*Store, error) {
	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db}
	s.Users = &UserStore{db: db}
	s.Projects = &ProjectStore{db: db}
	s.Tasks = &TaskStore{db: db}
	s.Comments = &CommentStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		migrationUsers,
		migrationProjects,
		migrationTasks,
		migrationComments,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
