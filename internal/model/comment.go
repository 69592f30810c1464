package model

import "time"

// Comment represents a comment left on a task
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is populated on reads that join the users table.
	Author *CommentAuthor `json:"author,omitempty"`
}

// CommentAuthor is the author summary embedded in comment listings
type CommentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}
