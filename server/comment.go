package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/taskforge/taskforge/internal/logger"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/validate"
)

type createCommentRequest struct {
	Content string `json:"content"`
	TaskID  string `json:"task_id"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// handleCreateComment adds a comment to a task, authored by the current
// user.
func (s *Server) handleCreateComment(c echo.Context) error {
	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if err := validate.CommentContent(req.Content); err != nil {
		return badRequest(c, err.Error())
	}
	if req.TaskID == "" {
		return badRequest(c, "task_id is required")
	}

	ctx := c.Request().Context()
	task, err := s.store.Tasks.FindByID(ctx, req.TaskID)
	if err != nil {
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load task")
	}
	if task == nil {
		return fail(c, http.StatusNotFound, "task not found")
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(req.Content),
		TaskID:    task.ID,
		AuthorID:  currentUserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Comments.Insert(ctx, comment); err != nil {
		logger.Error("create comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not create comment")
	}

	return ok(c, http.StatusCreated, "comment created", comment)
}

// handleGetComment returns a single comment with its author summary
func (s *Server) handleGetComment(c echo.Context) error {
	comment, err := s.store.Comments.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Error("get comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load comment")
	}
	if comment == nil {
		return fail(c, http.StatusNotFound, "comment not found")
	}
	return ok(c, http.StatusOK, "", comment)
}

// handleCommentsByTask returns the comments on a task, newest first
func (s *Server) handleCommentsByTask(c echo.Context) error {
	ctx := c.Request().Context()
	task, err := s.store.Tasks.FindByID(ctx, c.Param("taskID"))
	if err != nil {
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load task")
	}
	if task == nil {
		return fail(c, http.StatusNotFound, "task not found")
	}

	skip, limit := pagination(c)
	comments, err := s.store.Comments.ListByTask(ctx, task.ID, skip, limit)
	if err != nil {
		logger.Error("list comments failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list comments")
	}
	total, err := s.store.Comments.CountByTask(ctx, task.ID)
	if err != nil {
		logger.Error("count comments failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list comments")
	}

	return ok(c, http.StatusOK, "", map[string]interface{}{
		"comments": comments,
		"count":    total,
	})
}

// handleMyComments returns the comments written by the current user
func (s *Server) handleMyComments(c echo.Context) error {
	skip, limit := pagination(c)
	comments, err := s.store.Comments.ListByAuthor(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		logger.Error("list own comments failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list comments")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"comments": comments,
		"count":    len(comments),
	})
}

// handleUpdateComment updates a comment. Only the author may update.
func (s *Server) handleUpdateComment(c echo.Context) error {
	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := validate.CommentContent(req.Content); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	comment, err := s.store.Comments.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load comment")
	}
	if comment == nil {
		return fail(c, http.StatusNotFound, "comment not found")
	}
	if comment.AuthorID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to update this comment")
	}

	comment.Content = strings.TrimSpace(req.Content)
	comment.UpdatedAt = time.Now().UTC()

	if err := s.store.Comments.Update(ctx, comment); err != nil {
		logger.Error("update comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not update comment")
	}

	return ok(c, http.StatusOK, "comment updated", comment)
}

// handleDeleteComment deletes a comment. Only the author may delete.
func (s *Server) handleDeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	comment, err := s.store.Comments.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load comment")
	}
	if comment == nil {
		return fail(c, http.StatusNotFound, "comment not found")
	}
	if comment.AuthorID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to delete this comment")
	}

	if err := s.store.Comments.Delete(ctx, comment.ID); err != nil {
		logger.Error("delete comment failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not delete comment")
	}

	return ok(c, http.StatusOK, "comment deleted", nil)
}
