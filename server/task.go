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

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ProjectID   string  `json:"project_id"`
	AssigneeID  *string `json:"assignee_id"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
}

// handleCreateTask creates a task in a project, created by the current
// user.
func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validate.TaskTitle(req.Title); err != nil {
		return badRequest(c, err.Error())
	}
	if req.ProjectID == "" {
		return badRequest(c, "project_id is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidTaskPriority(priority) {
		return badRequest(c, "invalid task priority")
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return badRequest(c, "invalid due date format")
	}

	ctx := c.Request().Context()
	project, err := s.store.Projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		logger.Error("get project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load project")
	}
	if project == nil {
		return fail(c, http.StatusNotFound, "project not found")
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Status:      model.TaskTodo,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   currentUserID(c),
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Tasks.Insert(ctx, task); err != nil {
		logger.Error("create task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not create task")
	}

	return ok(c, http.StatusCreated, "task created", task)
}

// handleGetTask returns a single task
func (s *Server) handleGetTask(c echo.Context) error {
	task, err := s.store.Tasks.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load task")
	}
	if task == nil {
		return fail(c, http.StatusNotFound, "task not found")
	}
	return ok(c, http.StatusOK, "", task)
}

// handleTasksByProject returns the tasks in a project, paginated
func (s *Server) handleTasksByProject(c echo.Context) error {
	ctx := c.Request().Context()
	project, err := s.store.Projects.FindByID(ctx, c.Param("projectID"))
	if err != nil {
		logger.Error("get project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load project")
	}
	if project == nil {
		return fail(c, http.StatusNotFound, "project not found")
	}

	skip, limit := pagination(c)
	tasks, err := s.store.Tasks.ListByProject(ctx, project.ID, skip, limit)
	if err != nil {
		logger.Error("list tasks failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list tasks")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleMyTasks returns the tasks assigned to the current user
func (s *Server) handleMyTasks(c echo.Context) error {
	skip, limit := pagination(c)
	tasks, err := s.store.Tasks.ListByAssignee(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		logger.Error("list assigned tasks failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list tasks")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleCreatedTasks returns the tasks created by the current user
func (s *Server) handleCreatedTasks(c echo.Context) error {
	skip, limit := pagination(c)
	tasks, err := s.store.Tasks.ListByCreator(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		logger.Error("list created tasks failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list tasks")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleUpdateTask updates a task. Only the creator may update.
func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	ctx := c.Request().Context()
	task, err := s.store.Tasks.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load task")
	}
	if task == nil {
		return fail(c, http.StatusNotFound, "task not found")
	}
	if task.CreatorID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to update this task")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validate.TaskTitle(title); err != nil {
			return badRequest(c, err.Error())
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return badRequest(c, "invalid task status")
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !model.ValidTaskPriority(*req.Priority) {
			return badRequest(c, "invalid task priority")
		}
		task.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			task.AssigneeID = req.AssigneeID
		}
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			return badRequest(c, "invalid due date format")
		}
		task.DueDate = dueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.Tasks.Update(ctx, task); err != nil {
		logger.Error("update task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not update task")
	}

	return ok(c, http.StatusOK, "task updated", task)
}

// handleDeleteTask deletes a task and its comments. Only the creator may
// delete.
func (s *Server) handleDeleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	task, err := s.store.Tasks.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load task")
	}
	if task == nil {
		return fail(c, http.StatusNotFound, "task not found")
	}
	if task.CreatorID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to delete this task")
	}

	if err := s.store.Tasks.Delete(ctx, task.ID); err != nil {
		logger.Error("delete task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not delete task")
	}

	return ok(c, http.StatusOK, "task deleted", nil)
}
