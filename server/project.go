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

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// handleCreateProject creates a project owned by the current user
func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validate.ProjectName(req.Name); err != nil {
		return badRequest(c, err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return badRequest(c, "invalid start date format")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return badRequest(c, "invalid end date format")
	}

	now := time.Now().UTC()
	project := &model.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Status:      model.ProjectPlanning,
		OwnerID:     currentUserID(c),
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Projects.Insert(c.Request().Context(), project); err != nil {
		logger.Error("create project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not create project")
	}

	return ok(c, http.StatusCreated, "project created", project)
}

// handleListProjects returns all projects, paginated
func (s *Server) handleListProjects(c echo.Context) error {
	skip, limit := pagination(c)
	projects, err := s.store.Projects.ListAll(c.Request().Context(), skip, limit)
	if err != nil {
		logger.Error("list projects failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list projects")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"projects": projects,
		"count":    len(projects),
	})
}

// handleMyProjects returns the projects owned by the current user
func (s *Server) handleMyProjects(c echo.Context) error {
	skip, limit := pagination(c)
	projects, err := s.store.Projects.ListByOwner(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		logger.Error("list own projects failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not list projects")
	}
	return ok(c, http.StatusOK, "", map[string]interface{}{
		"projects": projects,
		"count":    len(projects),
	})
}

// handleGetProject returns a single project
func (s *Server) handleGetProject(c echo.Context) error {
	project, err := s.store.Projects.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Error("get project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load project")
	}
	if project == nil {
		return fail(c, http.StatusNotFound, "project not found")
	}
	return ok(c, http.StatusOK, "", project)
}

// handleUpdateProject updates a project. Only the owner may update.
func (s *Server) handleUpdateProject(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	ctx := c.Request().Context()
	project, err := s.store.Projects.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load project")
	}
	if project == nil {
		return fail(c, http.StatusNotFound, "project not found")
	}
	if project.OwnerID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to update this project")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validate.ProjectName(name); err != nil {
			return badRequest(c, err.Error())
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !model.ValidProjectStatus(*req.Status) {
			return badRequest(c, "invalid project status")
		}
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return badRequest(c, "invalid start date format")
		}
		project.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return badRequest(c, "invalid end date format")
		}
		project.EndDate = endDate
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.store.Projects.Update(ctx, project); err != nil {
		logger.Error("update project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not update project")
	}

	return ok(c, http.StatusOK, "project updated", project)
}

// handleDeleteProject deletes a project and its tasks. Only the owner may
// delete.
func (s *Server) handleDeleteProject(c echo.Context) error {
	ctx := c.Request().Context()
	project, err := s.store.Projects.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error("get project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not load project")
	}
	if project == nil {
		return fail(c, http.StatusNotFound, "project not found")
	}
	if project.OwnerID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "you do not have permission to delete this project")
	}

	if err := s.store.Projects.Delete(ctx, project.ID); err != nil {
		logger.Error("delete project failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "could not delete project")
	}

	return ok(c, http.StatusOK, "project deleted", nil)
}
