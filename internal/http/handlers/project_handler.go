// Project HTTP handlers.
//
// This file exposes REST endpoints for renovation projects:
//   - POST /projects                 (create)
//   - GET  /projects                 (list, paginated)
//   - GET  /projects/{id}           (fetch)
//   - POST /projects/{id}/start     (kick off processing)
//   - GET  /projects/{id}/progress  (poll progress)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. The service contracts
// are defined here, next to their consumers, so the transport layer depends
// on interfaces rather than concrete service types.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/services"
	"github.com/homestudio-ai/design-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProjectService defines the project lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type ProjectService interface {
	Create(ctx context.Context, in services.ProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error)
	StartProcessing(ctx context.Context, id string) (*domain.Project, error)
	Progress(ctx context.Context, id string) (*services.ProgressReport, error)
}

//
// DTOs
//

// CreateProjectRequest is the JSON payload for creating a project.
type CreateProjectRequest struct {
	Name           string         `json:"name" binding:"required,min=1,max=255" example:"两室一厅改造"`
	Description    string         `json:"description" example:"88㎡学区房，重点是儿童房"`
	BudgetMin      float64        `json:"budget_min" example:"15"`
	BudgetMax      float64        `json:"budget_max" example:"25"`
	BudgetCurrency string         `json:"budget_currency" example:"CNY"`
	FamilyInfo     map[string]any `json:"family_info"`
	Preferences    map[string]any `json:"preferences"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListProjectsResponse wraps a page of projects and pagination information.
type ListProjectsResponse struct {
	Projects   []domain.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// mustUUID validates a path parameter as a UUID, writing a 400 when it is
// not. Returns the id and whether it was valid.
func mustUUID(c *gin.Context, param, what string) (string, bool) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, what+" id must be a UUID")
		return "", false
	}
	return id, true
}

//
// Handlers
//

// CreateProject godoc
// @ID          createProject
// @Summary     Create a renovation project
// @Description Creates a project in pending status and returns the resource.
// @Tags        Projects
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateProjectRequest  true  "Project payload"
// @Success     201  {object}  domain.Project
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /projects [post]
func (h *Handlers) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	p, err := h.projectSvc.Create(c.Request.Context(), services.ProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		BudgetCurrency: req.BudgetCurrency,
		FamilyInfo:     req.FamilyInfo,
		Preferences:    req.Preferences,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyName) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListProjects godoc
// @ID          listProjects
// @Summary     List projects (paginated)
// @Tags        Projects
// @Produce     json
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListProjectsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /projects [get]
func (h *Handlers) ListProjects(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.projectSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListProjectsResponse{
		Projects: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetProject godoc
// @ID          getProject
// @Summary     Fetch a project
// @Tags        Projects
// @Produce     json
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
// @Success     200  {object}  domain.Project
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id} [get]
func (h *Handlers) GetProject(c *gin.Context) {
	id, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	p, err := h.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// StartProject godoc
// @ID          startProject
// @Summary     Start project processing
// @Description Transitions the project into processing status.
// @Tags        Projects
// @Produce     json
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
// @Success     200  {object}  domain.Project
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id}/start [post]
func (h *Handlers) StartProject(c *gin.Context) {
	id, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	p, err := h.projectSvc.StartProcessing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// GetProjectProgress godoc
// @ID          getProjectProgress
// @Summary     Poll processing progress
// @Tags        Projects
// @Produce     json
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
// @Success     200  {object}  services.ProgressReport
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id}/progress [get]
func (h *Handlers) GetProjectProgress(c *gin.Context) {
	id, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	rep, err := h.projectSvc.Progress(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rep)
}
