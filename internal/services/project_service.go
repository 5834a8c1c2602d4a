// Package services – ProjectService
//
// Projects are the root aggregate: sessions, quizzes, and budget planning
// all hang off a project row. This file covers creation, paginated listing,
// and the processing lifecycle transitions.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/repo"
)

// ProjectService manages the project lifecycle.
type ProjectService struct {
	DB *gorm.DB
}

// NewProjectService constructs a ProjectService.
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{DB: db}
}

// ProjectInput carries the user-editable fields of a new project.
type ProjectInput struct {
	Name           string
	Description    string
	BudgetMin      float64
	BudgetMax      float64
	BudgetCurrency string
	FamilyInfo     map[string]any
	Preferences    map[string]any
}

// Create validates and persists a new project in pending status.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	p := &domain.Project{
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		BudgetMin:      in.BudgetMin,
		BudgetMax:      in.BudgetMax,
		BudgetCurrency: in.BudgetCurrency,
		FamilyInfo:     domain.JSONMap(in.FamilyInfo),
		Preferences:    domain.JSONMap(in.Preferences),
	}
	return repo.CreateProject(ctx, s.DB, p)
}

// Get fetches a project by ID, mapping a missing row to ErrProjectNotFound.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := repo.GetProject(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPage returns one page of projects plus the total count.
func (s *ProjectService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountProjects(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListProjectsPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	return items, total, err
}

// StartProcessing transitions a pending project into processing. The actual
// pipeline (floorplan analysis, rendering) runs out of band; this endpoint
// only flips the status so the frontend can poll progress.
func (s *ProjectService) StartProcessing(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := repo.UpdateProjectStatus(ctx, s.DB, id, domain.StatusProcessing, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// ProgressReport is the polling payload for an in-flight project.
type ProgressReport struct {
	ProjectID       string  `json:"project_id"`
	Status          string  `json:"status"`
	OverallProgress float64 `json:"overall_progress"`
}

// Progress returns the current status and completion percentage.
func (s *ProjectService) Progress(ctx context.Context, id string) (*ProgressReport, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProgressReport{
		ProjectID:       p.ID,
		Status:          p.Status,
		OverallProgress: p.Progress,
	}, nil
}
