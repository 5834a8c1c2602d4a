// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Project
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
)

// CreateProject inserts a new project row. The caller supplies a prototype
// with the user-editable fields populated; ID, status, and timestamps are
// assigned here.
func CreateProject(ctx context.Context, db *gorm.DB, p *domain.Project) (*domain.Project, error) {
	p.ID = uuid.NewString()
	p.Status = domain.StatusPending
	p.CreatedAt = time.Now().UTC()
	if p.BudgetCurrency == "" {
		p.BudgetCurrency = "CNY"
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject fetches a single project by ID, or ErrNotFound.
func GetProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var p domain.Project
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjectsPage returns a paginated slice of projects, most recent first.
func ListProjectsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Project, error) {
	var out []domain.Project
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountProjects returns the total number of projects for pagination.
func CountProjects(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Project{}).Count(&total).Error
	return total, err
}

// UpdateProjectStatus transitions a project's status and progress. Returns
// ErrNotFound when no row is affected.
func UpdateProjectStatus(ctx context.Context, db *gorm.DB, id, status string, progress float64) error {
	res := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "progress": progress})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateProjectStylePreferences stores the structured recommendation the
// quiz converged on, so later design steps can read it off the project.
func UpdateProjectStylePreferences(ctx context.Context, db *gorm.DB, id string, prefs domain.JSONMap) error {
	res := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Update("style_preferences", prefs)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
