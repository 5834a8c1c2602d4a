// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Material
// catalog.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homestudio-ai/design-backend/internal/domain"
)

// MaterialFilter narrows a catalog search. Zero values mean "no constraint".
type MaterialFilter struct {
	Query    string  // matches name or brand, case-insensitive
	Category string  // exact category id
	Style    string  // style tag membership
	MinPrice float64 // inclusive lower bound, active when > 0
	MaxPrice float64 // inclusive upper bound, active when > 0
	Supplier string  // exact supplier id
}

// SearchMaterials returns a filtered, paginated slice of catalog entries.
// Style membership is checked against the serialized JSON list; with the
// quoted tag this cannot produce substring false positives.
func SearchMaterials(ctx context.Context, db *gorm.DB, f MaterialFilter, offset, limit int) ([]domain.Material, error) {
	q := db.WithContext(ctx).Model(&domain.Material{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name LIKE ? OR brand LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Style != "" {
		q = q.Where("styles LIKE ?", `%"`+f.Style+`"%`)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Supplier != "" {
		q = q.Where("supplier = ?", f.Supplier)
	}

	var out []domain.Material
	err := q.Order("price ASC, id ASC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// GetMaterial fetches a catalog entry by ID, or ErrNotFound.
func GetMaterial(ctx context.Context, db *gorm.DB, id string) (*domain.Material, error) {
	var m domain.Material
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListAlternatives returns other materials in the same category, closest in
// price to the reference first, excluding the reference material itself.
func ListAlternatives(ctx context.Context, db *gorm.DB, ref *domain.Material, limit int) ([]domain.Material, error) {
	var out []domain.Material
	err := db.WithContext(ctx).
		Where("category = ? AND id <> ?", ref.Category, ref.ID).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "ABS(price - ?) ASC",
			Vars: []any{ref.Price},
		}}).
		Limit(limit).
		Find(&out).Error
	return out, err
}
