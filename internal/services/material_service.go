// Package services – MaterialService
//
// This file implements catalog search, the fixed category taxonomy, budget
// tier planning, and price-adjacent alternatives. Budget math uses
// shopspring/decimal so tier multiplication and percentage splits round
// exactly to two decimal places instead of accumulating float drift.
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/repo"
)

// MaterialService provides catalog reads and budget planning.
type MaterialService struct {
	DB *gorm.DB
}

// NewMaterialService constructs a MaterialService.
func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{DB: db}
}

// Search runs a filtered catalog query. Page defaults mirror the other list
// endpoints.
func (s *MaterialService) Search(ctx context.Context, f repo.MaterialFilter, page, pageSize int) ([]domain.Material, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	return repo.SearchMaterials(ctx, s.DB, f, (page-1)*pageSize, pageSize)
}

// Category is one entry of the fixed material taxonomy.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// materialCategories is the stable taxonomy the frontend renders as a
// category grid. Order matters.
var materialCategories = []Category{
	{ID: "floor", Name: "地板", Icon: "🪵"},
	{ID: "wall", Name: "墙面材料", Icon: "🧱"},
	{ID: "tile", Name: "瓷砖", Icon: "⬜"},
	{ID: "ceiling", Name: "吊顶", Icon: "⬆️"},
	{ID: "door", Name: "门窗", Icon: "🚪"},
	{ID: "cabinet", Name: "橱柜", Icon: "🗄️"},
	{ID: "bathroom", Name: "卫浴", Icon: "🚿"},
	{ID: "lighting", Name: "灯具", Icon: "💡"},
	{ID: "furniture", Name: "家具", Icon: "🛋️"},
	{ID: "curtain", Name: "窗帘", Icon: "🪟"},
	{ID: "hardware", Name: "五金", Icon: "🔧"},
	{ID: "paint", Name: "涂料", Icon: "🎨"},
}

// Categories returns a copy of the taxonomy.
func (s *MaterialService) Categories() []Category {
	out := make([]Category, len(materialCategories))
	copy(out, materialCategories)
	return out
}

// Budget tier multipliers applied to the user's total budget.
var tierMultipliers = map[string]decimal.Decimal{
	"economy":  decimal.RequireFromString("0.7"),
	"standard": decimal.RequireFromString("1.0"),
	"premium":  decimal.RequireFromString("1.3"),
}

// tierAllocations splits a tier's budget across spend categories.
var tierAllocations = map[string]map[string]string{
	"economy": {
		"floor": "0.15", "wall": "0.10", "ceiling": "0.05", "door": "0.08",
		"bathroom": "0.12", "kitchen": "0.15", "lighting": "0.05",
		"furniture": "0.20", "soft": "0.10",
	},
	"standard": {
		"floor": "0.18", "wall": "0.12", "ceiling": "0.06", "door": "0.10",
		"bathroom": "0.14", "kitchen": "0.16", "lighting": "0.06",
		"furniture": "0.18", "soft": "0.10",
	},
	"premium": {
		"floor": "0.20", "wall": "0.14", "ceiling": "0.08", "door": "0.12",
		"bathroom": "0.16", "kitchen": "0.18", "lighting": "0.08",
		"furniture": "0.15", "soft": "0.09",
	},
}

// BudgetTier is the plan for one spending level.
type BudgetTier struct {
	TotalBudget float64            `json:"total_budget"`
	PerSqm      float64            `json:"per_sqm"`
	Allocations map[string]float64 `json:"allocations"`
}

// BudgetOptions computes economy/standard/premium plans for a total budget
// and floor area. All amounts are rounded to two decimal places.
func (s *MaterialService) BudgetOptions(totalBudget, areaSqm float64) (map[string]BudgetTier, error) {
	if totalBudget <= 0 || areaSqm <= 0 {
		return nil, ErrInvalidBudget
	}
	budget := decimal.NewFromFloat(totalBudget)
	area := decimal.NewFromFloat(areaSqm)

	out := make(map[string]BudgetTier, len(tierMultipliers))
	for tier, mult := range tierMultipliers {
		tierBudget := budget.Mul(mult)

		alloc := make(map[string]float64, len(tierAllocations[tier]))
		for category, pct := range tierAllocations[tier] {
			share := tierBudget.Mul(decimal.RequireFromString(pct)).Round(2)
			alloc[category], _ = share.Float64()
		}

		total, _ := tierBudget.Round(2).Float64()
		perSqm, _ := tierBudget.Div(area).Round(2).Float64()
		out[tier] = BudgetTier{
			TotalBudget: total,
			PerSqm:      perSqm,
			Allocations: alloc,
		}
	}
	return out, nil
}

// Alternatives returns up to limit materials from the same category as the
// reference, ordered by price proximity.
func (s *MaterialService) Alternatives(ctx context.Context, materialID string, limit int) ([]domain.Material, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	ref, err := repo.GetMaterial(ctx, s.DB, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return repo.ListAlternatives(ctx, s.DB, ref, limit)
}
