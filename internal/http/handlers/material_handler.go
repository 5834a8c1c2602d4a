// Material catalog HTTP handlers.
//
// This file exposes the catalog and budget-planning endpoints:
//   - GET /materials/search            (filtered catalog search)
//   - GET /materials/categories        (fixed taxonomy)
//   - GET /materials/budget-options    (tiered budget plans)
//   - GET /materials/{id}/alternatives (price-adjacent substitutes)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/repo"
	"github.com/homestudio-ai/design-backend/internal/services"
	"github.com/homestudio-ai/design-backend/internal/utils"
)

// SearchMaterialsResponse wraps a filtered catalog page.
type SearchMaterialsResponse struct {
	Materials []domain.Material `json:"materials"`
}

// CategoriesResponse wraps the material taxonomy.
type CategoriesResponse struct {
	Categories []services.Category `json:"categories"`
}

// AlternativesResponse wraps price-adjacent substitute materials.
type AlternativesResponse struct {
	Alternatives []domain.Material `json:"alternatives"`
}

// SearchMaterials godoc
// @ID          searchMaterials
// @Summary     Search the material catalog
// @Tags        Materials
// @Produce     json
// @Param       query      query  string  false  "Name or brand substring"
// @Param       category   query  string  false  "Category ID"
// @Param       style      query  string  false  "Style tag"
// @Param       min_price  query  number  false  "Inclusive lower price bound"
// @Param       max_price  query  number  false  "Inclusive upper price bound"
// @Param       supplier   query  string  false  "Supplier ID"
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(50)
// @Success     200  {object}  handlers.SearchMaterialsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /materials/search [get]
func (h *Handlers) SearchMaterials(c *gin.Context) {
	f := repo.MaterialFilter{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Style:    c.Query("style"),
		MinPrice: utils.FloatDefault(c.Query("min_price"), 0),
		MaxPrice: utils.FloatDefault(c.Query("max_price"), 0),
		Supplier: c.Query("supplier"),
	}
	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 50)

	items, err := h.materialSvc.Search(c.Request.Context(), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, SearchMaterialsResponse{Materials: items})
}

// GetCategories godoc
// @ID          getCategories
// @Summary     List material categories
// @Tags        Materials
// @Produce     json
// @Success     200  {object}  handlers.CategoriesResponse
// @Router      /materials/categories [get]
func (h *Handlers) GetCategories(c *gin.Context) {
	ok(c, http.StatusOK, CategoriesResponse{Categories: h.materialSvc.Categories()})
}

// GetBudgetOptions godoc
// @ID          getBudgetOptions
// @Summary     Compute tiered budget plans
// @Description Returns economy/standard/premium allocations for a total
// @Description budget and floor area.
// @Tags        Materials
// @Produce     json
// @Param       total_budget  query  number  true  "Total budget"
// @Param       area_sqm      query  number  true  "Floor area in square meters"
// @Success     200  {object}  map[string]services.BudgetTier
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /materials/budget-options [get]
func (h *Handlers) GetBudgetOptions(c *gin.Context) {
	total := utils.FloatDefault(c.Query("total_budget"), 0)
	area := utils.FloatDefault(c.Query("area_sqm"), 0)

	tiers, err := h.materialSvc.BudgetOptions(total, area)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBudget) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "total_budget and area_sqm must be positive")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, tiers)
}

// GetAlternatives godoc
// @ID          getAlternatives
// @Summary     List alternative materials
// @Description Returns materials from the same category, closest in price
// @Description to the reference first.
// @Tags        Materials
// @Produce     json
// @Param       id     path   string  true   "Material ID (UUID)"  format(uuid)
// @Param       limit  query  int     false  "Maximum results"  default(5) maximum(20)
// @Success     200  {object}  handlers.AlternativesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Material not found"
// @Router      /materials/{id}/alternatives [get]
func (h *Handlers) GetAlternatives(c *gin.Context) {
	id, valid := mustUUID(c, "id", "material")
	if !valid {
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 5)

	items, err := h.materialSvc.Alternatives(c.Request.Context(), id, limit)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "material not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, AlternativesResponse{Alternatives: items})
}
