package server

import (
	"net/http"
	"slices"

	"github.com/bobmcallan/catalog/internal/models"
	"github.com/bobmcallan/catalog/internal/services/catalog"
)

// sheetParam resolves the sheet a request reads: explicit sheet, then the
// middle category. Empty lets the service use its default sheet.
func sheetParam(r *http.Request) string {
	if sheet := QueryParam(r, "sheet"); sheet != "" {
		return sheet
	}
	return QueryParam(r, "middle")
}

func filterParams(r *http.Request) models.Filter {
	return models.Filter{
		Middle: QueryParam(r, "middle"),
		Sub:    QueryParam(r, "sub"),
		ID:     QueryParam(r, "id"),
	}
}

// selectionParams reads the option state. Values are compared exactly
// against sheet cells, so they are not trimmed.
func selectionParams(r *http.Request) models.Selection {
	q := r.URL.Query()
	var sel models.Selection
	for _, field := range models.SelectionFields {
		sel = sel.With(field, q.Get(string(field)))
	}
	return sel
}

// handleCategories handles GET /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	pairs, err := s.app.CatalogService.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": pairs,
		"tree":       catalog.CategoryTree(pairs),
	})
}

// handleProducts handles GET /api/products.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	records, err := s.app.CatalogService.Products(r.Context(), sheetParam(r), filterParams(r))
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"options": records})
}

// handleProductGroups handles GET /api/products/groups.
func (s *Server) handleProductGroups(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	groups, err := s.app.CatalogService.Groups(r.Context(), sheetParam(r), filterParams(r))
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// handleProductSelect handles GET /api/products/select. The option state is
// passed as query parameters; set and value apply one cascading change to it
// before the price is resolved.
func (s *Server) handleProductSelect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !RequireParams(w, r, "id") {
		return
	}

	sel := selectionParams(r)
	if set := QueryParam(r, "set"); set != "" {
		field := models.SelectionField(set)
		if !slices.Contains(models.SelectionFields, field) {
			WriteError(w, http.StatusBadRequest, "unknown selection field: "+set)
			return
		}
		sel = catalog.ApplySelection(sel, field, r.URL.Query().Get("value"))
	}

	result, err := s.app.CatalogService.Select(r.Context(), sheetParam(r), QueryParam(r, "id"), sel)
	if err != nil {
		writeServiceError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, result)
}

// handleCacheInvalidate handles POST /api/cache/invalidate.
func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	sheet := QueryParam(r, "sheet")
	s.app.CatalogService.Invalidate(sheet)

	scope := sheet
	if scope == "" {
		scope = "all"
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"invalidated": scope,
		"cache":       s.app.CatalogService.CacheStats(),
	})
}
