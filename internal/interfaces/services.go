// Package interfaces defines service contracts for the catalog server
package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/catalog/internal/models"
)

// CatalogService answers product queries from cached sheet data
type CatalogService interface {
	// Products returns the records of sheet matching the filter
	Products(ctx context.Context, sheet string, filter models.Filter) ([]models.Record, error)

	// Groups returns the filtered records of sheet partitioned into model groups
	Groups(ctx context.Context, sheet string, filter models.Filter) ([]models.ModelGroup, error)

	// Select resolves the option state and price for the model group identified by id
	Select(ctx context.Context, sheet, id string, selection models.Selection) (*models.SelectionResult, error)

	// Categories returns every distinct (middle, sub) pair across all sheets
	Categories(ctx context.Context) ([]models.CategoryPair, error)

	// Invalidate drops the cached copy of sheet, or of every sheet when sheet is empty
	Invalidate(sheet string)

	// CacheStats reports cache activity
	CacheStats() models.CacheStats
}

// DetailService resolves product detail documents
type DetailService interface {
	// Resolve streams the detail document for product id in category.
	// Fails with models.ErrUnknownCategory or models.ErrDocumentNotFound.
	Resolve(ctx context.Context, category, id string) (io.ReadCloser, error)

	// Categories returns the categories with a configured folder, sorted
	Categories() []string
}
