// Package detail resolves product detail documents by category and product id
package detail

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// DocumentSuffix is appended to a product id to form its document name.
const DocumentSuffix = "_detail.html"

// Service implements DetailService over a DocumentStore.
type Service struct {
	store   interfaces.DocumentStore
	folders map[string]string
	logger  *common.Logger
}

// NewService creates a new detail service.
// store may be nil when no credentials are configured; every resolve then
// fails as upstream unavailable.
func NewService(store interfaces.DocumentStore, folders map[string]string, logger *common.Logger) *Service {
	table := make(map[string]string, len(folders))
	for category, folder := range folders {
		table[strings.TrimSpace(category)] = folder
	}
	return &Service{
		store:   store,
		folders: table,
		logger:  logger,
	}
}

// DocumentName returns the document name for product id.
func DocumentName(id string) string {
	return strings.TrimSpace(id) + DocumentSuffix
}

// Resolve streams the detail document of id from the folder mapped to category.
func (s *Service) Resolve(ctx context.Context, category, id string) (io.ReadCloser, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: middle", models.ErrMissingParameter)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id", models.ErrMissingParameter)
	}

	folder, ok := s.folders[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownCategory, category)
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: document store not configured", models.ErrUpstreamUnavailable)
	}

	name := DocumentName(id)
	docID, err := s.store.FindDocument(ctx, folder, name)
	if err != nil {
		s.logger.Warn().Str("category", category).Str("document", name).Err(err).Msg("Detail document lookup failed")
		return nil, err
	}

	s.logger.Debug().Str("category", category).Str("document", name).Str("id", docID).Msg("Streaming detail document")
	return s.store.OpenDocument(ctx, docID)
}

// Categories returns the categories with a configured folder, sorted.
func (s *Service) Categories() []string {
	return slices.Sorted(maps.Keys(s.folders))
}

// Ensure Service implements DetailService
var _ interfaces.DetailService = (*Service)(nil)
