// Package catalog turns cached spreadsheet rows into product listings,
// model groups and priced selections.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// Service implements CatalogService on top of a SheetCache.
type Service struct {
	reader       interfaces.SheetReader
	cache        *SheetCache
	logger       *common.Logger
	defaultSheet string
	concurrency  int
}

// NewService creates a new catalog service.
// defaultSheet is used when a caller names no sheet.
func NewService(reader interfaces.SheetReader, cache *SheetCache, defaultSheet string, concurrency int, logger *common.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		reader:       reader,
		cache:        cache,
		logger:       logger,
		defaultSheet: defaultSheet,
		concurrency:  concurrency,
	}
}

func (s *Service) sheetName(sheet string) string {
	if sheet = strings.TrimSpace(sheet); sheet != "" {
		return sheet
	}
	return s.defaultSheet
}

// Products returns the records of sheet matching filter.
func (s *Service) Products(ctx context.Context, sheet string, filter models.Filter) ([]models.Record, error) {
	records, err := s.cache.Get(ctx, s.sheetName(sheet))
	if err != nil {
		return nil, err
	}
	return Query(records, filter), nil
}

// Groups returns the filtered records of sheet as model groups.
func (s *Service) Groups(ctx context.Context, sheet string, filter models.Filter) ([]models.ModelGroup, error) {
	records, err := s.Products(ctx, sheet, filter)
	if err != nil {
		return nil, err
	}
	return GroupRecords(records), nil
}

// Select resolves choices and price for the product identified by id.
func (s *Service) Select(ctx context.Context, sheet, id string, selection models.Selection) (*models.SelectionResult, error) {
	records, err := s.cache.Get(ctx, s.sheetName(sheet))
	if err != nil {
		return nil, err
	}

	baseKey, ok := BaseKey(records, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	}
	group := NewModelGroup(baseKey, OptionSet(records, id))
	return ResolveSelection(group, selection), nil
}

// Categories collects the distinct category pairs of every sheet. Sheets are
// read through the cache with bounded concurrency; the first failure aborts.
func (s *Service) Categories(ctx context.Context) ([]models.CategoryPair, error) {
	sheets, err := s.reader.ListSheets(ctx)
	if err != nil {
		return nil, err
	}

	perSheet := make([][]models.Record, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range sheets {
		g.Go(func() error {
			records, err := s.cache.Get(gctx, name)
			if err != nil {
				return err
			}
			perSheet[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]models.Record, 0)
	for _, records := range perSheet {
		all = append(all, records...)
	}

	pairs := CategoryPairs(all)
	s.logger.Debug().Int("sheets", len(sheets)).Int("pairs", len(pairs)).Msg("Category pairs collected")
	return pairs, nil
}

// Invalidate drops cached sheets; an empty name drops all of them.
func (s *Service) Invalidate(sheet string) {
	if sheet == "" {
		s.cache.InvalidateAll()
		s.logger.Info().Msg("Catalog cache cleared")
		return
	}
	s.cache.Invalidate(sheet)
	s.logger.Info().Str("sheet", sheet).Msg("Catalog sheet invalidated")
}

// CacheStats reports cache activity.
func (s *Service) CacheStats() models.CacheStats {
	return s.cache.Stats()
}

// Ensure Service implements CatalogService
var _ interfaces.CatalogService = (*Service)(nil)
