package app

import (
	"context"
	"os"
	"time"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// warmCache pre-fetches every sheet on startup so the first user query is fast.
// Loading the category list reads each sheet through the cache.
func warmCache(ctx context.Context, catalogService interfaces.CatalogService, logger *common.Logger) {
	// Check env var override
	if os.Getenv("CATALOG_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via CATALOG_WARM_CACHE=off")
		return
	}

	start := time.Now()
	logger.Info().Msg("Warm cache: starting")

	pairs, err := catalogService.Categories(ctx)
	if err != nil {
		// Upstream may be unreachable at boot; requests will fetch on demand
		logger.Warn().Err(err).Msg("Warm cache: category load failed")
		return
	}

	if _, err := catalogService.Products(ctx, "", models.Filter{}); err != nil {
		logger.Warn().Err(err).Msg("Warm cache: default sheet load failed")
		return
	}

	stats := catalogService.CacheStats()
	logger.Info().
		Int("categories", len(pairs)).
		Int("sheets", stats.Entries).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}
