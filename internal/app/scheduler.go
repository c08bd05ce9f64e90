package app

import (
	"context"
	"time"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// startRefreshScheduler reloads the default sheet on a fixed interval so
// user requests rarely pay for a miss. Set the interval below the cache TTL.
func startRefreshScheduler(ctx context.Context, catalogService interfaces.CatalogService, sheet string, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Refresh scheduler: stopped")
			return
		case <-ticker.C:
			refreshSheet(ctx, catalogService, sheet, logger)
		}
	}
}

func refreshSheet(ctx context.Context, catalogService interfaces.CatalogService, sheet string, logger *common.Logger) {
	start := time.Now()

	// Dropping the entry first forces a fetch; a failed fetch leaves the
	// sheet uncached, same as passive expiry would
	catalogService.Invalidate(sheet)
	records, err := catalogService.Products(ctx, sheet, models.Filter{})
	if err != nil {
		logger.Warn().Err(err).Str("sheet", sheet).Msg("Refresh: sheet reload failed")
		return
	}

	logger.Info().
		Str("sheet", sheet).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("Refresh: complete")
}
