package catalog

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// cacheEntry is one sheet's normalized records. Entries are replaced
// wholesale, never modified.
type cacheEntry struct {
	records   []models.Record
	fetchedAt time.Time
}

// SheetCache is a read-through cache of normalized sheet records keyed by
// sheet name. Entries expire TTL after the fetch that produced them
// completed; an expired entry behaves exactly like a missing one. Concurrent
// misses for the same sheet share a single upstream fetch.
type SheetCache struct {
	reader  interfaces.SheetReader
	logger  *common.Logger
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time // injectable clock for testing

	mu      sync.RWMutex
	entries map[string]cacheEntry
	gens    map[string]uint64 // bumped by Invalidate
	epoch   uint64            // bumped by InvalidateAll
	flight  singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	fetches  atomic.Int64
	failures atomic.Int64
}

// CacheOption configures the cache
type CacheOption func(*SheetCache)

// WithTTL sets the entry lifetime
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *SheetCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds each upstream fetch
func WithFetchTimeout(timeout time.Duration) CacheOption {
	return func(c *SheetCache) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) CacheOption {
	return func(c *SheetCache) {
		c.now = now
	}
}

// NewSheetCache creates a cache in front of reader.
func NewSheetCache(reader interfaces.SheetReader, logger *common.Logger, opts ...CacheOption) *SheetCache {
	c := &SheetCache{
		reader:  reader,
		logger:  logger,
		ttl:     common.FreshnessCatalog,
		timeout: 20 * time.Second,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = common.NewSilentLogger()
	}
	return c
}

// Get returns the records of sheet, fetching and normalizing them on a miss
// or after expiry. Fetch errors propagate and leave the cache untouched; a
// sheet without a header row or without rows is cached as an empty catalog.
func (c *SheetCache) Get(ctx context.Context, sheet string) ([]models.Record, error) {
	records, gen, ok := c.lookup(sheet)
	if ok {
		c.hits.Add(1)
		return records, nil
	}
	c.misses.Add(1)

	// Flights are keyed by generation: callers arriving after an
	// invalidation never join a fetch that started before it.
	key := sheet + "\x00" + strconv.FormatUint(gen, 10)
	ch := c.flight.DoChan(key, func() (interface{}, error) {
		// A fetch that finished between the lookup above and joining the flight
		// already stored fresh records.
		if records, _, ok := c.lookup(sheet); ok {
			return records, nil
		}
		// Shared by every waiting caller: detached from the first caller's
		// cancellation and bounded by the fetch timeout instead.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetch(fetchCtx, sheet, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Record), nil
	}
}

// fetch reads and normalizes sheet. The result is stored only if the sheet
// was not invalidated since generation gen was observed.
func (c *SheetCache) fetch(ctx context.Context, sheet string, gen uint64) ([]models.Record, error) {
	c.fetches.Add(1)
	start := c.now()

	data, err := c.reader.FetchSheet(ctx, sheet)
	var records []models.Record
	switch {
	case errors.Is(err, models.ErrHeaderNotFound), errors.Is(err, models.ErrEmptyCatalog):
		c.logger.Warn().Str("sheet", sheet).Err(err).Msg("Sheet has no usable rows, serving empty catalog")
		records = []models.Record{}
	case err != nil:
		c.failures.Add(1)
		c.logger.Error().Str("sheet", sheet).Err(err).Msg("Sheet fetch failed")
		return nil, err
	default:
		records = Normalize(data.Header, data.Rows)
	}

	fetchedAt := c.now()
	c.mu.Lock()
	current := c.generationLocked(sheet) == gen
	if current {
		c.entries[sheet] = cacheEntry{records: records, fetchedAt: fetchedAt}
	}
	c.mu.Unlock()

	if !current {
		c.logger.Debug().Str("sheet", sheet).Msg("Sheet invalidated during fetch, result not cached")
		return records, nil
	}

	c.logger.Debug().
		Str("sheet", sheet).
		Int("records", len(records)).
		Dur("elapsed", fetchedAt.Sub(start)).
		Msg("Sheet cached")
	return records, nil
}

// lookup returns the fresh records of sheet, if any, and the sheet's
// current generation.
func (c *SheetCache) lookup(sheet string) ([]models.Record, uint64, bool) {
	c.mu.RLock()
	e, ok := c.entries[sheet]
	gen := c.generationLocked(sheet)
	c.mu.RUnlock()
	if !ok || !common.IsFreshAt(e.fetchedAt, c.ttl, c.now()) {
		return nil, gen, false
	}
	return e.records, gen, true
}

// generationLocked changes whenever sheet is invalidated. c.mu must be held.
func (c *SheetCache) generationLocked(sheet string) uint64 {
	return c.epoch + c.gens[sheet]
}

// Invalidate drops the entry for sheet. A fetch already in flight for it
// still answers its callers but is not stored.
func (c *SheetCache) Invalidate(sheet string) {
	c.mu.Lock()
	delete(c.entries, sheet)
	c.gens[sheet]++
	c.mu.Unlock()
}

// InvalidateAll drops every entry, with the same in-flight rule as Invalidate.
func (c *SheetCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.epoch++
	c.mu.Unlock()
}

// Stats reports counters and the number of unexpired entries.
func (c *SheetCache) Stats() models.CacheStats {
	now := c.now()
	c.mu.RLock()
	fresh := 0
	for _, e := range c.entries {
		if common.IsFreshAt(e.fetchedAt, c.ttl, now) {
			fresh++
		}
	}
	c.mu.RUnlock()

	return models.CacheStats{
		Entries:  fresh,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
	}
}
