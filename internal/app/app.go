package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/catalog/internal/clients/csvexport"
	"github.com/bobmcallan/catalog/internal/clients/gdrive"
	"github.com/bobmcallan/catalog/internal/clients/gsheets"
	"github.com/bobmcallan/catalog/internal/clients/xlsx"
	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/services/catalog"
	"github.com/bobmcallan/catalog/internal/services/detail"
)

// App holds all initialized clients and services.
// It is the shared core used by both cmd/catalog-server and cmd/catalog-cli.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	SheetReader    interfaces.SheetReader
	DocumentStore  interfaces.DocumentStore
	Cache          *catalog.SheetCache
	CatalogService interfaces.CatalogService
	DetailService  interfaces.DetailService
	StartupTime    time.Time

	schedulerCancel context.CancelFunc
	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: explicit path, CATALOG_CONFIG,
// the binary directory, then the development fallback.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("CATALOG_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "catalog.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/catalog.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes all clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	return NewAppWithConfig(context.Background(), config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig initializes clients and services from an already loaded config.
// A nil logger falls back to the default console logger.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	if logger == nil {
		logger = common.NewDefaultLogger()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	reader, err := newSheetReader(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	var store interfaces.DocumentStore
	if config.Google.HasCredentials() || config.Clients.Drive.Endpoint != "" {
		driveClient, err := gdrive.NewClient(ctx, driveOptions(config, logger)...)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Drive client - detail documents unavailable")
		} else {
			store = driveClient
		}
	} else {
		logger.Warn().Msg("Google credentials not configured - detail documents unavailable")
	}

	cache := catalog.NewSheetCache(reader, logger,
		catalog.WithTTL(config.Catalog.GetCacheTTL()),
		catalog.WithFetchTimeout(config.Catalog.GetFetchTimeout()),
	)
	catalogService := catalog.NewService(reader, cache, config.Catalog.DefaultSheet, config.Catalog.Concurrency, logger)
	detailService := detail.NewService(store, config.Detail.Folders, logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		SheetReader:    reader,
		DocumentStore:  store,
		Cache:          cache,
		CatalogService: catalogService,
		DetailService:  detailService,
		StartupTime:    startupStart,
	}

	logger.Info().
		Str("source", config.Catalog.Source).
		Dur("cache_ttl", config.Catalog.GetCacheTTL()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newSheetReader builds the reader for the configured catalog source.
func newSheetReader(ctx context.Context, config *common.Config, logger *common.Logger) (interfaces.SheetReader, error) {
	switch config.Catalog.Source {
	case common.SourceSheets:
		sc := config.Clients.Sheets
		opts := []gsheets.ClientOption{
			gsheets.WithLogger(logger),
			gsheets.WithRateLimit(sc.RateLimit),
			gsheets.WithTimeout(sc.GetTimeout()),
			gsheets.WithColumns(sc.Columns),
		}
		switch {
		case sc.Endpoint != "":
			opts = append(opts, gsheets.WithEndpoint(sc.Endpoint))
		case config.Google.CredentialsFile != "":
			opts = append(opts, gsheets.WithCredentialsFile(config.Google.CredentialsFile))
		case config.Google.HasCredentials():
			opts = append(opts, gsheets.WithServiceAccount(config.Google.ServiceEmail, config.Google.PrivateKey))
		}
		client, err := gsheets.NewClient(ctx, sc.SpreadsheetID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		return client, nil

	case common.SourceCSV:
		cc := config.Clients.CSV
		return csvexport.NewClient(cc.URL,
			csvexport.WithLogger(logger),
			csvexport.WithRateLimit(cc.RateLimit),
			csvexport.WithTimeout(cc.GetTimeout()),
			csvexport.WithSheets(csvSheets(config)...),
		), nil

	case common.SourceXLSX:
		return xlsx.NewReader(config.Clients.XLSX.Path, logger), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
}

// csvSheets returns the configured sheet list, defaulting to the default sheet.
func csvSheets(config *common.Config) []string {
	if len(config.Catalog.Sheets) > 0 {
		return config.Catalog.Sheets
	}
	return []string{config.Catalog.DefaultSheet}
}

func driveOptions(config *common.Config, logger *common.Logger) []gdrive.ClientOption {
	opts := []gdrive.ClientOption{
		gdrive.WithLogger(logger),
		gdrive.WithTimeout(config.Clients.Drive.GetTimeout()),
	}
	switch {
	case config.Clients.Drive.Endpoint != "":
		opts = append(opts, gdrive.WithEndpoint(config.Clients.Drive.Endpoint))
	case config.Google.CredentialsFile != "":
		opts = append(opts, gdrive.WithCredentialsFile(config.Google.CredentialsFile))
	default:
		opts = append(opts, gdrive.WithServiceAccount(config.Google.ServiceEmail, config.Google.PrivateKey))
	}
	return opts
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, cancel warm cache.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.CatalogService, a.Logger)
	}()
}

// StartRefreshScheduler launches the periodic cache refresh goroutine when
// catalog.warm_interval is set.
func (a *App) StartRefreshScheduler() {
	interval := a.Config.Catalog.GetWarmInterval()
	if interval <= 0 {
		return
	}
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startRefreshScheduler(schedulerCtx, a.CatalogService, a.Config.Catalog.DefaultSheet, a.Logger, interval)
}
