// Package common provides shared utilities for the catalog server
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Catalog sources
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
	SourceXLSX   = "xlsx"
)

// Config holds all configuration for the catalog server
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Catalog     CatalogConfig `toml:"catalog"`
	Clients     ClientsConfig `toml:"clients"`
	Google      GoogleConfig  `toml:"google"`
	Detail      DetailConfig  `toml:"detail"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Region         string `toml:"region"` // Hosting region, reported by /api/version
	RequestTimeout string `toml:"request_timeout"`
}

// GetRequestTimeout parses and returns the per-request timeout
func (c *ServerConfig) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// CatalogConfig selects the data source and tunes the sheet cache
type CatalogConfig struct {
	Source       string   `toml:"source"`        // "sheets", "csv" or "xlsx"
	DefaultSheet string   `toml:"default_sheet"` // Sheet used when a request names none
	Sheets       []string `toml:"sheets"`        // Sheet names for sources that cannot list them (csv)
	CacheTTL     string   `toml:"cache_ttl"`
	FetchTimeout string   `toml:"fetch_timeout"`
	Concurrency  int      `toml:"concurrency"` // Parallel sheet fetches for the category tree
	WarmInterval string   `toml:"warm_interval"` // Periodic cache refresh; empty disables
}

// GetCacheTTL parses and returns the cache time-to-live
func (c *CatalogConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return FreshnessCatalog
	}
	return d
}

// GetFetchTimeout parses and returns the upstream fetch timeout
func (c *CatalogConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// GetWarmInterval parses the refresh interval. Zero means disabled.
func (c *CatalogConfig) GetWarmInterval() time.Duration {
	d, err := time.ParseDuration(c.WarmInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// ClientsConfig holds upstream client configurations
type ClientsConfig struct {
	Sheets SheetsConfig `toml:"sheets"`
	CSV    CSVConfig    `toml:"csv"`
	XLSX   XLSXConfig   `toml:"xlsx"`
	Drive  DriveConfig  `toml:"drive"`
}

// SheetsConfig holds Google Sheets API configuration
type SheetsConfig struct {
	SpreadsheetID string `toml:"spreadsheet_id"`
	Columns       string `toml:"columns"` // A1 column span read from each sheet
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
	Endpoint      string `toml:"endpoint"` // Optional API endpoint override
}

// GetTimeout parses and returns the timeout duration
func (c *SheetsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// CSVConfig holds published CSV export configuration
type CSVConfig struct {
	URL       string `toml:"url"` // Published export URL; the sheet name is appended as &sheet=
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *CSVConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// XLSXConfig holds local workbook configuration
type XLSXConfig struct {
	Path string `toml:"path"`
}

// DriveConfig holds Google Drive API configuration
type DriveConfig struct {
	Timeout  string `toml:"timeout"`
	Endpoint string `toml:"endpoint"`
}

// GetTimeout parses and returns the timeout duration
func (c *DriveConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GoogleConfig holds service-account credentials shared by Sheets and Drive
type GoogleConfig struct {
	ServiceEmail    string `toml:"service_email"`
	PrivateKey      string `toml:"private_key"`
	CredentialsFile string `toml:"credentials_file"`
}

// HasCredentials reports whether any credential source is configured
func (c *GoogleConfig) HasCredentials() bool {
	return c.CredentialsFile != "" || (c.ServiceEmail != "" && c.PrivateKey != "")
}

// DetailConfig maps middle categories to Drive folder ids
type DetailConfig struct {
	Folders map[string]string `toml:"folders"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Region:         "us-central1",
			RequestTimeout: "30s",
		},
		Catalog: CatalogConfig{
			Source:       SourceSheets,
			DefaultSheet: "정수기",
			CacheTTL:     "5m",
			FetchTimeout: "20s",
			Concurrency:  4,
		},
		Clients: ClientsConfig{
			Sheets: SheetsConfig{
				Columns:   "A:Z",
				RateLimit: 5,
				Timeout:   "30s",
			},
			CSV: CSVConfig{
				RateLimit: 5,
				Timeout:   "30s",
			},
			Drive: DriveConfig{
				Timeout: "30s",
			},
		},
		Detail: DetailConfig{
			Folders: map[string]string{
				"정수기":   "1AbCDefGhiJkLmNoPqrStUvWxYz123456",
				"전기레인지": "1rNGIHBRnu87RmL_rx0gOxQi4VjaSS_xc",
				"에어컨":   "1KpS9G8-Sde1AMs4NFfQGnsnz7OvrEs_7",
				"TV":    "1F87emIVNQ9j9geooMET4uGQU9HXDHET5",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/catalog.log",
		},
	}
}

// LoadDotEnv loads a .env file into the process environment when present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	config.Catalog.Source = strings.ToLower(strings.TrimSpace(config.Catalog.Source))

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CATALOG_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CATALOG_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CATALOG_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	} else if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if region := firstEnv("CATALOG_REGION", "FUNCTION_REGION"); region != "" {
		config.Server.Region = region
	}

	if level := os.Getenv("CATALOG_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("CATALOG_SOURCE"); v != "" {
		config.Catalog.Source = v
	}
	if v := os.Getenv("CATALOG_DEFAULT_SHEET"); v != "" {
		config.Catalog.DefaultSheet = v
	}
	if v := os.Getenv("CATALOG_SHEETS"); v != "" {
		config.Catalog.Sheets = splitList(v)
	}
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		config.Catalog.CacheTTL = v
	}

	if v := firstEnv("GOOGLE_SHEET_ID", "CATALOG_SPREADSHEET_ID"); v != "" {
		config.Clients.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("CATALOG_CSV_URL"); v != "" {
		config.Clients.CSV.URL = v
	}
	if v := os.Getenv("CATALOG_XLSX_PATH"); v != "" {
		config.Clients.XLSX.Path = v
	}

	if v := os.Getenv("GOOGLE_SERVICE_EMAIL"); v != "" {
		config.Google.ServiceEmail = v
	}
	if v := os.Getenv("GOOGLE_PRIVATE_KEY"); v != "" {
		config.Google.PrivateKey = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		config.Google.CredentialsFile = v
	}

	// Keys pasted into env files usually carry literal \n sequences
	config.Google.PrivateKey = strings.ReplaceAll(config.Google.PrivateKey, `\n`, "\n")
}

// Validate returns an error for configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceSheets:
		if c.Clients.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id not configured (set GOOGLE_SHEET_ID)")
		}
	case SourceCSV:
		if c.Clients.CSV.URL == "" {
			return fmt.Errorf("csv export url not configured (set CATALOG_CSV_URL)")
		}
	case SourceXLSX:
		if c.Clients.XLSX.Path == "" {
			return fmt.Errorf("workbook path not configured (set CATALOG_XLSX_PATH)")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
