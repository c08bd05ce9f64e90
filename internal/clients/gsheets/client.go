// Package gsheets reads catalog sheets through the Google Sheets API v4
package gsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

const (
	DefaultColumns   = "A:Z"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
	tokenURI         = "https://oauth2.googleapis.com/token"
)

// Client implements the SheetReader interface against one spreadsheet
type Client struct {
	spreadsheetID string
	columns       string
	timeout       time.Duration
	apiOptions    []option.ClientOption
	service       *sheets.Service
	logger        *common.Logger
	limiter       *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout bounds each API call
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithColumns sets the A1 column span read from every sheet
func WithColumns(columns string) ClientOption {
	return func(c *Client) {
		if columns != "" {
			c.columns = columns
		}
	}
}

// WithServiceAccount authenticates with a service account email and PEM key
func WithServiceAccount(email, privateKey string) ClientOption {
	return func(c *Client) {
		creds, _ := json.Marshal(serviceAccount{
			Type:        "service_account",
			ClientEmail: email,
			PrivateKey:  privateKey,
			TokenURI:    tokenURI,
		})
		c.apiOptions = append(c.apiOptions, option.WithCredentialsJSON(creds))
	}
}

// WithCredentialsFile authenticates with a service account key file
func WithCredentialsFile(path string) ClientOption {
	return func(c *Client) {
		c.apiOptions = append(c.apiOptions, option.WithCredentialsFile(path))
	}
}

// WithEndpoint points the client at a different API root without
// authentication. Used against local fakes.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.apiOptions = append(c.apiOptions, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
}

type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// NewClient creates a new Sheets client for spreadsheetID
func NewClient(ctx context.Context, spreadsheetID string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		spreadsheetID: spreadsheetID,
		columns:       DefaultColumns,
		timeout:       DefaultTimeout,
		limiter:       rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:        common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	apiOpts := append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}, c.apiOptions...)
	service, err := sheets.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	c.service = service

	return c, nil
}

// ListSheets returns the sheet titles of the spreadsheet
func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().Str("spreadsheet", c.spreadsheetID).Msg("Sheets API metadata request")

	resp, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list sheets: %v", models.ErrUpstreamUnavailable, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties == nil || s.Properties.Title == "" {
			continue
		}
		names = append(names, s.Properties.Title)
	}
	return names, nil
}

// FetchSheet reads one sheet. The first row is the header.
func (c *Client) FetchSheet(ctx context.Context, name string) (*models.SheetData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rng := sheetRange(name, c.columns)
	c.logger.Debug().Str("spreadsheet", c.spreadsheetID).Str("range", rng).Msg("Sheets API values request")

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrUpstreamUnavailable, rng, err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no rows", models.ErrEmptyCatalog, name)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cellString(cell)
		}
	}

	return &models.SheetData{Name: name, Header: rows[0], Rows: rows[1:]}, nil
}

// sheetRange quotes a sheet title for A1 notation.
func sheetRange(name, columns string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'!" + columns
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Ensure Client implements SheetReader
var _ interfaces.SheetReader = (*Client)(nil)
