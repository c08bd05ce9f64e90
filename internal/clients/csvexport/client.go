// Package csvexport reads catalog sheets from a spreadsheet's published CSV export
package csvexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the SheetReader interface over an export URL
type Client struct {
	exportURL  string
	sheets     []string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithSheets sets the sheet names reported by ListSheets
func WithSheets(names ...string) ClientOption {
	return func(c *Client) {
		c.sheets = append([]string(nil), names...)
	}
}

// NewClient creates a new CSV export client. exportURL is the published
// export link; the sheet name is added as the "sheet" query parameter.
func NewClient(exportURL string, opts ...ClientOption) *Client {
	c := &Client{
		exportURL: exportURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-2xx export response
type APIError struct {
	StatusCode int
	Message    string
	Sheet      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CSV export error: %s (status: %d, sheet: %s)", e.Message, e.StatusCode, e.Sheet)
}

// ListSheets returns the configured sheet names. A CSV export cannot
// enumerate its workbook.
func (c *Client) ListSheets(_ context.Context) ([]string, error) {
	return append([]string(nil), c.sheets...), nil
}

// FetchSheet downloads one sheet and splits it at the header row.
func (c *Client) FetchSheet(ctx context.Context, name string) (*models.SheetData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL, err := c.sheetURL(name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("sheet", name).Msg("CSV export request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body)), Sheet: name}
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, apiErr)
	}

	rows, err := readRows(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse sheet %q: %v", models.ErrUpstreamUnavailable, name, err)
	}

	return models.SplitAtHeader(name, rows, models.HeaderMarker)
}

func (c *Client) sheetURL(name string) (string, error) {
	u, err := url.Parse(c.exportURL)
	if err != nil {
		return "", fmt.Errorf("invalid export url: %w", err)
	}
	q := u.Query()
	q.Set("sheet", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readRows parses CSV with ragged rows. Empty lines are skipped by the parser.
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// Ensure Client implements SheetReader
var _ interfaces.SheetReader = (*Client)(nil)
