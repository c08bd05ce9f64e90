// Package gdrive finds and streams product detail documents held in Google Drive
package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

const (
	DefaultTimeout = 30 * time.Second
	tokenURI       = "https://oauth2.googleapis.com/token"
)

// Client implements the DocumentStore interface
type Client struct {
	timeout    time.Duration
	apiOptions []option.ClientOption
	service    *drive.Service
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds the lookup call
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithServiceAccount authenticates with a service account email and PEM key
func WithServiceAccount(email, privateKey string) ClientOption {
	return func(c *Client) {
		creds, _ := json.Marshal(map[string]string{
			"type":         "service_account",
			"client_email": email,
			"private_key":  privateKey,
			"token_uri":    tokenURI,
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

// NewClient creates a new Drive client with read-only scope
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	apiOpts := append([]option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}, c.apiOptions...)
	service, err := drive.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	c.service = service

	return c, nil
}

// FindDocument returns the id of the first file called name in folderID
func (c *Client) FindDocument(ctx context.Context, folderID, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", escapeQuery(folderID), escapeQuery(name))
	c.logger.Debug().Str("folder", folderID).Str("name", name).Msg("Drive file lookup")

	resp, err := c.service.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: drive lookup: %v", models.ErrUpstreamUnavailable, err)
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("%w: %s", models.ErrDocumentNotFound, name)
	}
	return resp.Files[0].Id, nil
}

// OpenDocument streams the content of documentID. The download is bound to
// ctx, so ctx must outlive the read.
func (c *Client) OpenDocument(ctx context.Context, documentID string) (io.ReadCloser, error) {
	resp, err := c.service.Files.Get(documentID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("%w: drive download: %v", models.ErrUpstreamUnavailable, err)
	}
	return resp.Body, nil
}

// escapeQuery escapes a literal for the Drive query language
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// Ensure Client implements DocumentStore
var _ interfaces.DocumentStore = (*Client)(nil)
