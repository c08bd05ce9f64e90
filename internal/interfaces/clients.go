// Package interfaces defines service contracts for the catalog server
package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/catalog/internal/models"
)

// SheetReader fetches raw rows for named sheets from a tabular data source
type SheetReader interface {
	// ListSheets returns the names of every sheet the source exposes
	ListSheets(ctx context.Context) ([]string, error)

	// FetchSheet returns the header row and data rows of one sheet.
	// Fails with models.ErrUpstreamUnavailable when the source errors and
	// models.ErrHeaderNotFound when no header row can be located.
	FetchSheet(ctx context.Context, name string) (*models.SheetData, error)
}

// DocumentStore looks up and streams documents held in folders
type DocumentStore interface {
	// FindDocument returns the id of the document named name inside folderID.
	// Fails with models.ErrDocumentNotFound when there is none.
	FindDocument(ctx context.Context, folderID, name string) (string, error)

	// OpenDocument streams a document's content. Caller must close the reader.
	OpenDocument(ctx context.Context, documentID string) (io.ReadCloser, error)
}
