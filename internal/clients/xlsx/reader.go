// Package xlsx reads catalog sheets from a local Excel workbook
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/catalog/internal/common"
	"github.com/bobmcallan/catalog/internal/interfaces"
	"github.com/bobmcallan/catalog/internal/models"
)

// Reader implements the SheetReader interface over a workbook file.
// The file is reopened on every call so edits are picked up once the
// cache expires.
type Reader struct {
	path   string
	logger *common.Logger
}

// NewReader creates a reader for the workbook at path
func NewReader(path string, logger *common.Logger) *Reader {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Reader{path: path, logger: logger}
}

func (r *Reader) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", models.ErrUpstreamUnavailable, r.path, err)
	}
	return f, nil
}

// ListSheets returns the workbook's sheet names in tab order
func (r *Reader) ListSheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// FetchSheet reads one worksheet and splits it at the header row.
// A sheet missing from the workbook has no header.
func (r *Reader) FetchSheet(ctx context.Context, name string) (*models.SheetData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, fmt.Errorf("%w: workbook has no sheet %q", models.ErrHeaderNotFound, name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", models.ErrUpstreamUnavailable, name, err)
	}

	r.logger.Debug().Str("sheet", name).Int("rows", len(rows)).Msg("Workbook sheet read")
	return models.SplitAtHeader(name, rows, models.HeaderMarker)
}

// Ensure Reader implements SheetReader
var _ interfaces.SheetReader = (*Reader)(nil)
