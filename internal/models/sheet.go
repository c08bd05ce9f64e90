package models

import (
	"errors"
	"fmt"
	"strings"
)

// SheetData is the raw output of a sheet reader: the header row and the data
// rows below it, all cells as strings.
type SheetData struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Catalog errors. Callers match them with errors.Is; producers wrap them with
// fmt.Errorf("%w: ...") to carry detail.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrHeaderNotFound      = errors.New("header row not found")
	ErrEmptyCatalog        = errors.New("catalog is empty")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrDocumentNotFound    = errors.New("detail document not found")
	ErrMissingParameter    = errors.New("missing parameter")
)

// ErrProductNotFound is returned when no record matches a product id.
var ErrProductNotFound = errors.New("product not found")

// SplitAtHeader builds SheetData from raw rows, using the first row that
// contains marker as the header. Rows above the header are discarded and
// blank rows are skipped. Fails with ErrHeaderNotFound when no row matches.
func SplitAtHeader(name string, rows [][]string, marker string) (*SheetData, error) {
	i, ok := LocateHeader(rows, marker)
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q has no row containing %q", ErrHeaderNotFound, name, marker)
	}
	data := &SheetData{Name: name, Header: rows[i], Rows: make([][]string, 0, len(rows)-i-1)}
	for _, r := range rows[i+1:] {
		if isBlankRow(r) {
			continue
		}
		data.Rows = append(data.Rows, r)
	}
	return data, nil
}

// LocateHeader returns the index of the first row with a cell equal to marker.
func LocateHeader(rows [][]string, marker string) (int, bool) {
	for i, row := range rows {
		if containsCell(row, marker) {
			return i, true
		}
	}
	return -1, false
}

func containsCell(row []string, marker string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == marker {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
