package catalog

import (
	"strings"

	"github.com/bobmcallan/catalog/internal/models"
)

// Query filters records. A non-empty ID returns the whole option set of the
// product it names (see OptionSet) and ignores the category filters.
// Otherwise Middle and Sub are independent, ANDed, trimmed exact matches
// against the middle and sub category columns; empty filters pass everything.
// The result is never nil.
func Query(records []models.Record, filter models.Filter) []models.Record {
	if id := strings.TrimSpace(filter.ID); id != "" {
		return OptionSet(records, id)
	}

	middle := strings.TrimSpace(filter.Middle)
	sub := strings.TrimSpace(filter.Sub)

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if middle != "" && r.MiddleCategory() != middle {
			continue
		}
		if sub != "" && r.SubCategory() != sub {
			continue
		}
		out = append(out, r)
	}
	return out
}

// OptionSet returns every priced variant of the product identified by id.
// id may be a same-model key or any member's model code; both resolve to the
// same base key, so the result is identical either way.
func OptionSet(records []models.Record, id string) []models.Record {
	baseKey, ok := BaseKey(records, id)
	if !ok {
		return []models.Record{}
	}

	out := make([]models.Record, 0)
	for _, r := range records {
		if r.SameModel() == baseKey || r.ModelCode() == baseKey {
			out = append(out, r)
		}
	}
	return out
}

// BaseKey finds the first record whose same-model key or model code equals
// id and returns that record's group key.
func BaseKey(records []models.Record, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	for _, r := range records {
		if r.SameModel() == id || r.ModelCode() == id {
			return r.GroupKey(), true
		}
	}
	return "", false
}
