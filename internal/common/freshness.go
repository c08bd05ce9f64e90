// Package common provides shared utilities for the catalog server
package common

import "time"

// FreshnessCatalog is the default lifetime of a cached sheet.
const FreshnessCatalog = 5 * time.Minute

// IsFreshAt reports whether updated is still within ttl at now.
// A zero timestamp is never fresh.
func IsFreshAt(updated time.Time, ttl time.Duration, now time.Time) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
