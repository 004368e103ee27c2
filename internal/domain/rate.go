package domain

import "time"

// RateCacheEntry is one cached rate for a pair key.
// Rate is units of the target currency per one unit of the source currency.
type RateCacheEntry struct {
	Key       string
	Rate      float64
	CreatedAt time.Time
}

// Live reports whether the entry is younger than ttl at now.
func (e RateCacheEntry) Live(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}
