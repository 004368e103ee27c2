package domain

import "time"

// Quote is a live rate returned by an external source.
type Quote struct {
	From     string
	To       string
	Rate     float64
	QuotedAt time.Time
}
