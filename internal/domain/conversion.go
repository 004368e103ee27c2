package domain

import "time"

// ConversionRecord is an immutable ledger entry. Rate is a snapshot of the
// rate used for this conversion.
type ConversionRecord struct {
	ID        string
	From      string
	To        string
	Amount    float64
	Rate      float64
	Converted float64
	CreatedAt time.Time
}
