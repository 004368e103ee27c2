package domain

// RateTable maps a pair key to a fixed rate.
type RateTable map[string]float64

// Lookup returns the rate for the case-normalized pair.
func (t RateTable) Lookup(from, to string) (float64, bool) {
	r, ok := t[PairKey(from, to)]
	return r, ok
}

// StaticRates is the rate of last resort for a handful of pairs.
var StaticRates = RateTable{
	"USD_EUR": 0.85,
	"EUR_USD": 1.18,
	"USD_COP": 3800.0,
	"COP_USD": 0.000263,
}
