package config

import "time"

const (
	DefaultHistoryLimit   = 20
	DefaultRateKeyPrefix  = "rates:"
	DefaultPGMaxConns     = 5
	DefaultPGMinConns     = 1
	DefaultPGIdleTime     = 2 * time.Minute
	DefaultMigrateRetries = 10
)
