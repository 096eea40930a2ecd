package constants

import "time"

const (
	DatabaseTimeout  = 5 * time.Second
	RequestTimeout   = 30 * time.Second
	SeedFetchTimeout = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// Draft sessions older than this are dropped when a new one starts.
	DraftSessionTTL = 12 * time.Hour
)
