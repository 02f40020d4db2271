package drive

import (
	"github.com/custodia-labs/drive-etl/internal/connectors/google"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
)

// Configuration keys read from the config store.
const (
	KeyPageSize          = "drive.page_size"
	KeyRequestsPerSecond = "rate.requests_per_second"
	KeyBurst             = "rate.burst"
)

// Config holds Google Drive connector configuration.
type Config struct {
	// PageSize is the number of files requested per list page.
	PageSize int64
	// RateLimit paces every API request of a run.
	RateLimit google.RateLimitConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize:  100,
		RateLimit: google.DefaultDriveRateLimit,
	}
}

// ParseConfig reads overrides from store. Missing or invalid values keep the defaults.
func ParseConfig(store driven.ConfigStore) *Config {
	cfg := DefaultConfig()
	if store == nil {
		return cfg
	}

	if n := store.GetInt(KeyPageSize); n > 0 && n <= 1000 {
		cfg.PageSize = int64(n)
	}

	// Zero or a negative rate disables pacing altogether.
	if _, ok := store.Get(KeyRequestsPerSecond); ok {
		cfg.RateLimit.RequestsPerSecond = store.GetFloat(KeyRequestsPerSecond)
	}

	if n := store.GetInt(KeyBurst); n > 0 {
		cfg.RateLimit.BurstSize = n
	}

	return cfg
}
