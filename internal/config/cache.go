package config

import (
	"os"
	"time"
)

// AvailabilityCacheConfig defines settings for the Redis-backed
// availability-search cache.  When Enabled is false or no Redis client is
// configured, searches always hit the database.  TTL bounds how stale a
// cached result may get even without an invalidating write; Prefix
// namespaces the keys.
type AvailabilityCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadAvailabilityCacheConfig reads environment variables to build an
// AvailabilityCacheConfig.  Defaults are used when variables are not set.
func LoadAvailabilityCacheConfig() AvailabilityCacheConfig {
	return AvailabilityCacheConfig{
		Enabled: getenv("AVAILABILITY_CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("AVAILABILITY_CACHE_TTL", "30s")),
		Prefix:  getenv("AVAILABILITY_CACHE_PREFIX", "avail"),
	}
}

// Helper functions shared with ratelimit.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
