package config

import (
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the list response cache.  When Enabled is
// false or no Redis client is configured, caching is disabled.  Methods lists
// the HTTP methods whose responses are cached; any other method that succeeds
// invalidates the cached entries of the resource it touched when
// InvalidateOnWrite is set.
type CacheConfig struct {
	Enabled           bool
	Methods           map[string]bool
	TTL               time.Duration
	KeyStrategy       string
	Prefix            string
	MaxBodyBytes      int
	InvalidateOnWrite bool
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:           envBool("CACHE_ENABLED", true),
		Methods:           parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:               parseDur(getenv("CACHE_TTL", "30s")),
		KeyStrategy:       getenv("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:            getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes:      atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
		InvalidateOnWrite: envBool("CACHE_INVALIDATE_ON_WRITE", true),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
