package config

import "time"

// RateLimitConfig configures the Redis token bucket in front of the record
// routes.  A bucket holds Capacity tokens and regains RefillTokens every
// RefillInterval; idle buckets expire after TTL.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	// KeyStrategy joins any of "ip", "user" and "route" with underscores to
	// name what identifies a bucket, e.g. "user_route".
	KeyStrategy string
	Prefix      string
}

// LoadRateLimitConfig reads RATE_LIMIT_*.  RATE_LIMIT_BURST and
// RATE_LIMIT_REFILL_EVERY are shorthands for capacity and a one token refill.
func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if burst := envInt("RATE_LIMIT_BURST", 0); burst > 0 {
		c.Capacity = burst
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		c.RefillTokens, c.RefillInterval = 1, every
	}
	c.Capacity = max(c.Capacity, 1)
	c.RefillTokens = max(c.RefillTokens, 1)
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	// a bucket must outlive a few refills or it resets to full
	c.TTL = max(c.TTL, 5*c.RefillInterval)
	return c
}
