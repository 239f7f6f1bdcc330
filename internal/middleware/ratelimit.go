package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/config"
)

// takeToken removes one token from the bucket at KEYS[1], first adding
// ARGV[3] tokens for every whole ARGV[4] ms elapsed since the last refill.
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s.
// Reply: {allowed (0|1), tokens left, ms until the next refill when denied}.
var takeToken = redis.NewScript(`
local now, cap, step, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local st = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_at')
local tokens, at = tonumber(st[1]), tonumber(st[2])
if tokens == nil or at == nil then
  tokens, at = cap, now
end
local n = math.floor(math.max(0, now - at) / every)
if n > 0 then
  tokens = math.min(cap, tokens + n * step)
  at = at + n * every
end
local ok, wait = 0, 0
if tokens > 0 then
  ok, tokens = 1, tokens - 1
else
  wait = math.max(0, every - (now - at))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'refilled_at', at)
redis.call('EXPIRE', KEYS[1], ttl)
return {ok, tokens, wait}
`)

// bucketState is the outcome of one takeToken call.
type bucketState struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

type tokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

func (b tokenBucket) take(ctx context.Context, key string, now time.Time) (bucketState, error) {
	vals, err := takeToken.Run(ctx, b.rdb, []string{key},
		now.UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return bucketState{}, err
	}
	if len(vals) != 3 {
		return bucketState{}, fmt.Errorf("token bucket reply has %d values", len(vals))
	}
	return bucketState{
		allowed:   vals[0] == 1,
		remaining: vals[1],
		retry:     time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits the record routes with a token bucket kept in Redis,
// so every instance draws from the same budget.  Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := tokenBucket{cfg: cfg, rdb: rdb}
	limit := strconv.Itoa(cfg.Capacity)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			st, err := b.take(c.Request().Context(), key, time.Now())
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limit check skipped")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(st.remaining, 10))
			if st.allowed {
				return next(c)
			}

			secs := int(math.Ceil(st.retry.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			log.Debug().Str("key", key).Dur("retry", st.retry).Msg("rate limited")
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "Too many requests",
				"retry_after": secs,
			})
		}
	}
}

// rateKey builds <prefix>[:ip:<addr>][:user:<id>][:route:<resource>] from the
// parts named in cfg.KeyStrategy.  Routes are grouped by resource, so listing
// and creating notes share one bucket.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	for _, p := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
		switch p {
		case "ip":
			parts = append(parts, "ip", clientIP(c))
		case "user":
			parts = append(parts, "user", ownerOf(c))
		case "route":
			parts = append(parts, "route", resourceOf(c.Path()))
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "ip", clientIP(c))
	}
	return strings.Join(parts, ":")
}

func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// ownerOf is the caller-supplied ?user_id=.  It is not authenticated, so it
// only spreads load across buckets.
func ownerOf(c echo.Context) string {
	if s := c.QueryParam("user_id"); s != "" {
		return s
	}
	return "anon"
}
