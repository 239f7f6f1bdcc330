package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 {
			cw.buf.Write(b)
		} else if remain > 0 {
			if int64(len(b)) <= remain {
				cw.buf.Write(b)
			} else {
				cw.buf.Write(b[:remain])
			}
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

// resourceOf maps a route pattern to the resource it belongs to, e.g.
// "/api/notes/:id" -> "notes".  Keys are grouped per resource so a write can
// drop exactly the listings it affects.
func resourceOf(route string) string {
	segs := strings.Split(strings.Trim(route, "/"), "/")
	if len(segs) >= 2 && segs[0] == "api" {
		return segs[1]
	}
	if len(segs) > 0 && segs[0] != "" {
		return segs[0]
	}
	return "root"
}

func resourcePattern(cfg config.CacheConfig, resource string) string {
	return fmt.Sprintf("%s:%s:*", cfg.Prefix, resource)
}

// Build a stable cache key honoring prefix/strategy:
// <prefix>:<resource>:<sha1 of the strategy parts>.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	method := r.Method
	route := c.Path()
	query := r.URL.RawQuery

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", route)
	case "method_route":
		parts = append(parts, "method", method, "route", route)
	case "method_route_query":
		parts = append(parts, "method", method, "route", route, "q", query)
	default: // "route_query"
		parts = append(parts, "route", route, "q", query)
	}

	tail := strings.Join(parts[1:], ":")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%s:%x", parts[0], resourceOf(route), sum[:])
}

// invalidate deletes every cached entry of resource.
func invalidate(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, resource string) error {
	iter := rdb.Scan(ctx, 0, resourcePattern(cfg, resource), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// storableHeader copies the response headers worth replaying on a hit.
// Headers set per request by the outer middlewares (request id, CORS, rate
// limit counters) are left out; they are already present on every response.
func storableHeader(src http.Header) http.Header {
	hdr := make(http.Header, len(src))
	for k, vals := range src {
		switch {
		case strings.HasPrefix(k, "Access-Control-"),
			strings.HasPrefix(k, "X-Ratelimit-"),
			k == echo.HeaderXRequestID, k == echo.HeaderVary, k == "X-Cache",
			k == "Retry-After":
			continue
		}
		hdr[k] = append([]string(nil), vals...)
	}
	return hdr
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	total := 4 + 4 + len(hdrJSON) + len(body)
	out := make([]byte, total)
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if 8+hlen > len(bs) || hlen < 0 {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	body = bs[8+hlen:]
	return status, hdr, body, true
}

// NewRedisCache caches list responses in Redis, storing headers and body so
// a hit is byte-identical to the original response.  Successful requests with
// a non-cached method (POST, PUT, DELETE) invalidate their resource's entries.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				err := next(c)
				if err == nil && cfg.InvalidateOnWrite {
					if st := c.Response().Status; st >= 200 && st < 300 {
						if ierr := invalidate(c.Request().Context(), rdb, cfg, resourceOf(c.Path())); ierr != nil {
							log.Warn().Err(ierr).Str("route", c.Path()).Msg("cache invalidation failed")
						}
					}
				}
				return err
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					// Set, not Add: CORS and request id are already on the response.
					for k, vals := range storableHeader(hdr) {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						c.Response().Header()[http.CanonicalHeaderKey(k)] = append([]string(nil), vals...)
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Oversized bodies are not cached; a truncated hit would be corrupt JSON.
			if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
				hdr := storableHeader(c.Response().Header())
				body := cw.buf.Bytes()
				if payload, err := encodePayload(cw.status, hdr, body); err == nil {
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}
