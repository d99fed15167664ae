package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-ticket-finder/internal/config"
)

// cachedResponse is what the cache stores for one successful response.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// captureWriter forwards writes to the client and keeps up to limit bytes
// of the body for the cache.  A limit of zero keeps everything.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    switch {
    case cw.limit <= 0:
        cw.buf.Write(b)
    case cw.buf.Len()+len(b) <= cw.limit:
        cw.buf.Write(b)
    default:
        cw.truncated = true
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the parts of the request selected by cfg.KeyStrategy and
// prefixes the digest with cfg.Prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    default: // route_query
        parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
    }
    // path params are part of the cache identity, not the route pattern
    for _, name := range c.ParamNames() {
        parts = append(parts, "p", name, c.Param(name))
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// NewRedisCache caches successful responses for the configured methods in
// Redis.  Hits are replayed with their original headers and X-Cache: HIT.
// Without a Redis client or with caching disabled it passes requests
// through untouched.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 15 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKey(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(bs, &hit) == nil {
                    return replay(c, hit)
                }
            } else if err != redis.Nil {
                c.Logger().Warnf("[cache] redis get %s: %v", key, err)
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated {
                return nil
            }
            entry := cachedResponse{Status: cw.status, Header: c.Response().Header().Clone(), Body: cw.buf.Bytes()}
            entry.Header.Del("X-Cache")
            if payload, err := json.Marshal(entry); err == nil {
                // the request context may already be done once the body is written
                if err := rdb.Set(context.Background(), key, payload, ttl).Err(); err != nil {
                    c.Logger().Warnf("[cache] redis set %s: %v", key, err)
                }
            }
            return nil
        }
    }
}

func replay(c echo.Context, hit cachedResponse) error {
    h := c.Response().Header()
    for k, vals := range hit.Header {
        if strings.EqualFold(k, echo.HeaderContentLength) {
            continue
        }
        for _, v := range vals {
            h.Add(k, v)
        }
    }
    h.Set("X-Cache", "HIT")
    c.Response().WriteHeader(hit.Status)
    _, err := c.Response().Write(hit.Body)
    return err
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
