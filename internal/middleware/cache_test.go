package middleware

import (
    "context"
    "net"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-ticket-finder/internal/config"
)

// memRedis answers GET, SET and EVALSHA in memory through a client hook, so
// no Redis server is needed.
type memRedis struct {
    mu      sync.Mutex
    data    map[string][]byte
    sets    int
    evalRes []interface{}
}

func newMemRedis(t *testing.T) (*redis.Client, *memRedis) {
    t.Helper()
    m := &memRedis{data: map[string][]byte{}}
    rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
    rdb.AddHook(m)
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb, m
}

func (m *memRedis) DialHook(next redis.DialHook) redis.DialHook {
    return func(ctx context.Context, network, addr string) (net.Conn, error) {
        return next(ctx, network, addr)
    }
}

func (m *memRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
    return next
}

func (m *memRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
    return func(ctx context.Context, cmd redis.Cmder) error {
        m.mu.Lock()
        defer m.mu.Unlock()
        args := cmd.Args()
        switch strings.ToLower(cmd.Name()) {
        case "get":
            sc := cmd.(*redis.StringCmd)
            v, ok := m.data[args[1].(string)]
            if !ok {
                sc.SetErr(redis.Nil)
                return redis.Nil
            }
            sc.SetVal(string(v))
        case "set":
            var v []byte
            switch t := args[2].(type) {
            case []byte:
                v = append([]byte(nil), t...)
            case string:
                v = []byte(t)
            }
            m.data[args[1].(string)] = v
            m.sets++
            cmd.(*redis.StatusCmd).SetVal("OK")
        case "evalsha", "eval":
            cmd.(*redis.Cmd).SetVal(m.evalRes)
        default:
            return next(ctx, cmd)
        }
        return nil
    }
}

func (m *memRedis) setCount() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.sets
}

func cacheConfig() config.CacheConfig {
    return config.CacheConfig{
        Enabled:     true,
        Methods:     map[string]bool{http.MethodGet: true},
        TTL:         time.Minute,
        KeyStrategy: "route_query",
        Prefix:      "test-cache",
    }
}

func TestRedisCache_MissThenHitReplaysResponse(t *testing.T) {
    rdb, mem := newMemRedis(t)
    calls := 0
    e := echo.New()
    e.Use(NewRedisCache(cacheConfig(), rdb))
    e.GET("/v1/events/:id", func(c echo.Context) error {
        calls++
        c.Response().Header().Set("X-Event", c.Param("id"))
        return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
    })

    get := func(target string) *httptest.ResponseRecorder {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
        return rec
    }

    first := get("/v1/events/7")
    require.Equal(t, http.StatusOK, first.Code)
    assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
    assert.Equal(t, 1, mem.setCount())

    second := get("/v1/events/7")
    assert.Equal(t, http.StatusOK, second.Code)
    assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
    assert.Equal(t, "7", second.Header().Get("X-Event"))
    assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
    assert.Equal(t, first.Body.String(), second.Body.String())
    assert.Equal(t, 1, calls)

    // a different path param is a different entry
    other := get("/v1/events/8")
    assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
    assert.Equal(t, 2, calls)
}

func TestRedisCache_SkipsErrorsAndUncachedMethods(t *testing.T) {
    rdb, mem := newMemRedis(t)
    e := echo.New()
    e.Use(NewRedisCache(cacheConfig(), rdb))
    e.GET("/missing", func(c echo.Context) error {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
    })
    e.POST("/write", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

    for i := 0; i < 2; i++ {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
        assert.Equal(t, http.StatusNotFound, rec.Code)
        assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write", nil))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
    assert.Equal(t, 0, mem.setCount())
}

func TestRedisCache_DoesNotStoreTruncatedBodies(t *testing.T) {
    rdb, mem := newMemRedis(t)
    cfg := cacheConfig()
    cfg.MaxBodyBytes = 8
    e := echo.New()
    e.Use(NewRedisCache(cfg, rdb))
    e.GET("/big", func(c echo.Context) error {
        return c.String(http.StatusOK, strings.Repeat("x", 64))
    })

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/big", nil))
    assert.Equal(t, 64, rec.Body.Len())
    assert.Equal(t, 0, mem.setCount())
}

func TestTokenBucket_BlocksWhenEmpty(t *testing.T) {
    rdb, mem := newMemRedis(t)
    e := echo.New()
    e.Use(NewTokenBucket(config.RateLimitConfig{
        Enabled: true, Capacity: 3, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl",
    }, rdb))
    e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") })

    mem.evalRes = []interface{}{int64(1), int64(2), int64(0)}
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
    assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))

    mem.evalRes = []interface{}{int64(0), int64(0), int64(1500)}
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}
