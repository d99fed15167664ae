package router

import (
    "encoding/json"
    "math/rand/v2"
    "net/http"
    "net/http/httptest"
    "strconv"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-ticket-finder/internal/handler"
    "github.com/iliyamo/event-ticket-finder/internal/model"
    "github.com/iliyamo/event-ticket-finder/internal/repository"
    "github.com/iliyamo/event-ticket-finder/internal/utils"
)

const testSecret = "router-secret"

func newTestServer(t *testing.T) (*echo.Echo, *repository.EventRepo) {
    t.Helper()
    repo := repository.NewEventRepo(10, model.NewEventFactory(nil, rand.NewPCG(5, 6)))
    e := echo.New()
    RegisterRoutes(e)
    RegisterPublic(e, handler.NewEventHandler(repo))
    RegisterAdmin(e, handler.NewAdminHandler(repo), testSecret)
    return e, repo
}

func serve(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    if token != "" {
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func adminToken(t *testing.T) string {
    t.Helper()
    tok, err := utils.NewAdminToken(testSecret, "tests", 5)
    require.NoError(t, err)
    return tok.Token
}

func TestHealth(t *testing.T) {
    e, _ := newTestServer(t)
    rec := serve(e, http.MethodGet, "/healthz", "", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

func TestPlaceThenGetAndNearest(t *testing.T) {
    e, _ := newTestServer(t)
    tok := adminToken(t)

    rec := serve(e, http.MethodPost, "/v1/admin/events", `{"x":2,"y":4}`, tok)
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    var created handler.EventItem
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
    assert.Equal(t, 1, created.ID)
    assert.True(t, strings.HasPrefix(created.Summary, "Event 1 at (2, 4) - "), created.Summary)

    rec = serve(e, http.MethodPost, "/v1/admin/events", `{"x":2,"y":4}`, tok)
    assert.Equal(t, http.StatusConflict, rec.Code)
    rec = serve(e, http.MethodPost, "/v1/admin/events", `{"x":20,"y":4}`, tok)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    rec = serve(e, http.MethodPost, "/v1/admin/events", `{"x":2}`, tok)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = serve(e, http.MethodGet, "/v1/events/1", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    var got handler.EventItem
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
    assert.Equal(t, created.Summary, got.Summary)
    assert.Nil(t, got.Distance)

    rec = serve(e, http.MethodGet, "/v1/events/2", "", "")
    assert.Equal(t, http.StatusNotFound, rec.Code)
    rec = serve(e, http.MethodGet, "/v1/events/abc", "", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = serve(e, http.MethodGet, "/v1/events/nearest?x=0&y=0", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    var list struct {
        Items []handler.EventItem `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
    require.Len(t, list.Items, 1)
    require.NotNil(t, list.Items[0].Distance)
    assert.Equal(t, 6, *list.Items[0].Distance)
}

func TestNearestValidation(t *testing.T) {
    e, _ := newTestServer(t)
    for _, target := range []string{
        "/v1/events/nearest",
        "/v1/events/nearest?x=1",
        "/v1/events/nearest?x=a&y=1",
        "/v1/events/nearest?x=1&y=1&limit=0",
        "/v1/events/nearest?x=11&y=0",
    } {
        rec := serve(e, http.MethodGet, target, "", "")
        assert.Equal(t, http.StatusBadRequest, rec.Code, target)
    }
}

func TestReseed(t *testing.T) {
    e, repo := newTestServer(t)
    tok := adminToken(t)

    rec := serve(e, http.MethodPost, "/v1/admin/world/reseed", `{"count":30}`, tok)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.Equal(t, 30, repo.Count())

    // a second reseed restarts identifiers at 1
    rec = serve(e, http.MethodPost, "/v1/admin/world/reseed", `{"count":3}`, tok)
    require.Equal(t, http.StatusOK, rec.Code)
    for id := 1; id <= 3; id++ {
        assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/v1/events/"+strconv.Itoa(id), "", "").Code)
    }
    assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/v1/events/4", "", "").Code)

    rec = serve(e, http.MethodGet, "/v1/events/nearest?x=0&y=0&limit=50", "", "")
    require.Equal(t, http.StatusOK, rec.Code)

    rec = serve(e, http.MethodPost, "/v1/admin/world/reseed", `{"count":1000}`, tok)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    rec = serve(e, http.MethodPost, "/v1/admin/world/reseed", `{"count":-1}`, tok)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
    e, repo := newTestServer(t)
    rec := serve(e, http.MethodPost, "/v1/admin/world/reseed", `{"count":3}`, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Equal(t, 0, repo.Count())
}
