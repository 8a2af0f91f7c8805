package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kinfash-api/api/internal/container"
	"kinfash-api/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &util.Config{
		StoreDriver:        util.StoreDriverMemory,
		ProductListLimit:   24,
		DropListLimit:      10,
		MaxListLimit:       100,
		RateLimitPerSecond: 0,
	}
	sc := container.NewServiceContainer(context.Background(), cfg)
	t.Cleanup(func() { sc.Close(context.Background()) })
	return InitRoute(sc)
}

func serve(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRegistered(t *testing.T) {
	r := newTestEngine(t)

	got := map[string]bool{}
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /ping",
		"GET /metrics",
		"GET /api/products",
		"POST /api/products",
		"GET /api/drops",
		"POST /api/drops",
		"POST /api/measurements",
		"POST /api/quiz",
		"POST /api/orders",
		"POST /api/profile",
	} {
		assert.True(t, got[want], want)
	}
}

func TestCreateEndpoints(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		path string
		body string
	}{
		{"/api/products", `{"title":"Tee","price":20,"category":"unisex"}`},
		{"/api/drops", `{"title":"Week 40"}`},
		{"/api/measurements", `{"email":"ada@example.com","height_cm":170}`},
		{"/api/quiz", `{"style_vibe":"retro","color_pref":"earthy","budget":"$"}`},
		{"/api/orders", `{"email":"ada@example.com","items":[{"product_id":"p1","qty":1}],"subtotal":20,"total":25}`},
		{"/api/profile", `{"email":"ada@example.com","favorite_categories":["women"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"id"`)
		})
	}
}

func TestCorsPreflight(t *testing.T) {
	r := newTestEngine(t)

	w := serve(r, http.MethodOptions, "/api/products", "", map[string]string{
		"Origin":                         "https://shop.example",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Content-Type, X-Trace",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Content-Type, X-Trace", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCorsOnSimpleRequest(t *testing.T) {
	r := newTestEngine(t)

	w := serve(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"brand":"Kinfash","status":"ok"}`, w.Body.String())
}

func TestMetricsExposeDocumentCounters(t *testing.T) {
	r := newTestEngine(t)

	require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/drops", `{"title":"Week 41"}`, nil).Code)

	w := serve(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `kinfash_documents_created_total{collection="drop"} 1`)
}

func TestPing(t *testing.T) {
	w := serve(newTestEngine(t), http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
