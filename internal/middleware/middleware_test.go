package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"kinfash-api/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { c.String(http.StatusBadGateway, "boom") })
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterInMemory(t *testing.T) {
	r := newEngine(KinfashRateLimiter(nil, 2))

	assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ok").Code)

	w := get(r, "/ok")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimiterDisabled(t *testing.T) {
	r := newEngine(KinfashRateLimiter(nil, 0))

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, get(r, "/ok").Code)
	}
}

func TestCorsWithoutOrigin(t *testing.T) {
	w := get(newEngine(CorsMiddleware()), "/ok")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	prev := util.Logger
	util.InitLogger("debug", "json", &buf)
	t.Cleanup(func() { util.Logger = prev })

	r := newEngine(RequestLogger())
	get(r, "/ok")
	get(r, "/boom")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"level":"info"`)
	assert.Contains(t, string(lines[0]), `"path":"/ok"`)
	assert.Contains(t, string(lines[1]), `"level":"error"`)
	assert.Contains(t, string(lines[1]), `"status":502`)
}
