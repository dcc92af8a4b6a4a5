package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicRoute struct{}

func (panicRoute) Register(e *echo.Echo) {
	e.GET("/boom", func(echo.Context) error { panic("boom") })
	e.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "agrisakhi_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()
	return New(Config{Addr: ":0", BodyLimit: "1K", HealthzBody: "agrisakhi ok", TooLargeMessage: "file too big"}, reg, panicRoute{})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agrisakhi ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agrisakhi_test_total 1")
}

func TestNoRegistryNoMetrics(t *testing.T) {
	s := New(Config{}, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRecoverFromPanic(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 2048)))
	rec := serve(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"file too big"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small"))
	assert.Equal(t, http.StatusNoContent, serve(s, req).Code)
}

func TestRouterErrorsUseErrorBody(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/echo", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+http.StatusText(tt.code)+`"}`, rec.Body.String())
		})
	}
}
