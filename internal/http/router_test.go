package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/http/controller"
	"repohub/internal/http/middleware"
	"repohub/internal/idgen"
	"repohub/internal/metrics"
	"repohub/internal/service/repos"
	"repohub/internal/sse"
	"repohub/internal/store/memory"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []byte, string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{GinMode: gin.TestMode, OTELServiceName: "repohub-test"}
	hub := sse.NewHub()
	m := metrics.New()
	svc := repos.NewService(cfg, memory.New(zap.NewNop()), idgen.NewV4(), hub, noopPublisher{}, m, zap.NewNop())
	return NewRouter(cfg, controller.NewHandler(cfg, svc, hub, zap.NewNop()), m, zap.NewNop())
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouterHealth(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","subscribers":0}`, rec.Body.String())
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/repositories").Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/repositories").Code)
	require.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/repositories/nope").Code)
	require.Equal(t, http.StatusBadRequest, serve(router, http.MethodPut, "/repositories/nope").Code)
	require.Equal(t, http.StatusBadRequest, serve(router, http.MethodDelete, "/repositories/nope").Code)
	require.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/repositories/nope/like").Code)
}

func TestRouterEmptyIDIsClientError(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/repositories/"},
		{http.MethodDelete, "/repositories/"},
		{http.MethodPost, "/repositories//like"},
	} {
		rec := serve(router, tc.method, tc.path)
		require.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", tc.method, tc.path)
		require.JSONEq(t,
			`{"success":false,"code":"missing_id","message":"repository id required"}`,
			rec.Body.String(),
			"%s %s", tc.method, tc.path,
		)
	}
}

func TestRouterUnmatchedRequestsAnswerJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/unknown")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"success":false,"code":"route_not_found","message":"route not found"}`, rec.Body.String())

	rec = serve(router, http.MethodPatch, "/repositories/0b7c8f52-0d5e-4f0e-9d7a-7e4a1f1c9b10")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.JSONEq(t, `{"success":false,"code":"method_not_allowed","message":"method not allowed"}`, rec.Body.String())
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	serve(router, http.MethodGet, "/repositories")
	serve(router, http.MethodGet, "/repositories/nope")

	rec := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `repohub_http_requests_total{method="GET",route="/repositories",status="200"} 1`)
	require.Contains(t, body, `repohub_http_requests_total{method="GET",route="/repositories/:id",status="400"} 1`)
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/repositories", nil)
	req.Header.Set("Origin", "http://frontend.local")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ZapLogger(zap.NewNop()), middleware.ZapRecovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	rec := serve(router, http.MethodGet, "/panic")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"success":false,"code":"internal_error","message":"internal error"}`, rec.Body.String())
}
