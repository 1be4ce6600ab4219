package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/domain"
	httpserver "repohub/internal/http"
	"repohub/internal/http/controller"
	"repohub/internal/http/dto"
	"repohub/internal/http/resp"
	"repohub/internal/idgen"
	"repohub/internal/metrics"
	"repohub/internal/model"
	"repohub/internal/queue"
	"repohub/internal/service/repos"
	"repohub/internal/sse"
	"repohub/internal/store/memory"
)

type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	_ = ctx
	_ = payload
	_ = routingKey
	return nil
}

type harness struct {
	server *httptest.Server
	hub    *sse.Hub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		HTTPAddr:          ":0",
		SSEHeartbeat:      5 * time.Second,
		RabbitEventPrefix: "repository.event",
		OTELServiceName:   "repohub-e2e",
	}
	logger := zap.NewNop()
	hub := sse.NewHub()
	m := metrics.New()
	svc := repos.NewService(cfg, memory.New(logger), idgen.NewV4(), hub, queue.Publisher(&noopPublisher{}), m, logger)
	handler := controller.NewHandler(cfg, svc, hub, logger)
	router := httpserver.NewRouter(cfg, handler, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &harness{server: server, hub: hub}
}

func (h *harness) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestRepositoryLifecycle(t *testing.T) {
	h := newHarness(t)

	// 1. create
	status, body := h.do(t, http.MethodPost, "/repositories", map[string]any{
		"title": "Repo A",
		"url":   "http://a",
		"techs": []string{"node"},
	})
	require.Equal(t, http.StatusOK, status)
	var created model.Repository
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, 0, created.Likes)
	path := "/repositories/" + created.ID.String()

	// 2. get
	status, body = h.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	var fetched model.Repository
	require.NoError(t, json.Unmarshal(body, &fetched))
	require.Equal(t, created, fetched)

	// 3. like three times
	for range 3 {
		status, body = h.do(t, http.MethodPost, path+"/like", nil)
		require.Equal(t, http.StatusOK, status)
	}
	require.JSONEq(t, `{"likes":3}`, string(body))

	// 4. update keeps likes
	status, body = h.do(t, http.MethodPut, path, map[string]any{
		"title": "Repo A2",
		"url":   "http://a2",
		"techs": []string{"go"},
	})
	require.Equal(t, http.StatusOK, status)
	var updated model.Repository
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, model.Repository{
		ID:    created.ID,
		Title: "Repo A2",
		URL:   "http://a2",
		Techs: []string{"go"},
		Likes: 3,
	}, updated)

	status, body = h.do(t, http.MethodGet, "/repositories", nil)
	require.Equal(t, http.StatusOK, status)
	var listed []model.Repository
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Equal(t, []model.Repository{updated}, listed)

	// 5. delete
	status, body = h.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, status)
	require.Empty(t, body)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, path},
		{http.MethodPut, path},
		{http.MethodPost, path + "/like"},
		{http.MethodDelete, path},
	} {
		status, body = h.do(t, tc.method, tc.path, nil)
		require.Equal(t, http.StatusNotFound, status, "%s %s", tc.method, tc.path)
		var errBody dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errBody))
		require.False(t, errBody.Success)
		require.Equal(t, resp.CodeNotFound, errBody.Code)
		require.Equal(t, "Repository not found", errBody.Message)
	}

	status, body = h.do(t, http.MethodGet, "/repositories", nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))
}

func TestInvalidIdentifier(t *testing.T) {
	h := newHarness(t)

	var notFound dto.ErrorResponse
	status, body := h.do(t, http.MethodGet, "/repositories/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, status)
	require.NoError(t, json.Unmarshal(body, &notFound))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/repositories/not-a-uuid"},
		{http.MethodPut, "/repositories/not-a-uuid"},
		{http.MethodDelete, "/repositories/not-a-uuid"},
		{http.MethodPost, "/repositories/not-a-uuid/like"},
	} {
		status, body := h.do(t, tc.method, tc.path, nil)
		require.Equal(t, http.StatusBadRequest, status, "%s %s", tc.method, tc.path)
		var invalid dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &invalid))
		require.False(t, invalid.Success)
		require.Equal(t, resp.CodeInvalidID, invalid.Code)
		require.NotEqual(t, notFound.Message, invalid.Message)
	}
}

func TestEventStream(t *testing.T) {
	h := newHarness(t)

	res, err := http.Get(h.server.URL + "/events")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Eventually(t, func() bool { return h.hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	status, _ := h.do(t, http.MethodPost, "/repositories", map[string]any{"title": "Repo A"})
	require.Equal(t, http.StatusOK, status)

	data, err := readSSEData(res.Body, 2*time.Second)
	require.NoError(t, err)

	var got model.RepositoryEvent
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, domain.EventRepositoryCreated, got.Type)
	require.Equal(t, "Repo A", got.Repository.Title)
}

func readSSEData(body io.Reader, timeout time.Duration) (string, error) {
	reader := bufio.NewReader(body)
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", context.DeadlineExceeded
	}
}
