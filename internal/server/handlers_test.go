package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somdev-backend/internal/analytics"
	"somdev-backend/internal/catalog"
	"somdev-backend/internal/chat"
	"somdev-backend/internal/common/config"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

func newTestServer(t *testing.T) (*echo.Echo, *store.MemoryStore) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "SomDev Solutions"

	mem := store.NewMemoryStore()
	log := logger.NewTestLogger(t)
	seeder := catalog.NewSeeder(mem, nil, log)
	reader := catalog.NewReader(mem, seeder)
	recorder := analytics.NewRecorder(mem, nil, nil, log)
	aggregator := analytics.NewAggregator(mem, reader, nil, log)
	responder := chat.NewResponder(mem, reader, cfg.Chat, log)

	handler := NewHandler(cfg, mem, seeder, reader, recorder, aggregator, responder, log)

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	handler.Register(e)
	return e, mem
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRootEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "SomDev Solutions", body["brand"])
	assert.Equal(t, "ok", body["status"])
}

func TestListServicesSeedsOnFirstCall(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var services []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 4)
	assert.Equal(t, "AI Integrations", services[0]["title"])
	assert.Equal(t, "UI/UX Design", services[3]["title"])
	assert.NotEmpty(t, services[0]["id"])
}

func TestListProjects(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Len(t, projects, 3)
	assert.Equal(t, "E-commerce Headless Storefront", projects[0]["title"])
}

func TestTrackInteraction(t *testing.T) {
	e, mem := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/track",
		`{"user_id":"u-1","service_id":"s1","type":"view","details":{"source":"hero"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])

	count, err := mem.Count(context.Background(), store.CollectionInteraction, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTrackInteractionRejectsBadType(t *testing.T) {
	e, mem := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-1","type":"click"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])

	count, err := mem.Count(context.Background(), store.CollectionInteraction, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTrackInteractionRejectsMissingUserID(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/track", `{"type":"view"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyticsEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-1","type":"view"}`)
	doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-2","type":"view"}`)
	doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-1","type":"order"}`)

	rec := doRequest(e, http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "unknown", first["service_id"])
	assert.Equal(t, "(General)", first["service_title"])
	assert.Equal(t, "view", first["type"])
	assert.Equal(t, float64(2), first["count"])
}

func TestAnalyticsRejectsUnknownTypeFilter(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/analytics?type=click", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILTER", errObj["code"])
}

func TestAnalyticsWithTypeFilter(t *testing.T) {
	e, _ := newTestServer(t)

	doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-1","type":"view"}`)
	doRequest(e, http.MethodPost, "/api/track", `{"user_id":"u-1","type":"order"}`)

	rec := doRequest(e, http.MethodGet, "/api/analytics?type=order", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "order", data[0].(map[string]interface{})["type"])
}

func TestChatEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/chat", `{"user_id":"u-1","message":"what services do you offer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, body["answer"], "core services")
}

func TestChatRejectsMissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/chat", `{"user_id":"u-1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestTestDiagnosticEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	// Seed some collections first.
	doRequest(e, http.MethodGet, "/api/services", "")

	rec := doRequest(e, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "✅ Running", body["backend"])
	assert.Equal(t, "✅ Connected & Working", body["database"])
	assert.Equal(t, "Connected", body["connection_status"])

	collections := body["collections"].([]interface{})
	assert.Contains(t, collections, "service")
	assert.Contains(t, collections, "project")
}
