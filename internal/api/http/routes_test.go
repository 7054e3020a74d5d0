package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puffmon/puff/internal/assistant"
	"github.com/puffmon/puff/internal/store"
)

func setupApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	app := fiber.New()
	mem := store.NewMemoryStore(0, 0)
	engine := assistant.NewEngine(mem)
	RegisterRoutes(app, engine, mem, mem, nil)
	return app, mem
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func TestCurrentNoData(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/current", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCurrentReturnsLatest(t *testing.T) {
	app, mem := setupApp(t)
	require.NoError(t, mem.Insert(store.Reading{Timestamp: time.Now().UTC(), PM25: 9.5, PM10: 14.0}))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/current", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 9.5, payload["pm25"])
}

func TestHistoryValidation(t *testing.T) {
	app, _ := setupApp(t)

	// Missing from/to should return 400.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// to before from should also return 400.
	resp, _ = doJSON(t, app, http.MethodGet,
		"/api/v1/history?from=2026-08-20T12:00:00Z&to=2026-08-20T10:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryReturnsRange(t *testing.T) {
	app, mem := setupApp(t)
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, mem.Insert(store.Reading{Timestamp: base.Add(time.Duration(i) * time.Minute), PM25: float64(i)}))
	}

	resp, payload := doJSON(t, app, http.MethodGet,
		"/api/v1/history?from=2026-08-20T10:00:00Z&to=2026-08-20T11:00:00Z", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	readings, ok := payload["readings"].([]any)
	require.True(t, ok)
	assert.Len(t, readings, 3)
}

func TestPuffRequiresQuery(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/puff", `{"query": "  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPuffUnrecognizedHasNullBand(t *testing.T) {
	app, _ := setupApp(t)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/puff", `{"query": "what time is it"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, payload["text"], "didn't understand")
	assert.Nil(t, payload["band"])
}

func TestPuffAnswersCurrent(t *testing.T) {
	app, mem := setupApp(t)
	require.NoError(t, mem.Insert(store.Reading{Timestamp: time.Now().UTC(), PM25: 8.0, PM10: 12.0}))

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/puff", `{"query": "current air quality"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "good", payload["band"])
	assert.Contains(t, payload["text"], "8.0")
}

func TestSettingsRoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/settings", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12.0, payload["pm25_warning"])

	body := `{"pm25_warning": 10, "pm25_critical": 30, "pm10_warning": 50, "pm10_critical": 140, "pm25_calibration": 1.1, "pm10_calibration": 0.9}`
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/settings", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = doJSON(t, app, http.MethodGet, "/api/v1/settings", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10.0, payload["pm25_warning"])
}

func TestSettingsValidation(t *testing.T) {
	app, _ := setupApp(t)

	// Critical threshold must exceed warning.
	body := `{"pm25_warning": 40, "pm25_critical": 30, "pm10_warning": 50, "pm10_critical": 140, "pm25_calibration": 1, "pm10_calibration": 1}`
	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/settings", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
