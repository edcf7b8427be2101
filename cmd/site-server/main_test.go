package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcup/arcup-web/internal/config"
	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>ArcUp</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("\x00asm"), 0o644))
	cfg := config.Defaults()
	cfg.StaticDir = dir
	return cfg
}

func TestHandlerRoutesSiteAndContact(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New("test", logging.DEBUG, &logs)
	h, err := newHandler(testConfig(t), content.NewStore(nil), logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>ArcUp</h1>", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/main.wasm", nil))
	assert.Equal(t, "application/wasm", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, contactapi.Path,
		strings.NewReader(`{"anonymous":true,"persona":"student","message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp contactapi.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	assert.Contains(t, logs.String(), `"message":"POST /api/contact 200"`)
	assert.NotContains(t, logs.String(), "hello", "request bodies are never logged")
}

func TestHandlerPublishesCurrentCatalog(t *testing.T) {
	store := content.NewStore(nil)
	h, err := newHandler(testConfig(t), store, logging.New("test", logging.DEBUG, &bytes.Buffer{}))
	require.NoError(t, err)

	next, err := content.Parse([]byte("default_persona: guest\npersonas: [{id: guest, label: Guest}]\npillars: [{id: all}]\n"))
	require.NoError(t, err)
	store.Replace(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, content.Path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := content.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Guest", got.PersonaLabel("guest"))
}

func TestHandlerRequiresStaticDir(t *testing.T) {
	cfg := config.Defaults()
	cfg.StaticDir = filepath.Join(t.TempDir(), "missing")
	_, err := newHandler(cfg, content.NewStore(nil), logging.Discard())
	assert.Error(t, err)
}

func TestNewLoggerWritesToLogDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogDir = t.TempDir()
	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("server", "hello file", nil)
	closeLog()

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestNewLoggerRotatesWithConfiguredLimits(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogDir = t.TempDir()
	cfg.LogFiles.MaxSizeMB = 1
	cfg.LogFiles.MaxFiles = 1
	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)

	padding := strings.Repeat("x", 4<<10)
	for i := 0; i < 600; i++ {
		logger.Info("server", "filler", map[string]any{"i": i, "pad": padding})
	}
	closeLog()

	archived, err := filepath.Glob(filepath.Join(cfg.LogDir, logFileName+".*.gz"))
	require.NoError(t, err)
	assert.Len(t, archived, 1, "one archive is kept")
	info, err := os.Stat(filepath.Join(cfg.LogDir, logFileName))
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1<<20))
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	err := run([]string{"--listen", ""})
	assert.ErrorContains(t, err, "listen address")
}
