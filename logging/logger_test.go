package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("site", WARN, &buf)

	logger.Info("contact", "ignored", nil)
	logger.Warn("contact", "kept", map[string]any{"persona": "student"})
	logger.Error("contact", "failed", errors.New("boom"), nil)

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Service != "site" || entries[0].Fields["persona"] != "student" {
		t.Fatalf("unexpected warn entry: %+v", entries[0])
	}
	if entries[1].Error != "boom" {
		t.Fatalf("expected error text, got %+v", entries[1])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": DEBUG, " Warning ": WARN, "ERROR": ERROR, "": INFO, "verbose": INFO}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogContextCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New("site", DEBUG, &buf)
	logger.WithRequestID("req-1").WithCategory("mail").WithField("id", "m-1").Info("sent")

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 || entries[0].RequestID != "req-1" || entries[0].Category != "mail" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestMiddlewareAssignsRequestIDAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New("site", DEBUG, &buf)

	var seenID string
	handler := NewHTTPLogger(logger).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenID == "" || rec.Header().Get("X-Request-ID") != seenID {
		t.Fatalf("expected request id to be propagated, header=%q ctx=%q", rec.Header().Get("X-Request-ID"), seenID)
	}
	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != "WARN" || entry.Category != "http" || entry.RequestID != seenID {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if strings.Contains(buf.String(), "secret") || strings.Contains(buf.String(), "a@b.c") {
		t.Fatalf("sensitive data leaked into log: %s", buf.String())
	}
}
