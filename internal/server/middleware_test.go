package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"influencers/internal/logger"
)

func TestRequestIDRejectsMalformedHeader(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", bad)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if seen == bad || seen == "" {
			t.Fatalf("expected a fresh id for %q, got %q", bad, seen)
		}
		if rr.Header().Get("X-Request-Id") != seen {
			t.Fatalf("response header %q does not match context id %q", rr.Header().Get("X-Request-Id"), seen)
		}
	}
}

func TestRecoverLogsPanic(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, slog.LevelInfo)
	h := RequestID(Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "handler_panic" || line["panic"] != "boom" || line[logger.RequestIDKey] != "req-1" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestAccessLogRecordsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	h := AccessLog(logger.NewWithWriter(&buf, slog.LevelInfo))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["status"] != float64(http.StatusTeapot) || line["bytes"] != float64(5) || line["path"] != "/tea" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
