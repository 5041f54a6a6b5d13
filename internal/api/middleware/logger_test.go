package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/topmart/Investment-Engine-Backend/internal/api/middleware"
)

// captureLog redirects the standard logger into a buffer for the duration
// of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(logDefaultOutput)
	})
	return &buf
}

var logDefaultOutput = log.Writer()

// TestLogger tests the request log line.
func TestLogger(t *testing.T) {
	t.Run("logs method, path and captured status", func(t *testing.T) {
		buf := captureLog(t)

		handler := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		line := buf.String()
		if !strings.Contains(line, "GET /api/plan 418") {
			t.Errorf("Expected log line with method, path and status, got %q", line)
		}
	})

	t.Run("includes the request ID when assigned", func(t *testing.T) {
		buf := captureLog(t)

		handler := chimiddleware.RequestID(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		line := strings.TrimSpace(buf.String())
		fields := strings.Fields(line)
		// Standard log prefix is date and time; the request ID comes next,
		// shaped host/sequence, then the method.
		if len(fields) < 4 || fields[3] != "GET" || !strings.Contains(fields[2], "/") {
			t.Fatalf("Expected a request ID field before the method, got %q", line)
		}
		if !strings.Contains(line, "GET /api/system/health 200") {
			t.Errorf("Expected log line with method, path and status, got %q", line)
		}
	})

	t.Run("strips CR and LF from caller-controlled fields", func(t *testing.T) {
		buf := captureLog(t)

		handler := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
		req.URL.Path = "/api/plan\r\nforged line"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := strings.Count(buf.String(), "\n"); got != 1 {
			t.Errorf("Expected a single log line, got %d newlines: %q", got, buf.String())
		}
		if !strings.Contains(buf.String(), "/api/planforged line") {
			t.Errorf("Expected CR/LF stripped from the path, got %q", buf.String())
		}
	})
}
