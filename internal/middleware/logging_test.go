package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Bearer tokens and API keys must never appear in logs in plaintext.
func TestLogger_DoesNotLogCredentials(t *testing.T) {
	t.Parallel()

	sensitive := []string{
		"eyJhbGciOiJSUzI1NiJ9.secret-id-token",
		"rk_0123456789abcdef0123456789abcdef01234567",
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/apikey", nil)
	req.Header.Set("Authorization", "Bearer "+sensitive[0])
	req.Header.Set("X-API-Key", sensitive[1])
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	out := buf.String()
	for _, s := range sensitive {
		if strings.Contains(out, s) {
			t.Errorf("log output contains credential %q", s)
		}
	}
}

func TestLogger_RecordsStatusAndPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/missing", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "404") {
		t.Errorf("log output missing status code: %s", out)
	}
	if !strings.Contains(out, "/api/recipes/missing") {
		t.Errorf("log output missing request path: %s", out)
	}
}
