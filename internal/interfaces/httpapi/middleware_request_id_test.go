package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "abc-123" || rec.Header().Get(requestIDHeader) != "abc-123" {
			t.Fatalf("expected caller id to be kept, got ctx=%q header=%q", seen, rec.Header().Get(requestIDHeader))
		}
	})

	t.Run("assigns uuid when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if len(seen) != 36 {
			t.Fatalf("expected uuid request id, got %q", seen)
		}
		if rec.Header().Get(requestIDHeader) != seen {
			t.Fatalf("header and context ids differ")
		}
	})
}
