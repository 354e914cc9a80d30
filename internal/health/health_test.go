package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	s := New(8081)
	h := s.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := get(path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String(), path)
	}

	s.SetBackend("transformers:google/flan-t5-base")
	s.SetReady(true)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":"ok","backend":"transformers:google/flan-t5-base"}`, rec.Body.String(), path)
	}

	s.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, get("/healthz").Code)
}

func TestUnknownPath(t *testing.T) {
	rec := httptest.NewRecorder()
	New(8081).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
