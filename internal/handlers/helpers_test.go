package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feedback-backend/internal/auth"
	"feedback-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// setupRouter mounts one handler per test so chi fills in the URL params.
func setupRouter(method, pattern string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	return r
}

// doRequest issues the request with the given caller already injected into
// the context, the way the auth middleware would after verifying a token.
func doRequest(t *testing.T, router http.Handler, method, target, body string, identity *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
