package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(config CORSConfig) (http.Handler, *bool) {
	called := false
	h := CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	return h, &called
}

func TestCORSAllowedOrigin(t *testing.T) {
	h, called := corsHandler(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != RequestIDHeader {
		t.Errorf("Expose-Headers = %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	h, called := corsHandler(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, called := corsHandler(CORSConfig{AllowedOrigins: []string{"*.example.com"}, MaxAge: 600})

	req := httptest.NewRequest(http.MethodOptions, "/functions/1/parameters", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if *called {
		t.Error("preflight should not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != corsMethods {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Max-Age = %q", got)
	}
}

func TestCORSDisabled(t *testing.T) {
	h, _ := corsHandler(CORSConfig{})

	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestIsOriginAllowedWildcardSubdomain(t *testing.T) {
	allowed := []string{"*.example.com"}
	if !isOriginAllowed("https://a.example.com", allowed) {
		t.Error("subdomain should be allowed")
	}
	if isOriginAllowed("https://example.com", allowed) {
		t.Error("bare domain should not match a subdomain pattern")
	}
}
