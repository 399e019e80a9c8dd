package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func securityHeaderResponse(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_XFrameOptions(t *testing.T) {
	rec := securityHeaderResponse(t)
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("Expected X-Frame-Options: DENY, got %s", rec.Header().Get("X-Frame-Options"))
	}
}

func TestSecurityHeaders_XContentTypeOptions(t *testing.T) {
	rec := securityHeaderResponse(t)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("Expected X-Content-Type-Options: nosniff, got %s", rec.Header().Get("X-Content-Type-Options"))
	}
}

func TestSecurityHeaders_CSPIsSameOriginOnly(t *testing.T) {
	rec := securityHeaderResponse(t)
	csp := rec.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Fatal("Content-Security-Policy header should be set")
	}
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP should restrict to same origin, got %s", csp)
	}
	if strings.Contains(csp, "https://") {
		t.Errorf("CSP should not allow external origins, got %s", csp)
	}
}

func TestSecurityHeaders_XSSProtection(t *testing.T) {
	rec := securityHeaderResponse(t)
	if rec.Header().Get("X-XSS-Protection") != "1; mode=block" {
		t.Errorf("Expected X-XSS-Protection: 1; mode=block, got %s", rec.Header().Get("X-XSS-Protection"))
	}
}
