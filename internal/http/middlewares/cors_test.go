package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, allowed []string, origin string) http.Header {
	t.Helper()
	h := WithCORS(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header()
}

func TestCORS_ExplicitOriginAllowsCredentials(t *testing.T) {
	h := corsRequest(t, []string{"https://app.example.com"}, "https://app.example.com")
	if h.Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("Allow-Origin = %q", h.Get("Access-Control-Allow-Origin"))
	}
	if h.Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("origen explícito debe permitir credenciales")
	}
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	// Reflejar cualquier origen + Allow-Credentials es el patrón inseguro:
	// con "*" el origen se refleja pero las credenciales quedan fuera.
	h := corsRequest(t, []string{"*"}, "https://evil.example.com")
	if h.Get("Access-Control-Allow-Origin") != "https://evil.example.com" {
		t.Fatalf("Allow-Origin = %q", h.Get("Access-Control-Allow-Origin"))
	}
	if h.Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard no debe emitir Allow-Credentials")
	}
}

func TestCORS_UnlistedOriginGetsNoHeaders(t *testing.T) {
	h := corsRequest(t, []string{"https://app.example.com"}, "https://otro.example.com")
	if h.Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("Allow-Origin = %q, want vacío", h.Get("Access-Control-Allow-Origin"))
	}
}
