package helpers

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP_IgnoresForwardedForByDefault(t *testing.T) {
	// Sin proxy confiable declarado, un cliente directo no puede rotar
	// X-Forwarded-For para cambiar su clave de rate limiting.
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "198.51.100.7:40000"
	r.Header.Set("X-Forwarded-For", "10.0.0.99")

	if got := ClientIP(r); got != "198.51.100.7:40000" {
		t.Fatalf("ClientIP = %q, want RemoteAddr", got)
	}
}

func TestClientIP_TrustedProxyHonorsForwardedFor(t *testing.T) {
	SetTrustProxy(true)
	t.Cleanup(func() { SetTrustProxy(false) })

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:40000" // el proxy
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r); got != "203.0.113.9" {
		t.Fatalf("ClientIP = %q, want primer hop del header", got)
	}

	// Header ausente: cae a RemoteAddr aun con proxy confiable.
	r.Header.Del("X-Forwarded-For")
	if got := ClientIP(r); got != "10.0.0.1:40000" {
		t.Fatalf("ClientIP sin header = %q", got)
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ana@example.com", "an***@example.com"},
		{"a@b.com", "a@***"},
		{"x", "***"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
