package validation

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	if msg := Email("ana@example.com"); msg != "" {
		t.Fatalf("email válido rechazado: %q", msg)
	}
	if msg := Email("  ana@example.com  "); msg != "" {
		t.Fatalf("email con espacios exteriores rechazado: %q", msg)
	}
	for _, bad := range []string{"", "   ", "not-an-email", "a@b", "a b@c.com", "@c.com", "a@"} {
		if msg := Email(bad); msg == "" {
			t.Fatalf("email inválido %q aceptado", bad)
		}
	}
}

func TestPassword_AllRules(t *testing.T) {
	if reasons := Password("Abcdef1!"); len(reasons) != 0 {
		t.Fatalf("password válido rechazado: %v", reasons)
	}

	cases := []struct {
		password string
		needle   string
	}{
		{"Ab1!", "at least 8"},
		{"ABCDEF1!", "lowercase"},
		{"abcdef1!", "uppercase"},
		{"Abcdefg!", "digit"},
		{"Abcdefg1", "symbol"},
	}
	for _, tc := range cases {
		reasons := Password(tc.password)
		found := false
		for _, r := range reasons {
			if strings.Contains(r, tc.needle) {
				found = true
			}
		}
		if !found {
			t.Fatalf("Password(%q) = %v, falta regla %q", tc.password, reasons, tc.needle)
		}
	}

	// Todas las reglas a la vez.
	if reasons := Password(""); len(reasons) != 5 {
		t.Fatalf("Password(\"\") = %d reglas, want 5: %v", len(reasons), reasons)
	}
}

func TestAge(t *testing.T) {
	if msg := Age(nil); msg != "" {
		t.Fatalf("edad ausente rechazada: %q", msg)
	}
	thirteen := 13
	if msg := Age(&thirteen); msg != "" {
		t.Fatalf("13 rechazado: %q", msg)
	}
	ten := 10
	if msg := Age(&ten); msg != "age must be at least 13" {
		t.Fatalf("Age(10) = %q", msg)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
