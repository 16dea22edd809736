package providers

import (
	"testing"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
)

func TestSplitDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		first string
		last  string
	}{
		{"vacío", "", "", ""},
		{"solo espacios", "   ", "", ""},
		{"un token", "Ana", "Ana", ""},
		{"dos tokens", "Ana María", "Ana María", ""},
		{"tres tokens", "Ana María García", "Ana María", "García"},
		{"cuatro tokens", "Ana María García López", "Ana María", "García López"},
		{"cinco tokens descarta extras", "Ana María García López Quinto", "Ana María", "García López"},
		{"espacios múltiples", "  Ana   García  ", "Ana García", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last := SplitDisplayName(tc.in)
			if first != tc.first || last != tc.last {
				t.Fatalf("SplitDisplayName(%q) = (%q, %q), want (%q, %q)", tc.in, first, last, tc.first, tc.last)
			}
		})
	}
}

func TestByTag(t *testing.T) {
	for _, tag := range []string{types.ProviderManual, types.ProviderGoogle, types.ProviderGitHub, types.ProviderFacebook} {
		d, ok := ByTag(tag)
		if !ok || d.Tag != tag {
			t.Fatalf("ByTag(%q) = (%v, %v)", tag, d.Tag, ok)
		}
	}
	// Case-insensitive y con espacios.
	if d, ok := ByTag("  Google "); !ok || d.Tag != types.ProviderGoogle {
		t.Fatalf("ByTag con espacios falló: %v %v", d.Tag, ok)
	}
	if _, ok := ByTag("twitter"); ok {
		t.Fatal("provider desconocido aceptado")
	}
}

func TestGitHubDescriptor_ResolvesByExternalID(t *testing.T) {
	d, _ := ByTag(types.ProviderGitHub)
	if !d.LookupByExternalID {
		t.Fatal("github debe resolver por id externo")
	}
	g, _ := ByTag(types.ProviderGoogle)
	if g.LookupByExternalID {
		t.Fatal("google resuelve por email")
	}
}

func TestGoogleExtractName_PrefersGivenFamily(t *testing.T) {
	d, _ := ByTag(types.ProviderGoogle)
	first, last := d.ExtractName(UserProfile{GivenName: "Ana", FamilyName: "García", DisplayName: "Otra Cosa"})
	if first != "Ana" || last != "García" {
		t.Fatalf("got (%q, %q)", first, last)
	}
	first, last = d.ExtractName(UserProfile{DisplayName: "Ana García"})
	if first != "Ana García" || last != "" {
		t.Fatalf("fallback got (%q, %q)", first, last)
	}
}
