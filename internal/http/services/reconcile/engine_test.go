package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/providers"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/keymutex"
	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/store/memory"
)

func newTestEngine(t *testing.T) (Engine, identity.Oracle, *store.Profiles) {
	t.Helper()
	st := memory.New()
	oracle, err := identity.NewLocal(st, identity.LocalConfig{Secret: "test-secret-0123456789"})
	if err != nil {
		t.Fatalf("NewLocal err: %v", err)
	}
	profiles := store.NewProfiles(st)
	eng := NewEngine(Deps{Oracle: oracle, Profiles: profiles, Locks: keymutex.New()})
	return eng, oracle, profiles
}

func manualDesc(t *testing.T) providers.Descriptor {
	t.Helper()
	d, ok := providers.ByTag(types.ProviderManual)
	if !ok {
		t.Fatal("manual descriptor missing")
	}
	return d
}

func googleDesc(t *testing.T) providers.Descriptor {
	t.Helper()
	d, ok := providers.ByTag(types.ProviderGoogle)
	if !ok {
		t.Fatal("google descriptor missing")
	}
	return d
}

func githubDesc(t *testing.T) providers.Descriptor {
	t.Helper()
	d, ok := providers.ByTag(types.ProviderGitHub)
	if !ok {
		t.Fatal("github descriptor missing")
	}
	return d
}

func register(t *testing.T, eng Engine, email, password string) *types.Profile {
	t.Helper()
	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:     manualDesc(t),
		Email:        email,
		Password:     password,
		Registration: true,
		AllowCreate:  true,
		Attributes:   providers.UserProfile{GivenName: "Ana", FamilyName: "García"},
	})
	if err != nil {
		t.Fatalf("register err: %v", err)
	}
	return p
}

func TestReconcile_ManualRegistration_CreatesProfile(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	p := register(t, eng, "a@b.com", "Abcdef1!")
	if p.ID == "" {
		t.Fatal("empty subject id")
	}
	if len(p.Providers) != 1 || p.Providers[0] != types.ProviderManual {
		t.Fatalf("providers = %v, want [manual]", p.Providers)
	}
	if p.FirstName != "Ana" || p.LastName != "García" {
		t.Fatalf("name = %q %q", p.FirstName, p.LastName)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestReconcile_DuplicateManualRegistration(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	register(t, eng, "a@b.com", "Abcdef1!")

	_, _, err := eng.Reconcile(context.Background(), Event{
		Provider:     manualDesc(t),
		Email:        "a@b.com",
		Password:     "Otro1234!",
		Registration: true,
		AllowCreate:  true,
	})
	if !errors.Is(err, httperrors.ErrDuplicateManualRegistration) {
		t.Fatalf("err = %v, want DuplicateManualRegistration", err)
	}
}

func TestReconcile_ManualLogin_UnknownEmail_UniformReject(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, _, err := eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "nadie@b.com",
		Password:      "Abcdef1!",
		CheckPassword: true,
	})
	// Cuenta inexistente y password incorrecto responden lo mismo.
	if !errors.Is(err, httperrors.ErrInvalidCredential) {
		t.Fatalf("err = %v, want InvalidCredential", err)
	}
}

func TestReconcile_ManualLogin_WrongPassword_UniformReject(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	register(t, eng, "a@b.com", "Abcdef1!")

	_, _, err := eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "a@b.com",
		Password:      "Incorrecta9!",
		CheckPassword: true,
	})
	if !errors.Is(err, httperrors.ErrInvalidCredential) {
		t.Fatalf("err = %v, want InvalidCredential", err)
	}
}

func TestReconcile_ManualLogin_Succeeds_MintsCredential(t *testing.T) {
	eng, oracle, _ := newTestEngine(t)
	register(t, eng, "a@b.com", "Abcdef1!")

	p, cred, err := eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "a@b.com",
		Password:      "Abcdef1!",
		CheckPassword: true,
	})
	if err != nil {
		t.Fatalf("login err: %v", err)
	}
	if cred.Token == "" {
		t.Fatal("empty credential")
	}
	sub, err := oracle.VerifyCredential(context.Background(), cred.Token)
	if err != nil || sub != p.ID {
		t.Fatalf("credential subject = %q err=%v, want %q", sub, err, p.ID)
	}
}

func TestReconcile_ManualLogin_SocialOnlyAccount_WrongProvider(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	verified := true
	_, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    googleDesc(t),
		Email:       "a@b.com",
		Attributes:  providers.UserProfile{DisplayName: "Ana García", EmailVerified: &verified},
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("google login err: %v", err)
	}

	_, _, err = eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "a@b.com",
		Password:      "Abcdef1!",
		CheckPassword: true,
	})
	if !errors.Is(err, httperrors.ErrWrongProvider) {
		t.Fatalf("err = %v, want WrongProvider", err)
	}
}

func TestReconcile_ManualRegistration_OverSocialAccount_AddsManual(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    googleDesc(t),
		Email:       "a@b.com",
		Attributes:  providers.UserProfile{DisplayName: "Ana García"},
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("google login err: %v", err)
	}

	// La misma cuenta con solo providers OAuth acepta registro manual.
	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:     manualDesc(t),
		Email:        "a@b.com",
		Password:     "Abcdef1!",
		Registration: true,
		AllowCreate:  true,
	})
	if err != nil {
		t.Fatalf("manual register over social err: %v", err)
	}
	if !p.HasProvider(types.ProviderManual) || !p.HasProvider(types.ProviderGoogle) {
		t.Fatalf("providers = %v", p.Providers)
	}

	// Y el password quedó guardado: el login manual ahora funciona.
	if _, _, err := eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "a@b.com",
		Password:      "Abcdef1!",
		CheckPassword: true,
	}); err != nil {
		t.Fatalf("manual login after linking err: %v", err)
	}
}

func TestReconcile_MergeRule_EmptyNeverOverwrites(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	register(t, eng, "a@b.com", "Abcdef1!") // firstName=Ana

	// Callback google con firstName vacío: Ana se conserva y google se
	// agrega al set de providers.
	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    googleDesc(t),
		Email:       "a@b.com",
		Attributes:  providers.UserProfile{GivenName: "", FamilyName: "   "},
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("google reconcile err: %v", err)
	}
	if p.FirstName != "Ana" {
		t.Fatalf("firstName = %q, want Ana (empty must not overwrite)", p.FirstName)
	}
	want := map[string]bool{types.ProviderManual: true, types.ProviderGoogle: true}
	if len(p.Providers) != 2 || !want[p.Providers[0]] || !want[p.Providers[1]] {
		t.Fatalf("providers = %v, want manual+google", p.Providers)
	}
}

func TestReconcile_MergeRule_NonEmptyOverwrites(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	register(t, eng, "a@b.com", "Abcdef1!")

	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    googleDesc(t),
		Email:       "a@b.com",
		Attributes:  providers.UserProfile{GivenName: "Anita", PhotoURL: "https://img.example/x.png"},
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("reconcile err: %v", err)
	}
	if p.FirstName != "Anita" {
		t.Fatalf("firstName = %q, want Anita", p.FirstName)
	}
	if p.PhotoURL != "https://img.example/x.png" {
		t.Fatalf("photoURL = %q", p.PhotoURL)
	}
}

func TestReconcile_ProviderUnion_Idempotent(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		if _, _, err := eng.Reconcile(context.Background(), Event{
			Provider:    googleDesc(t),
			Email:       "a@b.com",
			Attributes:  providers.UserProfile{DisplayName: "Ana García"},
			AllowCreate: true,
		}); err != nil {
			t.Fatalf("reconcile #%d err: %v", i, err)
		}
	}

	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    googleDesc(t),
		Email:       "a@b.com",
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("reconcile err: %v", err)
	}
	count := 0
	for _, tag := range p.Providers {
		if tag == types.ProviderGoogle {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("google aparece %d veces en %v, want 1", count, p.Providers)
	}
}

func TestReconcile_OrphanedOracleRecord_RecreatesProfile(t *testing.T) {
	eng, _, profiles := newTestEngine(t)
	orig := register(t, eng, "a@b.com", "Abcdef1!")

	// Simula el registro huérfano: cuenta en el oracle sin documento de
	// perfil.
	if err := profiles.Delete(context.Background(), orig.ID); err != nil {
		t.Fatalf("delete profile err: %v", err)
	}

	p, cred, err := eng.Reconcile(context.Background(), Event{
		Provider:      manualDesc(t),
		Email:         "a@b.com",
		Password:      "Abcdef1!",
		CheckPassword: true,
	})
	if err != nil {
		t.Fatalf("reconcile err: %v", err)
	}
	if p.ID != orig.ID {
		t.Fatalf("subject = %q, want reuse of %q", p.ID, orig.ID)
	}
	if cred.Token == "" {
		t.Fatal("empty credential")
	}
	if _, err := profiles.Get(context.Background(), orig.ID); err != nil {
		t.Fatalf("profile not recreated: %v", err)
	}
}

func TestReconcile_GitHub_LookupByExternalID(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	// Primer login: sin email público, solo id externo.
	p1, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    githubDesc(t),
		ExternalID:  "gh-12345",
		Attributes:  providers.UserProfile{DisplayName: "Ana García"},
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("first github login err: %v", err)
	}

	// Segundo login con el mismo id resuelve el mismo subject.
	p2, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    githubDesc(t),
		ExternalID:  "gh-12345",
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("second github login err: %v", err)
	}
	if p1.ID != p2.ID {
		t.Fatalf("subjects differ: %q vs %q", p1.ID, p2.ID)
	}
}

func TestReconcile_TimestampsAlwaysRenewed(t *testing.T) {
	st := memory.New()
	oracle, err := identity.NewLocal(st, identity.LocalConfig{Secret: "test-secret-0123456789"})
	if err != nil {
		t.Fatalf("NewLocal err: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eng := NewEngine(Deps{
		Oracle:   oracle,
		Profiles: store.NewProfiles(st),
		Locks:    keymutex.New(),
		Now:      func() time.Time { return now },
	})

	d, _ := providers.ByTag(types.ProviderGoogle)
	if _, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    d,
		Email:       "a@b.com",
		AllowCreate: true,
	}); err != nil {
		t.Fatalf("create err: %v", err)
	}

	now = now.Add(2 * time.Hour)
	p, _, err := eng.Reconcile(context.Background(), Event{
		Provider:    d,
		Email:       "a@b.com",
		AllowCreate: true,
	})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if !p.UpdatedAt.Equal(now) || !p.LastLogin.Equal(now) {
		t.Fatalf("updatedAt=%v lastLogin=%v, want %v", p.UpdatedAt, p.LastLogin, now)
	}
	if !p.CreatedAt.Equal(now.Add(-2 * time.Hour)) {
		t.Fatalf("createdAt=%v moved", p.CreatedAt)
	}
}
