package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/meetpoint/internal/config"
)

// newTestHandler arma el stack completo (store memory, oracle local, cache
// memory, mailer noop) igual que main, pero sin red.
func newTestHandler(t *testing.T, rateBypass bool, rateLimit int64) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Storage.Driver = "memory"
	cfg.Cache.Driver = "memory"
	cfg.Identity.Secret = "test-secret-0123456789"
	cfg.Rate.Login.Limit = rateLimit
	cfg.Rate.Login.Window = "5m"
	cfg.Rate.Bypass = rateBypass

	h, cleanup, err := BuildHandler(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return h
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Token   string `json:"token"`
	User    struct {
		UID           string   `json:"uid"`
		FirstName     string   `json:"firstName"`
		LastName      string   `json:"lastName"`
		Age           *int     `json:"age"`
		Email         string   `json:"email"`
		Providers     []string `json:"providers"`
		EmailVerified bool     `json:"emailVerified"`
	} `json:"user"`
	Meeting struct {
		ID           string   `json:"id"`
		OwnerUID     string   `json:"ownerUid"`
		IsPublic     bool     `json:"isPublic"`
		Participants []string `json:"participants"`
	} `json:"meeting"`
	Count int `json:"count"`
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if len(rec.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec.Code, env
}

func register(firstName, email, password string, age int) map[string]any {
	return map[string]any{
		"firstName": firstName,
		"email":     email,
		"password":  password,
		"age":       age,
	}
}

func TestEndToEnd_RegisterLoginProfile(t *testing.T) {
	h := newTestHandler(t, true, 5)

	// Registro: 201, sin token en la respuesta.
	code, env := doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		register("Ana", "ana@example.com", "Sup3r$ecret", 30))
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
	require.Empty(t, env.Token)
	require.Equal(t, "Ana", env.User.FirstName)
	require.Equal(t, []string{"manual"}, env.User.Providers)
	uid := env.User.UID
	require.NotEmpty(t, uid)

	// Registro duplicado sobre el mismo email.
	code, env = doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		register("Ana", "ana@example.com", "Sup3r$ecret", 30))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "DUPLICATE_REGISTRATION", env.Code)

	// La validación corta antes de tocar el oracle.
	code, env = doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		register("", "not-an-email", "Sup3r$ecret", 30))
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error, "email format is invalid")

	code, env = doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		register("Peque", "nino@example.com", "Sup3r$ecret", 10))
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Error, "age must be at least 13")

	// Login con password incorrecto: 401 uniforme.
	code, env = doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "ana@example.com", "password": "incorrecto"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "INVALID_CREDENTIAL", env.Code)

	// Login correcto entrega token.
	code, env = doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "ana@example.com", "password": "Sup3r$ecret"})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, env.Token)
	token := env.Token

	// Sin token el gate rechaza.
	code, _ = doJSON(t, h, http.MethodGet, "/api/users/"+uid, "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	// Con token, el perfil propio se lee.
	code, env = doJSON(t, h, http.MethodGet, "/api/users/"+uid, token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ana@example.com", env.User.Email)

	// Un uid ajeno es Forbidden aunque no exista.
	code, env = doJSON(t, h, http.MethodGet, "/api/users/otro-uid", token, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "FORBIDDEN", env.Code)
}

func TestEndToEnd_OAuthCallbackMergesWithoutClobbering(t *testing.T) {
	h := newTestHandler(t, true, 5)

	code, env := doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		register("Ana", "ana@example.com", "Sup3r$ecret", 30))
	require.Equal(t, http.StatusCreated, code)
	uid := env.User.UID

	// Callback de google sobre el mismo email: misma identidad, provider
	// agregado, y el firstName existente no se pisa porque el payload
	// social no trae nombre.
	verified := true
	code, env = doJSON(t, h, http.MethodPost, "/api/oauth/google", "", map[string]any{
		"token": "provider-token",
		"userProfile": map[string]any{
			"email":         "ana@example.com",
			"photoURL":      "https://example.com/pic.jpg",
			"emailVerified": verified,
		},
	})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, env.Token)
	require.Equal(t, uid, env.User.UID)
	require.Equal(t, "Ana", env.User.FirstName)
	require.ElementsMatch(t, []string{"manual", "google"}, env.User.Providers)
	require.True(t, env.User.EmailVerified)

	// Repetir el callback es idempotente sobre el set de providers.
	code, env = doJSON(t, h, http.MethodPost, "/api/oauth/google", "", map[string]any{
		"token":       "provider-token",
		"userProfile": map[string]any{"email": "ana@example.com"},
	})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.User.Providers, 2)

	// Provider desconocido o manual por esta vía: 400.
	code, _ = doJSON(t, h, http.MethodPost, "/api/oauth/manual", "", map[string]any{
		"token":       "x",
		"userProfile": map[string]any{"email": "ana@example.com"},
	})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestEndToEnd_Meetings(t *testing.T) {
	h := newTestHandler(t, true, 5)

	login := func(email string) string {
		code, env := doJSON(t, h, http.MethodPost, "/api/auth/register", "",
			register("User", email, "Sup3r$ecret", 25))
		require.Equal(t, http.StatusCreated, code)
		code, env = doJSON(t, h, http.MethodPost, "/api/auth/login", "",
			map[string]any{"email": email, "password": "Sup3r$ecret"})
		require.Equal(t, http.StatusOK, code)
		return env.Token
	}
	ownerTok := login("owner@example.com")
	readerTok := login("reader@example.com")

	code, env := doJSON(t, h, http.MethodPost, "/api/meetings", ownerTok,
		map[string]any{"title": "Retro", "isPublic": true})
	require.Equal(t, http.StatusCreated, code)
	pubID := env.Meeting.ID
	require.Len(t, env.Meeting.Participants, 1)

	code, env = doJSON(t, h, http.MethodPost, "/api/meetings", ownerTok,
		map[string]any{"title": "Privada"})
	require.Equal(t, http.StatusCreated, code)
	privID := env.Meeting.ID

	// 404 antes que 403: id inexistente.
	code, _ = doJSON(t, h, http.MethodGet, "/api/meetings/no-existe", readerTok, nil)
	require.Equal(t, http.StatusNotFound, code)

	// Privada ajena: 403.
	code, _ = doJSON(t, h, http.MethodGet, "/api/meetings/"+privID, readerTok, nil)
	require.Equal(t, http.StatusForbidden, code)

	// Pública: la lectura inscribe al lector, una sola vez.
	code, env = doJSON(t, h, http.MethodGet, "/api/meetings/"+pubID, readerTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Meeting.Participants, 2)
	code, env = doJSON(t, h, http.MethodGet, "/api/meetings/"+pubID, readerTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Meeting.Participants, 2)

	// El lector ve la pública y no la privada ajena.
	code, env = doJSON(t, h, http.MethodGet, "/api/meetings", readerTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, env.Count)

	// Escritura solo-owner.
	code, _ = doJSON(t, h, http.MethodPut, "/api/meetings/"+pubID, readerTok,
		map[string]any{"title": "Hackeada"})
	require.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, h, http.MethodDelete, "/api/meetings/"+privID, ownerTok, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestEndToEnd_LoginRateLimit(t *testing.T) {
	h := newTestHandler(t, false, 3)

	for i := 0; i < 3; i++ {
		code, _ := doJSON(t, h, http.MethodPost, "/api/auth/login", "",
			map[string]any{"email": fmt.Sprintf("u%d@example.com", i), "password": "loquesea"})
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "u@example.com", "password": "loquesea"})
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Equal(t, "RATE_LIMITED", env.Code)
}

func TestEndToEnd_Health(t *testing.T) {
	h := newTestHandler(t, true, 5)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}
