package identity

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/validation"
)

// argonParams para el hash de passwords del oracle local.
type argonParams struct {
	memory      uint32 // KiB
	time        uint32
	parallelism uint8
	keyLen      uint32
}

var defaultArgon = argonParams{memory: 64 * 1024, time: 3, parallelism: 1, keyLen: 32}

// LocalOracle es la implementación por defecto del Identity Oracle:
// cuentas persistidas en el document store, passwords con argon2id y
// credenciales de sesión JWT HS256. Detrás de la interfaz es intercambiable
// por un servicio de identidad externo.
type LocalOracle struct {
	s         store.Store
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// LocalConfig configura el oracle local.
type LocalConfig struct {
	Secret    string        // clave HS256 para firmar credenciales
	Issuer    string        // claim "iss"
	AccessTTL time.Duration // TTL de la credencial (default 1h)
}

// NewLocal crea el oracle local sobre el document store dado.
func NewLocal(s store.Store, cfg LocalConfig) (*LocalOracle, error) {
	if cfg.Secret == "" {
		return nil, errors.New("identity: signing secret required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "meetpoint"
	}
	return &LocalOracle{
		s:         s,
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		accessTTL: cfg.AccessTTL,
	}, nil
}

// ─── Índices secundarios ───
// Las cuentas viven en ColAccounts por subject; los índices email/extid en
// ColAccountIndex apuntan al subject.

type indexDoc struct {
	Subject string `json:"subject"`
}

func emailKey(email string) string { return "email/" + validation.NormalizeEmail(email) }

func extIDKey(provider, externalID string) string {
	return "extid/" + provider + "/" + externalID
}

func (o *LocalOracle) bySubject(ctx context.Context, subject string) (*Account, error) {
	var a Account
	if err := o.s.Get(ctx, store.ColAccounts, subject, &a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (o *LocalOracle) byIndex(ctx context.Context, key string) (*Account, error) {
	var idx indexDoc
	if err := o.s.Get(ctx, store.ColAccountIndex, key, &idx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return o.bySubject(ctx, idx.Subject)
}

// ─── Oracle ───

func (o *LocalOracle) LookupByEmail(ctx context.Context, email string) (*Account, error) {
	return o.byIndex(ctx, emailKey(email))
}

func (o *LocalOracle) LookupByExternalID(ctx context.Context, provider, externalID string) (*Account, error) {
	return o.byIndex(ctx, extIDKey(provider, externalID))
}

func (o *LocalOracle) Create(ctx context.Context, in CreateInput) (*Account, error) {
	email := validation.NormalizeEmail(in.Email)
	if email != "" {
		if _, err := o.LookupByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
	}

	a := &Account{
		Subject:       uuid.NewString(),
		Email:         email,
		EmailVerified: in.EmailVerified,
		CreatedAt:     time.Now().UTC(),
	}
	if in.Password != "" {
		hash, err := hashPassword(defaultArgon, in.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}
	if in.ExternalID != "" {
		a.ExternalIDs = map[string]string{in.Provider: in.ExternalID}
	}

	if err := o.s.Put(ctx, store.ColAccounts, a.Subject, a); err != nil {
		return nil, err
	}
	if email != "" {
		if err := o.s.Put(ctx, store.ColAccountIndex, emailKey(email), indexDoc{Subject: a.Subject}); err != nil {
			return nil, err
		}
	}
	if in.ExternalID != "" {
		if err := o.s.Put(ctx, store.ColAccountIndex, extIDKey(in.Provider, in.ExternalID), indexDoc{Subject: a.Subject}); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (o *LocalOracle) VerifyPassword(ctx context.Context, email, password string) (*Account, error) {
	a, err := o.LookupByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if a.PasswordHash == "" || !verifyPassword(password, a.PasswordHash) {
		return nil, ErrInvalidCredential
	}
	return a, nil
}

func (o *LocalOracle) LinkExternalID(ctx context.Context, subject, provider, externalID string) error {
	a, err := o.bySubject(ctx, subject)
	if err != nil {
		return err
	}
	if a.ExternalIDs == nil {
		a.ExternalIDs = make(map[string]string)
	}
	if a.ExternalIDs[provider] == externalID {
		return nil
	}
	a.ExternalIDs[provider] = externalID
	if err := o.s.Put(ctx, store.ColAccounts, subject, a); err != nil {
		return err
	}
	return o.s.Put(ctx, store.ColAccountIndex, extIDKey(provider, externalID), indexDoc{Subject: subject})
}

func (o *LocalOracle) SetPassword(ctx context.Context, subject, password string) error {
	a, err := o.bySubject(ctx, subject)
	if err != nil {
		return err
	}
	hash, err := hashPassword(defaultArgon, password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return o.s.Put(ctx, store.ColAccounts, subject, a)
}

func (o *LocalOracle) UpdateEmail(ctx context.Context, subject, newEmail string) error {
	a, err := o.bySubject(ctx, subject)
	if err != nil {
		return err
	}
	newEmail = validation.NormalizeEmail(newEmail)
	if a.Email == newEmail {
		return nil
	}
	if other, err := o.LookupByEmail(ctx, newEmail); err == nil && other.Subject != subject {
		return ErrEmailTaken
	}

	oldEmail := a.Email
	a.Email = newEmail
	a.EmailVerified = false // email nuevo queda sin verificar
	if err := o.s.Put(ctx, store.ColAccounts, subject, a); err != nil {
		return err
	}
	if err := o.s.Put(ctx, store.ColAccountIndex, emailKey(newEmail), indexDoc{Subject: subject}); err != nil {
		return err
	}
	if oldEmail != "" {
		_ = o.s.Delete(ctx, store.ColAccountIndex, emailKey(oldEmail))
	}
	return nil
}

func (o *LocalOracle) Delete(ctx context.Context, subject string) error {
	a, err := o.bySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil // idempotente
		}
		return err
	}
	if a.Email != "" {
		_ = o.s.Delete(ctx, store.ColAccountIndex, emailKey(a.Email))
	}
	for provider, id := range a.ExternalIDs {
		_ = o.s.Delete(ctx, store.ColAccountIndex, extIDKey(provider, id))
	}
	return o.s.Delete(ctx, store.ColAccounts, subject)
}

func (o *LocalOracle) MintCredential(ctx context.Context, subject string) (Credential, error) {
	now := time.Now().UTC()
	exp := now.Add(o.accessTTL)
	claims := jwtv5.MapClaims{
		"iss": o.issuer,
		"sub": subject,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(o.secret)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Token: signed, ExpiresAt: exp}, nil
}

func (o *LocalOracle) VerifyCredential(ctx context.Context, token string) (string, error) {
	tok, err := jwtv5.Parse(token,
		func(t *jwtv5.Token) (any, error) { return o.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(o.issuer),
	)
	// Toda falla (firma, exp, iss, formato) colapsa al mismo error.
	if err != nil || !tok.Valid {
		return "", ErrInvalidCredential
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalidCredential
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidCredential
	}
	return sub, nil
}

// ─── Password hashing (argon2id, PHC string) ───

func hashPassword(p argonParams, plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("identity: empty password")
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(plain), salt, p.time, p.memory, p.parallelism, p.keyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.memory, p.time, p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

func verifyPassword(plain, phc string) bool {
	// $argon2id$v=19$m=...,t=...,p=...$<saltB64>$<dkB64>
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}
	var m, t, p int
	if n, _ := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); n != 3 {
		return false
	}
	saltB64, dkB64 := parts[4], parts[5]
	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}
	dkStored, err := base64.RawStdEncoding.DecodeString(dkB64)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(plain), salt, uint32(t), uint32(m), uint8(p), uint32(len(dkStored)))
	return subtle.ConstantTimeCompare(key, dkStored) == 1
}
