// Package reconcile implementa el motor de reconciliación de identidad:
// mapea un evento de login entrante (manual u OAuth) a un único perfil
// canónico, fusionando datos sin sobrescritura destructiva.
package reconcile

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/providers"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/keymutex"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/validation"
)

// Event es un evento de login ya validado, listo para reconciliar.
type Event struct {
	Provider   providers.Descriptor
	Email      string // puede venir vacío en flujos por id externo
	ExternalID string
	Attributes providers.UserProfile

	// Password: en registro manual se guarda en el oracle; en login manual
	// se verifica (CheckPassword).
	Password string

	// Registration marca el registro manual explícito: colisión con una
	// cuenta que ya tiene manual => DuplicateManualRegistration.
	Registration bool

	// AllowCreate: el login manual no crea cuentas (false => cuenta
	// inexistente se rechaza uniforme con InvalidCredential).
	AllowCreate bool

	// CheckPassword exige verificación de password contra el oracle
	// (solo login manual).
	CheckPassword bool
}

// Engine reconcilia eventos de login contra el oracle y el profile store.
type Engine interface {
	// Reconcile resuelve el evento a un perfil canónico y emite una
	// credencial de sesión fresca como último paso.
	Reconcile(ctx context.Context, ev Event) (*types.Profile, identity.Credential, error)
}

// Deps contiene las dependencias del motor.
type Deps struct {
	Oracle   identity.Oracle
	Profiles *store.Profiles
	// Locks serializa la reconciliación por email normalizado (sección
	// crítica por clave: elimina la carrera lookup→create→persist).
	Locks *keymutex.KeyMutex
	Now   func() time.Time // opcional, para tests
}

type engine struct {
	oracle   identity.Oracle
	profiles *store.Profiles
	locks    *keymutex.KeyMutex
	now      func() time.Time
}

// NewEngine crea el motor de reconciliación.
func NewEngine(d Deps) Engine {
	now := d.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &engine{oracle: d.Oracle, profiles: d.Profiles, locks: d.Locks, now: now}
}

func (e *engine) Reconcile(ctx context.Context, ev Event) (*types.Profile, identity.Credential, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("reconcile"), logger.Provider(ev.Provider.Tag))

	email := validation.NormalizeEmail(ev.Email)

	// Sección crítica por clave. La clave de serialización es el email
	// normalizado; los flujos sin email (GitHub sin email público) se
	// serializan por id externo.
	lockKey := "email/" + email
	if email == "" {
		lockKey = "extid/" + ev.Provider.Tag + "/" + ev.ExternalID
	}
	if e.locks != nil {
		if err := e.locks.Lock(ctx, lockKey); err != nil {
			return nil, identity.Credential{}, httperrors.ErrUpstream.WithCause(err)
		}
		defer e.locks.Unlock(lockKey)
	}

	acct, err := e.lookup(ctx, ev, email)
	if err != nil && !stderrors.Is(err, identity.ErrAccountNotFound) {
		log.Error("oracle lookup failed", logger.Err(err))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, identity.Credential{}, httperrors.ErrUpstream.WithCause(err)
	}

	var profile *types.Profile
	switch {
	case acct == nil:
		profile, acct, err = e.createAccount(ctx, ev, email, log)
	default:
		profile, err = e.resolveExisting(ctx, ev, email, acct, log)
	}
	if err != nil {
		return nil, identity.Credential{}, err
	}

	// La credencial se emite siempre al final, sobre el subject resuelto.
	cred, err := e.oracle.MintCredential(ctx, acct.Subject)
	if err != nil {
		log.Error("mint credential failed", logger.SubjectID(acct.Subject), logger.Err(err))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, identity.Credential{}, httperrors.ErrUpstream.WithCause(err)
	}
	return profile, cred, nil
}

// lookup resuelve la cuenta por id externo (flujos estilo GitHub) o por
// email. Not-found no es un error: dispara el camino de creación.
func (e *engine) lookup(ctx context.Context, ev Event, email string) (*identity.Account, error) {
	if ev.Provider.LookupByExternalID && ev.ExternalID != "" {
		acct, err := e.oracle.LookupByExternalID(ctx, ev.Provider.Tag, ev.ExternalID)
		if err == nil {
			return acct, nil
		}
		if !stderrors.Is(err, identity.ErrAccountNotFound) {
			return nil, err
		}
		// Primer login con este id externo: puede existir cuenta previa
		// por email (otro provider). Cae al lookup por email.
	}
	if email == "" {
		return nil, identity.ErrAccountNotFound
	}
	return e.oracle.LookupByEmail(ctx, email)
}

// createAccount cubre el caso "no existe cuenta": crea cuenta y perfil.
func (e *engine) createAccount(ctx context.Context, ev Event, email string, log *zap.Logger) (*types.Profile, *identity.Account, error) {
	if !ev.AllowCreate {
		// Login manual sobre email desconocido: rechazo uniforme, sin
		// revelar si la cuenta existe.
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "rejected").Inc()
		return nil, nil, httperrors.ErrInvalidCredential
	}

	in := identity.CreateInput{
		Email:      email,
		Provider:   ev.Provider.Tag,
		ExternalID: ev.ExternalID,
	}
	if ev.Provider.Tag == types.ProviderManual {
		in.Password = ev.Password
	}
	if ev.Attributes.EmailVerified != nil {
		in.EmailVerified = *ev.Attributes.EmailVerified
	}

	acct, err := e.oracle.Create(ctx, in)
	if err != nil {
		if stderrors.Is(err, identity.ErrEmailTaken) && ev.Registration {
			metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "duplicate").Inc()
			return nil, nil, httperrors.ErrDuplicateManualRegistration
		}
		log.Error("oracle create failed", logger.Err(err))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, nil, httperrors.ErrUpstream.WithCause(err)
	}

	profile, err := e.newProfile(ctx, ev, email, acct)
	if err != nil {
		return nil, nil, err
	}
	log.Info("profile created", logger.SubjectID(acct.Subject), logger.EmailMasked(email))
	metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "created").Inc()
	return profile, acct, nil
}

// resolveExisting cubre cuenta existente: perfil presente (merge) o
// registro huérfano del oracle (re-crear perfil con el mismo subject).
func (e *engine) resolveExisting(ctx context.Context, ev Event, email string, acct *identity.Account, log *zap.Logger) (*types.Profile, error) {
	profile, err := e.profiles.Get(ctx, acct.Subject)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		log.Error("profile load failed", logger.SubjectID(acct.Subject), logger.Err(err))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, httperrors.ErrUpstream.WithCause(err)
	}

	if profile == nil {
		// Registro huérfano del oracle: cuenta sin perfil. Se trata como
		// creación reutilizando el subject existente.
		if ev.CheckPassword {
			if _, err := e.oracle.VerifyPassword(ctx, email, ev.Password); err != nil {
				return nil, e.passwordFailure(ev, err, log)
			}
		}
		profile, err = e.newProfile(ctx, ev, email, acct)
		if err != nil {
			return nil, err
		}
		log.Warn("orphaned oracle record repaired", logger.SubjectID(acct.Subject))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "orphan_repaired").Inc()
		return profile, nil
	}

	if ev.Provider.Tag == types.ProviderManual {
		if ev.Registration && profile.HasProvider(types.ProviderManual) {
			// Una cuenta manual no se re-registra.
			metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "duplicate").Inc()
			return nil, httperrors.ErrDuplicateManualRegistration
		}
		if ev.CheckPassword && !profile.HasProvider(types.ProviderManual) {
			// La cuenta se creó vía OAuth: dirigir al método original.
			metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "wrong_provider").Inc()
			return nil, httperrors.ErrWrongProvider
		}
	}

	if ev.CheckPassword {
		if _, err := e.oracle.VerifyPassword(ctx, email, ev.Password); err != nil {
			return nil, e.passwordFailure(ev, err, log)
		}
	}

	// Registro manual sobre cuenta social-only: guarda el password ahora.
	if ev.Registration && !acct.HasPassword() && ev.Password != "" {
		if err := e.oracle.SetPassword(ctx, acct.Subject, ev.Password); err != nil {
			log.Error("set password failed", logger.SubjectID(acct.Subject), logger.Err(err))
			metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
			return nil, httperrors.ErrUpstream.WithCause(err)
		}
	}

	e.merge(profile, ev)
	if err := e.profiles.Save(ctx, profile); err != nil {
		log.Error("profile persist failed", logger.SubjectID(acct.Subject), logger.Err(err))
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, httperrors.ErrUpstream.WithCause(err)
	}

	// Primer login con este id externo sobre una cuenta resuelta por
	// email: dejar el vínculo registrado en el oracle.
	if ev.ExternalID != "" && acct.ExternalIDs[ev.Provider.Tag] != ev.ExternalID {
		if err := e.oracle.LinkExternalID(ctx, acct.Subject, ev.Provider.Tag, ev.ExternalID); err != nil {
			log.Warn("external id link failed", logger.SubjectID(acct.Subject), logger.Err(err))
		}
	}

	metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "merged").Inc()
	return profile, nil
}

func (e *engine) passwordFailure(ev Event, err error, log *zap.Logger) error {
	if stderrors.Is(err, identity.ErrInvalidCredential) {
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "rejected").Inc()
		return httperrors.ErrInvalidCredential
	}
	log.Error("password verification failed", logger.Err(err))
	metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
	return httperrors.ErrUpstream.WithCause(err)
}

// newProfile materializa un perfil nuevo a partir del evento.
func (e *engine) newProfile(ctx context.Context, ev Event, email string, acct *identity.Account) (*types.Profile, error) {
	now := e.now()
	first, last := ev.Provider.ExtractName(ev.Attributes)
	p := &types.Profile{
		ID:        acct.Subject,
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Email:     email,
		Age:       ev.Attributes.Age,
		Providers: []string{ev.Provider.Tag},
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	if ev.Attributes.DisplayName != "" {
		p.DisplayName = strings.TrimSpace(ev.Attributes.DisplayName)
	}
	if ev.Attributes.PhotoURL != "" {
		p.PhotoURL = strings.TrimSpace(ev.Attributes.PhotoURL)
	}
	if ev.Attributes.EmailVerified != nil {
		p.EmailVerified = *ev.Attributes.EmailVerified
	}
	if err := e.profiles.Save(ctx, p); err != nil {
		metrics.Reconciliations.WithLabelValues(ev.Provider.Tag, "upstream_error").Inc()
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	return p, nil
}

// merge aplica la regla de fusión no destructiva: un valor entrante solo
// sobrescribe si es un string no vacío tras trim o un valor no nulo;
// vacío/whitespace/nulo se descartan en silencio. updatedAt y lastLogin
// se renuevan siempre.
func (e *engine) merge(p *types.Profile, ev Event) {
	first, last := ev.Provider.ExtractName(ev.Attributes)
	setIfPresent(&p.FirstName, first)
	setIfPresent(&p.LastName, last)
	setIfPresent(&p.DisplayName, ev.Attributes.DisplayName)
	setIfPresent(&p.PhotoURL, ev.Attributes.PhotoURL)
	if age := ev.Attributes.Age; age != nil {
		p.Age = age
	}
	if ev.Attributes.EmailVerified != nil && *ev.Attributes.EmailVerified {
		// Un provider que afirma el email lo deja verificado; la afirmación
		// contraria nunca degrada un perfil ya verificado.
		p.EmailVerified = true
	}
	p.AddProvider(ev.Provider.Tag)

	now := e.now()
	p.UpdatedAt = now
	p.LastLogin = now
}

func setIfPresent(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}
