package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Auth/reconciliation Prometheus metrics. Defined in a standalone package to
// avoid import cycles between services and HTTP packages.

var (
	Reconciliations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetpoint_reconciliations_total",
		Help: "Eventos de reconciliación de identidad por provider y resultado",
	}, []string{"provider", "outcome"})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetpoint_logins_total",
		Help: "Intentos de login por provider y resultado",
	}, []string{"provider", "outcome"})

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_rate_limited_total",
		Help: "Requests rechazados por el rate limiter",
	})

	CredentialVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetpoint_credential_verifications_total",
		Help: "Verificaciones de bearer token en el Request Gate por resultado",
	}, []string{"outcome"})
)

// Register registers the auth metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{Reconciliations, Logins, RateLimited, CredentialVerifications} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
