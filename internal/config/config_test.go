package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_SECRET", "test-secret-0123456789")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if cfg.App.Env != "dev" || cfg.Server.Addr != ":8080" {
		t.Fatalf("defaults: env=%q addr=%q", cfg.App.Env, cfg.Server.Addr)
	}
	if cfg.Rate.Login.Limit != 5 || cfg.Rate.Login.Window != "5m" {
		t.Fatalf("rate defaults: %+v", cfg.Rate.Login)
	}
}

func TestLoad_NonPositiveRateLimitRejected(t *testing.T) {
	// El override de entorno corre después de los defaults: un límite en 0
	// o negativo debe cortarse en Validate, no llegar al limiter.
	for _, v := range []string{"0", "-3"} {
		t.Setenv("IDENTITY_SECRET", "test-secret-0123456789")
		t.Setenv("RATE_LOGIN_LIMIT", v)

		_, err := Load("")
		if err == nil || !strings.Contains(err.Error(), "rate.login.limit") {
			t.Fatalf("RATE_LOGIN_LIMIT=%s: err = %v, want rechazo", v, err)
		}
	}
}

func TestValidate_BypassRejectedInProd(t *testing.T) {
	t.Setenv("IDENTITY_SECRET", "test-secret-0123456789")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("RATE_BYPASS", "true")

	if _, err := Load(""); err == nil {
		t.Fatal("rate.bypass en prod debe rechazarse")
	}
}

func TestValidate_SecretRequired(t *testing.T) {
	t.Setenv("IDENTITY_SECRET", "")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "identity.secret") {
		t.Fatalf("err = %v, want identity.secret requerido", err)
	}
}
