// Package config carga la configuración desde config.yaml y la pisa con
// variables de entorno. El YAML es la base declarativa; el entorno manda.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		// TrustProxy habilita X-Forwarded-For para resolver la IP del
		// cliente. Solo detrás de un proxy que sobrescriba el header.
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		Postgres struct {
			DSN      string `yaml:"dsn"`
			MaxConns int    `yaml:"max_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Driver string `yaml:"driver"`
		Prefix string `yaml:"prefix"`
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Identity struct {
		Secret    string `yaml:"secret"`
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
		// TTL del cache token->subject del Request Gate.
		VerifyCacheTTL string `yaml:"verify_cache_ttl"`
	} `yaml:"identity"`

	Rate struct {
		// memory | redis. Redis comparte contadores entre instancias;
		// memory es por proceso.
		Driver string `yaml:"driver"`
		Login  struct {
			Limit  int64  `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		// Bypass solo fuera de prod; Validate lo rechaza en prod.
		Bypass bool `yaml:"bypass"`
	} `yaml:"rate"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		// none | starttls | tls
		TLSMode string `yaml:"tls_mode"`
	} `yaml:"smtp"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load lee el YAML (si existe), aplica defaults y pisa con el entorno.
// Un path vacío o inexistente no es error: queda config por defecto.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, err
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "meetpoint"
	}
	if c.Identity.Issuer == "" {
		c.Identity.Issuer = "meetpoint"
	}
	if c.Identity.AccessTTL == "" {
		c.Identity.AccessTTL = "1h"
	}
	if c.Identity.VerifyCacheTTL == "" {
		c.Identity.VerifyCacheTTL = "1m"
	}
	if c.Rate.Driver == "" {
		c.Rate.Driver = "memory"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 5
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "5m"
	}
	if c.SMTP.TLSMode == "" {
		c.SMTP.TLSMode = "starttls"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsProd indica si corre en producción.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// Duration parsea un campo de duración ya validado.
func Duration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}

// Validate rechaza combinaciones inválidas antes de arrancar.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return errors.New("config: storage.postgres.dsn required for driver postgres")
		}
	default:
		return errors.New("config: unknown storage driver " + c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("config: cache.redis.addr required for driver redis")
		}
	default:
		return errors.New("config: unknown cache driver " + c.Cache.Driver)
	}
	if c.Identity.Secret == "" {
		return errors.New("config: identity.secret required")
	}
	if c.IsProd() && c.Rate.Bypass {
		return errors.New("config: rate.bypass is not allowed in prod")
	}
	switch c.Rate.Driver {
	case "", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("config: cache.redis.addr required for rate driver redis")
		}
	default:
		return errors.New("config: unknown rate driver " + c.Rate.Driver)
	}
	if c.Rate.Login.Limit <= 0 {
		return errors.New("config: rate.login.limit must be positive")
	}
	if _, err := time.ParseDuration(c.Rate.Login.Window); err != nil {
		return errors.New("config: invalid rate.login.window")
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvBool("SERVER_TRUST_PROXY"); ok {
		c.Server.TrustProxy = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("POSTGRES_DSN"); ok {
		c.Storage.Postgres.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_DRIVER"); ok {
		c.Cache.Driver = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// IDENTITY
	if v, ok := getEnvStr("IDENTITY_SECRET"); ok {
		c.Identity.Secret = v
	}
	if v, ok := getEnvStr("IDENTITY_ISSUER"); ok {
		c.Identity.Issuer = v
	}
	if v, ok := getEnvStr("IDENTITY_ACCESS_TTL"); ok {
		c.Identity.AccessTTL = v
	}

	// RATE
	if v, ok := getEnvStr("RATE_DRIVER"); ok {
		c.Rate.Driver = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = int64(v)
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvBool("RATE_BYPASS"); ok {
		c.Rate.Bypass = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS_MODE"); ok {
		c.SMTP.TLSMode = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}
