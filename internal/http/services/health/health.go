// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	dto "github.com/dropDatabas3/meetpoint/internal/http/dto/health"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// Service define las operaciones de health check.
type Service interface {
	Check(ctx context.Context) dto.Response
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreCheck func(ctx context.Context) error // ping al document store
	CacheCheck func(ctx context.Context) error // ping al cache, opcional
}

type service struct {
	deps Deps
}

// NewService crea un nuevo service de health check.
func NewService(d Deps) Service {
	return &service{deps: d}
}

const componentHealth = "health"

func (s *service) Check(ctx context.Context) dto.Response {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	resp := dto.Response{
		Status:     "ok",
		Components: make(map[string]dto.ComponentStatus),
		Timestamp:  time.Now().UTC(),
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		resp.Version = v
	}

	if s.deps.StoreCheck != nil {
		if err := s.deps.StoreCheck(ctx); err != nil {
			resp.Components["store"] = dto.ComponentStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			resp.Status = "degraded"
			log.Warn("store check failed", logger.Err(err))
		} else {
			resp.Components["store"] = dto.ComponentStatus{Status: "ok"}
		}
	}
	if s.deps.CacheCheck != nil {
		if err := s.deps.CacheCheck(ctx); err != nil {
			resp.Components["cache"] = dto.ComponentStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			resp.Status = "degraded"
			log.Warn("cache check failed", logger.Err(err))
		} else {
			resp.Components["cache"] = dto.ComponentStatus{Status: "ok"}
		}
	}
	return resp
}
