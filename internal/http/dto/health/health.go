// Package health contiene DTOs para el health check.
package health

import "time"

// ComponentStatus es el estado de un componente individual.
type ComponentStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Message string `json:"message,omitempty"`
}

// Response es el cuerpo de GET /api/health. El endpoint responde 200
// siempre (liveness); el detalle por componente es informativo.
type Response struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}
