// Package http serves the unauthenticated meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"postcraft/internal/core/version"
	"postcraft/internal/modkit/httpkit"
)

const readyTimeout = 2 * time.Second

// Deps are what the meta handlers report on; PG and CH may be nil
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
}

type pinger interface{ Ping(context.Context) error }

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK            bool      `json:"ok"`
	Service       string    `json:"service"        example:"postcraft-api"`
	Started       time.Time `json:"started"`
	UptimeSeconds int64     `json:"uptime_seconds" example:"300"`
}

// ReadyCheck is one backend probe; Status is ok, fail, skipped or unknown
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is fail when any configured backend fails its ping
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// Register mounts health, ready and version
func Register(r httpkit.Router, d Deps) {
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", d.version)
}

// @Summary Liveness and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:            true,
		Service:       d.ServiceName,
		Started:       d.StartedAt.UTC(),
		UptimeSeconds: int64(time.Since(d.StartedAt).Seconds()),
	}, nil
}

// @Summary Readiness with a ping per configured backend
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: []ReadyCheck{probe(ctx, "pg", d.PG), probe(ctx, "ch", d.CH)}}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
		} else if c.Status == "unknown" && out.Status == "ok" {
			out.Status = "degraded"
		}
	}
	return out, nil
}

func probe(ctx context.Context, name string, backend any) ReadyCheck {
	if backend == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := backend.(pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (d Deps) version(*http.Request) (any, error) {
	return version.Info(d.ServiceName), nil
}
