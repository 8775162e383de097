package services

import (
	"context"
	"time"

	"opotracker/internal/dataset"
)

// HealthStatus is the liveness/readiness report for the service.
type HealthStatus struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Candidates int       `json:"candidates"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	Uptime     string    `json:"uptime"`
}

// HealthService reports process and dataset health. The service is ready
// once the startup load has succeeded.
type HealthService struct {
	version   string
	store     *dataset.Store
	startedAt time.Time
}

// NewHealthService creates a health service for the given store.
func NewHealthService(version string, store *dataset.Store) *HealthService {
	return &HealthService{
		version:   version,
		store:     store,
		startedAt: time.Now(),
	}
}

// Status returns the current health report.
func (s *HealthService) Status(ctx context.Context) HealthStatus {
	status := "ok"
	if !s.store.Ready() {
		status = "loading"
	}
	return HealthStatus{
		Status:     status,
		Version:    s.version,
		Candidates: len(s.store.Snapshot()),
		LoadedAt:   s.store.LoadedAt(),
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
	}
}

// Ready reports whether a dataset snapshot is available.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.store.Ready()
}
