package http

import (
	"context"
	"io"

	"opotracker/internal/dataset"
	"opotracker/internal/query"
	"opotracker/internal/services"
	"opotracker/internal/stats"
)

// DataService is the candidate-data surface consumed by the handlers.
type DataService interface {
	Candidates(ctx context.Context, state query.State) ([]dataset.Candidate, error)
	Sites(ctx context.Context) ([]string, error)
	Statuses(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (stats.Summary, error)
	SiteStats(ctx context.Context) ([]stats.Group, error)
	DayStats(ctx context.Context) ([]stats.Group, error)
	Export(ctx context.Context, w io.Writer, state query.State, format string) error
	Reload(ctx context.Context) (int, error)
}

// HealthService reports process and dataset health.
type HealthService interface {
	Status(ctx context.Context) services.HealthStatus
	Ready(ctx context.Context) bool
}
