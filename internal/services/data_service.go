package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"opotracker/internal/dataset"
	"opotracker/internal/exporter"
	"opotracker/internal/query"
	"opotracker/internal/stats"
)

// Export formats accepted by DataService.Export.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DataService exposes the candidate views consumed by the transport layer:
// the filtered/sorted table, the filter option sets, the aggregates and the
// export serializations. All views derive from the store's current
// snapshot.
type DataService struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewDataService creates the data service on top of the dataset store.
func NewDataService(store *dataset.Store, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:  store,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// Candidates returns the view for the given query state.
func (s *DataService) Candidates(ctx context.Context, state query.State) ([]dataset.Candidate, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(snapshot, state), nil
}

// Sites returns the site filter options.
func (s *DataService) Sites(ctx context.Context) ([]string, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.DistinctSites(snapshot), nil
}

// Statuses returns the provisional status filter options.
func (s *DataService) Statuses(ctx context.Context) ([]string, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return query.DistinctStatuses(snapshot), nil
}

// Summary returns the global aggregates over the full dataset, independent
// of any table filters.
func (s *DataService) Summary(ctx context.Context) (stats.Summary, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(snapshot), nil
}

// SiteStats returns per-site aggregates, largest sites first.
func (s *DataService) SiteStats(ctx context.Context) ([]stats.Group, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.BySite(snapshot), nil
}

// DayStats returns per-day aggregates ordered by day label.
func (s *DataService) DayStats(ctx context.Context) ([]stats.Group, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ByDay(snapshot), nil
}

// Export serializes the view for the given state to w in the requested
// format.
func (s *DataService) Export(ctx context.Context, w io.Writer, state query.State, format string) error {
	view, err := s.Candidates(ctx, state)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "exporting candidate view",
		slog.String("format", format),
		slog.Int("records", len(view)))

	switch format {
	case FormatCSV:
		return exporter.WriteCSV(w, view, exporter.CSVOptions{BOMPrefix: true})
	case FormatXLSX:
		return exporter.WriteXLSX(w, view)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Reload fetches a fresh dataset and replaces the current snapshot. Every
// derived view recomputes from the new collection.
func (s *DataService) Reload(ctx context.Context) (int, error) {
	n, err := s.store.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload dataset: %w", err)
	}
	return n, nil
}

func (s *DataService) snapshot(ctx context.Context) ([]dataset.Candidate, error) {
	if !s.store.Ready() {
		s.logger.WarnContext(ctx, "dataset requested before first load")
		return nil, ErrNoDataset
	}
	return s.store.Snapshot(), nil
}
