package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Loader fetches the source CSV over HTTP and turns it into a ranked
// candidate collection. The fetch is a single request with no retry
// policy; a failure surfaces directly as a load error.
type Loader struct {
	url        string
	client     *http.Client
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewLoader creates a loader for the given source URL. timeout bounds the
// whole fetch; pass zero to rely on the caller's context alone.
func NewLoader(url string, timeout time.Duration, labels StatusLabels, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		normalizer: NewNormalizer(labels),
		logger:     logger.With(slog.String("component", "dataset_loader")),
	}
}

// Load performs the fetch and parse. The returned collection is fully
// materialized, normalized and ranked, in source order.
func (l *Loader) Load(ctx context.Context) ([]Candidate, error) {
	start := time.Now()
	l.logger.InfoContext(ctx, "fetching source dataset", slog.String("url", l.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}

	candidates, err := l.normalizer.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("candidates", len(candidates)),
		slog.Duration("elapsed", time.Since(start)))

	return candidates, nil
}
