package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/countries/internal/metrics"
	"github.com/jjenkins/countries/internal/model"
)

// CountryFetcher returns the upstream country list
type CountryFetcher interface {
	FetchCountries(ctx context.Context) ([]model.ExternalCountry, error)
}

// RateFetcher returns the upstream currency code -> rate table
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// CountryUpserter persists one country keyed by name
type CountryUpserter interface {
	UpsertCountry(ctx context.Context, c *model.Country) error
}

// Summarizer regenerates the summary image for a cycle
type Summarizer interface {
	Generate(ctx context.Context, refreshedAt time.Time) error
}

// RefreshStats tracks the outcome of one refresh cycle
type RefreshStats struct {
	CycleID     string
	RefreshedAt time.Time
	Total       int
	Upserted    int
	Skipped     int
	Failed      int
	SummaryErr  error
}

// Refresher runs refresh cycles: fetch, join, derive, upsert, summarize.
// Cycles are serialized so every record written by one cycle carries that
// cycle's timestamp.
type Refresher struct {
	countries CountryFetcher
	rates     RateFetcher
	store     CountryUpserter
	summary   Summarizer
	metrics   *metrics.Registry
	logger    logrus.FieldLogger
	rng       RandomSource
	now       func() time.Time

	mu sync.Mutex
}

// RefresherOption customizes a Refresher
type RefresherOption func(*Refresher)

// WithRandom sets the source of the GDP multiplier
func WithRandom(rng RandomSource) RefresherOption {
	return func(r *Refresher) { r.rng = rng }
}

// WithClock sets the clock the cycle timestamp is read from
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) { r.now = now }
}

func WithLogger(logger logrus.FieldLogger) RefresherOption {
	return func(r *Refresher) { r.logger = logger }
}

func WithMetrics(m *metrics.Registry) RefresherOption {
	return func(r *Refresher) { r.metrics = m }
}

// NewRefresher creates a new Refresher
func NewRefresher(countries CountryFetcher, rates RateFetcher, store CountryUpserter, summary Summarizer, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		countries: countries,
		rates:     rates,
		store:     store,
		summary:   summary,
		logger:    logrus.StandardLogger(),
		rng:       globalRandom{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewRegistry()
	}
	return r
}

// Refresh runs one complete cycle. Upstream failures are returned as
// *UpstreamFetchError; a metadata failure means the rate source is never
// contacted.
func (r *Refresher) Refresh(ctx context.Context) (*RefreshStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	stats, err := r.refresh(ctx)
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		r.metrics.RefreshCycles.WithLabelValues("success").Inc()
		r.metrics.LastRefresh.Set(float64(stats.RefreshedAt.Unix()))
	case isUpstream(err):
		r.metrics.RefreshCycles.WithLabelValues("upstream_error").Inc()
	default:
		r.metrics.RefreshCycles.WithLabelValues("error").Inc()
	}

	return stats, err
}

func (r *Refresher) refresh(ctx context.Context) (*RefreshStats, error) {
	r.logger.Info("Fetching countries from metadata source...")
	countries, err := r.countries.FetchCountries(ctx)
	if err != nil {
		r.metrics.UpstreamFailures.WithLabelValues(string(SourceMetadata)).Inc()
		return nil, upstreamError(SourceMetadata, err)
	}

	r.logger.Info("Fetching exchange rates from rate source...")
	rates, err := r.rates.FetchRates(ctx)
	if err != nil {
		r.metrics.UpstreamFailures.WithLabelValues(string(SourceRates)).Inc()
		return nil, upstreamError(SourceRates, err)
	}

	// Postgres keeps microseconds; truncating keeps the in-memory timestamp
	// equal to what is read back
	stats := &RefreshStats{
		CycleID:     uuid.NewString(),
		RefreshedAt: r.now().UTC().Truncate(time.Microsecond),
		Total:       len(countries),
	}
	log := r.logger.WithField("cycle_id", stats.CycleID)
	log.Infof("Found %d countries and %d rates to process", len(countries), len(rates))

	attempted := 0
	for idx, ext := range countries {
		select {
		case <-ctx.Done():
			return stats, fmt.Errorf("refresh cancelled: %w", ctx.Err())
		default:
		}

		if ext.Name == "" || ext.Population < 0 {
			log.WithField("index", idx).Warnf("Skipping country %q: missing name or negative population", ext.Name)
			stats.Skipped++
			continue
		}

		country := BuildCountry(ext, rates, r.rng, stats.RefreshedAt)
		attempted++

		// Best effort: a failed row keeps its previous timestamp and the cycle
		// carries on without rollback
		if err := r.store.UpsertCountry(ctx, &country); err != nil {
			log.WithError(err).WithField("country", ext.Name).Error("Failed to upsert country")
			r.metrics.Upserts.WithLabelValues("failed").Inc()
			stats.Failed++
			continue
		}

		r.metrics.Upserts.WithLabelValues("ok").Inc()
		stats.Upserted++
	}

	if attempted > 0 && stats.Upserted == 0 {
		return stats, fmt.Errorf("failed to upsert any of %d countries", attempted)
	}

	if err := r.summary.Generate(ctx, stats.RefreshedAt); err != nil {
		log.WithError(err).Error("Failed to generate summary image")
		r.metrics.SummaryFailures.Inc()
		stats.SummaryErr = err
	}

	return stats, nil
}

// PrintSummary logs the refresh statistics
func (r *Refresher) PrintSummary(stats *RefreshStats) {
	r.logger.Info("=== Refresh Summary ===")
	r.logger.Infof("Cycle:           %s", stats.CycleID)
	r.logger.Infof("Refreshed at:    %s", stats.RefreshedAt.Format(time.RFC3339))
	r.logger.Infof("Total countries: %d", stats.Total)
	r.logger.Infof("Upserted:        %d", stats.Upserted)
	r.logger.Infof("Skipped:         %d", stats.Skipped)
	r.logger.Infof("Failed:          %d", stats.Failed)
	if stats.SummaryErr != nil {
		r.logger.Warnf("Summary image:   failed (%v)", stats.SummaryErr)
	} else {
		r.logger.Info("Summary image:   generated")
	}
}
