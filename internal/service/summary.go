package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jjenkins/countries/internal/model"
	"github.com/jjenkins/countries/internal/templates"
)

const (
	SummaryFileName = "summary.svg"
	summaryTopN     = 5

	// ISO-8601 UTC with milliseconds
	summaryTimeLayout = "2006-01-02T15:04:05.000Z"
)

// SummaryStore is the read side the summary image is computed from
type SummaryStore interface {
	CountCountries(ctx context.Context) (int, error)
	TopByEstimatedGDP(ctx context.Context, n int) ([]model.Country, error)
}

// SummaryGenerator renders the summary image from current store contents
type SummaryGenerator struct {
	store SummaryStore
	path  string
}

// NewSummaryGenerator creates a generator writing into cacheDir
func NewSummaryGenerator(store SummaryStore, cacheDir string) *SummaryGenerator {
	return &SummaryGenerator{
		store: store,
		path:  filepath.Join(cacheDir, SummaryFileName),
	}
}

// Path returns where the summary image is written
func (g *SummaryGenerator) Path() string {
	return g.path
}

// Generate renders the summary for the cycle at refreshedAt and replaces any
// previous image
func (g *SummaryGenerator) Generate(ctx context.Context, refreshedAt time.Time) error {
	total, err := g.store.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}

	top, err := g.store.TopByEstimatedGDP(ctx, summaryTopN)
	if err != nil {
		return fmt.Errorf("failed to get top countries: %w", err)
	}

	data := templates.SummaryData{
		TotalCountries: total,
		Top:            make([]templates.SummaryRow, len(top)),
		LastUpdated:    refreshedAt.UTC().Format(summaryTimeLayout),
	}
	for i, c := range top {
		gdp := "0.00"
		if c.EstimatedGDP.Valid {
			gdp = strconv.FormatFloat(c.EstimatedGDP.Float64, 'f', 2, 64)
		}
		data.Top[i] = templates.SummaryRow{Rank: i + 1, Name: c.Name, GDP: gdp}
	}

	return g.write(ctx, data)
}

// write renders into a temp file in the same directory and renames it over
// the old image so readers never see a partial file
func (g *SummaryGenerator) write(ctx context.Context, data templates.SummaryData) error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.svg")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := templates.Summary(data).Render(ctx, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set summary permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), g.path); err != nil {
		return fmt.Errorf("failed to replace summary: %w", err)
	}

	return nil
}
