package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshRunner runs one refresh cycle
type RefreshRunner interface {
	Refresh(ctx context.Context) (*RefreshStats, error)
}

// NewScheduler returns a cron (not yet started) that triggers a refresh on
// the given schedule. Failed scheduled cycles are logged and left for the
// next tick.
func NewScheduler(schedule string, runner RefreshRunner, logger logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		stats, err := runner.Refresh(context.Background())
		if err != nil {
			entry := logger.WithError(err)
			var ue *UpstreamFetchError
			if errors.As(err, &ue) {
				entry = entry.WithField("source", ue.Source)
			}
			entry.Warn("Scheduled refresh failed")
			return
		}
		logger.WithField("cycle_id", stats.CycleID).Infof("Scheduled refresh upserted %d countries", stats.Upserted)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	return c, nil
}
