package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Run sends a digest on every tick of spec (standard 5-field cron) until ctx
// is cancelled. A failed run is logged and the schedule keeps going.
func Run(ctx context.Context, spec string, loc *time.Location, sender *Sender, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	id, err := c.AddFunc(spec, func() {
		report, err := sender.Send(ctx)
		if err != nil {
			logger.Error("scheduled digest failed", "failed", report.Failed, "err", err)
			return
		}
		logger.Info("scheduled digest sent", "sent", len(report.Sent))
	})
	if err != nil {
		return fmt.Errorf("parse digest cron %q: %w", spec, err)
	}

	c.Start()
	logger.Info("digest scheduler started", "cron", spec, "next", c.Entry(id).Next)

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("digest scheduler stopped")
	return nil
}
