package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faizmokh/pacli/internal/events"
)

// Sender mails digests built from a store.
type Sender struct {
	Store      events.Loader
	Mailer     Mailer
	Recipients []string
	Owner      string
	Subject    string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Report describes one digest run.
type Report struct {
	Sent   []string
	Failed []string
}

// Send mails the public digest to each recipient and the full digest to the
// owner. Every address is attempted; failures are joined into one error.
func (s *Sender) Send(ctx context.Context) (Report, error) {
	var report Report
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	all, err := s.Store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load events for digest: %w", err)
	}
	if len(s.Recipients) == 0 && s.Owner == "" {
		logger.Warn("digest has no recipients or owner configured")
		return report, nil
	}

	var errs []error
	deliver := func(to string, d Digest) {
		if err := s.deliver(ctx, to, d); err != nil {
			logger.Error("digest delivery failed", "to", to, "err", err)
			report.Failed = append(report.Failed, to)
			errs = append(errs, err)
			return
		}
		report.Sent = append(report.Sent, to)
	}

	if len(s.Recipients) > 0 {
		public := Build(all, now, true, s.Subject)
		for _, to := range s.Recipients {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			deliver(to, public)
		}
	}
	if s.Owner != "" {
		deliver(s.Owner, Build(all, now, false, s.Subject))
	}

	return report, errors.Join(errs...)
}

func (s *Sender) deliver(ctx context.Context, to string, d Digest) error {
	html, err := HTML(d)
	if err != nil {
		return err
	}
	text, err := Text(d)
	if err != nil {
		return err
	}
	return s.Mailer.Send(ctx, to, d.Subject, html, text)
}
