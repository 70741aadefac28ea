package theme

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler re-applies auto mode on a fixed interval.
type Scheduler struct {
	svc      *Service
	logger   *slog.Logger
	onChange func(Mode)
	cron     *cron.Cron
}

// NewScheduler registers the periodic check. onChange, if set, is called after
// the mode flips.
func NewScheduler(svc *Service, interval time.Duration, logger *slog.Logger, onChange func(Mode)) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("theme check interval %s is below one second", interval)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		svc:      svc,
		logger:   logger,
		onChange: onChange,
		cron:     cron.New(),
	}

	if _, err := s.cron.AddFunc("@every "+interval.String(), s.Tick); err != nil {
		return nil, fmt.Errorf("scheduling theme check: %w", err)
	}

	return s, nil
}

// Tick runs one check.
func (s *Scheduler) Tick() {
	changed, err := s.svc.Apply(context.Background())
	if err != nil {
		s.logger.Error("failed to save theme settings", "error", err)
	}

	if changed {
		mode := s.svc.Mode()
		s.logger.Info("theme switched", "mode", mode)

		if s.onChange != nil {
			s.onChange(mode)
		}
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
