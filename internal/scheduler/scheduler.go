package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"ZeroConfigAssistant/pkg/log"
	"ZeroConfigAssistant/pkg/metrics"
)

// Hook is a named periodic job. Spec uses the standard five field cron syntax.
type Hook struct {
	Name string
	Spec string
	Run  func(ctx context.Context, logger *logrus.Logger) error
}

const hookTimeout = 5 * time.Minute

// DefaultHooks are the background jobs of the assistant. Their bodies only log
// for now; sync, audit and cleanup targets do not exist yet.
func DefaultHooks() []Hook {
	return []Hook{
		{Name: "scheduled_sync", Spec: "0 * * * *", Run: logOnly("Running scheduled sync")},
		{Name: "security_audit", Spec: "0 0 * * *", Run: logOnly("Running security audit")},
		{Name: "cleanup", Spec: "0 2 * * 0", Run: logOnly("Running weekly cleanup")},
	}
}

func logOnly(msg string) func(context.Context, *logrus.Logger) error {
	return func(_ context.Context, logger *logrus.Logger) error {
		logger.Info(msg)
		return nil
	}
}

type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	metrics *metrics.Metrics
	hooks   map[string]Hook
}

func New(logger *logrus.Logger, m *metrics.Metrics, hooks []Hook) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		log:     logger,
		metrics: m,
		hooks:   make(map[string]Hook, len(hooks)),
	}

	for _, hook := range hooks {
		if _, dup := s.hooks[hook.Name]; dup {
			return nil, fmt.Errorf("duplicate hook %q", hook.Name)
		}

		if _, err := s.cron.AddFunc(hook.Spec, func() { s.run(hook) }); err != nil {
			return nil, fmt.Errorf("hook %q: invalid schedule %q: %w", hook.Name, hook.Spec, err)
		}
		s.hooks[hook.Name] = hook
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("hooks", len(s.hooks)).Info("[scheduler] started")
}

// Stop prevents new runs and waits for running hooks or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()

	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("[scheduler] stop timed out with hooks still running")
	}
}

// Trigger runs a hook immediately, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	hook, ok := s.hooks[name]
	if !ok {
		return fmt.Errorf("unknown hook %q", name)
	}
	return s.run(hook)
}

func (s *Scheduler) run(hook Hook) error {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	start := time.Now()
	err := hook.Run(ctx, s.log)

	s.metrics.RecordScheduledRun(hook.Name)

	fields := log.Fields{
		"hook":        hook.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.WithFields(fields).Error("[scheduler] hook failed")
		return err
	}

	s.log.WithFields(fields).Debug("[scheduler] hook finished")
	return nil
}
