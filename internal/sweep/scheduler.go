package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedule values used when configuration leaves them unset.
const (
	DefaultInterval     = time.Minute
	DefaultInitialDelay = 10 * time.Second

	// runTimeout bounds a single sweep so a stuck store cannot pile up
	// overlapping runs.
	runTimeout = 30 * time.Second
)

// Sweeper is the orchestrator surface the scheduler drives.
type Sweeper interface {
	SweepEnergySaving(ctx context.Context) (int, error)
}

// Logger defines the logging interface used by the scheduler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Scheduler runs the energy-saving sweep on a fixed recurring interval
// after an initial startup delay. The delay keeps the first sweep from
// racing service startup: adapters, handlers and the notification channel
// are all wired before any lights get turned off.
type Scheduler struct {
	sweeper      Sweeper
	interval     time.Duration
	initialDelay time.Duration
	cron         *cron.Cron
	logger       Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewScheduler creates a sweep scheduler. Non-positive interval or delay
// fall back to the defaults.
func NewScheduler(sweeper Sweeper, interval, initialDelay time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if initialDelay < 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Scheduler{
		sweeper:      sweeper,
		interval:     interval,
		initialDelay: initialDelay,
		cron:         cron.New(cron.WithSeconds()),
		logger:       noopLogger{},
		done:         make(chan struct{}),
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (s *Scheduler) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	s.logger = l
}

// Start begins the sweep schedule: one run after the initial delay, then
// one per interval. Start returns immediately; runs happen on background
// goroutines until Stop is called or ctx ends. Calling Start again is a
// no-op: the schedule is registered exactly once.
func (s *Scheduler) Start(ctx context.Context) error {
	var startErr error
	s.startOnce.Do(func() {
		spec := fmt.Sprintf("@every %s", s.interval)
		if _, err := s.cron.AddFunc(spec, func() { s.run() }); err != nil {
			startErr = fmt.Errorf("scheduling sweep every %s: %w", s.interval, err)
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel

		go func() {
			defer close(s.done)

			timer := time.NewTimer(s.initialDelay)
			defer timer.Stop()

			select {
			case <-runCtx.Done():
				return
			case <-timer.C:
			}

			s.run()
			s.cron.Start()
			<-runCtx.Done()
			<-s.cron.Stop().Done()
		}()

		s.logger.Info("energy saving sweep scheduled",
			"interval", s.interval,
			"initial_delay", s.initialDelay,
		)
	})
	return startErr
}

// Stop halts the schedule and waits for any in-flight sweep to finish.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
		s.logger.Info("energy saving sweep stopped")
	})
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	count, err := s.sweeper.SweepEnergySaving(ctx)
	if err != nil {
		s.logger.Warn("energy saving sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("energy saving sweep complete", "lights_off", count)
		return
	}
	s.logger.Debug("energy saving sweep found nothing to do")
}
