package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Second

// Sweeper expires lapsed holds and reports how many it touched.
type Sweeper interface {
	Sweep(ctx context.Context) int64
}

// Scheduler runs the hold sweep on a cron schedule. Reads and writes sweep
// on their own, so the schedule only keeps storage tidy between requests.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewScheduler registers the sweep under schedule, which accepts standard
// five-field cron expressions and descriptors such as "@every 1m".
func NewScheduler(schedule string, sweeper Sweeper, loc *time.Location, log *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	log = log.With(zap.String("job", "sweep_expired_holds"))
	cl := cronLogger{log: log.Sugar()}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if n := sweeper.Sweep(ctx); n > 0 {
			log.Info("Scheduled sweep expired holds", zap.Int64("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register sweep schedule %q: %w", schedule, err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running sweep to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("Starting cron scheduler")
	s.cron.Start()

	<-ctx.Done()

	s.log.Info("Stopping cron scheduler")
	<-s.cron.Stop().Done()
	return nil
}

// cronLogger adapts zap to cron's logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
