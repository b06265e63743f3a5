// Package scheduler pushes summary documents to users on a cron schedule,
// without them having to press the summary button.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	spec   string
	push   func(ctx context.Context) error
}

// New creates a scheduler firing on the given cron spec (UTC).
func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetPushFunction sets the job run on every tick.
func (s *Scheduler) SetPushFunction(f func(ctx context.Context) error) {
	s.push = f
}

func (s *Scheduler) Start() error {
	if s.push == nil {
		log.Println("push function not set, scheduler will not deliver summaries")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("scheduled summary push triggered (%s)", s.spec)
		if err := s.push(s.ctx); err != nil {
			log.Printf("scheduled summary push failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("scheduler started with spec %q", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("scheduler stopped")
}

// IsRunning reports whether any job is registered and started.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
