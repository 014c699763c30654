package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gamespace/internal/rooms"
	"gamespace/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefreshJob refetches today's availability, stores it in the cache and
// pushes it to the hub
type RefreshJob struct {
	rooms rooms.Service
	hub   *Hub
	now   func() time.Time

	// one refresh at a time; a tick that finds one running is skipped
	running sync.Mutex
}

func NewRefreshJob(roomService rooms.Service, hub *Hub) *RefreshJob {
	return &RefreshJob{rooms: roomService, hub: hub, now: time.Now}
}

func (j *RefreshJob) Run(ctx context.Context) error {
	if !j.running.TryLock() {
		return nil
	}
	defer j.running.Unlock()

	date := rooms.Today(j.now())
	avail, err := j.rooms.RefreshAvailability(ctx, date)
	if avail == nil && err != nil {
		return fmt.Errorf("refresh job: failed to fetch availability for %s: %w", date, err)
	}
	if err != nil {
		// fetched but not cached; still worth pushing
		logger.GetDefault().ErrorWithContext(ctx, "Refresh job: failed to cache availability", err, nil)
	}

	if err := j.hub.Broadcast(Message{Type: MessageAvailability, Date: date, Rooms: avail, UpdatedAt: j.now().UTC()}); err != nil {
		return fmt.Errorf("refresh job: failed to broadcast: %w", err)
	}
	return nil
}

// Scheduler runs the refresh job on a cron spec
type Scheduler struct {
	cron *cron.Cron
	job  *RefreshJob
}

func NewScheduler(job *RefreshJob, spec string) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	s := &Scheduler{cron: c, job: job}
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid refresh spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.job.Run(ctx); err != nil {
		logger.GetDefault().WithError(err).Error("Availability refresh failed")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running refresh to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
