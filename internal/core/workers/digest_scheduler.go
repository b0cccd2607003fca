package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type RecipientLister interface {
	Recipients(ctx context.Context) ([]*domain.User, error)
}

// DigestScheduler fans the daily digest out to every recipient once per day,
// at or after SendHour in CentralStandardTime.
type DigestScheduler struct {
	recipients RecipientLister
	worker     *DigestWorker
	clock      domain.Clock
	sendHour   int
	interval   time.Duration

	mu      sync.Mutex
	lastRun string
}

func NewDigestScheduler(recipients RecipientLister, worker *DigestWorker, clock domain.Clock, sendHour int, interval time.Duration) *DigestScheduler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &DigestScheduler{
		recipients: recipients,
		worker:     worker,
		clock:      clock,
		sendHour:   sendHour,
		interval:   interval,
	}
}

func (s *DigestScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("Digest Scheduler started (daily at %02d:00 CST)", s.sendHour)
		for {
			select {
			case <-ticker.C:
				s.tick(ctx)
			case <-ctx.Done():
				log.Println("Digest Scheduler shutting down...")
				return
			}
		}
	}()
}

func (s *DigestScheduler) tick(ctx context.Context) {
	now := s.clock.Now().In(domain.CentralStandardTime)
	if now.Hour() < s.sendHour {
		return
	}

	today := now.Format(domain.DateLayout)

	s.mu.Lock()
	if s.lastRun == today {
		s.mu.Unlock()
		return
	}
	s.lastRun = today
	s.mu.Unlock()

	n, err := s.RunOnce(ctx)
	if err != nil {
		log.Printf("[DIGEST] Scheduled run for %s failed: %v", today, err)
		s.mu.Lock()
		s.lastRun = ""
		s.mu.Unlock()
		return
	}
	log.Printf("[DIGEST] Scheduled run for %s queued %d digests", today, n)
}

// RunOnce queues a digest job for every eligible recipient and returns how
// many jobs were accepted. It waits for queue space, so a run either reaches
// every recipient or fails with the context error.
func (s *DigestScheduler) RunOnce(ctx context.Context) (int, error) {
	users, err := s.recipients.Recipients(ctx)
	if err != nil {
		return 0, fmt.Errorf("digest scheduler: list recipients: %w", err)
	}

	queued := 0
	for _, u := range users {
		if !u.CanReceiveDigest() {
			continue
		}
		if err := s.worker.EnqueueWait(ctx, u.ID); err != nil {
			return queued, fmt.Errorf("digest scheduler: queued %d of %d: %w", queued, len(users), err)
		}
		queued++
	}
	return queued, nil
}
