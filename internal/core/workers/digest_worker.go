package workers

import (
	"context"
	"log"
	"sync/atomic"
)

type DigestSender interface {
	SendTo(ctx context.Context, userID string) (bool, error)
}

type DigestJob struct {
	UserID string
}

type DigestStats struct {
	Sent    int64
	Skipped int64
	Failed  int64
}

type DigestWorker struct {
	sender DigestSender
	jobs   chan DigestJob

	sent    atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

func NewDigestWorker(sender DigestSender, queueSize int) *DigestWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &DigestWorker{
		sender: sender,
		jobs:   make(chan DigestJob, queueSize),
	}
}

func (w *DigestWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Digest Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Digest Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks; a full queue drops the job and reports false.
func (w *DigestWorker) Enqueue(userID string) bool {
	select {
	case w.jobs <- DigestJob{UserID: userID}:
		return true
	default:
		log.Printf("Digest Worker queue full! Dropping job for user %s", userID)
		return false
	}
}

// EnqueueWait blocks until the job fits in the queue or ctx is done.
func (w *DigestWorker) EnqueueWait(ctx context.Context, userID string) error {
	select {
	case w.jobs <- DigestJob{UserID: userID}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DigestWorker) Stats() DigestStats {
	return DigestStats{
		Sent:    w.sent.Load(),
		Skipped: w.skipped.Load(),
		Failed:  w.failed.Load(),
	}
}

func (w *DigestWorker) processJob(ctx context.Context, job DigestJob) {
	sent, err := w.sender.SendTo(ctx, job.UserID)
	switch {
	case err != nil:
		w.failed.Add(1)
		log.Printf("[DIGEST] Failed for user %s: %v", job.UserID, err)
	case sent:
		w.sent.Add(1)
		log.Printf("[DIGEST] Sent to user %s", job.UserID)
	default:
		w.skipped.Add(1)
	}
}
