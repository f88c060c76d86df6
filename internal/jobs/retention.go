package jobs

import (
	"context"
	"log"
	"time"
)

// QuestionPruner deletes stale unanswered questions. *db.DB satisfies it.
type QuestionPruner interface {
	DeleteUnansweredQuestionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionJob removes unanswered questions nobody has asked for a while.
type RetentionJob struct {
	store    QuestionPruner
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

// NewRetentionJob creates a new retention job.
func NewRetentionJob(store QuestionPruner, interval, maxAge time.Duration) *RetentionJob {
	return &RetentionJob{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Start begins the background pruning loop.
func (j *RetentionJob) Start(ctx context.Context) {
	log.Printf("Retention job started (interval: %v, maxAge: %v)", j.interval, j.maxAge)

	// Run immediately on start
	j.prune(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Retention job stopped")
			return
		case <-ticker.C:
			j.prune(ctx)
		}
	}
}

func (j *RetentionJob) prune(ctx context.Context) int64 {
	cutoff := j.now().Add(-j.maxAge)
	n, err := j.store.DeleteUnansweredQuestionsBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Retention job: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Retention job: removed %d questions last asked before %s", n, cutoff.Format(time.RFC3339))
	}
	return n
}
