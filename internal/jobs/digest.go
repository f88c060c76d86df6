package jobs

import (
	"context"
	"log"
	"time"
)

// DigestSender sends one unanswered question digest. *email.Notifier
// satisfies it.
type DigestSender interface {
	SendUnansweredDigest(ctx context.Context) (int, error)
}

// DigestJob periodically emails the questions the bot could not answer.
type DigestJob struct {
	sender   DigestSender
	interval time.Duration
}

// NewDigestJob creates a new digest job.
func NewDigestJob(sender DigestSender, interval time.Duration) *DigestJob {
	return &DigestJob{sender: sender, interval: interval}
}

// Start begins the digest loop. The first digest goes out one interval
// after startup so restarts do not resend.
func (j *DigestJob) Start(ctx context.Context) {
	log.Printf("Digest job started (interval: %v)", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Digest job stopped")
			return
		case <-ticker.C:
			j.send(ctx)
		}
	}
}

func (j *DigestJob) send(ctx context.Context) {
	n, err := j.sender.SendUnansweredDigest(ctx)
	if err != nil {
		log.Printf("Digest job: %v", err)
		return
	}
	if n == 0 {
		log.Println("Digest job: no new unanswered questions")
	}
}
