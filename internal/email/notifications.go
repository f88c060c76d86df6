package email

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"supportbot/internal/config"
	"supportbot/internal/models"
)

// DigestStore reads and marks unanswered questions. *db.DB satisfies it.
type DigestStore interface {
	GetUndigestedQuestions(ctx context.Context, limit int) ([]models.UnansweredQuestion, error)
	MarkQuestionsDigested(ctx context.Context, ids []uuid.UUID) error
}

// Sender delivers a rendered email. *Service satisfies it.
type Sender interface {
	IsEnabled() bool
	SendEmail(to []string, subject, htmlBody, textBody string) error
}

// Notifier sends the unanswered question digest.
type Notifier struct {
	sender    Sender
	templates *Templates
	cfg       *config.Config
	db        DigestStore
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db DigestStore) *Notifier {
	return &Notifier{
		sender:    NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// IsEnabled returns true if SMTP is configured and the digest has recipients.
func (n *Notifier) IsEnabled() bool {
	return n.sender.IsEnabled() && len(n.cfg.DigestTo) > 0
}

// SendUnansweredDigest emails questions not yet included in a digest and
// marks them as sent. Returns the number of questions included.
func (n *Notifier) SendUnansweredDigest(ctx context.Context) (int, error) {
	if !n.IsEnabled() {
		return 0, nil
	}

	questions, err := n.db.GetUndigestedQuestions(ctx, n.cfg.DigestSize)
	if err != nil {
		return 0, fmt.Errorf("failed to get undigested questions: %w", err)
	}
	if len(questions) == 0 {
		return 0, nil
	}

	subject, htmlBody, textBody := n.templates.UnansweredDigest(questions, n.cfg.DigestInterval)
	if err := n.sender.SendEmail(n.cfg.DigestTo, subject, htmlBody, textBody); err != nil {
		return 0, fmt.Errorf("failed to send digest: %w", err)
	}

	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	if err := n.db.MarkQuestionsDigested(ctx, ids); err != nil {
		return len(questions), fmt.Errorf("failed to mark questions digested: %w", err)
	}

	log.Printf("Sent unanswered question digest to %v (%d questions)", n.cfg.DigestTo, len(questions))
	return len(questions), nil
}
