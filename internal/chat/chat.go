// Package chat answers visitor questions from the knowledge base and keeps
// per-session transcripts.
package chat

import (
	"supportbot/internal/format"
	"supportbot/internal/knowledge"
	"supportbot/internal/match"
	"supportbot/internal/models"
	"supportbot/internal/validation"
)

// Recorder receives question outcomes for analytics. Implementations must
// not block the caller.
type Recorder interface {
	RecordQuestion(entry, outcome string)
	RecordUnanswered(question string)
}

type nopRecorder struct{}

func (nopRecorder) RecordQuestion(string, string) {}
func (nopRecorder) RecordUnanswered(string)       {}

// Reply is the answer to one question.
type Reply struct {
	Result match.Result
	Answer string
}

// Service matches questions and formats answers.
type Service struct {
	store     *knowledge.Store
	formatter *format.Formatter
	recorder  Recorder
}

// NewService creates a chat service. A nil store answers every question
// with the fallback message; a nil recorder discards outcomes.
func NewService(store *knowledge.Store, formatter *format.Formatter, recorder Recorder) *Service {
	if store == nil {
		store = knowledge.Empty()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{store: store, formatter: formatter, recorder: recorder}
}

// Store returns the knowledge base the service answers from.
func (s *Service) Store() *knowledge.Store {
	return s.store
}

// Formatter returns the answer formatter.
func (s *Service) Formatter() *format.Formatter {
	return s.formatter
}

// Ask answers question and records the outcome.
func (s *Service) Ask(question string) Reply {
	res := match.Match(question, s.store)
	reply := Reply{Result: res, Answer: s.formatter.Format(res)}

	if res.Relevant {
		s.recorder.RecordQuestion(res.ID.String(), models.OutcomeAnswered)
	} else {
		s.recorder.RecordQuestion(models.FallbackEntry, models.OutcomeFallback)
		if q := validation.NormalizeQuestion(question); q != "" {
			s.recorder.RecordUnanswered(q)
		}
	}

	return reply
}

// Response converts a reply to its API form.
func (r Reply) Response() models.AskResponse {
	resp := models.AskResponse{
		Query:    r.Result.Query,
		Relevant: r.Result.Relevant,
		Score:    r.Result.Score,
		Answer:   r.Answer,
	}
	if r.Result.Relevant {
		resp.Category = r.Result.ID.Category
		resp.Key = r.Result.ID.Key
		resp.Title = r.Result.Entry.Title()
	}
	return resp
}

// Topics lists the knowledge base by category.
func (s *Service) Topics() []models.Topic {
	var topics []models.Topic
	for _, category := range s.store.Categories() {
		topic := models.Topic{Category: category}
		for _, e := range s.store.CategoryEntries(category) {
			topic.Entries = append(topic.Entries, models.TopicEntry{
				Key:      e.ID.Key,
				Title:    e.Title(),
				Keywords: e.Keywords,
			})
		}
		topics = append(topics, topic)
	}
	return topics
}
