package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"supportbot/internal/models"
)

var (
	questionsDesc = prometheus.NewDesc(
		"supportbot_questions_total",
		"Total questions asked by matched entry and outcome",
		[]string{"entry", "outcome"},
		nil,
	)
)

// Store persists question outcomes. *db.DB satisfies it.
type Store interface {
	IncrementQuestionLookup(ctx context.Context, entry, outcome string) error
	RecordUnansweredQuestion(ctx context.Context, question string) error
	GetAllQuestionLookups(ctx context.Context) ([]models.QuestionLookup, error)
}

// QuestionCollector is a custom Prometheus collector that reads question
// counts from the database on each scrape.
type QuestionCollector struct {
	store Store
}

// NewQuestionCollector creates a collector backed by store.
func NewQuestionCollector(store Store) *QuestionCollector {
	return &QuestionCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *QuestionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- questionsDesc
}

// Collect queries the database for all question lookups and emits them as counters.
func (c *QuestionCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.store.GetAllQuestionLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect question metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			questionsDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Entry,
			l.Outcome,
		)
	}
}

// Recorder provides async question outcome recording. Without a store,
// counts are kept in process only and unanswered questions are dropped.
type Recorder struct {
	store   Store
	counter *prometheus.CounterVec
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder and registers its collector with reg.
// store may be nil when no database is configured.
func NewRecorder(reg prometheus.Registerer, store Store) (*Recorder, error) {
	r := &Recorder{store: store}

	var c prometheus.Collector
	if store != nil {
		c = NewQuestionCollector(store)
	} else {
		r.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportbot_questions_total",
			Help: "Total questions asked by matched entry and outcome",
		}, []string{"entry", "outcome"})
		c = r.counter
	}

	if reg != nil {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordQuestion asynchronously records a question outcome.
func (r *Recorder) RecordQuestion(entry, outcome string) {
	if r.counter != nil {
		r.counter.WithLabelValues(entry, outcome).Inc()
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.IncrementQuestionLookup(context.Background(), entry, outcome); err != nil {
			slog.Error("failed to record question", "entry", entry, "outcome", outcome, "error", err)
		}
	}()
}

// RecordUnanswered asynchronously stores a question that matched nothing.
func (r *Recorder) RecordUnanswered(question string) {
	if r.store == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.RecordUnansweredQuestion(context.Background(), question); err != nil {
			slog.Error("failed to record unanswered question", "error", err)
		}
	}()
}

// Wait blocks until pending writes have finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
