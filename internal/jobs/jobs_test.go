package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"supportbot/internal/models"
	"supportbot/internal/testutil"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	n       int64
	err     error
}

func (f *fakePruner) DeleteUnansweredQuestionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.n, f.err
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

type fakeDigest struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeDigest) SendUnansweredDigest(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 1, f.err
}

func (f *fakeDigest) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetentionJob_Prune(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakePruner{n: 3}

	j := NewRetentionJob(store, time.Hour, 90*24*time.Hour)
	j.now = func() time.Time { return now }

	if n := j.prune(context.Background()); n != 3 {
		t.Errorf("prune() = %d, want 3", n)
	}
	want := now.Add(-90 * 24 * time.Hour)
	if len(store.cutoffs) != 1 || !store.cutoffs[0].Equal(want) {
		t.Errorf("cutoffs = %v, want [%v]", store.cutoffs, want)
	}
}

func TestRetentionJob_PruneError(t *testing.T) {
	store := &fakePruner{err: errors.New("db down")}
	j := NewRetentionJob(store, time.Hour, time.Hour)

	if n := j.prune(context.Background()); n != 0 {
		t.Errorf("prune() = %d, want 0 on error", n)
	}
}

func TestRetentionJob_StartRunsImmediatelyAndStops(t *testing.T) {
	store := &fakePruner{}
	j := NewRetentionJob(store, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("retention job did not run on start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("retention job did not stop after cancel")
	}
}

func TestDigestJob_Ticks(t *testing.T) {
	sender := &fakeDigest{}
	j := NewDigestJob(sender, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sender.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("digest sent %d times, want at least 2", sender.count())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestDigestJob_SendErrorKeepsRunning(t *testing.T) {
	sender := &fakeDigest{err: errors.New("smtp refused")}
	j := NewDigestJob(sender, time.Hour)

	j.send(context.Background())
	j.send(context.Background())
	if sender.count() != 2 {
		t.Errorf("calls = %d, want 2", sender.count())
	}
}

func newTestLinkChecker(targets []LinkTarget) *LinkChecker {
	c := NewLinkChecker(targets, time.Hour)
	c.delay = 0
	// httptest servers listen on loopback.
	c.validate = func(string) (bool, string) { return true, "" }
	return c
}

func TestLinkTargets(t *testing.T) {
	store := testutil.KnowledgeStore(t, `
gmail:
  setup:
    keywords: [gmail]
    note: See https://support.google.com/mail for app passwords.
providers:
  yahoo:
    keywords: [yahoo]
    tips:
      - Check https://example.com/support first
`)

	got := LinkTargets(store,
		LinkTarget{URL: "https://example.com/support", Sources: []string{"support"}},
		LinkTarget{URL: "", Sources: []string{"docs"}},
	)
	want := []LinkTarget{
		{URL: "https://example.com/support", Sources: []string{"support", "providers.yahoo"}},
		{URL: "https://support.google.com/mail", Sources: []string{"gmail.setup"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LinkTargets() = %+v, want %+v", got, want)
	}
}

func TestLinkChecker_CheckAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestLinkChecker([]LinkTarget{
		{URL: srv.URL + "/ok", Sources: []string{"support"}},
		{URL: srv.URL + "/gone", Sources: []string{"issues.sync"}},
		{URL: srv.URL + "/get-only", Sources: []string{"docs"}},
		{URL: "http://127.0.0.1:1/closed", Sources: []string{"imap.requirements"}},
	})

	before := c.Results()
	for _, r := range before {
		if r.Status != models.HealthUnknown || r.CheckedAt != nil {
			t.Errorf("unchecked %s = %+v, want unknown", r.URL, r)
		}
	}

	results := c.CheckAll(context.Background())
	want := []string{models.HealthHealthy, models.HealthUnhealthy, models.HealthHealthy, models.HealthUnknown}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.Status != want[i] {
			t.Errorf("%s status = %q (%s), want %q", r.URL, r.Status, r.Error, want[i])
		}
		if r.CheckedAt == nil {
			t.Errorf("%s has no check time", r.URL)
		}
	}
	if results[1].Error != "HTTP 404" {
		t.Errorf("error = %q, want HTTP 404", results[1].Error)
	}
	if !results[1].IsUnhealthy() || !results[0].IsHealthy() {
		t.Error("status helpers disagree with Status")
	}
}

func TestLinkChecker_RefusesPrivateHosts(t *testing.T) {
	c := NewLinkChecker([]LinkTarget{{URL: "http://169.254.169.254/latest/meta-data"}}, time.Hour)

	results := c.CheckAll(context.Background())
	if results[0].Status != models.HealthUnhealthy {
		t.Errorf("status = %q, want unhealthy", results[0].Status)
	}
	if !strings.Contains(results[0].Error, "private") {
		t.Errorf("error = %q", results[0].Error)
	}
}

func TestLinkChecker_StopsOnCancel(t *testing.T) {
	c := newTestLinkChecker([]LinkTarget{{URL: "http://127.0.0.1:1/a"}, {URL: "http://127.0.0.1:1/b"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := c.CheckAll(ctx)
	for _, r := range results {
		if r.CheckedAt != nil {
			t.Errorf("%s was checked after cancel", r.URL)
		}
	}
}
