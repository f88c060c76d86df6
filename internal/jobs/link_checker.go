package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"supportbot/internal/knowledge"
	"supportbot/internal/models"
	"supportbot/internal/validation"
)

// LinkTarget is a URL to check and where the bot shows it.
type LinkTarget struct {
	URL     string
	Sources []string
}

// LinkTargets merges the configured links with every URL mentioned in the
// knowledge base. A URL appears once, carrying all of its sources.
func LinkTargets(store *knowledge.Store, configured ...LinkTarget) []LinkTarget {
	var targets []LinkTarget
	index := make(map[string]int)

	add := func(url string, sources ...string) {
		if url == "" {
			return
		}
		i, ok := index[url]
		if !ok {
			i = len(targets)
			index[url] = i
			targets = append(targets, LinkTarget{URL: url})
		}
		targets[i].Sources = append(targets[i].Sources, sources...)
	}

	for _, t := range configured {
		add(t.URL, t.Sources...)
	}
	for _, l := range store.Links() {
		for _, id := range l.Entries {
			add(l.URL, id.String())
		}
	}
	return targets
}

// LinkChecker periodically checks that the links shown to visitors still
// respond. Results are kept in memory and shown on the admin dashboard.
type LinkChecker struct {
	targets  []LinkTarget
	interval time.Duration
	delay    time.Duration
	client   *http.Client
	validate func(string) (bool, string)

	mu      sync.RWMutex
	results map[string]models.LinkStatus
}

// NewLinkChecker creates a new link checker.
func NewLinkChecker(targets []LinkTarget, interval time.Duration) *LinkChecker {
	return &LinkChecker{
		targets:  targets,
		interval: interval,
		delay:    time.Second,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		validate: validation.ValidateURLForLinkCheck,
		results:  make(map[string]models.LinkStatus),
	}
}

// Start begins the background check loop.
func (c *LinkChecker) Start(ctx context.Context) {
	log.Printf("Link checker started (interval: %v, links: %d)", c.interval, len(c.targets))

	// Run immediately on start
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Link checker stopped")
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll checks every target and returns the updated statuses.
func (c *LinkChecker) CheckAll(ctx context.Context) []models.LinkStatus {
	unhealthy := 0
	for i, t := range c.targets {
		if i > 0 && c.delay > 0 {
			// Delay between checks to avoid overwhelming external servers
			select {
			case <-ctx.Done():
				return c.Results()
			case <-time.After(c.delay):
			}
		}
		if ctx.Err() != nil {
			return c.Results()
		}

		status, errMsg := c.checkURL(ctx, t.URL)
		if status == models.HealthUnhealthy {
			unhealthy++
			log.Printf("Link checker: %s is unhealthy: %s", t.URL, errMsg)
		}

		now := time.Now()
		c.mu.Lock()
		c.results[t.URL] = models.LinkStatus{
			URL:       t.URL,
			Sources:   t.Sources,
			Status:    status,
			Error:     errMsg,
			CheckedAt: &now,
		}
		c.mu.Unlock()
	}

	if unhealthy > 0 {
		log.Printf("Link checker: %d of %d links unhealthy", unhealthy, len(c.targets))
	}
	return c.Results()
}

// Results returns the last known status of every target, in target order.
// Targets not yet checked are reported as unknown.
func (c *LinkChecker) Results() []models.LinkStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.LinkStatus, 0, len(c.targets))
	for _, t := range c.targets {
		if r, ok := c.results[t.URL]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, models.LinkStatus{URL: t.URL, Sources: t.Sources, Status: models.HealthUnknown})
	}
	return out
}

// checkURL sends a HEAD request, retrying with GET when HEAD is not allowed.
// Connection failures are unknown rather than unhealthy since they are often
// transient.
func (c *LinkChecker) checkURL(ctx context.Context, url string) (string, string) {
	if valid, msg := c.validate(url); !valid {
		return models.HealthUnhealthy, msg
	}

	resp, err := c.request(ctx, http.MethodHead, url)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = c.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		return models.HealthUnknown, "connection failed: " + err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return models.HealthUnhealthy, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return models.HealthHealthy, ""
}

func (c *LinkChecker) request(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "SupportBot-LinkChecker/1.0")
	return c.client.Do(req)
}
