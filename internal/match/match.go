// Package match scores free-text questions against knowledge base entries.
//
// Scoring is a flat integer: each entry keyword found as a substring of the
// lower-cased question earns KeywordWeight, and a keyword equal to the whole
// trimmed question earns ExactBonus once on top. The first entry in store
// order with the highest score wins.
package match

import (
	"strings"

	"supportbot/internal/knowledge"
)

// Score weights.
const (
	KeywordWeight = 2
	ExactBonus    = 5
)

// Result is the outcome of matching one question.
type Result struct {
	Query    string
	ID       knowledge.ID // zero when not relevant
	Score    int
	Entry    *knowledge.Entry // nil when not relevant
	Relevant bool
}

// Match finds the best entry for query. A question that matches nothing
// yields a Result with Relevant false.
func Match(query string, store *knowledge.Store) Result {
	res := Result{Query: query}
	if store == nil {
		return res
	}

	lower := strings.ToLower(query)
	exact := strings.TrimSpace(lower)

	var best *knowledge.Entry
	bestScore := 0
	for _, e := range store.Entries() {
		if score := score(lower, exact, e); score > bestScore {
			bestScore = score
			best = e
		}
	}

	if best == nil {
		return res
	}
	res.ID = best.ID
	res.Score = bestScore
	res.Entry = best
	res.Relevant = true
	return res
}

// Score returns the relevance of a single entry for query.
func Score(query string, e *knowledge.Entry) int {
	lower := strings.ToLower(query)
	return score(lower, strings.TrimSpace(lower), e)
}

func score(lower, exact string, e *knowledge.Entry) int {
	total := 0
	bonus := false
	for _, kw := range e.Keywords {
		if kw == "" {
			continue
		}
		kw = strings.ToLower(kw)
		if strings.Contains(lower, kw) {
			total += KeywordWeight
		}
		if kw == exact {
			bonus = true
		}
	}
	if bonus {
		total += ExactBonus
	}
	return total
}
