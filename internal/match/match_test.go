package match

import (
	"strings"
	"testing"

	"supportbot/internal/knowledge"
)

func mustStore(t *testing.T, entries ...knowledge.Entry) *knowledge.Store {
	t.Helper()
	s, err := knowledge.NewStore(entries)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func entry(category, key string, keywords ...string) knowledge.Entry {
	return knowledge.Entry{
		ID:       knowledge.ID{Category: category, Key: key},
		Keywords: keywords,
	}
}

func TestMatch_OfficeScenario(t *testing.T) {
	store := mustStore(t,
		entry("office365", "user_login", "office 365", "o365"),
		entry("imap", "requirements", "imap"),
	)

	res := Match("How do I set up o365?", store)

	if !res.Relevant {
		t.Fatal("expected a relevant match")
	}
	if res.ID.String() != "office365.user_login" {
		t.Errorf("ID = %q, want office365.user_login", res.ID)
	}
	if res.Score < 2 {
		t.Errorf("Score = %d, want >= 2", res.Score)
	}
	if res.Entry == nil || res.Entry.ID != res.ID {
		t.Errorf("Entry = %+v, want entry for %v", res.Entry, res.ID)
	}
}

func TestMatch_NoOverlap(t *testing.T) {
	store := mustStore(t,
		entry("office365", "user_login", "office 365", "o365"),
		entry("imap", "requirements", "imap"),
	)

	res := Match("banana smoothie recipe", store)

	if res.Relevant {
		t.Fatalf("expected no match, got %v score %d", res.ID, res.Score)
	}
	if res.Entry != nil {
		t.Error("Entry should be nil when not relevant")
	}
	if res.ID != (knowledge.ID{}) {
		t.Errorf("ID = %v, want zero", res.ID)
	}
	if res.Query != "banana smoothie recipe" {
		t.Errorf("Query = %q, want original query", res.Query)
	}
}

func TestMatch_ExactBonus(t *testing.T) {
	store := mustStore(t, entry("providers", "yahoo", "yahoo"))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"exact keyword", "Yahoo", KeywordWeight + ExactBonus},
		{"exact with surrounding space", "  YAHOO \n", KeywordWeight + ExactBonus},
		{"substring only", "yahoo mail login", KeywordWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.query, store)
			if res.Score != tt.want {
				t.Errorf("Match(%q).Score = %d, want %d", tt.query, res.Score, tt.want)
			}
		})
	}
}

func TestMatch_ExactBonusAddsToSubstringHits(t *testing.T) {
	e := entry("imap", "requirements", "imap", "imap port", "port")
	s := mustStore(t, e)
	entries := s.Entries()

	// "imap port" contains all three keywords and equals one of them.
	if got, want := Score("IMAP Port", entries[0]), 3*KeywordWeight+ExactBonus; got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	store := mustStore(t,
		entry("office365", "user_login", "Office 365", "O365"),
		entry("features", "split_pst", "split pst"),
	)

	queries := []string{
		"how do I SPLIT PST files",
		"Office 365 login",
		"o365",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			lower := Match(strings.ToLower(q), store)
			upper := Match(strings.ToUpper(q), store)
			orig := Match(q, store)
			if lower.Score != upper.Score || lower.Score != orig.Score {
				t.Errorf("scores differ: lower=%d upper=%d orig=%d", lower.Score, upper.Score, orig.Score)
			}
			if lower.ID != upper.ID {
				t.Errorf("ids differ: %v vs %v", lower.ID, upper.ID)
			}
		})
	}
}

func TestMatch_RepeatedKeywordCountsOnce(t *testing.T) {
	store := mustStore(t, entry("imap", "requirements", "imap"))

	once := Match("imap settings", store)
	twice := Match("imap settings imap imap", store)

	if twice.Score < once.Score {
		t.Errorf("repeating a keyword decreased the score: %d < %d", twice.Score, once.Score)
	}
	if twice.Score != once.Score {
		t.Errorf("repeated keyword counted more than once: %d != %d", twice.Score, once.Score)
	}
}

func TestMatch_TieGoesToFirstEntry(t *testing.T) {
	store := mustStore(t,
		entry("issues", "slow_migration", "slow"),
		entry("issues", "connection_lost", "slow"),
		entry("features", "concurrent", "slow"),
	)

	res := Match("why is it so slow", store)

	if res.ID.Key != "slow_migration" {
		t.Errorf("ID = %v, want first entry issues.slow_migration", res.ID)
	}
}

func TestMatch_HigherScoreBeatsEarlierEntry(t *testing.T) {
	store := mustStore(t,
		entry("imap", "requirements", "imap"),
		entry("issues", "gmail_imap", "gmail", "imap"),
	)

	res := Match("gmail imap not working", store)

	if res.ID.Key != "gmail_imap" {
		t.Errorf("ID = %v, want issues.gmail_imap", res.ID)
	}
	if res.Score != 2*KeywordWeight {
		t.Errorf("Score = %d, want %d", res.Score, 2*KeywordWeight)
	}
}

func TestMatch_EmptyInputs(t *testing.T) {
	store := mustStore(t, entry("imap", "requirements", "imap"))

	tests := []struct {
		name  string
		query string
		store *knowledge.Store
	}{
		{"empty query", "", store},
		{"whitespace query", "   \t ", store},
		{"empty store", "anything", knowledge.Empty()},
		{"nil store", "imap", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.query, tt.store)
			if res.Relevant {
				t.Errorf("expected not relevant, got %v", res.ID)
			}
			if res.Score != 0 {
				t.Errorf("Score = %d, want 0", res.Score)
			}
		})
	}
}

func TestMatch_EntryWithoutKeywordsNeverSelected(t *testing.T) {
	store := mustStore(t,
		entry("features", "folder_structure"),
		entry("features", "split_pst", "split pst"),
	)

	if res := Match("folder_structure", store); res.Relevant {
		t.Errorf("entry without keywords matched: %v", res.ID)
	}
	if res := Match("split pst", store); res.ID.Key != "split_pst" {
		t.Errorf("ID = %v, want features.split_pst", res.ID)
	}
}

func TestMatch_DefaultKnowledgeBase(t *testing.T) {
	store, err := knowledge.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		query string
		want  string
	}{
		{"How do I login to Office 365?", "office365.user_login"},
		{"What are IMAP requirements?", "imap.requirements"},
		{"Why is migration slow?", "issues.slow_migration"},
		{"How to setup Google Workspace?", "google_workspace.single_user"},
		{"What is incremental backup?", "features.incremental_backup"},
		{"Yahoo", "providers.yahoo"},
		{"gmail imap stopped working", "issues.gmail_imap"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := Match(tt.query, store)
			if !res.Relevant {
				t.Fatalf("Match(%q) not relevant", tt.query)
			}
			if res.ID.String() != tt.want {
				t.Errorf("Match(%q) = %v (score %d), want %s", tt.query, res.ID, res.Score, tt.want)
			}
		})
	}
}
