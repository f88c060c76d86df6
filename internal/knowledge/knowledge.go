// Package knowledge holds the support knowledge base: topic entries grouped
// by category, each with the keywords used for matching and the structured
// sections used to render an answer.
//
// A Store is built once at startup and never mutated afterwards, so it can
// be shared by concurrent requests without locking.
package knowledge

import (
	"fmt"
	"slices"
	"strings"
)

// Kind describes the shape of a section value.
type Kind int

// Section value kinds.
const (
	KindText  Kind = iota // a single paragraph
	KindList              // an ordered list of lines
	KindPairs             // an ordered key: value mapping
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindPairs:
		return "pairs"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Recognized section field names.
const (
	FieldTitle              = "title"
	FieldOverview           = "overview"
	FieldNote               = "note"
	FieldRecommendedMethod  = "recommended_method"
	FieldSettings           = "settings"
	FieldSteps              = "steps"
	FieldOAuthSteps         = "oauth_steps"
	FieldBenefits           = "benefits"
	FieldOAuthBenefits      = "oauth_benefits"
	FieldTips               = "tips"
	FieldTroubleshooting    = "troubleshooting"
	FieldCommonCauses       = "common_causes"
	FieldSpeedImprovements  = "speed_improvements"
	FieldImmediateFixes     = "immediate_fixes"
	FieldAdvancedSolutions  = "advanced_solutions"
	FieldCommonSolutions    = "common_solutions"
	FieldProviderSpecific   = "provider_specific"
	FieldWhatItDoes         = "what_it_does"
	FieldHowToEnable        = "how_to_enable"
	FieldUseCases           = "use_cases"
	FieldWhySplit           = "why_split"
	FieldSizeOptions        = "size_options"
	FieldRecommendation     = "recommendation"
	FieldBenchmark          = "benchmark"
	FieldPatienceNote       = "patience_note"
	FieldIMAPNote           = "imap_note"
	FieldLimitation         = "limitation"
	FieldAlternative        = "alternative"
	FieldRequirements       = "requirements"
	FieldSupportedProviders = "supported_providers"
	FieldBasicSteps         = "basic_steps"
)

// fieldKinds is the schema of recognized sections.
var fieldKinds = map[string]Kind{
	FieldTitle:              KindText,
	FieldOverview:           KindText,
	FieldNote:               KindText,
	FieldRecommendedMethod:  KindText,
	FieldSettings:           KindPairs,
	FieldSteps:              KindList,
	FieldOAuthSteps:         KindList,
	FieldBenefits:           KindList,
	FieldOAuthBenefits:      KindList,
	FieldTips:               KindList,
	FieldTroubleshooting:    KindList,
	FieldCommonCauses:       KindList,
	FieldSpeedImprovements:  KindList,
	FieldImmediateFixes:     KindList,
	FieldAdvancedSolutions:  KindList,
	FieldCommonSolutions:    KindList,
	FieldProviderSpecific:   KindPairs,
	FieldWhatItDoes:         KindText,
	FieldHowToEnable:        KindList,
	FieldUseCases:           KindList,
	FieldWhySplit:           KindList,
	FieldSizeOptions:        KindList,
	FieldRecommendation:     KindText,
	FieldBenchmark:          KindText,
	FieldPatienceNote:       KindText,
	FieldIMAPNote:           KindText,
	FieldLimitation:         KindText,
	FieldAlternative:        KindText,
	FieldRequirements:       KindList,
	FieldSupportedProviders: KindList,
	FieldBasicSteps:         KindList,
}

// FieldKind reports the kind of a recognized section field.
func FieldKind(name string) (Kind, bool) {
	k, ok := fieldKinds[name]
	return k, ok
}

// Pair is one key: value line of a KindPairs section.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Value is the content of one section. Only the member matching Kind is set.
type Value struct {
	Kind  Kind
	Text  string
	Items []string
	Pairs []Pair
}

// Empty reports whether the value has nothing to render.
func (v Value) Empty() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindList:
		return len(v.Items) == 0
	case KindPairs:
		return len(v.Pairs) == 0
	default:
		return true
	}
}

// Text builds a KindText value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// List builds a KindList value.
func List(items ...string) Value { return Value{Kind: KindList, Items: items} }

// Pairs builds a KindPairs value from alternating key, value arguments.
func Pairs(kv ...string) Value {
	v := Value{Kind: KindPairs}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Pairs = append(v.Pairs, Pair{Key: kv[i], Value: kv[i+1]})
	}
	return v
}

// ID identifies an entry within a store.
type ID struct {
	Category string
	Key      string
}

func (id ID) String() string {
	return id.Category + "." + id.Key
}

// Entry is one addressable unit of knowledge.
type Entry struct {
	ID       ID
	Keywords []string // lower-cased, unique
	Fields   map[string]Value
}

// Field returns the named section value.
func (e *Entry) Field(name string) (Value, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// Title returns the entry's title section, or "" when it has none.
func (e *Entry) Title() string {
	if v, ok := e.Fields[FieldTitle]; ok && v.Kind == KindText {
		return v.Text
	}
	return ""
}

// Matchable reports whether the entry has at least one keyword.
func (e *Entry) Matchable() bool {
	return len(e.Keywords) > 0
}

// Store is an immutable, ordered collection of entries.
type Store struct {
	entries    []*Entry
	byID       map[ID]*Entry
	categories []string
}

// Empty returns a store with no categories.
func Empty() *Store {
	return &Store{byID: map[ID]*Entry{}}
}

// NewStore builds a store from entries, preserving their order. Keywords are
// lower-cased, trimmed and de-duplicated. Field values are validated against
// the section schema.
func NewStore(entries []Entry) (*Store, error) {
	s := Empty()
	seenCategory := make(map[string]bool)

	for _, in := range entries {
		if in.ID.Category == "" || in.ID.Key == "" {
			return nil, fmt.Errorf("entry %q: %w", in.ID, ErrMissingID)
		}
		if _, dup := s.byID[in.ID]; dup {
			return nil, fmt.Errorf("entry %q: %w", in.ID, ErrDuplicateEntry)
		}

		fields := make(map[string]Value, len(in.Fields))
		for name, v := range in.Fields {
			kind, ok := FieldKind(name)
			if !ok {
				return nil, fmt.Errorf("entry %q field %q: %w", in.ID, name, ErrUnknownField)
			}
			if v.Kind != kind {
				return nil, fmt.Errorf("entry %q field %q is %s, want %s: %w", in.ID, name, v.Kind, kind, ErrFieldType)
			}
			fields[name] = v
		}

		e := &Entry{
			ID:       in.ID,
			Keywords: normalizeKeywords(in.Keywords),
			Fields:   fields,
		}
		s.entries = append(s.entries, e)
		s.byID[e.ID] = e

		if !seenCategory[e.ID.Category] {
			seenCategory[e.ID.Category] = true
			s.categories = append(s.categories, e.ID.Category)
		}
	}

	return s, nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Entries returns all entries in insertion order.
func (s *Store) Entries() []*Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Categories returns category names in the order they first appear.
func (s *Store) Categories() []string {
	return slices.Clone(s.categories)
}

// CategoryEntries returns the entries of one category in insertion order.
func (s *Store) CategoryEntries(category string) []*Entry {
	var out []*Entry
	for _, e := range s.entries {
		if e.ID.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds an entry by category and key.
func (s *Store) Lookup(category, key string) (*Entry, bool) {
	e, ok := s.byID[ID{Category: category, Key: key}]
	return e, ok
}
