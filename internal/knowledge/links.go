package knowledge

import (
	"maps"
	"slices"
	"strings"
)

// Link is an http(s) URL mentioned somewhere in the knowledge base.
type Link struct {
	URL     string
	Entries []ID
}

// Links returns every distinct URL found in entry sections, in entry order.
// Within an entry, sections are scanned by field name.
func (s *Store) Links() []Link {
	var links []Link
	index := make(map[string]int)

	for _, e := range s.entries {
		for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
			for _, u := range valueURLs(e.Fields[name]) {
				i, ok := index[u]
				if !ok {
					i = len(links)
					index[u] = i
					links = append(links, Link{URL: u})
				}
				if !slices.Contains(links[i].Entries, e.ID) {
					links[i].Entries = append(links[i].Entries, e.ID)
				}
			}
		}
	}
	return links
}

func valueURLs(v Value) []string {
	var out []string
	switch v.Kind {
	case KindText:
		out = extractURLs(out, v.Text)
	case KindList:
		for _, item := range v.Items {
			out = extractURLs(out, item)
		}
	case KindPairs:
		for _, p := range v.Pairs {
			out = extractURLs(out, p.Value)
		}
	}
	return out
}

func extractURLs(dst []string, text string) []string {
	for _, word := range strings.Fields(text) {
		word = strings.TrimLeft(word, "(<'\"")
		lower := strings.ToLower(word)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		// Trailing sentence punctuation is not part of the URL.
		word = strings.TrimRight(word, ".,;:!?)>'\"")
		if len(word) > len("https://") {
			dst = append(dst, word)
		}
	}
	return dst
}
