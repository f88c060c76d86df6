package format

import (
	"strings"
	"testing"

	"supportbot/internal/knowledge"
	"supportbot/internal/match"
)

const testSupportURL = "https://support.example.com"

func relevant(fields map[string]knowledge.Value) match.Result {
	e := &knowledge.Entry{
		ID:       knowledge.ID{Category: "test", Key: "entry"},
		Keywords: []string{"test"},
		Fields:   fields,
	}
	return match.Result{Query: "test", ID: e.ID, Score: 2, Entry: e, Relevant: true}
}

func headings(out string) []string {
	var hs []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "**") && strings.HasSuffix(line, ":**") {
			hs = append(hs, line)
		}
	}
	return hs
}

func TestFormat_StepsOnly(t *testing.T) {
	f := New(testSupportURL)

	out := f.Format(relevant(map[string]knowledge.Value{
		knowledge.FieldSteps: knowledge.List("Step1", "Step2"),
	}))

	want := "**Steps:**\n1. Step1\n2. Step2\n\n💡 Need more help? Contact our support team at: " + testSupportURL
	if out != want {
		t.Errorf("Format() =\n%q\nwant\n%q", out, want)
	}
	if hs := headings(out); len(hs) != 1 {
		t.Errorf("headings = %v, want only the steps heading", hs)
	}
}

func TestFormat_FixedSectionOrder(t *testing.T) {
	f := New(testSupportURL)

	// Go maps have no order, so the output order must come from the layout.
	out := f.Format(relevant(map[string]knowledge.Value{
		knowledge.FieldBasicSteps:       knowledge.List("basic"),
		knowledge.FieldTips:             knowledge.List("tip"),
		knowledge.FieldLimitation:       knowledge.Text("limited"),
		knowledge.FieldSettings:         knowledge.Pairs("Port", "993"),
		knowledge.FieldTitle:            knowledge.Text("The Title"),
		knowledge.FieldSteps:            knowledge.List("step"),
		knowledge.FieldProviderSpecific: knowledge.Pairs("AOL", "app password"),
		knowledge.FieldOverview:         knowledge.Text("overview text"),
	}))

	order := []string{
		"**The Title**",
		"**Overview:** overview text",
		"**Settings:**",
		"**Steps:**",
		"**Tips:**",
		"**Provider Specific:**",
		"**Limitation:** limited",
		"**Basic Steps:**",
		"💡 Need more help?",
	}

	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", marker, out)
		}
		if idx <= last {
			t.Errorf("%q out of order in:\n%s", marker, out)
		}
		last = idx
	}
}

func TestFormat_KeyValueLines(t *testing.T) {
	f := New(testSupportURL)

	out := f.Format(relevant(map[string]knowledge.Value{
		knowledge.FieldSettings: knowledge.Pairs("Port (SSL)", "993", "Encryption", "SSL/TLS", "Alpha", "first?"),
	}))

	want := "**Settings:**\n• Port (SSL): 993\n• Encryption: SSL/TLS\n• Alpha: first?\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("Format() =\n%q\nwant prefix\n%q", out, want)
	}
}

func TestFormat_SkipsEmptySections(t *testing.T) {
	f := New(testSupportURL)

	out := f.Format(relevant(map[string]knowledge.Value{
		knowledge.FieldTitle:    knowledge.Text("Title"),
		knowledge.FieldNote:     knowledge.Text("   "),
		knowledge.FieldTips:     knowledge.List(),
		knowledge.FieldSettings: knowledge.Pairs(),
	}))

	for _, unwanted := range []string{"Note", "Tips", "Settings"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output contains empty section %q:\n%s", unwanted, out)
		}
	}
	if !strings.HasPrefix(out, "**Title**\n") {
		t.Errorf("output should start with the title, got:\n%s", out)
	}
}

func TestFormat_IsDeterministic(t *testing.T) {
	store, err := knowledge.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	f := New(testSupportURL)

	for _, e := range store.Entries() {
		res := match.Result{Query: "q", ID: e.ID, Score: 2, Entry: e, Relevant: true}
		first := f.Format(res)
		for range 5 {
			if got := f.Format(res); got != first {
				t.Fatalf("Format(%v) not deterministic", e.ID)
			}
		}
		if !strings.HasSuffix(first, testSupportURL) {
			t.Errorf("Format(%v) missing support line", e.ID)
		}
	}
}

func TestFallback(t *testing.T) {
	f := New(testSupportURL)
	query := "banana smoothie recipe"

	first := f.Format(match.Result{Query: query})
	second := f.Format(match.Result{Query: query})

	if first != second {
		t.Error("fallback text differs between calls")
	}

	checks := []string{
		query,
		testSupportURL,
		"IMAP configuration",
		"What is incremental backup?",
	}
	for _, check := range checks {
		if !strings.Contains(first, check) {
			t.Errorf("fallback missing %q:\n%s", check, first)
		}
	}
}

func TestFallback_EchoesQueryVerbatim(t *testing.T) {
	f := New(testSupportURL)

	queries := []string{"", "   ", "<b>Ünïcödé</b> ✉️", "multi\nline"}
	for _, q := range queries {
		out := f.Fallback(q)
		if !strings.Contains(out, "> "+q+"\n") {
			t.Errorf("Fallback(%q) does not echo the query:\n%s", q, out)
		}
	}
}

func TestFallback_Options(t *testing.T) {
	f := New(testSupportURL,
		WithTopics([]string{"Only topic"}),
		WithExamples([]string{"Only example?"}),
	)

	out := f.Fallback("x")

	if !strings.Contains(out, "• Only topic\n") {
		t.Errorf("custom topic missing:\n%s", out)
	}
	if !strings.Contains(out, "• \"Only example?\"\n") {
		t.Errorf("custom example missing:\n%s", out)
	}
	if strings.Contains(out, DefaultTopics[0]) {
		t.Errorf("default topics should be replaced:\n%s", out)
	}
}

func TestFormat_IrrelevantWithEntryFallsBack(t *testing.T) {
	f := New(testSupportURL)
	res := relevant(map[string]knowledge.Value{knowledge.FieldTitle: knowledge.Text("T")})
	res.Relevant = false

	if out := f.Format(res); out != f.Fallback(res.Query) {
		t.Errorf("Format() of irrelevant result should be the fallback, got:\n%s", out)
	}
}
