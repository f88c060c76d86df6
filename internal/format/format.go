// Package format renders match results as chat answers.
package format

import (
	"strconv"
	"strings"

	"supportbot/internal/knowledge"
	"supportbot/internal/match"
)

type renderFunc func(b *strings.Builder, heading string, v knowledge.Value)

type section struct {
	field   string
	heading string
	render  renderFunc
}

// layout is the fixed output order. Sections missing from an entry are
// skipped.
var layout = []section{
	{knowledge.FieldTitle, "", renderTitle},
	{knowledge.FieldOverview, "Overview", renderText},
	{knowledge.FieldNote, "Note", renderText},
	{knowledge.FieldRecommendedMethod, "Recommended Method", renderText},
	{knowledge.FieldSettings, "Settings", renderPairs},
	{knowledge.FieldSteps, "Steps", renderNumbered},
	{knowledge.FieldOAuthSteps, "OAuth Steps", renderNumbered},
	{knowledge.FieldBenefits, "Benefits", renderBullets},
	{knowledge.FieldOAuthBenefits, "OAuth Benefits", renderBullets},
	{knowledge.FieldTips, "Tips", renderBullets},
	{knowledge.FieldTroubleshooting, "Troubleshooting", renderBullets},
	{knowledge.FieldCommonCauses, "Common Causes", renderBullets},
	{knowledge.FieldSpeedImprovements, "Speed Improvements", renderBullets},
	{knowledge.FieldImmediateFixes, "Immediate Fixes", renderBullets},
	{knowledge.FieldAdvancedSolutions, "Advanced Solutions", renderBullets},
	{knowledge.FieldCommonSolutions, "Common Solutions", renderBullets},
	{knowledge.FieldProviderSpecific, "Provider Specific", renderPairs},
	{knowledge.FieldWhatItDoes, "What It Does", renderText},
	{knowledge.FieldHowToEnable, "How to Enable", renderNumbered},
	{knowledge.FieldUseCases, "Use Cases", renderBullets},
	{knowledge.FieldWhySplit, "Why Split", renderBullets},
	{knowledge.FieldSizeOptions, "Size Options", renderBullets},
	{knowledge.FieldRecommendation, "Recommendation", renderText},
	{knowledge.FieldBenchmark, "Benchmark", renderText},
	{knowledge.FieldPatienceNote, "Please Note", renderText},
	{knowledge.FieldIMAPNote, "IMAP Note", renderText},
	{knowledge.FieldLimitation, "Limitation", renderText},
	{knowledge.FieldAlternative, "Alternative", renderText},
	{knowledge.FieldRequirements, "Requirements", renderBullets},
	{knowledge.FieldSupportedProviders, "Supported Providers", renderBullets},
	{knowledge.FieldBasicSteps, "Basic Steps", renderNumbered},
}

// Formatter turns match results into answer text. It holds only
// configuration and is safe for concurrent use.
type Formatter struct {
	supportURL string
	topics     []string
	examples   []string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithTopics replaces the topic list shown in the fallback message.
func WithTopics(topics []string) Option {
	return func(f *Formatter) {
		if len(topics) > 0 {
			f.topics = topics
		}
	}
}

// WithExamples replaces the example questions shown in the fallback message.
func WithExamples(examples []string) Option {
	return func(f *Formatter) {
		if len(examples) > 0 {
			f.examples = examples
		}
	}
}

// DefaultTopics are the supported topic areas listed in the fallback message.
var DefaultTopics = []string{
	"Office 365 & Google Workspace setup",
	"IMAP configuration",
	"Migration issues & troubleshooting",
	"Software features",
	"Email provider app passwords",
}

// DefaultExamples are the example questions suggested in the fallback message.
var DefaultExamples = []string{
	"How do I login to Office 365?",
	"What are IMAP requirements?",
	"Why is migration slow?",
	"How to setup Google Workspace?",
	"What is incremental backup?",
}

// New creates a formatter that points users at supportURL.
func New(supportURL string, opts ...Option) *Formatter {
	f := &Formatter{
		supportURL: supportURL,
		topics:     DefaultTopics,
		examples:   DefaultExamples,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SupportURL returns the support contact link.
func (f *Formatter) SupportURL() string {
	return f.supportURL
}

// Format renders res. Relevant results render the matched entry; anything
// else renders the fallback message.
func (f *Formatter) Format(res match.Result) string {
	if !res.Relevant || res.Entry == nil {
		return f.Fallback(res.Query)
	}
	return f.Entry(res.Entry)
}

// Entry renders an entry's sections in layout order followed by the support
// line.
func (f *Formatter) Entry(e *knowledge.Entry) string {
	var b strings.Builder
	for _, s := range layout {
		v, ok := e.Field(s.field)
		if !ok || v.Empty() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		s.render(&b, s.heading, v)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("💡 Need more help? Contact our support team at: ")
	b.WriteString(f.supportURL)
	return b.String()
}

// Fallback renders the message used when no entry matches query.
func (f *Formatter) Fallback(query string) string {
	var b strings.Builder
	b.WriteString("I'm sorry, but I couldn't find an answer to your question:\n\n")
	b.WriteString("> ")
	b.WriteString(query)
	b.WriteString("\n\n")

	b.WriteString("I can help with:\n")
	for _, t := range f.topics {
		b.WriteString("• ")
		b.WriteString(t)
		b.WriteString("\n")
	}

	b.WriteString("\nTry asking something like:\n")
	for _, q := range f.examples {
		b.WriteString("• \"")
		b.WriteString(q)
		b.WriteString("\"\n")
	}

	b.WriteString("\nFor personalized assistance, please contact our live support team at: **")
	b.WriteString(f.supportURL)
	b.WriteString("**")
	return b.String()
}

func renderTitle(b *strings.Builder, _ string, v knowledge.Value) {
	b.WriteString("**")
	b.WriteString(strings.TrimSpace(v.Text))
	b.WriteString("**\n")
}

func renderText(b *strings.Builder, heading string, v knowledge.Value) {
	b.WriteString("**")
	b.WriteString(heading)
	b.WriteString(":** ")
	b.WriteString(strings.TrimSpace(v.Text))
	b.WriteString("\n")
}

func renderBullets(b *strings.Builder, heading string, v knowledge.Value) {
	writeHeading(b, heading)
	for _, item := range v.Items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func renderNumbered(b *strings.Builder, heading string, v knowledge.Value) {
	writeHeading(b, heading)
	for i, item := range v.Items {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func renderPairs(b *strings.Builder, heading string, v knowledge.Value) {
	writeHeading(b, heading)
	for _, p := range v.Pairs {
		b.WriteString("• ")
		b.WriteString(p.Key)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
}

func writeHeading(b *strings.Builder, heading string) {
	b.WriteString("**")
	b.WriteString(heading)
	b.WriteString(":**\n")
}
