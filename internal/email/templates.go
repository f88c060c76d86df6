package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"supportbot/internal/config"
	"supportbot/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 640px; margin: 0 auto; padding: 20px; }
        .header { background: #4f46e5; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #4f46e5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        table { width: 100%%; border-collapse: collapse; background: white; }
        th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #e5e7eb; font-size: 14px; }
        td.count { text-align: right; white-space: nowrap; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>Sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// UnansweredDigest generates the periodic email listing questions the bot
// could not answer.
func (t *Templates) UnansweredDigest(questions []models.UnansweredQuestion, period time.Duration) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %d unanswered %s", t.cfg.SiteTitle, len(questions), plural(len(questions), "question", "questions"))

	var rows strings.Builder
	var lines strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&rows, `
                <tr><td>%s</td><td class="count">%d</td><td class="count">%s</td></tr>`,
			html.EscapeString(q.Question),
			q.Count,
			q.LastSeenAt.UTC().Format("2006-01-02 15:04"),
		)
		fmt.Fprintf(&lines, "- %s (asked %d %s)\n", q.Question, q.Count, plural(int(q.Count), "time", "times"))
	}

	content := fmt.Sprintf(`
        <p>These questions matched nothing in the knowledge base during the last %s.
        Consider adding entries or keywords that cover them.</p>

        <table>
            <thead><tr><th>Question</th><th class="count">Asked</th><th class="count">Last seen (UTC)</th></tr></thead>
            <tbody>%s
            </tbody>
        </table>

        <p style="text-align: center;">
            <a href="%s/admin" class="button">Open Dashboard</a>
        </p>
    `,
		formatPeriod(period),
		rows.String(),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Unanswered questions (last %s)

%s
Review at: %s/admin

--
%s
%s`,
		formatPeriod(period),
		lines.String(),
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatPeriod renders whole days or hours, e.g. "24 hours" or "7 days".
func formatPeriod(d time.Duration) string {
	if d >= 48*time.Hour && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	}
	if d < time.Hour {
		return d.String()
	}
	hours := int(d.Round(time.Hour) / time.Hour)
	return fmt.Sprintf("%d %s", hours, plural(hours, "hour", "hours"))
}
