package handlers

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 dark:bg-red-900/30 text-red-700 dark:text-red-300 text-sm">` + html.EscapeString(message) + `</div>`,
	)
}

func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

var (
	boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)
	linkPattern = regexp.MustCompile(`https?://[^\s<]+`)
)

// RenderAnswer turns answer text into HTML for the chat view. Text is
// escaped first; **bold** spans, bare links and line breaks are then
// converted to markup.
func RenderAnswer(text string) template.HTML {
	escaped := html.EscapeString(text)
	escaped = boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
	escaped = linkPattern.ReplaceAllStringFunc(escaped, func(u string) string {
		return `<a href="` + u + `" target="_blank" rel="noopener" class="underline">` + u + `</a>`
	})
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(escaped)
}
