package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/format"
	"supportbot/internal/models"
	"supportbot/internal/testutil"
)

func TestRenderAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain",
			text: "Hello",
			want: "Hello",
		},
		{
			name: "bold title and line breaks",
			text: "**Gmail Setup**\n1. Enable IMAP",
			want: "<strong>Gmail Setup</strong><br>1. Enable IMAP",
		},
		{
			name: "html is escaped",
			text: "<script>alert(1)</script> **<b>**",
			want: "&lt;script&gt;alert(1)&lt;/script&gt; <strong>&lt;b&gt;</strong>",
		},
		{
			name: "links",
			text: "💡 Need more help? Visit: https://example.com/support",
			want: `💡 Need more help? Visit: <a href="https://example.com/support" target="_blank" rel="noopener" class="underline">https://example.com/support</a>`,
		},
		{
			name: "javascript is not linked",
			text: "javascript:alert(1)",
			want: "javascript:alert(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(RenderAnswer(tt.text)); got != tt.want {
				t.Errorf("RenderAnswer(%q) =\n%s\nwant\n%s", tt.text, got, tt.want)
			}
		})
	}
}

type fakeLinks struct{}

func (f *fakeLinks) Results() []models.LinkStatus {
	return []models.LinkStatus{{URL: "https://example.com/support", Status: models.HealthUnknown}}
}

func (f *fakeLinks) CheckAll(context.Context) []models.LinkStatus {
	return []models.LinkStatus{{URL: "https://example.com/support", Status: models.HealthHealthy}}
}

func newAdminApp(t *testing.T, links LinkChecker) *fiber.App {
	t.Helper()

	svc := chat.NewService(testutil.DefaultStore(t), format.New("https://example.com/support"), nil)
	h := NewAdminHandler(nil, svc, links, &config.Config{})

	app := fiber.New()
	app.Post("/admin/links/check", h.CheckLinks)
	app.Delete("/admin/unanswered/:id", h.DismissQuestion)
	return app
}

func TestAdminHandler_CheckLinksDisabled(t *testing.T) {
	app := newAdminApp(t, nil)

	req, _ := http.NewRequest("POST", "/admin/links/check", nil)
	resp, _ := testutil.Do(t, app, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAdminHandler_DismissWithoutAnalytics(t *testing.T) {
	app := newAdminApp(t, &fakeLinks{})

	req, _ := http.NewRequest("DELETE", "/admin/unanswered/00000000-0000-0000-0000-000000000001", nil)
	resp, _ := testutil.Do(t, app, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
