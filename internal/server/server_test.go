package server

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/format"
	"supportbot/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	// Templates and static files are resolved from the repository root.
	t.Chdir("../..")

	cfg := &config.Config{
		Env:                "development",
		BaseURL:            "http://localhost:3000",
		SessionSecret:      "test-secret-that-is-long-enough-for-production",
		MaxQuestionLength:  500,
		HistoryLimit:       50,
		RateLimitPerMinute: 1000,
		SupportURL:         "https://example.com/support",
		SiteTitle:          "Support",
	}

	store := testutil.DefaultStore(t)
	svc := chat.NewService(store, format.New(cfg.SupportURL), nil)

	s := New(cfg)
	if err := s.RegisterRoutes(context.Background(), nil, svc, nil, nil); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}
	return s
}

type client struct {
	t       *testing.T
	s       *Server
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path string, form url.Values, htmx bool) (*http.Response, string) {
	c.t.Helper()

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, _ := http.NewRequest(method, path, reqBody)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	resp, body := testutil.Do(c.t, c.s.App, req)
	for _, ck := range resp.Cookies() {
		c.cookies[ck.Name] = ck
	}
	return resp, body
}

func newClient(t *testing.T) *client {
	return &client{t: t, s: newTestServer(t), cookies: make(map[string]*http.Cookie)}
}

// Transcripts are kept in the session, which is keyed by an encrypted
// cookie, so each step replays the cookies from the previous response.
func TestChatTranscriptRoundTrip(t *testing.T) {
	c := newClient(t)

	resp, body := c.do("GET", "/", nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "What would you like to know?") {
		t.Error("index should show the welcome message")
	}

	resp, body = c.do("POST", "/chat", url.Values{"question": {"How do I login to Office 365?"}}, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /chat status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "<strong>Office 365 User Login</strong>") {
		t.Errorf("answer should render the entry title, got %s", body)
	}
	if strings.Contains(body, "What would you like to know?") {
		t.Error("HTMX response should only contain the new exchange")
	}

	_, body = c.do("GET", "/", nil, false)
	if !strings.Contains(body, "How do I login to Office 365?") {
		t.Error("transcript should keep the question across requests")
	}
	if !strings.Contains(body, "3 messages · 1 questions") {
		t.Errorf("unexpected stats in page: %s", body)
	}

	_, body = c.do("POST", "/chat/clear", nil, true)
	if strings.Contains(body, "Office 365 User Login") {
		t.Error("clear should drop the exchange")
	}
	if !strings.Contains(body, "What would you like to know?") {
		t.Error("clear should keep the welcome message")
	}
}

func TestChatSample(t *testing.T) {
	c := newClient(t)

	_, body := c.do("POST", "/chat/sample/1", nil, true)
	if !strings.Contains(body, "What are IMAP requirements?") {
		t.Errorf("sample question should be echoed, got %s", body)
	}

	_, body = c.do("POST", "/chat/sample/99", nil, true)
	if !strings.Contains(body, "Unknown sample question") {
		t.Errorf("out of range sample should show an error, got %s", body)
	}
}

func TestChatValidation(t *testing.T) {
	c := newClient(t)

	_, body := c.do("POST", "/chat", url.Values{"question": {"   "}}, true)
	if !strings.Contains(body, "Please enter a question") {
		t.Errorf("blank question should be rejected, got %s", body)
	}

	resp, _ := c.do("POST", "/chat", url.Values{"question": {""}}, false)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-HTMX blank question status = %d, want 400", resp.StatusCode)
	}
}

func TestChatNonHTMXRedirects(t *testing.T) {
	c := newClient(t)

	resp, _ := c.do("POST", "/chat", url.Values{"question": {"yahoo"}}, false)
	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestAPIErrorsUseEnvelope(t *testing.T) {
	c := newClient(t)

	resp, body := c.do("GET", "/api/v1/does-not-exist", nil, false)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"error"`) {
		t.Errorf("body = %s, want JSON error envelope", body)
	}
}

func TestAdminRoutesDisabledWithoutOIDC(t *testing.T) {
	c := newClient(t)

	resp, _ := c.do("GET", "/admin", nil, false)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestProbes(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, body := c.do("GET", path, nil, false)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
		if !strings.Contains(body, `"status":"ok"`) {
			t.Errorf("%s body = %s", path, body)
		}
	}
}

func TestDeriveEncryptionKey(t *testing.T) {
	a := deriveEncryptionKey("secret-one")
	b := deriveEncryptionKey("secret-two")

	if a == b {
		t.Error("different secrets should give different keys")
	}
	if a != deriveEncryptionKey("secret-one") {
		t.Error("key derivation should be deterministic")
	}
	// 32 bytes base64 encoded
	if len(a) != 44 {
		t.Errorf("key length = %d, want 44", len(a))
	}
}
