package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tailordesk/internal/core/service"
)

// stubEngine echoes what it was called with.
type stubEngine struct {
	lastReq service.Request
	reply   string
}

func (s *stubEngine) HandleMessage(ctx context.Context, req service.Request) string {
	s.lastReq = req
	return s.reply
}

func postForm(t *testing.T, h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestWebhook_RepliesTwiML(t *testing.T) {
	engine := &stubEngine{reply: "hello <tailor>"}
	h := NewWebhookHandler(engine)

	w := postForm(t, h.Receive, url.Values{
		"From":       {"whatsapp:+15550100"},
		"Body":       {"stock"},
		"MessageSid": {"SM123"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Errorf("expected text/xml, got %s", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "<Message>") {
		t.Errorf("expected TwiML envelope, got %s", body)
	}
	// Reply content must be XML-escaped.
	if !strings.Contains(body, "hello &lt;tailor&gt;") {
		t.Errorf("expected escaped reply, got %s", body)
	}

	if engine.lastReq.Sender != "whatsapp:+15550100" || engine.lastReq.Body != "stock" || engine.lastReq.MessageID != "SM123" {
		t.Errorf("engine called with %+v", engine.lastReq)
	}
}

func TestWebhook_EmptyReplyOmitsMessage(t *testing.T) {
	h := NewWebhookHandler(&stubEngine{reply: ""})

	w := postForm(t, h.Receive, url.Values{
		"From": {"+15550100"},
		"Body": {"stock"},
	})

	if strings.Contains(w.Body.String(), "<Message>") {
		t.Errorf("deduplicated delivery must not carry a message, got %s", w.Body.String())
	}
}

func TestWebhook_MissingSenderDenied(t *testing.T) {
	engine := &stubEngine{reply: "should not be called"}
	h := NewWebhookHandler(engine)

	w := postForm(t, h.Receive, url.Values{"Body": {"stock"}})

	if !strings.Contains(w.Body.String(), "Access Denied") {
		t.Errorf("expected denial, got %s", w.Body.String())
	}
	if engine.lastReq.Body != "" {
		t.Error("engine must not run without a sender")
	}
}

func TestWebhook_GeneratesMessageID(t *testing.T) {
	engine := &stubEngine{reply: "ok"}
	h := NewWebhookHandler(engine)

	postForm(t, h.Receive, url.Values{
		"From": {"+15550100"},
		"Body": {"stock"},
	})

	if engine.lastReq.MessageID == "" {
		t.Error("expected a generated message id")
	}
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	h := NewWebhookHandler(&stubEngine{})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w := httptest.NewRecorder()
	h.Receive(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
