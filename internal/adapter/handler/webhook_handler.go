package handler

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/google/uuid"

	"tailordesk/internal/core/service"
)

// MessageEngine is the command core consumed by both transports.
type MessageEngine interface {
	HandleMessage(ctx context.Context, req service.Request) string
}

// WebhookHandler receives Twilio-style form posts (From, Body, MessageSid)
// and answers with TwiML.
type WebhookHandler struct {
	engine MessageEngine
}

func NewWebhookHandler(engine MessageEngine) *WebhookHandler {
	return &WebhookHandler{engine: engine}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sender := r.PostFormValue("From")
	if sender == "" {
		writeTwiML(w, "🚫 *Access Denied*. No sender number found.")
		return
	}

	messageID := r.PostFormValue("MessageSid")
	if messageID == "" {
		messageID = uuid.New().String()
	}

	reply := h.engine.HandleMessage(r.Context(), service.Request{
		Sender:    sender,
		Body:      r.PostFormValue("Body"),
		MessageID: messageID,
	})
	writeTwiML(w, reply)
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// writeTwiML renders the reply as a message response; an empty reply (a
// deduplicated redelivery) becomes an empty <Response/>.
func writeTwiML(w http.ResponseWriter, reply string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(twimlResponse{Message: reply})
}
