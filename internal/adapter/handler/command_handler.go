package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"tailordesk/internal/core/service"
)

// CommandHandler is the JSON surface for local tooling and operations: the
// same engine, without the webhook framing.
type CommandHandler struct {
	engine MessageEngine
}

type CommandHTTPRequest struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	RequestID string `json:"request_id"`
}

type CommandHTTPResponse struct {
	Reply string `json:"reply"`
}

func NewCommandHandler(engine MessageEngine) *CommandHandler {
	return &CommandHandler{engine: engine}
}

func (h *CommandHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CommandHTTPResponse{Reply: "invalid request body"})
		return
	}
	if req.Sender == "" {
		writeJSON(w, http.StatusBadRequest, CommandHTTPResponse{Reply: "missing sender"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	reply := h.engine.HandleMessage(r.Context(), service.Request{
		Sender:    req.Sender,
		Body:      req.Text,
		MessageID: req.RequestID,
	})
	writeJSON(w, http.StatusOK, CommandHTTPResponse{Reply: reply})
}

func (h *CommandHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
