package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crtlab/crt-chat/backend/internal/service/pipeline"
	"github.com/crtlab/crt-chat/backend/pkg/utils"
)

// Handler exposes the turn pipeline over HTTP.
type Handler struct {
	pipe *pipeline.Service
}

// New creates the chat handler.
func New(pipe *pipeline.Service) *Handler {
	return &Handler{pipe: pipe}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/session", h.handleCreateSession)
	r.Get("/test-log", h.handleTestLog)
}

// chatPayload accepts the participant id under any of the field names the
// embedding survey has used across waves.
type chatPayload struct {
	ParticipantID string `json:"participant_id"`
	ProlificPID   string `json:"prolific_pid"`
	TestPID       string `json:"test_pid"`
	PID           string `json:"pid"`
	Bot           any    `json:"bot"`
	BotNumber     any    `json:"bot_number"`
	Message       string `json:"message"`
}

func (p chatPayload) participant() string {
	for _, v := range []string{p.ParticipantID, p.ProlificPID, p.TestPID, p.PID} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (p chatPayload) botNumber() int {
	if n, ok := coerceInt(p.BotNumber); ok {
		return n
	}
	if n, ok := coerceInt(p.Bot); ok {
		return n
	}
	return 0
}

// handleChat runs one turn through the pipeline.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, string(pipeline.KindInvalidIdentity), "invalid request body")
		return
	}

	result, err := h.pipe.Process(r.Context(), pipeline.Request{
		ParticipantID: payload.participant(),
		BotNumber:     payload.botNumber(),
		Message:       payload.Message,
	})
	if err != nil {
		respondFailure(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"reply":      result.Reply,
		"request_id": result.RequestID,
		"session_id": fmt.Sprintf("%s:%d", result.Key, time.Now().Unix()),
	})
}

// handleCreateSession mints a session id and logs the session marker row.
// Identity arrives as query parameters, the way the survey widget loads.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	pid := r.URL.Query().Get("pid")
	bot, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("bot")))

	session, err := h.pipe.StartSession(r.Context(), pid, bot)
	if err != nil {
		respondFailure(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"session_id":     session.ID,
		"participant_id": session.Key.ParticipantID,
		"bot_id":         session.Key.BotID,
	})
}

// handleTestLog verifies store wiring by appending two probe rows.
func (h *Handler) handleTestLog(w http.ResponseWriter, r *http.Request) {
	if err := h.pipe.Probe(r.Context()); err != nil {
		respondFailure(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Test rows appended. Check the conversation store.",
	})
}

// respondFailure maps a pipeline failure onto a status code and the
// structured error envelope. Unknown errors get a generic 500; internal
// detail never leaves the process.
func respondFailure(w http.ResponseWriter, err error) {
	var failure *pipeline.Failure
	if !errors.As(err, &failure) {
		utils.RespondError(w, http.StatusInternalServerError, "Internal", "unexpected error")
		return
	}

	status := http.StatusInternalServerError
	switch failure.Kind {
	case pipeline.KindInvalidIdentity:
		status = http.StatusBadRequest
	case pipeline.KindLogWriteFailed:
		status = http.StatusServiceUnavailable
	case pipeline.KindModelUnavailable:
		status = http.StatusBadGateway
	}

	utils.RespondError(w, status, string(failure.Kind), failure.Detail)
}

// coerceInt accepts the bot number as either a JSON number or a numeric
// string; the survey's embedded JavaScript has sent both.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
