package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
	"github.com/crtlab/crt-chat/backend/internal/service/pipeline"
	"github.com/crtlab/crt-chat/backend/internal/turnlog"
)

type stubModel struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (m *stubModel) Generate(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *stubModel) ModelName() string { return "stub-model" }

func (m *stubModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type brokenLog struct{}

func (brokenLog) Append(context.Context, turn.Record) (int64, error) {
	return 0, fmt.Errorf("%w: store unreachable", turnlog.ErrWriteFailed)
}

func (brokenLog) Close() error { return nil }

func setupRouter(store turnlog.Log, model *stubModel) *chi.Mux {
	pipe := pipeline.NewService(store, model, "crt-intuitive")
	handler := New(pipe)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestChatEndToEnd(t *testing.T) {
	store := turnlog.NewMemory()
	model := &stubModel{reply: "Based on the information provided, the hammer costs $30."}
	r := setupRouter(store, model)

	resp := postChat(t, r, map[string]any{
		"participant_id": "P1",
		"bot_number":     1,
		"message":        "What's the hammer cost?",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	if body["reply"] != "Based on the information provided, the hammer costs $30." {
		t.Fatalf("unexpected reply: %q", body["reply"])
	}

	rows := store.Records()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	key := turn.SessionKey{ParticipantID: "P1", BotID: "LongBot1"}
	if rows[0].Key() != key || rows[1].Key() != key {
		t.Fatalf("rows carry wrong key: %s, %s", rows[0].Key(), rows[1].Key())
	}
	if rows[0].Role != turn.RoleUser || rows[1].Role != turn.RoleAssistant {
		t.Fatalf("rows out of order: %s, %s", rows[0].Role, rows[1].Role)
	}
}

func TestChatAcceptsLegacyPIDFields(t *testing.T) {
	store := turnlog.NewMemory()
	model := &stubModel{reply: "ok"}
	r := setupRouter(store, model)

	resp := postChat(t, r, map[string]any{
		"prolific_pid": "P2",
		"bot":          "3",
		"message":      "hello",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	rows := store.Records()
	if len(rows) != 2 || rows[0].ParticipantID != "P2" || rows[0].BotID != "LongBot3" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestChatInvalidBotNumber(t *testing.T) {
	store := turnlog.NewMemory()
	model := &stubModel{reply: "unused"}
	r := setupRouter(store, model)

	resp := postChat(t, r, map[string]any{
		"participant_id": "P1",
		"bot_number":     9,
		"message":        "hello",
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); body["error_kind"] != "InvalidIdentity" {
		t.Fatalf("unexpected error kind: %q", body["error_kind"])
	}
	if len(store.Records()) != 0 {
		t.Fatal("no rows may be appended for an invalid identity")
	}
	if model.callCount() != 0 {
		t.Fatal("model must not be invoked for an invalid identity")
	}
}

func TestChatMissingMessage(t *testing.T) {
	store := turnlog.NewMemory()
	r := setupRouter(store, &stubModel{reply: "unused"})

	resp := postChat(t, r, map[string]any{
		"participant_id": "P1",
		"bot_number":     1,
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(store.Records()) != 0 {
		t.Fatal("no rows may be appended for a missing message")
	}
}

func TestChatMalformedBody(t *testing.T) {
	r := setupRouter(turnlog.NewMemory(), &stubModel{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatLogWriteFailed(t *testing.T) {
	model := &stubModel{reply: "unused"}
	r := setupRouter(brokenLog{}, model)

	resp := postChat(t, r, map[string]any{
		"participant_id": "P1",
		"bot_number":     1,
		"message":        "hello",
	})

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); body["error_kind"] != "LogWriteFailed" {
		t.Fatalf("unexpected error kind: %q", body["error_kind"])
	}
	if model.callCount() != 0 {
		t.Fatal("model must not be invoked when the user append fails")
	}
}

func TestChatModelUnavailable(t *testing.T) {
	store := turnlog.NewMemory()
	model := &stubModel{err: errors.New("upstream down")}
	r := setupRouter(store, model)

	resp := postChat(t, r, map[string]any{
		"participant_id": "P1",
		"bot_number":     1,
		"message":        "hello",
	})

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); body["error_kind"] != "ModelUnavailable" {
		t.Fatalf("unexpected error kind: %q", body["error_kind"])
	}

	rows := store.Records()
	if len(rows) != 1 || rows[0].Role != turn.RoleUser {
		t.Fatalf("expected one orphaned user row, got %+v", rows)
	}
}

func TestCreateSession(t *testing.T) {
	store := turnlog.NewMemory()
	r := setupRouter(store, &stubModel{})

	req := httptest.NewRequest(http.MethodPost, "/session?pid=P1&bot=2", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	if body["session_id"] == "" {
		t.Fatal("missing session_id")
	}
	if body["bot_id"] != "LongBot2" {
		t.Fatalf("unexpected bot_id: %q", body["bot_id"])
	}

	rows := store.Records()
	if len(rows) != 1 || rows[0].Role != turn.RoleSession {
		t.Fatalf("expected one session marker row, got %+v", rows)
	}
}

func TestCreateSessionMissingPID(t *testing.T) {
	store := turnlog.NewMemory()
	r := setupRouter(store, &stubModel{})

	req := httptest.NewRequest(http.MethodPost, "/session?bot=2", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(store.Records()) != 0 {
		t.Fatal("no rows may be appended without a participant id")
	}
}

func TestTestLogEndpoint(t *testing.T) {
	store := turnlog.NewMemory()
	r := setupRouter(store, &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/test-log", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(store.Records()) != 2 {
		t.Fatalf("expected 2 probe rows, got %d", len(store.Records()))
	}
}
