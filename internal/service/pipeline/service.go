// Package pipeline runs the per-request turn lifecycle: resolve identity,
// log the user turn, invoke the model, log the assistant turn, return the
// reply. Every request runs the full sequence independently; the only shared
// resources are the append-only log and the model endpoint, both of which
// are safe under unbounded concurrency.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
	"github.com/crtlab/crt-chat/backend/internal/turnlog"
)

// Generator is the slice of the model client the pipeline needs.
type Generator interface {
	Generate(ctx context.Context, userMessage string) (string, error)
	ModelName() string
}

// Request is one inbound chat turn.
type Request struct {
	ParticipantID string
	BotNumber     int
	Message       string
}

// Result is the successful outcome of a processed turn.
type Result struct {
	Reply     string
	RequestID string
	Key       turn.SessionKey
}

// Session is the outcome of a session-start request.
type Session struct {
	ID  string
	Key turn.SessionKey
}

// Service orchestrates one turn per call. It holds no per-participant state:
// the process can restart or be load-balanced between any two turns of a
// session without losing anything, because every fact lives in the request
// or in the log.
type Service struct {
	store turnlog.Log
	model Generator
	arm   string
	now   func() time.Time
}

// NewService wires the pipeline over its two collaborators.
func NewService(store turnlog.Log, model Generator, arm string) *Service {
	return &Service{
		store: store,
		model: model,
		arm:   arm,
		now:   time.Now,
	}
}

// Process runs the state machine for one request. The order is fixed: a user
// turn that cannot be logged never reaches the model, and a reply that
// cannot be logged never reaches the participant. A model failure leaves the
// already-logged user row in place; that orphan is an accepted, detectable
// artifact, not corruption.
func (s *Service) Process(ctx context.Context, req Request) (Result, error) {
	key, err := turn.Resolve(req.ParticipantID, req.BotNumber)
	if err != nil {
		return Result{}, invalidIdentity(err)
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Result{}, &Failure{Kind: KindInvalidIdentity, Detail: "message is required"}
	}

	requestID := uuid.NewString()

	userPos, err := s.store.Append(ctx, turn.Record{
		Timestamp:     s.now().UTC(),
		ParticipantID: key.ParticipantID,
		BotID:         key.BotID,
		Arm:           s.arm,
		Role:          turn.RoleUser,
		Content:       message,
		RequestID:     requestID,
	})
	if err != nil {
		return Result{}, logWriteFailed(err)
	}

	start := s.now()
	reply, err := s.model.Generate(ctx, message)
	if err != nil {
		log.Printf("[pipeline] model failed for key=%s request=%s, user row %d stays orphaned: %v",
			key, requestID, userPos, err)
		return Result{}, modelUnavailable(err)
	}
	latency := s.now().Sub(start).Milliseconds()

	asstPos, err := s.store.Append(ctx, turn.Record{
		Timestamp:     s.now().UTC(),
		ParticipantID: key.ParticipantID,
		BotID:         key.BotID,
		Arm:           s.arm,
		Role:          turn.RoleAssistant,
		Content:       reply,
		RequestID:     requestID,
		ModelName:     s.model.ModelName(),
		LatencyMS:     latency,
	})
	if err != nil {
		// The reply exists but is not durable; withholding it keeps the log
		// the single source of truth.
		return Result{}, logWriteFailed(err)
	}

	log.Printf("[pipeline] turn pair logged key=%s request=%s rows=%d,%d latency=%dms",
		key, requestID, userPos, asstPos, latency)

	return Result{Reply: reply, RequestID: requestID, Key: key}, nil
}

// StartSession validates identity, mints a session id, and appends the
// session marker row the export tooling keys on.
func (s *Service) StartSession(ctx context.Context, participantID string, botNumber int) (Session, error) {
	key, err := turn.Resolve(participantID, botNumber)
	if err != nil {
		return Session{}, invalidIdentity(err)
	}

	sessionID := uuid.NewString()
	if _, err := s.store.Append(ctx, turn.Record{
		Timestamp:     s.now().UTC(),
		ParticipantID: key.ParticipantID,
		BotID:         key.BotID,
		Arm:           s.arm,
		Role:          turn.RoleSession,
		Content:       fmt.Sprintf("session_created:%s", sessionID),
	}); err != nil {
		return Session{}, logWriteFailed(err)
	}

	return Session{ID: sessionID, Key: key}, nil
}

// Probe appends one user and one assistant row for a debug identity so the
// store wiring can be verified end to end without a model call.
func (s *Service) Probe(ctx context.Context) error {
	rec := turn.Record{
		Timestamp:     s.now().UTC(),
		ParticipantID: "DEBUG_PID",
		BotID:         "LongBot1",
		Arm:           s.arm,
		Role:          turn.RoleUser,
		Content:       "Test user message",
	}
	if _, err := s.store.Append(ctx, rec); err != nil {
		return logWriteFailed(err)
	}

	rec.Timestamp = s.now().UTC()
	rec.Role = turn.RoleAssistant
	rec.Content = "Test assistant reply"
	if _, err := s.store.Append(ctx, rec); err != nil {
		return logWriteFailed(err)
	}
	return nil
}

