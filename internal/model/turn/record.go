package turn

import (
	"strconv"
	"time"
)

// Role tags who authored a logged row.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSession marks the session-creation row written by /api/session.
	// It is not part of any transcript; readers filter on user/assistant.
	RoleSession Role = "session"
)

// Record is one immutable row of the conversation log. Rows are created
// exactly once and never updated or deleted; the ordered rows for a session
// key are the full history of that session.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	ParticipantID string    `json:"participant_id"`
	BotID         string    `json:"bot_id"`
	Arm           string    `json:"arm"`
	Role          Role      `json:"role"`
	Content       string    `json:"content"`

	// Optional columns. They follow the six required ones and never
	// replace them.
	RequestID string `json:"request_id,omitempty"`
	TurnIndex int64  `json:"turn_index,omitempty"`
	ModelName string `json:"model_name,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
}

// Columns returns the flat row in the fixed column order used by the
// spreadsheet-style stores: timestamp, participant_id, bot_id, arm, role,
// content, then the optional columns.
func (r Record) Columns() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.ParticipantID,
		r.BotID,
		r.Arm,
		string(r.Role),
		r.Content,
		r.RequestID,
		optionalInt(r.TurnIndex),
		r.ModelName,
		optionalInt(r.LatencyMS),
	}
}

// Key returns the session key the record belongs to.
func (r Record) Key() SessionKey {
	return SessionKey{ParticipantID: r.ParticipantID, BotID: r.BotID}
}

func optionalInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
