package turnlog

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// supabaseLog inserts rows into a Postgres table through the Supabase
// postgrest API. Inserts into a serial-keyed table are pure appends; the
// returned serial id is the row's position.
type supabaseLog struct {
	client *supabase.Client
	table  string
}

// supabaseRow mirrors the conversations table. Column order in the table is
// the fixed record order; the serial id is assigned by the database.
type supabaseRow struct {
	ID            int64  `json:"id,omitempty"`
	Timestamp     string `json:"timestamp"`
	ParticipantID string `json:"participant_id"`
	BotID         string `json:"bot_id"`
	Arm           string `json:"arm"`
	Role          string `json:"role"`
	Content       string `json:"content"`
	RequestID     string `json:"request_id,omitempty"`
	TurnIndex     int64  `json:"turn_index,omitempty"`
	ModelName     string `json:"model_name,omitempty"`
	LatencyMS     int64  `json:"latency_ms,omitempty"`
}

// Append implements Log.
func (l *supabaseLog) Append(_ context.Context, rec turn.Record) (int64, error) {
	row := supabaseRow{
		Timestamp:     rec.Timestamp.UTC().Format(time.RFC3339),
		ParticipantID: rec.ParticipantID,
		BotID:         rec.BotID,
		Arm:           rec.Arm,
		Role:          string(rec.Role),
		Content:       rec.Content,
		RequestID:     rec.RequestID,
		TurnIndex:     rec.TurnIndex,
		ModelName:     rec.ModelName,
		LatencyMS:     rec.LatencyMS,
	}

	var inserted []supabaseRow
	_, err := l.client.From(l.table).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if len(inserted) == 0 {
		// Insert succeeded but the representation was not returned; the row
		// exists, we just cannot report its id.
		return 0, nil
	}
	return inserted[0].ID, nil
}

// Close implements Log.
func (l *supabaseLog) Close() error {
	return nil
}
