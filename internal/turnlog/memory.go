package turnlog

import (
	"context"
	"sync"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// Memory implements Log with an in-memory slice. It backs tests and local
// development runs where no external store is provisioned.
type Memory struct {
	mu   sync.Mutex
	rows []turn.Record
}

// NewMemory returns an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Log. The position is the 1-based row number.
func (m *Memory) Append(_ context.Context, rec turn.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rec)
	return int64(len(m.rows)), nil
}

// Records returns a snapshot of everything appended so far, in order.
func (m *Memory) Records() []turn.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]turn.Record, len(m.rows))
	copy(out, m.rows)
	return out
}

// Close implements Log.
func (m *Memory) Close() error {
	return nil
}
