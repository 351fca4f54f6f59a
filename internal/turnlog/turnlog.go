// Package turnlog provides the append-only conversation store. The store
// only grows: a driver exposes a single append operation and never updates
// or deletes rows, which is what makes concurrent writers safe without any
// coordination between them.
package turnlog

import (
	"context"
	"errors"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// Common errors for turn log operations.
var (
	ErrInvalidConfig    = errors.New("invalid turn log configuration")
	ErrInvalidStoreType = errors.New("invalid turn log store type")
	ErrWriteFailed      = errors.New("turn log write failed")
)

// Log is the append-only store contract. A successful Append is exactly one
// new row in the underlying store; the returned position is the identifier
// the store assigned (row number, list length, serial id — driver specific,
// zero when the store exposes none).
//
// Implementations must be safe for concurrent use. They perform at most one
// immediate retry to get past a transient transport hiccup; retry policy
// beyond that belongs to the caller.
type Log interface {
	Append(ctx context.Context, rec turn.Record) (int64, error)
	Close() error
}
