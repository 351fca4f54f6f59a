package turnlog

import (
	"context"
	"errors"
	"log"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// Fallback wraps a primary log with a backup target. When the primary append
// fails the record goes to the backup instead, so a flaky external store
// never loses a row outright. A backup row counts as logged: the record is
// durable and offline reconciliation can merge the two stores by timestamp
// and request id.
type Fallback struct {
	primary Log
	backup  Log
}

// NewFallback wraps primary with backup. backup may not be nil.
func NewFallback(primary, backup Log) *Fallback {
	return &Fallback{primary: primary, backup: backup}
}

// Append implements Log.
func (f *Fallback) Append(ctx context.Context, rec turn.Record) (int64, error) {
	pos, err := f.primary.Append(ctx, rec)
	if err == nil {
		return pos, nil
	}

	log.Printf("[turnlog] primary append failed, writing backup: %v", err)

	pos, backupErr := f.backup.Append(ctx, rec)
	if backupErr != nil {
		return 0, errors.Join(err, backupErr)
	}
	return pos, nil
}

// Close implements Log. Both stores are closed; the first error wins.
func (f *Fallback) Close() error {
	return errors.Join(f.primary.Close(), f.backup.Close())
}
