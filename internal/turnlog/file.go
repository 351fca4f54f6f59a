package turnlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// fileLog appends JSON lines to a local file. It is the backup target the
// fallback wrapper writes to when the primary store is down, and a usable
// primary for single-replica deployments.
type fileLog struct {
	mu   sync.Mutex
	f    *os.File
	rows int64
}

func newFileLog(path string) (*fileLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidConfig, path, err)
	}

	rows, err := countLines(path)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: scan %s: %v", ErrInvalidConfig, path, err)
	}

	return &fileLog{f: f, rows: rows}, nil
}

// Append implements Log. The position is the 1-based line number.
func (l *fileLog) Append(_ context.Context, rec turn.Record) (int64, error) {
	line, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("%w: encode record: %v", ErrWriteFailed, err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.f.Write(line); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	l.rows++
	return l.rows, nil
}

// Close implements Log.
func (l *fileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

func countLines(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var n int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}
