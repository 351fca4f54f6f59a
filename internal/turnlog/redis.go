package turnlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// redisLog appends rows to a Redis list. RPUSH is a pure append, so
// concurrent writers need no locking; the list length after the push is the
// row's position.
type redisLog struct {
	client *redis.Client
	key    string
}

// Append implements Log.
func (l *redisLog) Append(ctx context.Context, rec turn.Record) (int64, error) {
	val, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("%w: encode record: %v", ErrWriteFailed, err)
	}

	pos, err := l.client.RPush(ctx, l.key, val).Result()
	if err != nil {
		// One immediate retry covers a dropped connection being re-dialed.
		pos, err = l.client.RPush(ctx, l.key, val).Result()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return pos, nil
}

// Close implements Log.
func (l *redisLog) Close() error {
	return l.client.Close()
}
