package policies

import (
	"context"
	"time"
)

// IdempotencyRecord stores the response of a previously-completed
// request so a retry with the same key replays it. Only successful
// outcomes are recorded; failed requests run again on retry.
type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}
