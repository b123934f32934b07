package wavefeed

import (
	"context"
	"strings"
	"time"
)

// Record is one entry of the feed. Records are values and never change
// after construction.
type Record struct {
	Author     string
	OccurredAt time.Time
	Message    string
}

// Key is the identity used to detect duplicate deliveries of the same wave.
// The contract provides no id, so it is derived from the record itself.
type Key struct {
	Author     string // lower-cased, addresses compare case-insensitively
	OccurredAt int64  // unix seconds, the precision the contract stores
	Message    string
}

// Key returns the deduplication key of r.
func (r Record) Key() Key {
	return Key{
		Author:     strings.ToLower(r.Author),
		OccurredAt: r.OccurredAt.Unix(),
		Message:    r.Message,
	}
}

// Notifier is told about every record accepted from the live stream.
type Notifier interface {
	// NotifyWave is called after record was appended to the feed. Returning
	// an error does not undo the append.
	NotifyWave(ctx context.Context, record Record) error
}
