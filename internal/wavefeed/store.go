// Package wavefeed holds the ordered, duplicate-free collection of waves a
// session has discovered. The historical batch comes first, in ledger order,
// followed by live arrivals in the order they were accepted.
package wavefeed

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/types"
)

// ErrAlreadySeeded is returned when Seed is called more than once.
var ErrAlreadySeeded = errors.New("feed already seeded")

var meter = otel.Meter("github.com/gabapcia/waveportal/internal/wavefeed")

// Store is append-only: its length never decreases and accepted records are
// never modified. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []Record
	seen    types.Set[Key]
	seeded  bool

	notifier Notifier

	acceptedCounter  metric.Int64Counter
	duplicateCounter metric.Int64Counter
}

// Seed bulk-inserts the historical batch. It runs once per Store; later calls
// return ErrAlreadySeeded and leave the feed untouched. Records already in the
// feed, or repeated inside the batch, are skipped.
func (s *Store) Seed(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeded {
		return ErrAlreadySeeded
	}

	var accepted int
	for _, record := range records {
		if s.seen.TryAdd(record.Key()) {
			s.records = append(s.records, record)
			accepted++
		}
	}
	s.seeded = true

	s.acceptedCounter.Add(ctx, int64(accepted))
	s.duplicateCounter.Add(ctx, int64(len(records)-accepted))

	logger.Info(ctx, "feed seeded",
		"feed.received", len(records),
		"feed.accepted", accepted,
	)

	return nil
}

// Ingest appends record unless a record with the same Key is already in the
// feed. It reports whether the record was appended. Duplicates are expected
// from an at-least-once stream and are dropped silently.
func (s *Store) Ingest(ctx context.Context, record Record) bool {
	s.mu.Lock()
	accepted := s.seen.TryAdd(record.Key())
	if accepted {
		s.records = append(s.records, record)
	}
	s.mu.Unlock()

	if !accepted {
		s.duplicateCounter.Add(ctx, 1)
		logger.Debug(ctx, "duplicate wave dropped",
			"wave.author", record.Author,
			"wave.occurred_at", record.OccurredAt,
		)
		return false
	}

	s.acceptedCounter.Add(ctx, 1)

	if s.notifier != nil {
		if err := s.notifier.NotifyWave(ctx, record); err != nil {
			logger.Error(ctx, "failed to notify new wave",
				"wave.author", record.Author,
				"wave.occurred_at", record.OccurredAt,
				"error", err,
			)
		}
	}

	return true
}

// List returns a copy of the feed in insertion order, oldest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.records)
}

// NewestFirst returns a copy of the feed in the order it is rendered.
func (s *Store) NewestFirst() []Record {
	records := s.List()
	slices.Reverse(records)

	return records
}

// Len returns the number of records in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Seeded reports whether Seed has completed.
func (s *Store) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seeded
}

type config struct {
	notifier Notifier
}

type Option func(*config)

// WithNotifier forwards every live record accepted by the Store to n.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// New creates an empty, unseeded Store.
func New(opts ...Option) *Store {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	// Falls back to noop instruments when telemetry is disabled.
	accepted, _ := meter.Int64Counter("wavefeed.records.accepted",
		metric.WithDescription("Waves appended to the feed"),
	)
	duplicate, _ := meter.Int64Counter("wavefeed.records.duplicate",
		metric.WithDescription("Waves dropped as duplicates"),
	)

	return &Store{
		seen:             types.NewSet[Key](),
		notifier:         cfg.notifier,
		acceptedCounter:  accepted,
		duplicateCounter: duplicate,
	}
}
