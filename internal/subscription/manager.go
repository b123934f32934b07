// Package subscription owns the lifetime of the session's single live
// NewWave subscription and binds it to the wave feed.
package subscription

import (
	"context"
	"sync"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/wavecontract"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// Subscriber registers and releases live event callbacks.
type Subscriber interface {
	Subscribe(ctx context.Context, fromHeight types.Hex, onEvent func(wavecontract.Wave)) (wavecontract.Token, error)
	Unsubscribe(token wavecontract.Token) error
}

// Sink receives every delivered wave. It must tolerate redelivery.
type Sink interface {
	Ingest(ctx context.Context, record wavefeed.Record) bool
}

// Manager keeps at most one subscription open.
type Manager struct {
	mu     sync.Mutex
	token  wavecontract.Token
	active bool

	subscriber Subscriber
	sink       Sink
}

// Start opens the subscription from fromHeight (inclusive, chain head when
// empty). It is a no-op while a subscription is already open.
func (m *Manager) Start(ctx context.Context, fromHeight types.Hex) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return nil
	}

	// Only Stop ends the subscription.
	ctx = context.WithoutCancel(ctx)

	token, err := m.subscriber.Subscribe(ctx, fromHeight, func(w wavecontract.Wave) {
		m.sink.Ingest(ctx, wavefeed.Record{
			Author:     w.Author,
			OccurredAt: w.OccurredAt,
			Message:    w.Message,
		})
	})
	if err != nil {
		return err
	}

	m.token = token
	m.active = true

	return nil
}

// Stop releases the subscription. It is safe to call repeatedly or without a
// prior Start. The handle is dropped even if releasing it fails.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}

	if err := m.subscriber.Unsubscribe(m.token); err != nil {
		logger.Warn(context.Background(), "failed to release wave subscription",
			"subscription.token", m.token.String(),
			"error", err,
		)
	}

	m.token = wavecontract.Token{}
	m.active = false
}

// Active reports whether a subscription is open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

// New creates a Manager that feeds waves from subscriber into sink.
func New(subscriber Subscriber, sink Sink) *Manager {
	return &Manager{
		subscriber: subscriber,
		sink:       sink,
	}
}
