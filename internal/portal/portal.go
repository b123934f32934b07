// Package portal is the session context of one wave portal client. It owns
// one of each component and runs the start-up sequence: silent reconnect,
// historical read, seed, then live subscription.
package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/subscription"
	"github.com/gabapcia/waveportal/internal/txcoord"
	"github.com/gabapcia/waveportal/internal/wavecontract"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

// Wallet is the session's signing identity.
type Wallet interface {
	wavecontract.Signer
	HasProvider() bool
	TryReconnect(ctx context.Context) string
	Connect(ctx context.Context) (string, error)
}

// Feed is the session's wave collection.
type Feed interface {
	subscription.Sink
	Seed(ctx context.Context, records []wavefeed.Record) error
	NewestFirst() []wavefeed.Record
	Seeded() bool
}

// Contract is the part of the contract client the portal reads directly.
type Contract interface {
	ReadHistory(ctx context.Context) (wavecontract.History, error)
	ReadTotalCount(ctx context.Context) (uint64, error)
}

// Subscription is the live subscription owner.
type Subscription interface {
	Start(ctx context.Context, fromHeight types.Hex) error
	Stop()
	Active() bool
}

// Sender drives outgoing waves.
type Sender interface {
	Send(ctx context.Context, message string) (txcoord.Outcome, error)
}

// Service is the surface the presentation layer drives.
type Service interface {
	// Start reconnects silently and, when a wallet is known, syncs the feed.
	// Returns ErrServiceAlreadyStarted if called more than once.
	Start(ctx context.Context) error

	// Connect asks the provider for explicit authorization and syncs the feed
	// if it was not synced yet.
	Connect(ctx context.Context) (string, error)

	// Send submits a wave and waits for it to settle.
	Send(ctx context.Context, message string) (txcoord.Outcome, error)

	// Address returns the active wallet address.
	Address() (string, bool)

	// HasProvider reports whether a wallet provider is available at all.
	HasProvider() bool

	// Waves returns the feed, newest first.
	Waves() []wavefeed.Record

	// TotalWaves returns the contract's wave counter.
	TotalWaves(ctx context.Context) (uint64, error)

	// Close releases the live subscription. It is safe to call repeatedly.
	Close()
}

type service struct {
	mu        sync.Mutex // serializes lifecycle and feed sync
	isStarted bool

	wallet       Wallet
	contract     Contract
	feed         Feed
	subscription Subscription
	sender       Sender
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}
	s.isStarted = true

	if address := s.wallet.TryReconnect(ctx); address == "" {
		logger.Info(ctx, "no wallet connected, waiting for an explicit connect")
		return nil
	}

	return s.sync(ctx)
}

func (s *service) Connect(ctx context.Context) (string, error) {
	address, err := s.wallet.Connect(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sync(ctx); err != nil {
		return address, err
	}

	return address, nil
}

// sync seeds the feed from history and opens the live subscription at the
// height history was read at, so no wave falls between the two. Waves seen
// by both are absorbed by the feed's deduplication. It must be called with
// s.mu held.
func (s *service) sync(ctx context.Context) error {
	if s.subscription.Active() {
		return nil
	}

	var fromHeight types.Hex
	if !s.feed.Seeded() {
		history, err := s.contract.ReadHistory(ctx)
		if err != nil {
			logger.Error(ctx, "failed to read wave history, following new waves only", "error", err)
		} else {
			if err := s.feed.Seed(ctx, toRecords(history.Waves)); err != nil {
				return err
			}
			fromHeight = history.Height
		}
	}

	return s.subscription.Start(ctx, fromHeight)
}

func toRecords(waves []wavecontract.Wave) []wavefeed.Record {
	records := make([]wavefeed.Record, 0, len(waves))
	for _, w := range waves {
		records = append(records, wavefeed.Record{
			Author:     w.Author,
			OccurredAt: w.OccurredAt,
			Message:    w.Message,
		})
	}

	return records
}

func (s *service) Send(ctx context.Context, message string) (txcoord.Outcome, error) {
	return s.sender.Send(ctx, message)
}

func (s *service) Address() (string, bool) {
	return s.wallet.Address()
}

func (s *service) HasProvider() bool {
	return s.wallet.HasProvider()
}

func (s *service) Waves() []wavefeed.Record {
	return s.feed.NewestFirst()
}

func (s *service) TotalWaves(ctx context.Context) (uint64, error) {
	return s.contract.ReadTotalCount(ctx)
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscription.Stop()
}

// New assembles a session from its components.
func New(wallet Wallet, contract Contract, feed Feed, subscription Subscription, sender Sender) *service {
	return &service{
		wallet:       wallet,
		contract:     contract,
		feed:         feed,
		subscription: subscription,
		sender:       sender,
	}
}
