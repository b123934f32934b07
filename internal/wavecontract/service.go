// Package wavecontract is the typed client of the deployed WavePortal
// contract. Every operation is performed on behalf of the active wallet
// address and is routed through a provider-side Contract backend.
package wavecontract

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/pkg/x/chflow"
)

// DefaultGasLimit is the gas ceiling attached to every wave transaction.
const DefaultGasLimit uint64 = 300_000

var tracer = otel.Tracer("github.com/gabapcia/waveportal/internal/wavecontract")

// Service is the contract client used by the rest of the application.
type Service interface {
	// ReadHistory returns every wave recorded by the contract, oldest first,
	// together with the height the read was pinned to.
	ReadHistory(ctx context.Context) (History, error)

	// ReadTotalCount returns the contract's wave counter.
	ReadTotalCount(ctx context.Context) (uint64, error)

	// ReadBalance returns the contract's balance in wei.
	ReadBalance(ctx context.Context) (*big.Int, error)

	// SubmitWave sends wave(message) and returns as soon as the transaction
	// has a hash.
	SubmitWave(ctx context.Context, message string) (TxHandle, error)

	// AwaitConfirmation blocks until the transaction is mined. A reverted
	// transaction yields ErrTransactionFailed.
	AwaitConfirmation(ctx context.Context, handle TxHandle) (Receipt, error)

	// Subscribe delivers each NewWave event to onEvent from a single
	// goroutine, starting at fromHeight (inclusive). An empty fromHeight
	// starts at the chain head. onEvent must not call Unsubscribe.
	Subscribe(ctx context.Context, fromHeight types.Hex, onEvent func(Wave)) (Token, error)

	// Unsubscribe stops a subscription and waits for its last delivery to
	// return. No delivery happens after Unsubscribe returns.
	Unsubscribe(token Token) error
}

type subscription struct {
	cancel context.CancelFunc
	done   <-chan struct{}
}

type service struct {
	signer   Signer
	contract Contract
	gasLimit uint64

	mu            sync.Mutex
	subscriptions map[string]subscription
}

var _ Service = (*service)(nil)

func (s *service) from() (string, error) {
	if s.signer == nil {
		return "", ErrNotConnected
	}

	address, ok := s.signer.Address()
	if !ok {
		return "", ErrNotConnected
	}

	if s.contract == nil {
		return "", ErrProviderUnavailable
	}

	return address, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *service) ReadHistory(ctx context.Context) (history History, err error) {
	ctx, span := tracer.Start(ctx, "wavecontract.ReadHistory")
	defer func() { endSpan(span, err) }()

	from, err := s.from()
	if err != nil {
		return History{}, err
	}

	height, err := s.contract.BlockNumber(ctx)
	if err != nil {
		return History{}, err
	}

	waves, err := s.contract.GetAllWaves(ctx, from, height)
	if err != nil {
		return History{}, err
	}

	span.SetAttributes(
		attribute.String("wave.height", string(height)),
		attribute.Int("wave.count", len(waves)),
	)

	return History{Height: height, Waves: waves}, nil
}

func (s *service) ReadTotalCount(ctx context.Context) (total uint64, err error) {
	ctx, span := tracer.Start(ctx, "wavecontract.ReadTotalCount")
	defer func() { endSpan(span, err) }()

	from, err := s.from()
	if err != nil {
		return 0, err
	}

	return s.contract.GetTotalWaves(ctx, from)
}

func (s *service) ReadBalance(ctx context.Context) (balance *big.Int, err error) {
	ctx, span := tracer.Start(ctx, "wavecontract.ReadBalance")
	defer func() { endSpan(span, err) }()

	if _, err = s.from(); err != nil {
		return nil, err
	}

	return s.contract.Balance(ctx)
}

func (s *service) SubmitWave(ctx context.Context, message string) (handle TxHandle, err error) {
	ctx, span := tracer.Start(ctx, "wavecontract.SubmitWave")
	defer func() { endSpan(span, err) }()

	from, err := s.from()
	if err != nil {
		return TxHandle{}, err
	}

	hash, err := s.contract.SendWave(ctx, from, message, s.gasLimit)
	if err != nil {
		return TxHandle{}, err
	}

	span.SetAttributes(attribute.String("tx.hash", hash))

	return TxHandle{
		Hash:        hash,
		From:        from,
		Message:     message,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (s *service) AwaitConfirmation(ctx context.Context, handle TxHandle) (receipt Receipt, err error) {
	ctx, span := tracer.Start(ctx, "wavecontract.AwaitConfirmation", trace.WithAttributes(
		attribute.String("tx.hash", handle.Hash),
	))
	defer func() { endSpan(span, err) }()

	if s.contract == nil {
		return Receipt{}, ErrProviderUnavailable
	}

	receipt, err = s.contract.WaitMined(ctx, handle.Hash)
	if err != nil {
		return Receipt{}, err
	}

	if !receipt.Success {
		return receipt, ErrTransactionFailed
	}

	return receipt, nil
}

func (s *service) Subscribe(ctx context.Context, fromHeight types.Hex, onEvent func(Wave)) (Token, error) {
	if _, err := s.from(); err != nil {
		return Token{}, err
	}

	ctx, cancel := context.WithCancel(ctx)

	events, err := s.contract.WatchNewWave(ctx, fromHeight)
	if err != nil {
		cancel()
		return Token{}, err
	}

	var (
		token = Token{id: uuid.NewString()}
		done  = make(chan struct{})
	)

	s.mu.Lock()
	s.subscriptions[token.id] = subscription{cancel: cancel, done: done}
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.dispatch(ctx, events, onEvent)
	}()

	logger.Info(ctx, "subscribed to new waves",
		"subscription.token", token.id,
		"subscription.from_height", fromHeight,
	)

	return token, nil
}

func (s *service) dispatch(ctx context.Context, events <-chan WaveEvent, onEvent func(Wave)) {
	for {
		event, ok := chflow.Receive(ctx, events)
		if !ok {
			return
		}

		if event.Err != nil {
			logger.Error(ctx, "failed to read new waves",
				"wave.height", event.Height,
				"error", event.Err,
			)
			continue
		}

		// Cancellation wins over an event that was already buffered.
		if ctx.Err() != nil {
			return
		}

		onEvent(event.Wave)
	}
}

func (s *service) Unsubscribe(token Token) error {
	s.mu.Lock()
	sub, ok := s.subscriptions[token.id]
	delete(s.subscriptions, token.id)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownSubscription
	}

	sub.cancel()
	<-sub.done

	return nil
}

type config struct {
	gasLimit uint64
}

type Option func(*config)

// WithGasLimit overrides the gas ceiling of wave transactions.
func WithGasLimit(limit uint64) Option {
	return func(c *config) {
		if limit > 0 {
			c.gasLimit = limit
		}
	}
}

// New creates a contract client that signs as signer and talks to contract.
// A nil contract makes every call fail with ErrProviderUnavailable.
func New(signer Signer, contract Contract, opts ...Option) *service {
	cfg := config{
		gasLimit: DefaultGasLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		signer:        signer,
		contract:      contract,
		gasLimit:      cfg.gasLimit,
		subscriptions: make(map[string]subscription),
	}
}
