// Package txcoord drives the lifecycle of the client's own wave transactions:
// Idle → Submitting → Pending → Confirmed or Failed → Idle. Only one write is
// in flight at a time and a failed write is never retried automatically.
package txcoord

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/params"
	"github.com/google/uuid"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/validator"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

var (
	// ErrTransactionInProgress is returned by Send while another write is in flight.
	ErrTransactionInProgress = errors.New("transaction in progress")

	// ErrAbandoned is returned by Send when the caller stops waiting for a
	// submitted write. The write still settles in the background.
	ErrAbandoned = errors.New("stopped waiting for confirmation")
)

// Contract is the subset of the contract client the coordinator drives.
type Contract interface {
	ReadTotalCount(ctx context.Context) (uint64, error)
	ReadBalance(ctx context.Context) (*big.Int, error)
	SubmitWave(ctx context.Context, message string) (wavecontract.TxHandle, error)
	AwaitConfirmation(ctx context.Context, handle wavecontract.TxHandle) (wavecontract.Receipt, error)
}

type outcomeHandler func(ctx context.Context, outcome Outcome)

type sendRequest struct {
	Message string `validate:"required"`
}

// Coordinator owns the single write slot of a session.
type Coordinator struct {
	mu          sync.Mutex
	state       State
	pending     *PendingTransaction
	lastFailure error

	signer    wavecontract.Signer
	contract  Contract
	onOutcome outcomeHandler
}

// State returns the current lifecycle stage.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Pending returns the in-flight transaction, if any.
func (c *Coordinator) Pending() (PendingTransaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return PendingTransaction{}, false
	}

	return *c.pending, true
}

// LastFailure returns the error of the most recent failed attempt.
func (c *Coordinator) LastFailure() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastFailure
}

func (c *Coordinator) transition(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
}

// acquire moves the slot from Idle to Submitting.
func (c *Coordinator) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return false
	}

	c.state = Submitting
	return true
}

// abort frees a slot taken by acquire before anything was submitted.
func (c *Coordinator) abort() {
	c.transition(Idle)
}

func (c *Coordinator) setPending(tx PendingTransaction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = &tx
	c.state = Pending
}

// release records how the attempt settled and frees the slot.
func (c *Coordinator) release(outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if outcome.Err != nil {
		c.lastFailure = outcome.Err
	}
	c.pending = nil
	c.state = Idle
}

// Send submits wave(message) and waits for it to settle.
//
// While another write is in flight it fails with ErrTransactionInProgress,
// whatever the message, and leaves that attempt untouched. From Idle it fails
// with a validation error for an empty message and with
// wavecontract.ErrNotConnected without a wallet. Submission and confirmation failures are
// returned as-is after the slot is back to Idle.
//
// If ctx ends while the write is pending, Send returns ErrAbandoned. The
// write cannot be recalled, so the coordinator keeps waiting for it and
// reports the settled Outcome to the outcome handler.
func (c *Coordinator) Send(ctx context.Context, message string) (Outcome, error) {
	if !c.acquire() {
		return Outcome{}, ErrTransactionInProgress
	}

	if err := validator.Validate(sendRequest{Message: message}); err != nil {
		c.abort()
		return Outcome{}, err
	}

	if _, ok := c.signer.Address(); !ok {
		c.abort()
		return Outcome{}, wavecontract.ErrNotConnected
	}

	outcome := Outcome{AttemptID: uuid.Must(uuid.NewV7()).String()}
	ctx = logger.Derive(ctx, "tx.attempt_id", outcome.AttemptID)

	outcome.TotalWavesBefore = c.readTotalCount(ctx)

	balanceBefore, err := c.contract.ReadBalance(ctx)
	if err != nil {
		return c.fail(ctx, outcome, err)
	}
	outcome.BalanceBefore = balanceBefore

	handle, err := c.contract.SubmitWave(ctx, message)
	if err != nil {
		return c.fail(ctx, outcome, err)
	}
	outcome.TxHash = handle.Hash
	outcome.State = Pending

	c.setPending(PendingTransaction{Hash: handle.Hash, BalanceBefore: balanceBefore})
	logger.Info(ctx, "wave submitted, waiting for confirmation", "tx.hash", handle.Hash)

	settled := make(chan Outcome, 1)
	go func() {
		settled <- c.settle(context.WithoutCancel(ctx), handle, outcome)
	}()

	select {
	case <-ctx.Done():
		logger.Warn(ctx, "stopped waiting for confirmation", "tx.hash", handle.Hash)
		return outcome, fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err())
	case outcome := <-settled:
		return outcome, outcome.Err
	}
}

// settle runs the Pending stage to completion.
func (c *Coordinator) settle(ctx context.Context, handle wavecontract.TxHandle, outcome Outcome) Outcome {
	if _, err := c.contract.AwaitConfirmation(ctx, handle); err != nil {
		outcome, _ = c.fail(ctx, outcome, err)
		return outcome
	}

	c.transition(Confirmed)
	outcome.State = Confirmed

	balanceAfter, err := c.contract.ReadBalance(ctx)
	if err != nil {
		logger.Error(ctx, "failed to read the contract balance after confirmation",
			"tx.hash", handle.Hash,
			"error", err,
		)
	} else {
		outcome.BalanceAfter = balanceAfter
		outcome.RewardPaid = balanceAfter.Cmp(outcome.BalanceBefore) < 0
	}

	outcome.TotalWavesAfter = c.readTotalCount(ctx)

	c.release(outcome)
	c.onOutcome(ctx, outcome)

	return outcome
}

func (c *Coordinator) fail(ctx context.Context, outcome Outcome, err error) (Outcome, error) {
	c.transition(Failed)

	outcome.State = Failed
	outcome.Err = err

	c.release(outcome)
	c.onOutcome(ctx, outcome)

	return outcome, err
}

func (c *Coordinator) readTotalCount(ctx context.Context) uint64 {
	total, err := c.contract.ReadTotalCount(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to read total wave count", "error", err)
		return 0
	}

	logger.Info(ctx, "retrieved total wave count", "wave.total", total)
	return total
}

// weiToEther formats a wei amount in ether.
func weiToEther(wei *big.Int) string {
	if wei == nil {
		return ""
	}

	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', -1)
}

func defaultOnOutcome(ctx context.Context, outcome Outcome) {
	if outcome.State == Failed {
		logger.Error(ctx, "wave transaction failed",
			"tx.hash", outcome.TxHash,
			"error", outcome.Err,
		)
		return
	}

	msg := "no reward"
	if outcome.RewardPaid {
		msg = "reward paid"
	}

	logger.Info(ctx, msg,
		"tx.hash", outcome.TxHash,
		"contract.balance_before_eth", weiToEther(outcome.BalanceBefore),
		"contract.balance_after_eth", weiToEther(outcome.BalanceAfter),
	)
}

type config struct {
	onOutcome outcomeHandler
}

type Option func(*config)

// WithOutcomeHandler sets the function called once for every attempt that
// reached Submitting, after the slot is back to Idle.
func WithOutcomeHandler(f func(ctx context.Context, outcome Outcome)) Option {
	return func(c *config) {
		c.onOutcome = f
	}
}

// New creates an Idle coordinator that signs as signer through contract.
func New(signer wavecontract.Signer, contract Contract, opts ...Option) *Coordinator {
	cfg := config{
		onOutcome: defaultOnOutcome,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Coordinator{
		state:     Idle,
		signer:    signer,
		contract:  contract,
		onOutcome: cfg.onOutcome,
	}
}
