package wavecontract

import (
	"context"
	"errors"
	"math/big"

	"github.com/gabapcia/waveportal/internal/pkg/types"
)

var (
	// ErrNotConnected is returned when no wallet address is active.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrProviderUnavailable is returned when no provider backend is configured
	// or the provider cannot serve the request.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrNetwork wraps transport and decoding failures talking to the provider.
	ErrNetwork = errors.New("network error")

	// ErrSigningRejected is returned when the signer refuses the transaction.
	ErrSigningRejected = errors.New("signing rejected")

	// ErrInsufficientFunds is returned when the sender cannot pay for gas.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionFailed is returned when a mined transaction reverted.
	ErrTransactionFailed = errors.New("transaction reverted")

	// ErrUnknownSubscription is returned by Unsubscribe for a token that is
	// not, or no longer, active.
	ErrUnknownSubscription = errors.New("unknown subscription")
)

// Contract is the provider-side view of the deployed WavePortal contract.
// Implementations classify their failures with the errors of this package.
type Contract interface {
	// BlockNumber returns the current chain head.
	BlockNumber(ctx context.Context) (types.Hex, error)

	// GetAllWaves calls getAllWaves() from the given address at the given height.
	GetAllWaves(ctx context.Context, from string, height types.Hex) ([]Wave, error)

	// GetTotalWaves calls getTotalWaves() from the given address.
	GetTotalWaves(ctx context.Context, from string) (uint64, error)

	// Balance returns the amount held by the contract, in wei.
	Balance(ctx context.Context) (*big.Int, error)

	// SendWave submits wave(message) signed by from and returns the tx hash
	// without waiting for it to be mined.
	SendWave(ctx context.Context, from, message string, gasLimit uint64) (string, error)

	// WaitMined blocks until the transaction has a receipt or ctx ends.
	WaitMined(ctx context.Context, txHash string) (Receipt, error)

	// WatchNewWave streams NewWave events from fromHeight (inclusive, or the
	// chain head when empty) in ledger order. Every decodable log is
	// delivered at least once. A log that cannot be decoded is reported as a
	// WaveEvent with Err and not delivered again. The channel is closed when
	// ctx is canceled.
	WatchNewWave(ctx context.Context, fromHeight types.Hex) (<-chan WaveEvent, error)
}

// Signer exposes the active signing identity.
type Signer interface {
	Address() (string, bool)
}
