// Package ethereum implements the wallet provider and the WavePortal contract
// backend on top of an Ethereum JSON-RPC endpoint.
//
// Reads go through a connection that retries failed requests. Writes
// (eth_sendTransaction, eth_requestAccounts) go through a connection that
// never retries, so a timed-out request is not submitted twice.
package ethereum

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/waveportal/internal/pkg/resilience/retry"
	"github.com/gabapcia/waveportal/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/waveportal/internal/walletsession"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

const (
	// averageBlockTime is the default interval between log polls.
	averageBlockTime = 12 * time.Second

	// defaultConfirmationPollInterval is the default interval between receipt polls.
	defaultConfirmationPollInterval = 2 * time.Second

	// eventsChannelBufferSize is the buffer of the NewWave event stream.
	eventsChannelBufferSize = 64
)

type client struct {
	read  jsonrpc.Client // retrying connection for queries
	write jsonrpc.Client // non-retrying connection for state-changing calls

	contract common.Address

	pollInterval             time.Duration
	confirmationPollInterval time.Duration
	retry                    retry.Retry
}

var (
	_ walletsession.Provider = (*client)(nil)
	_ wavecontract.Contract  = (*client)(nil)
)

type config struct {
	pollInterval             time.Duration
	confirmationPollInterval time.Duration
	retry                    retry.Retry
}

type Option func(*config)

// WithPollInterval sets how often new NewWave logs are polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithConfirmationPollInterval sets how often a pending receipt is polled.
func WithConfirmationPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.confirmationPollInterval = d
	}
}

// WithRetry sets the retry policy for log range fetches.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// NewClient creates a client for the WavePortal contract deployed at
// contractAddress. read and write may be the same connection.
func NewClient(read, write jsonrpc.Client, contractAddress string, opts ...Option) (*client, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddress)
	}

	cfg := config{
		pollInterval:             averageBlockTime,
		confirmationPollInterval: defaultConfirmationPollInterval,
		retry:                    retry.New(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		read:                     read,
		write:                    write,
		contract:                 common.HexToAddress(contractAddress),
		pollInterval:             cfg.pollInterval,
		confirmationPollInterval: cfg.confirmationPollInterval,
		retry:                    cfg.retry,
	}, nil
}
