// Package walletsession tracks the single signing identity a client is
// connected with. The address is written only by TryReconnect and Connect
// and is never cleared for the lifetime of the Session.
package walletsession

import (
	"context"
	"errors"
	"sync"

	"github.com/gabapcia/waveportal/internal/pkg/logger"
)

var (
	// ErrProviderAbsent is returned by Connect when no signing provider is configured.
	ErrProviderAbsent = errors.New("no wallet provider found, install one to continue")

	// ErrUserRejected is returned when the provider refuses the authorization request.
	ErrUserRejected = errors.New("user rejected the authorization request")

	// ErrNoAccounts is returned when the provider grants access to no account at all.
	ErrNoAccounts = errors.New("provider returned no accounts")
)

// Provider is the signing-provider boundary used for identity discovery.
type Provider interface {
	// Accounts returns the identities that are already authorized, without
	// prompting the user (eth_accounts).
	Accounts(ctx context.Context) ([]string, error)

	// RequestAccounts asks for explicit authorization and may prompt the user
	// (eth_requestAccounts). Implementations return ErrUserRejected when the
	// user declines.
	RequestAccounts(ctx context.Context) ([]string, error)
}

// Session holds the active wallet address. The zero address ("") means
// not connected. A nil Provider means no provider is installed.
type Session struct {
	mu       sync.RWMutex
	provider Provider
	address  string
}

// New creates a Session backed by p. p may be nil.
func New(p Provider) *Session {
	return &Session{provider: p}
}

// Address returns the active address and whether one is set.
func (s *Session) Address() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.address, s.address != ""
}

// HasProvider reports whether a signing provider is installed.
func (s *Session) HasProvider() bool {
	return s.provider != nil
}

func (s *Session) setAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.address = address
}

// TryReconnect adopts the first already-authorized account, if any, and
// returns the active address. It never fails: a missing provider or a
// provider error is logged and leaves the state unchanged.
func (s *Session) TryReconnect(ctx context.Context) string {
	if !s.HasProvider() {
		logger.Warn(ctx, "no wallet provider found, install one to connect")
		return ""
	}

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		logger.Error(ctx, "failed to query authorized accounts", "error", err)
		address, _ := s.Address()
		return address
	}

	if len(accounts) == 0 {
		logger.Info(ctx, "no authorized account found")
		address, _ := s.Address()
		return address
	}

	s.setAddress(accounts[0])
	logger.Info(ctx, "found an authorized account", "wallet.address", accounts[0])

	return accounts[0]
}

// Connect requests explicit authorization and adopts the first granted account.
//
// Returns ErrProviderAbsent without a provider and ErrUserRejected when the
// user declines. On any failure the previous address is kept.
func (s *Session) Connect(ctx context.Context) (string, error) {
	if !s.HasProvider() {
		return "", ErrProviderAbsent
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}

	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}

	s.setAddress(accounts[0])
	logger.Info(ctx, "wallet connected", "wallet.address", accounts[0])

	return accounts[0], nil
}
