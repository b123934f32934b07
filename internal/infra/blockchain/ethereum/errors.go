package ethereum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabapcia/waveportal/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/waveportal/internal/walletsession"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

// EIP-1193 and JSON-RPC error codes the client reacts to.
const (
	codeUserRejected     = 4001
	codeUnauthorized     = 4100
	codeUnsupported      = 4200
	codeDisconnected     = 4900
	codeChainDisconnect  = 4901
	codeMethodNotFound   = -32601
	insufficientFundsMsg = "insufficient funds"
)

func providerError(err error) (*jsonrpc.ProviderError, bool) {
	var providerErr *jsonrpc.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}

	return nil, false
}

// classify maps provider failures onto the contract client's error kinds.
// Provider errors with no matching kind, such as reverts, are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	providerErr, ok := providerError(err)
	if !ok {
		return fmt.Errorf("%w: %w", wavecontract.ErrNetwork, err)
	}

	switch {
	case providerErr.Code == codeUserRejected:
		return fmt.Errorf("%w: %w", wavecontract.ErrSigningRejected, err)
	case strings.Contains(strings.ToLower(providerErr.Message), insufficientFundsMsg):
		return fmt.Errorf("%w: %w", wavecontract.ErrInsufficientFunds, err)
	case providerErr.Code == codeUnauthorized,
		providerErr.Code == codeUnsupported,
		providerErr.Code == codeDisconnected,
		providerErr.Code == codeChainDisconnect,
		providerErr.Code == codeMethodNotFound:
		return fmt.Errorf("%w: %w", wavecontract.ErrProviderUnavailable, err)
	default:
		return err
	}
}

// classifyAuthorization maps failures of account requests onto the wallet
// session's error kinds.
func classifyAuthorization(err error) error {
	if providerErr, ok := providerError(err); ok && providerErr.Code == codeUserRejected {
		return fmt.Errorf("%w: %w", walletsession.ErrUserRejected, err)
	}

	return classify(err)
}

// decodeError wraps a malformed provider payload.
func decodeError(what string, err error) error {
	return fmt.Errorf("%w: failed to decode %s: %w", wavecontract.ErrNetwork, what, err)
}
