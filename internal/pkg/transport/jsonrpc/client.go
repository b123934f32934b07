// Package jsonrpc provides a generic JSON-RPC 2.0 client implementation over HTTP.
// Retries and timeouts are delegated to the retryablehttp client it is built
// with, so a caller can keep one retrying connection for reads and a
// non-retrying one for writes.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrProviderReturnedError indicates that the remote JSON-RPC server returned an error response.
var ErrProviderReturnedError = errors.New("provider error")

// ProviderError is the error object of a JSON-RPC response. It matches
// ErrProviderReturnedError with errors.Is.
type ProviderError struct {
	Code    int             `json:"code"`    // Error code defined by JSON-RPC 2.0, EIP-1193 or the node
	Message string          `json:"message"` // Human-readable error message
	Data    json.RawMessage `json:"data"`    // Optional payload (e.g. revert data)
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: [%d] - %s", ErrProviderReturnedError, e.Code, e.Message)
}

// Is reports whether target is ErrProviderReturnedError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderReturnedError
}

// response represents a standard JSON-RPC 2.0 response.
type response struct {
	JsonRPC string          `json:"jsonrpc"` // JSON-RPC protocol version (usually "2.0")
	Error   *ProviderError  `json:"error"`   // Set when the call failed on the server
	Result  json.RawMessage `json:"result"`  // Raw result payload returned by the server
}

// Err returns the response error object, or nil when the call succeeded.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return r.Error
}

// Client defines the interface for a generic JSON-RPC client.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method name and parameters.
	// It returns the raw JSON result or an error if the request or response fails.
	// Errors returned by the server are *ProviderError values.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is a reusable JSON-RPC client over HTTP.
type client struct {
	providerEndpoint string                // The URL of the remote JSON-RPC server
	httpClient       *retryablehttp.Client // The HTTP client used to perform requests
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// Fetch sends a JSON-RPC request to the remote server with the given method and parameters.
// The `id` field in the request is generated as a UUID string.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	return data.Result, data.Err()
}

// NewClient constructs a Client that sends JSON-RPC requests to providerEndpoint
// using httpClient (see the transport/http package).
func NewClient(providerEndpoint string, httpClient *retryablehttp.Client) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}
