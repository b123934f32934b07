package jsonrpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	transporthttp "github.com/gabapcia/waveportal/internal/pkg/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *client {
	return NewClient(url, transporthttp.NewClient(
		transporthttp.WithTimeout(time.Second),
		transporthttp.WithRetryMax(0),
	))
}

func TestProviderError(t *testing.T) {
	t.Run("matches the sentinel and keeps the code", func(t *testing.T) {
		var err error = &ProviderError{Code: 4001, Message: "User rejected the request."}

		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Contains(t, err.Error(), "[4001]")
		assert.Contains(t, err.Error(), "User rejected the request.")

		var providerErr *ProviderError
		require.True(t, errors.As(err, &providerErr))
		assert.Equal(t, 4001, providerErr.Code)
	})

	t.Run("response without error object", func(t *testing.T) {
		assert.NoError(t, response{JsonRPC: "2.0"}.Err())
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("sends a well-formed request and returns the result", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      received["id"],
				"result":  "0x10",
			})
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "eth_getBalance", "0xabc", "latest")
		require.NoError(t, err)

		assert.JSONEq(t, `"0x10"`, string(result))
		assert.Equal(t, "2.0", received["jsonrpc"])
		assert.Equal(t, "eth_getBalance", received["method"])
		assert.Equal(t, []any{"0xabc", "latest"}, received["params"])
		assert.NotEmpty(t, received["id"])
	})

	t.Run("sends an empty params array when none are given", func(t *testing.T) {
		var received map[string]json.RawMessage
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&received)
			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":["0x01"]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(t.Context(), "eth_accounts")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(received["params"]))
	})

	t.Run("returns a ProviderError for JSON-RPC errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-32000,"message":"insufficient funds for gas * price + value"}}`))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "eth_sendTransaction")
		assert.Nil(t, result)

		var providerErr *ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, -32000, providerErr.Code)
		assert.Contains(t, providerErr.Message, "insufficient funds")
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not json"))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "eth_blockNumber")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NotErrorIs(t, err, ErrProviderReturnedError)
	})

	t.Run("network error when server is down", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "eth_blockNumber")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
