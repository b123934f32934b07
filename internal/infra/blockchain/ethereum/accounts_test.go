package ethereum

import (
	"encoding/json"
	"testing"

	"github.com/gabapcia/waveportal/internal/pkg/transport/jsonrpc"
	jsonrpctest "github.com/gabapcia/waveportal/internal/pkg/transport/jsonrpc/mocks"
	"github.com/gabapcia/waveportal/internal/walletsession"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_Accounts(t *testing.T) {
	t.Run("returns checksummed addresses", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_accounts").
			Return(json.RawMessage(`["0x4ace859529307c21fb4c7def2c1d091ff553b9fc"]`), nil).
			Once()

		accounts, err := newTestClient(t, conn).Accounts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{contractAddress}, accounts)
	})

	t.Run("empty list", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_accounts").Return(json.RawMessage(`[]`), nil).Once()

		accounts, err := newTestClient(t, conn).Accounts(t.Context())
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("malformed payload", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_accounts").Return(json.RawMessage(`["nope"]`), nil).Once()

		_, err := newTestClient(t, conn).Accounts(t.Context())
		assert.Error(t, err)
	})
}

func TestClient_RequestAccounts(t *testing.T) {
	t.Run("uses the write connection", func(t *testing.T) {
		read, write := jsonrpctest.NewClient(t), jsonrpctest.NewClient(t)
		write.On("Fetch", mock.Anything, "eth_requestAccounts").Return(json.RawMessage(`["`+alice+`"]`), nil).Once()

		c, err := NewClient(read, write, contractAddress)
		require.NoError(t, err)

		accounts, err := c.RequestAccounts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{alice}, accounts)
	})

	t.Run("user rejection", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_requestAccounts").
			Return(nil, &jsonrpc.ProviderError{Code: 4001, Message: "User rejected the request."}).
			Once()

		_, err := newTestClient(t, conn).RequestAccounts(t.Context())
		assert.ErrorIs(t, err, walletsession.ErrUserRejected)
	})

	t.Run("falls back to eth_accounts on plain nodes", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_requestAccounts").
			Return(nil, &jsonrpc.ProviderError{Code: -32601, Message: "the method eth_requestAccounts does not exist/is not available"}).
			Once()
		conn.On("Fetch", mock.Anything, "eth_accounts").Return(json.RawMessage(`["`+alice+`"]`), nil).Once()

		accounts, err := newTestClient(t, conn).RequestAccounts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{alice}, accounts)
	})
}
