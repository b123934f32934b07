package ethereum

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

func (c *client) fetchAccounts(ctx context.Context, method string) ([]string, error) {
	conn := c.read
	if method == "eth_requestAccounts" {
		conn = c.write
	}

	data, err := conn.Fetch(ctx, method)
	if err != nil {
		return nil, err
	}

	var accounts []common.Address
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, decodeError("accounts", err)
	}

	addresses := make([]string, len(accounts))
	for i, account := range accounts {
		addresses[i] = account.Hex()
	}

	return addresses, nil
}

// Accounts implements walletsession.Provider using eth_accounts.
func (c *client) Accounts(ctx context.Context) ([]string, error) {
	accounts, err := c.fetchAccounts(ctx, "eth_accounts")
	if err != nil {
		return nil, classify(err)
	}

	return accounts, nil
}

// RequestAccounts implements walletsession.Provider using eth_requestAccounts.
// Nodes that do not implement it (plain nodes with unlocked accounts) are
// asked for eth_accounts instead.
func (c *client) RequestAccounts(ctx context.Context) ([]string, error) {
	accounts, err := c.fetchAccounts(ctx, "eth_requestAccounts")
	if providerErr, ok := providerError(err); ok && providerErr.Code == codeMethodNotFound {
		return c.Accounts(ctx)
	}

	if err != nil {
		return nil, classifyAuthorization(err)
	}

	return accounts, nil
}
