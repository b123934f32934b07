package ethereum

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/pkg/x/chflow"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

type (
	// CallArgs is the transaction object of eth_call and eth_sendTransaction.
	CallArgs struct {
		From string         `json:"from,omitempty"`
		To   string         `json:"to"`
		Gas  hexutil.Uint64 `json:"gas,omitempty"`
		Data hexutil.Bytes  `json:"data"`
	}

	// ReceiptResponse is the subset of eth_getTransactionReceipt the client reads.
	ReceiptResponse struct {
		TransactionHash common.Hash    `json:"transactionHash"`
		BlockNumber     types.Hex      `json:"blockNumber"`
		GasUsed         hexutil.Uint64 `json:"gasUsed"`
		Status          hexutil.Uint64 `json:"status"`
	}
)

func (r ReceiptResponse) toReceipt() wavecontract.Receipt {
	return wavecontract.Receipt{
		TxHash:  r.TransactionHash.Hex(),
		Height:  r.BlockNumber,
		GasUsed: uint64(r.GasUsed),
		Success: r.Status == 1,
	}
}

func (t waveTuple) toWave() wavecontract.Wave {
	return wavecontract.Wave{
		Author:     t.Waver.Hex(),
		OccurredAt: unixTime(t.Timestamp),
		Message:    t.Message,
	}
}

func unixTime(seconds *big.Int) time.Time {
	if seconds == nil {
		return time.Unix(0, 0).UTC()
	}

	return time.Unix(seconds.Int64(), 0).UTC()
}

func blockTag(height types.Hex) string {
	if height.IsEmpty() {
		return "latest"
	}

	return string(height)
}

// call runs a view method of the contract and returns its decoded outputs.
func (c *client) call(ctx context.Context, from, method string, height types.Hex) ([]any, error) {
	input, err := parsedABI.Pack(method)
	if err != nil {
		return nil, err
	}

	args := CallArgs{From: from, To: c.contract.Hex(), Data: input}
	data, err := c.read.Fetch(ctx, "eth_call", args, blockTag(height))
	if err != nil {
		return nil, classify(err)
	}

	var output hexutil.Bytes
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, decodeError(method+" result", err)
	}

	values, err := parsedABI.Unpack(method, output)
	if err != nil {
		return nil, decodeError(method+" result", err)
	}

	return values, nil
}

// BlockNumber implements wavecontract.Contract.
func (c *client) BlockNumber(ctx context.Context) (types.Hex, error) {
	data, err := c.read.Fetch(ctx, "eth_blockNumber")
	if err != nil {
		return "", classify(err)
	}

	var blockNumber types.Hex
	if err := json.Unmarshal(data, &blockNumber); err != nil {
		return "", decodeError("block number", err)
	}

	return blockNumber, nil
}

// GetAllWaves implements wavecontract.Contract.
func (c *client) GetAllWaves(ctx context.Context, from string, height types.Hex) ([]wavecontract.Wave, error) {
	values, err := c.call(ctx, from, methodGetAllWaves, height)
	if err != nil {
		return nil, err
	}

	tuples := *abi.ConvertType(values[0], new([]waveTuple)).(*[]waveTuple)

	waves := make([]wavecontract.Wave, len(tuples))
	for i, t := range tuples {
		waves[i] = t.toWave()
	}

	return waves, nil
}

// GetTotalWaves implements wavecontract.Contract.
func (c *client) GetTotalWaves(ctx context.Context, from string) (uint64, error) {
	values, err := c.call(ctx, from, methodGetTotalWaves, "")
	if err != nil {
		return 0, err
	}

	total, ok := values[0].(*big.Int)
	if !ok || !total.IsUint64() {
		return 0, decodeError("total waves", fmt.Errorf("unexpected value %v", values[0]))
	}

	return total.Uint64(), nil
}

// Balance implements wavecontract.Contract.
func (c *client) Balance(ctx context.Context) (*big.Int, error) {
	data, err := c.read.Fetch(ctx, "eth_getBalance", c.contract.Hex(), "latest")
	if err != nil {
		return nil, classify(err)
	}

	var balance hexutil.Big
	if err := json.Unmarshal(data, &balance); err != nil {
		return nil, decodeError("balance", err)
	}

	return balance.ToInt(), nil
}

// SendWave implements wavecontract.Contract.
func (c *client) SendWave(ctx context.Context, from, message string, gasLimit uint64) (string, error) {
	input, err := parsedABI.Pack(methodWave, message)
	if err != nil {
		return "", err
	}

	tx := CallArgs{
		From: from,
		To:   c.contract.Hex(),
		Gas:  hexutil.Uint64(gasLimit),
		Data: input,
	}

	data, err := c.write.Fetch(ctx, "eth_sendTransaction", tx)
	if err != nil {
		return "", classify(err)
	}

	var hash common.Hash
	if err := json.Unmarshal(data, &hash); err != nil {
		return "", decodeError("transaction hash", err)
	}

	return hash.Hex(), nil
}

func (c *client) getTransactionReceipt(ctx context.Context, txHash string) (*ReceiptResponse, error) {
	data, err := c.read.Fetch(ctx, "eth_getTransactionReceipt", txHash)
	if err != nil {
		return nil, classify(err)
	}

	var receipt *ReceiptResponse
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, decodeError("receipt", err)
	}

	return receipt, nil
}

// WaitMined implements wavecontract.Contract by polling for the receipt
// until it exists or ctx ends.
func (c *client) WaitMined(ctx context.Context, txHash string) (wavecontract.Receipt, error) {
	for {
		receipt, err := c.getTransactionReceipt(ctx, txHash)
		if err != nil {
			return wavecontract.Receipt{}, err
		}

		if receipt != nil {
			return receipt.toReceipt(), nil
		}

		if !chflow.Sleep(ctx, c.confirmationPollInterval) {
			return wavecontract.Receipt{}, ctx.Err()
		}
	}
}
