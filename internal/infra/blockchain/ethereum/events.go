package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/pkg/x/chflow"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

type (
	// LogFilter is the filter object of eth_getLogs.
	LogFilter struct {
		FromBlock types.Hex     `json:"fromBlock"`
		ToBlock   types.Hex     `json:"toBlock"`
		Address   string        `json:"address"`
		Topics    []common.Hash `json:"topics"`
	}

	// LogResponse is one entry of the eth_getLogs result.
	LogResponse struct {
		Address         common.Address `json:"address"`
		Topics          []common.Hash  `json:"topics"`
		Data            hexutil.Bytes  `json:"data"`
		BlockNumber     types.Hex      `json:"blockNumber"`
		TransactionHash common.Hash    `json:"transactionHash"`
		LogIndex        types.Hex      `json:"logIndex"`
		Removed         bool           `json:"removed"`
	}
)

// toWave decodes a NewWave log.
func (l LogResponse) toWave() (wavecontract.Wave, error) {
	if len(l.Topics) != 2 || l.Topics[0] != parsedABI.Events[eventNewWave].ID {
		return wavecontract.Wave{}, fmt.Errorf("log %s#%s is not a NewWave event", l.TransactionHash.Hex(), l.LogIndex)
	}

	var data newWaveData
	if err := parsedABI.UnpackIntoInterface(&data, eventNewWave, l.Data); err != nil {
		return wavecontract.Wave{}, err
	}

	return wavecontract.Wave{
		Author:     common.BytesToAddress(l.Topics[1].Bytes()).Hex(),
		OccurredAt: unixTime(data.Timestamp),
		Message:    data.Message,
	}, nil
}

// getLogs fetches the NewWave logs of the contract in [from, to].
func (c *client) getLogs(ctx context.Context, from, to types.Hex) ([]LogResponse, error) {
	filter := LogFilter{
		FromBlock: from,
		ToBlock:   to,
		Address:   c.contract.Hex(),
		Topics:    []common.Hash{parsedABI.Events[eventNewWave].ID},
	}

	data, err := c.read.Fetch(ctx, "eth_getLogs", filter)
	if err != nil {
		return nil, classify(err)
	}

	var logs []LogResponse
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, decodeError("logs", err)
	}

	return logs, nil
}

// pollNewWaves emits every NewWave event between fromBlockNumber and the
// current head and returns the height to resume from.
//
// If the head or the log range cannot be read, an event carrying the error is
// emitted and fromBlockNumber is returned unchanged, so the same range is
// requested again on the next poll. A log that fails to decode is reported as
// an error event and then skipped: refetching returns the same bytes.
func (c *client) pollNewWaves(ctx context.Context, fromBlockNumber types.Hex, eventsCh chan<- wavecontract.WaveEvent) types.Hex {
	latestBlockNumber, err := c.BlockNumber(ctx)
	if err != nil {
		chflow.Send(ctx, eventsCh, wavecontract.WaveEvent{Height: fromBlockNumber, Err: err})
		return fromBlockNumber
	}

	if fromBlockNumber.Uint64() > latestBlockNumber.Uint64() {
		return fromBlockNumber
	}

	var logs []LogResponse
	errs := c.retry.Execute(ctx, func() error {
		logs, err = c.getLogs(ctx, fromBlockNumber, latestBlockNumber)
		return err
	})
	if errs != nil {
		chflow.Send(ctx, eventsCh, wavecontract.WaveEvent{Height: fromBlockNumber, Err: errors.Join(errs...)})
		return fromBlockNumber
	}

	for _, l := range logs {
		if l.Removed {
			continue
		}

		wave, err := l.toWave()
		if err != nil {
			err = decodeError("NewWave log", err)
		}

		if !chflow.Send(ctx, eventsCh, wavecontract.WaveEvent{Height: l.BlockNumber, Wave: wave, Err: err}) {
			return fromBlockNumber
		}
	}

	return latestBlockNumber.Add(1)
}

// WatchNewWave implements wavecontract.Contract by polling eth_getLogs.
// An empty fromHeight starts at the current head. The channel is closed
// when ctx is canceled.
func (c *client) WatchNewWave(ctx context.Context, fromHeight types.Hex) (<-chan wavecontract.WaveEvent, error) {
	if fromHeight.IsEmpty() {
		latestBlockNumber, err := c.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}

		fromHeight = latestBlockNumber
	}

	eventsCh := make(chan wavecontract.WaveEvent, eventsChannelBufferSize)
	go func() {
		defer close(eventsCh)

		for {
			fromHeight = c.pollNewWaves(ctx, fromHeight, eventsCh)

			if !chflow.Sleep(ctx, c.pollInterval) {
				return
			}
		}
	}()

	return eventsCh, nil
}
