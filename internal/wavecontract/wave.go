package wavecontract

import (
	"time"

	"github.com/gabapcia/waveportal/internal/pkg/types"
)

// Wave is one NewWave entry of the contract, as read from history or from the
// live event stream.
type Wave struct {
	Author     string    // address of the waver, EIP-55 checksummed
	OccurredAt time.Time // block timestamp recorded by the contract (UTC, second precision)
	Message    string    // free text sent with the wave
}

// WaveEvent is one delivery of the live stream. Either Wave or Err is set.
type WaveEvent struct {
	Height types.Hex // block height the event was (or failed to be) read at
	Wave   Wave
	Err    error
}

// History is the historical batch returned by getAllWaves, oldest first,
// together with the block height it was read at.
type History struct {
	Height types.Hex
	Waves  []Wave
}

// TxHandle identifies a submitted wave transaction.
type TxHandle struct {
	Hash        string
	From        string
	Message     string
	SubmittedAt time.Time
}

// Receipt is the mined outcome of a transaction.
type Receipt struct {
	TxHash  string
	Height  types.Hex
	GasUsed uint64
	Success bool
}

// Token is the opaque handle of a live subscription.
type Token struct {
	id string
}

func (t Token) String() string {
	return t.id
}
