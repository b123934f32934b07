package txcoord

import (
	"math/big"
	"strconv"
)

// State is the lifecycle stage of the coordinator's single write slot.
type State int32

const (
	Idle       State = iota // no transaction in flight, Send is allowed
	Submitting              // reading the balance and submitting wave(message)
	Pending                 // submitted, waiting for the receipt
	Confirmed               // mined successfully, classifying the outcome
	Failed                  // submission or confirmation failed
)

var stateNames = [...]string{
	Idle:       "idle",
	Submitting: "submitting",
	Pending:    "pending",
	Confirmed:  "confirmed",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}

	return stateNames[s]
}

// PendingTransaction exists only between submission and settlement of one write.
type PendingTransaction struct {
	Hash          string
	BalanceBefore *big.Int
}

// Outcome is the report of one write attempt.
type Outcome struct {
	AttemptID string
	State     State // Confirmed or Failed once settled
	TxHash    string

	BalanceBefore *big.Int
	BalanceAfter  *big.Int // nil unless the attempt was confirmed and the balance could be read
	RewardPaid    bool     // the contract balance dropped across the write

	TotalWavesBefore uint64 // diagnostic only
	TotalWavesAfter  uint64 // diagnostic only

	Err error
}
