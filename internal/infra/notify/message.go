// Package notify holds the wire format shared by the wave notifiers.
package notify

import (
	"encoding/json"
	"strings"

	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// WaveMessage is the JSON payload published for every new wave.
type WaveMessage struct {
	Contract   string `json:"contract"`
	Author     string `json:"author"`
	OccurredAt int64  `json:"occurred_at"` // unix seconds
	Message    string `json:"message"`
}

// Encode builds the payload of record emitted by contract.
func Encode(contract string, record wavefeed.Record) ([]byte, error) {
	return json.Marshal(WaveMessage{
		Contract:   strings.ToLower(contract),
		Author:     record.Author,
		OccurredAt: record.OccurredAt.Unix(),
		Message:    record.Message,
	})
}
