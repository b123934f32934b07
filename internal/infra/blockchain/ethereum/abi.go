package ethereum

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// wavePortalABI is the subset of the WavePortal contract ABI the client uses.
const wavePortalABI = `[
	{
		"type": "function",
		"name": "getAllWaves",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{
			"name": "",
			"type": "tuple[]",
			"internalType": "struct WavePortal.Wave[]",
			"components": [
				{"name": "waver", "type": "address", "internalType": "address"},
				{"name": "message", "type": "string", "internalType": "string"},
				{"name": "timestamp", "type": "uint256", "internalType": "uint256"}
			]
		}]
	},
	{
		"type": "function",
		"name": "getTotalWaves",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256", "internalType": "uint256"}]
	},
	{
		"type": "function",
		"name": "wave",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "_message", "type": "string", "internalType": "string"}],
		"outputs": []
	},
	{
		"type": "event",
		"name": "NewWave",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true, "internalType": "address"},
			{"name": "timestamp", "type": "uint256", "indexed": false, "internalType": "uint256"},
			{"name": "message", "type": "string", "indexed": false, "internalType": "string"}
		]
	}
]`

const (
	methodGetAllWaves   = "getAllWaves"
	methodGetTotalWaves = "getTotalWaves"
	methodWave          = "wave"
	eventNewWave        = "NewWave"
)

var parsedABI = mustParseABI(wavePortalABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}

	return parsed
}

// waveTuple mirrors the WavePortal.Wave struct returned by getAllWaves.
type waveTuple struct {
	Waver     common.Address
	Message   string
	Timestamp *big.Int
}

// newWaveData holds the non-indexed fields of a NewWave log.
type newWaveData struct {
	Timestamp *big.Int
	Message   string
}
