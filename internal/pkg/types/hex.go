package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hex represents a hexadecimal-encoded quantity as a string (e.g., "0x1a"),
// the way Ethereum JSON-RPC encodes block heights.
type Hex string

// HexFromString validates the input string and returns a Hex value if valid.
func HexFromString(s string) (Hex, error) {
	if err := validateHex(s); err != nil {
		return "", err
	}

	return Hex(s), nil
}

// HexFromUint64 encodes n as a Hex quantity.
func HexFromUint64(n uint64) Hex {
	return Hex("0x" + strconv.FormatUint(n, 16))
}

// validateHex checks whether a string is a valid hexadecimal number starting with "0x" or "0X".
func validateHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("hex string must start with 0x")
	}

	if _, err := strconv.ParseUint(s[2:], 16, 64); err != nil {
		return fmt.Errorf("invalid hexadecimal value: %w", err)
	}

	return nil
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	if err := validateHex(s); err != nil {
		return err
	}

	*h = Hex(s)
	return nil
}

// IsEmpty reports whether h holds no value.
func (h Hex) IsEmpty() bool {
	return h == ""
}

// Add returns a new Hex representing h + n.
// If the original value is invalid, it treats it as zero.
func (h Hex) Add(n uint64) Hex {
	return HexFromUint64(h.Uint64() + n)
}

// Uint64 returns the decoded value. If parsing fails, it returns zero.
func (h Hex) Uint64() uint64 {
	if len(h) < 2 {
		return 0
	}

	v, _ := strconv.ParseUint(string(h)[2:], 16, 64)
	return v
}
