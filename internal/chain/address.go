package chain

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// AddressLen is the size of a decoded account address.
const AddressLen = 32

// ParseAddress validates a base58 account address and returns its raw bytes.
func ParseAddress(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty address")
	}
	raw, err := base58.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %s", input)
	}
	if len(raw) != AddressLen {
		return nil, fmt.Errorf("invalid address length: %s", input)
	}
	return raw, nil
}

// FormatAddress encodes raw account bytes as base58.
func FormatAddress(raw []byte) string {
	return base58.Encode(raw)
}
