// Package address validates Solana wallet addresses before any provider
// call is made on their behalf.
package address

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ErrInvalid indicates that the input is not a valid Solana address.
var ErrInvalid = errors.New("invalid solana address")

// publicKeyLength is the byte length of an ed25519 public key.
const publicKeyLength = 32

// Validate checks that the input is base58 and decodes to a 32-byte public
// key. It returns the input unchanged on success so call sites can validate
// and assign in one step.
func Validate(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalid)
	}

	raw, err := base58.Decode(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(raw) != publicKeyLength {
		return "", fmt.Errorf("%w: decodes to %d bytes, want %d", ErrInvalid, len(raw), publicKeyLength)
	}

	return input, nil
}
