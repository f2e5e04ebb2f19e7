package domain

import (
	"encoding/hex"
	"encoding/json"

	dErrors "formledger/pkg/domain-errors"
)

// AddressLen is the byte length of a caller identity on the ledger.
const AddressLen = 32

// Address identifies a caller (authority, admin, or external verifier) on the
// ledger. It is hex-encoded on the wire.
//
// Usage: construct via ParseAddress at trust boundaries; direct casting
// bypasses validation.
type Address [AddressLen]byte

// ParseAddress constructs an Address from external input.
//
// Errors: returns CodeInvalidInput when the value is not exactly 64 hex
// characters; no other errors are expected.
func ParseAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be hex encoded")
	}
	if len(raw) != AddressLen {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 32 bytes")
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the lowercase hex representation.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalJSON encodes the address as a hex string so persisted records and API
// payloads stay human-checkable.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
