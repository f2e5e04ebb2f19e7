package domain

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	dErrors "formledger/pkg/domain-errors"
)

// Limits for approval record fields. These bound the serialized record size
// and are part of the public contract.
const (
	MaxDocumentIDLength = 64
	MaxMetadataLength   = 256
	HashLen             = 32
)

// Validation errors for approval record fields.
var (
	ErrDocumentIDEmpty   = dErrors.New(dErrors.CodeInvalidInput, "document id must not be empty")
	ErrDocumentIDTooLong = dErrors.New(dErrors.CodeValidation, "document id is too long")
	ErrMetadataTooLong   = dErrors.New(dErrors.CodeValidation, "metadata is too long")
	ErrInvalidFormHash   = dErrors.New(dErrors.CodeValidation, "invalid form hash")
)

// DocumentID is the external identifier of a submitted document. It doubles as
// the input to the record's storage address derivation, so its byte content is
// contractual.
type DocumentID string

// ParseDocumentID constructs a DocumentID from external input, enforcing the
// 1..64 byte bound.
func ParseDocumentID(s string) (DocumentID, error) {
	if s == "" {
		return "", ErrDocumentIDEmpty
	}
	if len(s) > MaxDocumentIDLength {
		return "", ErrDocumentIDTooLong
	}
	return DocumentID(s), nil
}

func (d DocumentID) String() string {
	return string(d)
}

// FormHash is the 32-byte digest of the approved document's content. The digest
// algorithm is supplied by the caller's environment; this type only carries it.
type FormHash [HashLen]byte

// ParseFormHash constructs a FormHash from raw bytes, rejecting wrong lengths
// and the all-zero digest (which would approve "nothing").
func ParseFormHash(raw []byte) (FormHash, error) {
	if len(raw) != HashLen {
		return FormHash{}, ErrInvalidFormHash
	}
	var h FormHash
	copy(h[:], raw)
	if h.IsZero() {
		return FormHash{}, ErrInvalidFormHash
	}
	return h, nil
}

// ParseFormHashHex constructs a FormHash from a hex string.
func ParseFormHashHex(s string) (FormHash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return FormHash{}, ErrInvalidFormHash
	}
	return ParseFormHash(raw)
}

// IsZero reports whether the hash is the all-zero digest.
func (h FormHash) IsZero() bool {
	return h == FormHash{}
}

// Equal compares two hashes over the full 32 bytes without early exit.
func (h FormHash) Equal(other FormHash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}

func (h FormHash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalJSON encodes the digest as a hex string, matching Address.
func (h FormHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *FormHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFormHashHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Metadata is the single mutable field on an approval record.
type Metadata string

// ParseMetadata enforces the 256-byte metadata bound. Empty is valid: records
// created without metadata carry "".
func ParseMetadata(s string) (Metadata, error) {
	if len(s) > MaxMetadataLength {
		return "", ErrMetadataTooLong
	}
	return Metadata(s), nil
}

func (m Metadata) String() string {
	return string(m)
}
