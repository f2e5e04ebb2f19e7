package ledger

import (
	"crypto/sha256"
	"encoding/hex"

	id "formledger/pkg/domain"
)

// Domain separators for storage address derivation. These are contractual:
// an external verifier recomputes the same address from the document id alone
// to locate and independently check a record.
const (
	adminConfigSeed  = "admin_config"
	formApprovalSeed = "form_approval"
)

// Address is a 32-byte storage address on the ledger.
type Address [32]byte

// String returns the lowercase hex representation.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// ConfigAddress derives the singleton admin config address.
func ConfigAddress() Address {
	return Address(sha256.Sum256([]byte(adminConfigSeed)))
}

// ApprovalAddress derives the storage address of the approval record for a
// document. The derivation is a pure function of the document id, which is
// what makes a second approval of the same document target an occupied
// address.
func ApprovalAddress(docID id.DocumentID) Address {
	h := sha256.New()
	h.Write([]byte(formApprovalSeed))
	h.Write([]byte(docID))
	var a Address
	h.Sum(a[:0])
	return a
}
