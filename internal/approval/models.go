package approval

import (
	"encoding/json"
	"fmt"

	id "formledger/pkg/domain"
)

// Approval is the record proving a document was approved by a specific admin
// at a specific time. Everything except Metadata is immutable after creation;
// the record itself is never deleted.
type Approval struct {
	DocumentID   id.DocumentID `json:"document_id"`
	DocumentHash id.FormHash   `json:"document_hash"`
	Signer       id.Address    `json:"signer"`
	ApprovedAt   int64         `json:"approved_at"`
	Metadata     id.Metadata   `json:"metadata"`
}

func encodeApproval(a *Approval) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode approval record: %w", err)
	}
	return payload, nil
}

func decodeApproval(payload []byte) (*Approval, error) {
	var a Approval
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode approval record: %w", err)
	}
	return &a, nil
}
