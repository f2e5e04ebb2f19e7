package approval

import dErrors "formledger/pkg/domain-errors"

var (
	// ErrFormAlreadyApproved surfaces the occupied-address condition as a
	// distinguished kind. The addressing scheme is the real uniqueness guard.
	ErrFormAlreadyApproved = dErrors.New(dErrors.CodeConflict, "form already approved")

	// ErrApprovalNotFound is returned by every operation addressing a document
	// that was never approved, reads included.
	ErrApprovalNotFound = dErrors.New(dErrors.CodeNotFound, "form approval not found")
)
