package admin

import dErrors "formledger/pkg/domain-errors"

// Every error maps 1:1 to a single precondition; none is recoverable within
// the same call.
var (
	ErrAlreadyInitialized    = dErrors.New(dErrors.CodeConflict, "admin config already initialized")
	ErrNotInitialized        = dErrors.New(dErrors.CodeNotFound, "admin config not initialized")
	ErrUnauthorizedAdmin     = dErrors.New(dErrors.CodeForbidden, "unauthorized admin")
	ErrAdminAlreadyExists    = dErrors.New(dErrors.CodeConflict, "admin already exists")
	ErrAdminNotFound         = dErrors.New(dErrors.CodeNotFound, "admin not found")
	ErrMaxAdminsReached      = dErrors.New(dErrors.CodeInvariantViolation, "maximum number of admins reached")
	ErrCannotRemoveLastAdmin = dErrors.New(dErrors.CodeInvariantViolation, "cannot remove the last admin")
)
