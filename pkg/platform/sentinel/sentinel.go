package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Ledger stores return these
// (optionally wrapped) so registry services can translate them into domain
// errors without knowing which backend is wired in.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: no record exists at the derived address
// - ErrConflict: the derived address is already occupied (create lost the race
//   or the record was written earlier)
// - ErrUnavailable: backend temporarily unreachable
//
// For validation errors (bad input, limit breaches), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
