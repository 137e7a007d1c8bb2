package lease

import "errors"

// Error taxonomy for the lease use cases. Handlers map these onto HTTP
// statuses; everything else is treated as a persistence failure.
var (
	// ErrValidation covers missing references and unusable dates. Nothing
	// has been persisted when it is returned.
	ErrValidation = errors.New("lease: validation failed")

	// ErrNotFound is returned when the target lease does not exist.
	ErrNotFound = errors.New("lease: not found")

	// ErrReplayInconsistency means a replayed payment could not be fully
	// reattributed to the regenerated schedule (unallocated remainder or a
	// split/amount mismatch beyond the 0.01 tolerance). The whole rebuild
	// transaction is rolled back when it is returned.
	ErrReplayInconsistency = errors.New("lease: payment replay inconsistency")
)
