package services

import "errors"

// Shared service errors, mapped to HTTP statuses in the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid login or password")

	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrCalendarNotFound   = errors.New("calendar entry not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrDrawNotFound       = errors.New("draw not found")

	// ErrAlreadyDrawn: drawing a calendar entry is a one-time
	// operation, rejected before the generator runs.
	ErrAlreadyDrawn = errors.New("calendar entry already drawn")

	// ErrInsufficientPlayerPool: the draw could not be seeded; nothing
	// is committed and the caller may retry from scratch.
	ErrInsufficientPlayerPool = errors.New("player pool cannot seed the draw")

	// ErrDuplicateAssignment: a next-round slot is already occupied by
	// a different team. Occupation by the same team is the replayed
	// event case and is treated as a no-op instead.
	ErrDuplicateAssignment = errors.New("next match slot already assigned to another team")
)
