package bounty

import (
	"errors"
	"fmt"
)

// Failure kinds. Every operation failure wraps exactly one of these so
// callers can distinguish the class with errors.Is while still receiving a
// human-readable reason. Failures abort the whole operation; no partial
// state survives a returned error.
var (
	// ErrInvalidInput marks malformed caller input: empty title or content
	// hash, zero reward, past deadline at creation, unknown ids.
	ErrInvalidInput = errors.New("bounty: invalid input")
	// ErrState marks an operation that is not valid for the bounty's
	// current status.
	ErrState = errors.New("bounty: invalid state")
	// ErrUnauthorized marks callers acting outside their role: non-creator
	// cancelling, creator submitting to its own bounty, voter below the
	// reputation threshold or voting on its own submission.
	ErrUnauthorized = errors.New("bounty: unauthorized")
	// ErrTiming marks operations attempted outside their window.
	ErrTiming = errors.New("bounty: timing")
	// ErrDuplicateAction marks repeated one-shot operations: voting twice
	// on a bounty, paying out a bounty twice.
	ErrDuplicateAction = errors.New("bounty: duplicate action")
)

// Unknown-id lookups are a flavour of invalid input; errors.Is matches both
// the specific sentinel and ErrInvalidInput.
var (
	ErrBountyNotFound     = fmt.Errorf("%w: bounty not found", ErrInvalidInput)
	ErrSubmissionNotFound = fmt.Errorf("%w: submission not found", ErrInvalidInput)
)
