package app

import "errors"

var (
	// ErrNotFound covers both nonexistent entities and entities that fail
	// the ownership filter. The two are deliberately indistinguishable so
	// callers cannot enumerate other users' data.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned for role-gate failures only, never for
	// ownership failures.
	ErrForbidden = errors.New("forbidden")

	// ErrNoPriorUserMessage means regeneration was attempted on an
	// assistant message with no user turn before it. A stray leading
	// assistant message cannot be sensibly regenerated.
	ErrNoPriorUserMessage = errors.New("no prior user message")

	// ErrCompletionFailed wraps any transport or provider failure from the
	// completion client. No mutation has occurred and no retry is made.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrPersistenceFailed means a storage write failed after a successful
	// generation; the generated text is discarded.
	ErrPersistenceFailed = errors.New("persistence failed")

	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("incorrect email address or password")
	ErrAccountBlocked        = errors.New("account blocked")
	ErrInvalidVerifyToken    = errors.New("invalid or expired verification token")
	ErrValidation            = errors.New("validation failed")
)
