package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Validation errors on engine entry points.
	ErrEmptyUserID     = errors.New("user id must not be empty")
	ErrEmptyActivityID = errors.New("activity id must not be empty")
	ErrInvalidPoints   = errors.New("points amount must be positive")

	// Catalog errors.
	ErrDuplicateKey = errors.New("duplicate achievement key in catalog")
)
