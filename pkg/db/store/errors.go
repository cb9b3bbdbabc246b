package store

import "errors"

var (
	// ErrInvalidInput marks a create or update that would leave a paper
	// without any source reference (no url and no filename).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an operation referencing a paper id that does not
	// exist, or that is soft-deleted where only live papers are visible.
	ErrNotFound = errors.New("paper not found")
)
