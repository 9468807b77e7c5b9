// Package internalerr defines the error kinds reviewlens callers match with
// errors.Is. Call sites wrap them with context.
package internalerr

import "errors"

var (
	// ErrNotFound: unknown movie id, run or record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: malformed catalog or store record.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable: store closed or not opened.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidConfig: missing or unreadable lexicon, table or config file, or
	// an out-of-range config value.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrBudgetExceeded: enumeration stopped at its node budget. Partial
	// results accompany it.
	ErrBudgetExceeded = errors.New("segmentation budget exceeded")
)
