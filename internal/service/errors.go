package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Typed failures surfaced by the ledger engine. Every failure maps to one
// distinguishable outcome; nothing is swallowed and nothing is retried
// automatically — retry-on-conflict needs a fresh load, which is the caller's
// job.
var (
	// ErrNotFound — the product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrEntryNotFound — no history entry matched the given identifier.
	ErrEntryNotFound = errors.New("history entry not found")
	// ErrDuplicateName — a product with this name already exists.
	ErrDuplicateName = errors.New("a product with this name already exists")
	// ErrConflict — a concurrent operation on the same product committed
	// first; the caller must reload before retrying.
	ErrConflict = errors.New("the product was modified concurrently, reload and retry")
	// ErrInvalidState — an existing product unexpectedly has no current rate.
	// Unreachable as long as creation always installs one.
	ErrInvalidState = errors.New("product has no current rate")
	// ErrNoHistory — restore attempted with empty history. Allowing it would
	// destroy the last known rate, so it is forbidden.
	ErrNoHistory = errors.New("no history available to restore")
	// ErrSuggestUnavailable — the category oracle is down or fast-failing.
	ErrSuggestUnavailable = errors.New("category suggestion is unavailable")
)

// ValidationError reports malformed or missing input, rejected before any
// storage access.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
