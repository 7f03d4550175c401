package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrModelNotTrained = errors.New("model is not trained: fit the ensemble or load a snapshot first")
	ErrNotFound        = errors.New("record not found")
	ErrNoActiveModel   = errors.New("no active model version")
)

// InsufficientDataError indicates a team does not have enough prior games to
// compute features or the pipeline does not have enough seasons to backtest.
// Callers may recover by widening the scope or abstaining.
type InsufficientDataError struct {
	Subject  string
	Season   int
	Have     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s in season %d: have %d, need %d",
		e.Subject, e.Season, e.Have, e.Required)
}

// ValidationError indicates malformed input: a mismatched feature schema, an
// empty training set, or a season with no completed games. These are caller
// bugs and are not retried.
type ValidationError struct {
	Component string
	Detail    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Component, e.Detail)
}

// SnapshotIOError wraps a failure in the snapshot store. The underlying error
// is surfaced as-is, never swallowed.
type SnapshotIOError struct {
	Op  string
	Key string
	Err error
}

func (e *SnapshotIOError) Error() string {
	return fmt.Sprintf("snapshot %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *SnapshotIOError) Unwrap() error {
	return e.Err
}
