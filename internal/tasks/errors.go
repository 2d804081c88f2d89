package tasks

import (
	"errors"
	"fmt"

	"studyboard/internal/domain"
)

var (
	// ErrValidation is returned when a draft cannot be stored. The draft is left as is.
	ErrValidation = domain.ErrInvalidTask
	// ErrNotFound is returned when the update target does not exist.
	ErrNotFound = domain.ErrTaskNotFound

	ErrNoOwner       = errors.New("store has no owner loaded")
	ErrSessionClosed = errors.New("edit session is closed")
	ErrUnknownField  = errors.New("unknown draft field")
)

// SyncError reports a failed remote store call. The snapshot held before the
// call is preserved. Applied is set when a mutation reached the remote store
// and only the reload after it failed.
type SyncError struct {
	Op      string
	Err     error
	Applied bool
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func syncErr(op string, err error) error {
	return &SyncError{Op: op, Err: err}
}

// MutationApplied reports whether err is a reload failure that followed a
// successful remote write.
func MutationApplied(err error) bool {
	var se *SyncError
	return errors.As(err, &se) && se.Applied
}
