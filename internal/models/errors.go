package models

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrNotFound         = errors.New("not found")
)

// RecordError reports a single agent or ticket that could not be processed.
type RecordError struct {
	Collection string
	ID         string
	Field      string
	Err        error
}

func (e *RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q: field %s: %v", e.Collection, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Collection, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
