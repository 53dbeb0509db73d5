package bufq

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a parameter that is malformed regardless
	// of the reader's current state, e.g. a negative count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange indicates a requested span that falls outside the
	// unread bytes. A single-byte read from an empty reader reports this
	// error as well.
	ErrOutOfRange = errors.New("out of range")

	// ErrDomain indicates a pushed value outside its fixed-width type's
	// representable domain.
	ErrDomain = errors.New("value out of domain")
)

// RangeError reports the decode span that exceeded the available bytes.
// It unwraps to ErrOutOfRange.
type RangeError struct {
	Op     string
	Offset int
	Need   int
	Have   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: need %d byte(s) at offset %d, have %d: %v",
		e.Op, e.Need, e.Offset, e.Have, ErrOutOfRange)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func rangeErr(op string, off, need, have int) error {
	return &RangeError{Op: op, Offset: off, Need: need, Have: have}
}

func negativeErr(op, name string, v int) error {
	return fmt.Errorf("%s: negative %s %d: %w", op, name, v, ErrInvalidArgument)
}
