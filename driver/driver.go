// Package driver implements the serialization formats used for snapshots.
//
// A Driver turns a value into a canonical text and decides whether a stored
// text still matches a fresh serialization of a value. Drivers are stateless
// and can be shared between tests.
package driver

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// Driver defines the interface snapshot formats need to implement
type Driver interface {
	// Name is the name the driver is registered under
	Name() string
	// Extension is the file suffix for this format, without a leading dot.
	// It may be empty.
	Extension() string
	// Serialize returns the canonical text for v. The same logical value
	// must always produce the same text.
	Serialize(v any) (string, error)
	// Match compares the stored text against a fresh serialization of
	// actual. It returns nil, a *MismatchError or a *SerializationError.
	Match(expected string, actual any) error
}

// SerializationError is returned when a driver cannot encode a value
type SerializationError struct {
	Driver string
	Type   string // Go type of the value, as printed by %T
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s driver: cannot serialize %s: %v", e.Driver, e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func newSerializationError(driver string, v any, err error) *SerializationError {
	return &SerializationError{
		Driver: driver,
		Type:   fmt.Sprintf("%T", v),
		Err:    err,
	}
}

// MismatchError is returned when the stored text differs from the actual
// serialization.
type MismatchError struct {
	Driver   string
	Expected string // stored text
	Actual   string // fresh serialization
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s snapshot mismatch (-expected +actual):\n%s", e.Driver, e.Diff())
}

// Diff returns a human readable diff between the stored and actual text.
func (e *MismatchError) Diff() string {
	return cmp.Diff(e.Expected, e.Actual)
}

// IsMismatch reports if err is or wraps a *MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

// IsSerialization reports if err is or wraps a *SerializationError.
func IsSerialization(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// matchSerialized implements Match for drivers that compare plain text.
func matchSerialized(d Driver, expected string, actual any) error {
	got, err := d.Serialize(actual)
	if err != nil {
		return err
	}
	if got != expected {
		return &MismatchError{
			Driver:   d.Name(),
			Expected: expected,
			Actual:   got,
		}
	}
	return nil
}
