package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord marks a record missing a field its layout requires.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownProvider is returned by the registry for an unregistered name.
	ErrUnknownProvider = errors.New("unknown provider")
)

// MalformedRecordError names the record and the missing field. It matches
// ErrMalformedRecord with errors.Is.
type MalformedRecordError struct {
	Row   int
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: row %d has no field %q", ErrMalformedRecord, e.Row, e.Field)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
