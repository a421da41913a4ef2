package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrMalformedEntry    = errors.New("malformed entry")
	ErrInvalidConfidence = errors.New("confidence outside (0,1)")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidRaceRecord = errors.New("invalid race record")
)

// MalformedEntryError reports a horse or result record missing a field the
// current computation needs
type MalformedEntryError struct {
	Entity string // "horse" or "result"
	Index  int    // position of the record in its list
	ID     string // record id, empty when the id itself is missing
	Field  string // missing field name
}

// NewMalformedEntryError creates a new malformed entry error
func NewMalformedEntryError(entity string, index int, id, field string) *MalformedEntryError {
	return &MalformedEntryError{
		Entity: entity,
		Index:  index,
		ID:     id,
		Field:  field,
	}
}

func (e *MalformedEntryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %d (%s): missing %s", e.Entity, e.Index, e.ID, e.Field)
	}
	return fmt.Sprintf("%s %d: missing %s", e.Entity, e.Index, e.Field)
}

// Unwrap lets errors.Is match ErrMalformedEntry
func (e *MalformedEntryError) Unwrap() error {
	return ErrMalformedEntry
}
