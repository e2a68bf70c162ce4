package services

import (
	"fmt"

	"paradise-vista/internal/database"
	"paradise-vista/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = database.ErrNotFound

// ValidationError is a missing or malformed input, reported against one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateError means the national ID already has a reservation.
type DuplicateError struct {
	CPF string
}

func (e *DuplicateError) Error() string {
	return "a reservation already exists for this CPF"
}

// PersistenceError carries the store's rejection message through to the user.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type TransitionError struct {
	From models.ReservationStatus
	To   models.ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
