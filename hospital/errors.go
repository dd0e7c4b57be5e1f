/*
errors.go - Centralized error types for the hospital model

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers test with errors.Is against the sentinels, or errors.As against
  the structured types when they need the offending bed or patient.

ERROR CATEGORIES:
  1. Lookup errors - unknown bed name, patient not in any bed
  2. Occupancy errors - bed already in use, patient already admitted
  3. Validation errors - invalid enum strings, misplaced restrictions
  4. Store errors - duplicate event ids in the append-only log

USAGE:
  if err := h.Admit(p, "B012"); errors.Is(err, hospital.ErrBedOccupied) {
      // re-check availability, do not retry blindly
  }

SEE ALSO:
  - hospital.go: Returns lookup and occupancy errors
  - types.go: Parse helpers return InvalidValueError
*/
package hospital

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBedNotFound is returned when no bed carries the requested name.
	ErrBedNotFound = errors.New("bed not found")

	// ErrPatientNotFound is returned when the patient is not in any bed.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrBedOccupied is returned when admitting into a bed that is in use.
	ErrBedOccupied = errors.New("bed occupied")

	// ErrPatientAdmitted is returned when the patient already holds a bed.
	ErrPatientAdmitted = errors.New("patient already admitted")

	// ErrDuplicateBed is returned when a bed name is reused within a hospital.
	ErrDuplicateBed = errors.New("duplicate bed name")

	// ErrInvalidValue is returned when a raw string does not name a valid enum member.
	ErrInvalidValue = errors.New("invalid value")

	// ErrRestrictionScope is returned when a restriction is attached at the wrong level.
	ErrRestrictionScope = errors.New("restriction attached at wrong scope")

	// ErrUnknownRestriction is returned for an unrecognised restriction name.
	ErrUnknownRestriction = errors.New("unknown restriction")

	// ErrDuplicateEvent is returned when an event ID is appended twice.
	ErrDuplicateEvent = errors.New("duplicate event id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// BedNotFoundError names the bed that could not be found.
type BedNotFoundError struct {
	Bed string
}

func (e *BedNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find any bed with name %s", e.Bed)
}

func (e *BedNotFoundError) Unwrap() error { return ErrBedNotFound }

// PatientNotFoundError names the patient that is not in any bed.
type PatientNotFoundError struct {
	Patient string
}

func (e *PatientNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find patient %s in any bed", e.Patient)
}

func (e *PatientNotFoundError) Unwrap() error { return ErrPatientNotFound }

// BedOccupiedError provides the bed and its current occupant.
type BedOccupiedError struct {
	Bed      string
	Occupant string
}

func (e *BedOccupiedError) Error() string {
	return fmt.Sprintf("bed %s is already in use by %s", e.Bed, e.Occupant)
}

func (e *BedOccupiedError) Unwrap() error { return ErrBedOccupied }

// InvalidValueError is returned by the Parse* helpers and constructors.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("incorrect value for %s attribute: %q", e.Field, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing bed or patient.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBedNotFound) ||
		errors.Is(err, ErrPatientNotFound)
}

// IsConflict returns true if the error is an occupancy conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBedOccupied) ||
		errors.Is(err, ErrPatientAdmitted) ||
		errors.Is(err, ErrDuplicateBed)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrRestrictionScope) ||
		errors.Is(err, ErrUnknownRestriction)
}
