/*
Package hospital provides the bed-allocation domain model.

PURPOSE:
  A hospital is modelled as a four-level tree: Hospital -> Ward -> Room ->
  Bed, with an optional Patient occupying each bed. Every level can carry
  penalty-weighted restrictions; the hospital aggregates them into a total
  score plus the multiset of violated rule names. Allocation policies and
  the MCTS planner (package agent) only ever talk to this model.

KEY CONCEPTS IN THIS FILE (types.go):
  - Sex, Department, Specialty: closed enums with parse-or-reject helpers
  - RoomKind: BedBay (shared, sex-mixing penalised) vs SideRoom (isolation)
  - BedKind: Standard vs HighVisibility (for visual supervision)
  - WardID, RoomID, BedID: arena indexes into the Hospital's flat stores

ARENA LAYOUT:
  The Hospital owns three flat slices (wards, rooms, beds). Parent/child
  edges are index pairs, never embedded object references, so a Clone is
  a straight copy of three slices plus the occupant patients.

SEE ALSO:
  - hospital.go: Hospital, admission, discharge, lookups
  - restriction.go: Restriction catalogue and evaluation
  - patient.go: Patient and its derived restrictions
*/
package hospital

import "strings"

// =============================================================================
// SEX
// =============================================================================

type Sex int

const (
	SexFemale Sex = iota
	SexMale
	SexUnknown
)

var sexNames = [...]string{"female", "male", "unknown"}

func (s Sex) String() string {
	if s < 0 || int(s) >= len(sexNames) {
		return "invalid"
	}
	return sexNames[s]
}

// IsDefinite reports whether the sex is female or male.
func (s Sex) IsDefinite() bool { return s == SexFemale || s == SexMale }

func (s Sex) valid() bool { return s >= SexFemale && s <= SexUnknown }

// ParseSex converts a case-insensitive name into a Sex.
func ParseSex(v string) (Sex, error) {
	for i, name := range sexNames {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return Sex(i), nil
		}
	}
	return 0, &InvalidValueError{Field: "sex", Value: v}
}

// =============================================================================
// DEPARTMENT
// =============================================================================

type Department int

const (
	DepartmentMedicine Department = iota
	DepartmentSurgery
)

var departmentNames = [...]string{"medicine", "surgery"}

func (d Department) String() string {
	if d < 0 || int(d) >= len(departmentNames) {
		return "invalid"
	}
	return departmentNames[d]
}

func (d Department) valid() bool { return d == DepartmentMedicine || d == DepartmentSurgery }

// ParseDepartment converts a case-insensitive name into a Department.
func ParseDepartment(v string) (Department, error) {
	for i, name := range departmentNames {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return Department(i), nil
		}
	}
	return 0, &InvalidValueError{Field: "department", Value: v}
}

// =============================================================================
// SPECIALTY
// =============================================================================

type Specialty int

const (
	SpecialtyGeneral Specialty = iota
	SpecialtyTraumaAndOrthopaedic
	SpecialtyRespiratory
	SpecialtyGastroenterology
	SpecialtyEndocrinology
	SpecialtyCardiology
	SpecialtyElderlyCare
)

var specialtyNames = [...]string{
	"general",
	"trauma_and_orthopaedic",
	"respiratory",
	"gastroenterology",
	"endocrinology",
	"cardiology",
	"elderly_care",
}

func (s Specialty) String() string {
	if s < 0 || int(s) >= len(specialtyNames) {
		return "invalid"
	}
	return specialtyNames[s]
}

func (s Specialty) valid() bool { return s >= 0 && int(s) < len(specialtyNames) }

// ParseSpecialty converts a case-insensitive name into a Specialty.
func ParseSpecialty(v string) (Specialty, error) {
	for i, name := range specialtyNames {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return Specialty(i), nil
		}
	}
	return 0, &InvalidValueError{Field: "specialty", Value: v}
}

// Specialties lists every known specialty in declaration order.
func Specialties() []Specialty {
	out := make([]Specialty, len(specialtyNames))
	for i := range specialtyNames {
		out[i] = Specialty(i)
	}
	return out
}

// =============================================================================
// ROOM AND BED KINDS
// =============================================================================

type RoomKind int

const (
	BedBay RoomKind = iota
	SideRoom
)

func (k RoomKind) String() string {
	switch k {
	case BedBay:
		return "bed_bay"
	case SideRoom:
		return "side_room"
	}
	return "invalid"
}

// ParseRoomKind accepts "bed_bay"/"bedbay" and "side_room"/"sideroom".
func ParseRoomKind(v string) (RoomKind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), "_", "")) {
	case "bedbay", "":
		return BedBay, nil
	case "sideroom":
		return SideRoom, nil
	}
	return 0, &InvalidValueError{Field: "room_kind", Value: v}
}

type BedKind int

const (
	StandardBed BedKind = iota
	HighVisibilityBed
)

func (k BedKind) String() string {
	switch k {
	case StandardBed:
		return "standard"
	case HighVisibilityBed:
		return "high_visibility"
	}
	return "invalid"
}

// ParseBedKind accepts "standard" (or empty) and "high_visibility".
func ParseBedKind(v string) (BedKind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), "_", "")) {
	case "standard", "":
		return StandardBed, nil
	case "highvisibility":
		return HighVisibilityBed, nil
	}
	return 0, &InvalidValueError{Field: "bed_kind", Value: v}
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WardID int
type RoomID int
type BedID int
