/*
restriction.go - Penalty-weighted allocation rules

PURPOSE:
  A Restriction is a named rule with a penalty. It is attached to a ward,
  a room or a patient and contributes its penalty to the hospital score
  each time the rule is violated.

KEY CONCEPTS:
  - RestrictionKind is a closed enum. The evaluator switches over it
    exhaustively; adding a kind without an evaluation rule panics in the
    catalogue test rather than scoring silently as zero.
  - Scope says where a kind may be attached. Attaching a ward rule to a
    room (or vice versa) fails with ErrRestrictionScope.
  - Ward rules are charged per violating bed, room rules once per room,
    patient rules once per patient.
  - Two restrictions are equal when (Kind, Penalty) are equal, so the
    struct is usable directly as a map key for multiset arithmetic.

SEE ALSO:
  - evaluate.go: Walks the hospital and applies these rules
  - patient.go: Derives patient restrictions from clinical flags
*/
package hospital

import (
	"fmt"
	"strings"
)

// =============================================================================
// SCOPE
// =============================================================================

type Scope int

const (
	ScopeWard Scope = iota
	ScopeRoom
	ScopePatient
)

func (s Scope) String() string {
	switch s {
	case ScopeWard:
		return "ward"
	case ScopeRoom:
		return "room"
	case ScopePatient:
		return "patient"
	}
	return "invalid"
}

// =============================================================================
// RESTRICTION KINDS
// =============================================================================

type RestrictionKind int

const (
	// Ward scope
	NoKnownCovid RestrictionKind = iota
	NoSuspectedCovid
	NoNonCovid
	NoPatientsOver100kg
	IncorrectSex
	NoMobilityAssistance
	NoDementiaRisk
	NoHighAcuity
	NoNonElective
	NoSurgical
	NoMedical
	IncorrectSpecialty
	NoAcuteSurgical

	// Room scope
	NoMixedSex
	KeepSideRoomEmpty

	// Patient scope
	NeedsSideRoom
	ProhibitedSideRoom
	NeedsVisualSupervision

	numRestrictionKinds
)

var restrictionNames = [numRestrictionKinds]string{
	NoKnownCovid:           "no_known_covid",
	NoSuspectedCovid:       "no_suspected_covid",
	NoNonCovid:             "no_non_covid",
	NoPatientsOver100kg:    "no_patients_over_100kg",
	IncorrectSex:           "incorrect_sex",
	NoMobilityAssistance:   "no_mobility_assistance",
	NoDementiaRisk:         "no_dementia_risk",
	NoHighAcuity:           "no_high_acuity",
	NoNonElective:          "no_non_elective",
	NoSurgical:             "no_surgical",
	NoMedical:              "no_medical",
	IncorrectSpecialty:     "incorrect_specialty",
	NoAcuteSurgical:        "no_acute_surgical",
	NoMixedSex:             "no_mixed_sex",
	KeepSideRoomEmpty:      "keep_side_room_empty",
	NeedsSideRoom:          "needs_side_room",
	ProhibitedSideRoom:     "prohibited_side_room",
	NeedsVisualSupervision: "needs_visual_supervision",
}

// String returns the rule name reported in violated-restriction lists.
func (k RestrictionKind) String() string {
	if k < 0 || k >= numRestrictionKinds {
		return "invalid"
	}
	return restrictionNames[k]
}

// Scope returns the level of the tree the kind may be attached to.
func (k RestrictionKind) Scope() Scope {
	switch {
	case k >= NoKnownCovid && k <= NoAcuteSurgical:
		return ScopeWard
	case k == NoMixedSex || k == KeepSideRoomEmpty:
		return ScopeRoom
	case k >= NeedsSideRoom && k < numRestrictionKinds:
		return ScopePatient
	}
	panic(fmt.Sprintf("hospital: restriction kind %d has no scope", int(k)))
}

// RestrictionKinds lists the full catalogue in declaration order.
func RestrictionKinds() []RestrictionKind {
	out := make([]RestrictionKind, numRestrictionKinds)
	for i := range out {
		out[i] = RestrictionKind(i)
	}
	return out
}

// ParseRestrictionKind accepts the snake_case rule name or the CamelCase
// kind name ("no_known_covid" or "NoKnownCovid").
func ParseRestrictionKind(v string) (RestrictionKind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), "_", ""))
	for i, name := range restrictionNames {
		if norm == strings.ReplaceAll(name, "_", "") {
			return RestrictionKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRestriction, v)
}

// =============================================================================
// RESTRICTION
// =============================================================================

// Restriction is a rule kind with its penalty weight.
type Restriction struct {
	Kind    RestrictionKind
	Penalty float64
}

// NewRestriction builds a restriction, checking it belongs to scope.
func NewRestriction(kind RestrictionKind, penalty float64, scope Scope) (Restriction, error) {
	if kind < 0 || kind >= numRestrictionKinds {
		return Restriction{}, fmt.Errorf("%w: kind %d", ErrUnknownRestriction, int(kind))
	}
	if kind.Scope() != scope {
		return Restriction{}, fmt.Errorf("%w: %s is a %s restriction, not %s",
			ErrRestrictionScope, kind, kind.Scope(), scope)
	}
	return Restriction{Kind: kind, Penalty: penalty}, nil
}

// Name returns the rule name.
func (r Restriction) Name() string { return r.Kind.String() }

func (r Restriction) String() string {
	return fmt.Sprintf("%s(%g)", r.Kind, r.Penalty)
}

func checkScope(rs []Restriction, scope Scope) error {
	for _, r := range rs {
		if r.Kind < 0 || r.Kind >= numRestrictionKinds {
			return fmt.Errorf("%w: kind %d", ErrUnknownRestriction, int(r.Kind))
		}
		if r.Kind.Scope() != scope {
			return fmt.Errorf("%w: %s is a %s restriction, not %s",
				ErrRestrictionScope, r.Kind, r.Kind.Scope(), scope)
		}
	}
	return nil
}

// =============================================================================
// RULE EVALUATION
// =============================================================================

// evalBed returns the penalty a ward restriction charges for one bed.
func (r Restriction) evalBed(w *Ward, room *Room, p *Patient) float64 {
	if p == nil {
		return 0
	}
	side := room.Kind == SideRoom
	var hit bool
	switch r.Kind {
	case NoKnownCovid:
		hit = !side && p.Flags.KnownCovid
	case NoSuspectedCovid:
		hit = !side && p.Flags.SuspectedCovid
	case NoNonCovid:
		hit = !side && !p.Flags.KnownCovid && !p.Flags.SuspectedCovid
	case NoPatientsOver100kg:
		hit = p.Weight > 100
	case IncorrectSex:
		hit = w.Sex.IsDefinite() && p.Sex != w.Sex
	case NoMobilityAssistance:
		hit = p.Flags.NeedsMobilityAssistance
	case NoDementiaRisk:
		hit = p.Flags.DementiaRisk
	case NoHighAcuity:
		hit = p.Flags.HighAcuity
	case NoNonElective:
		hit = !p.Flags.Elective
	case NoSurgical:
		hit = p.Department == DepartmentSurgery
	case NoMedical:
		hit = p.Department == DepartmentMedicine
	case IncorrectSpecialty:
		hit = !w.hasSpecialty(p.Specialty)
	case NoAcuteSurgical:
		hit = p.Flags.AcuteSurgical
	default:
		panic(fmt.Sprintf("hospital: %s is not a ward restriction", r.Kind))
	}
	if hit {
		return r.Penalty
	}
	return 0
}

// evalRoom returns the penalty a room restriction charges for the room.
func (r Restriction) evalRoom(h *Hospital, room *Room) float64 {
	switch r.Kind {
	case NoMixedSex:
		first := SexUnknown
		seen := false
		for _, id := range room.beds {
			p := h.beds[id].occupant
			if p == nil {
				continue
			}
			if !seen {
				first, seen = p.Sex, true
			} else if p.Sex != first {
				return r.Penalty
			}
		}
		return 0
	case KeepSideRoomEmpty:
		for _, id := range room.beds {
			if h.beds[id].occupant != nil {
				return r.Penalty
			}
		}
		return 0
	default:
		panic(fmt.Sprintf("hospital: %s is not a room restriction", r.Kind))
	}
}

// evalPatient returns the penalty a patient restriction charges given
// the patient's current placement.
func (r Restriction) evalPatient(room *Room, bed *Bed) float64 {
	var hit bool
	switch r.Kind {
	case NeedsSideRoom:
		hit = room.Kind != SideRoom
	case ProhibitedSideRoom:
		hit = room.Kind == SideRoom
	case NeedsVisualSupervision:
		hit = bed.kind != HighVisibilityBed
	default:
		panic(fmt.Sprintf("hospital: %s is not a patient restriction", r.Kind))
	}
	if hit {
		return r.Penalty
	}
	return 0
}
