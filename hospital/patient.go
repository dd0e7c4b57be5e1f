/*
patient.go - Patients and their derived restrictions

PURPOSE:
  A Patient is created per admission event and carries its demographics,
  clinical flags and length-of-stay counters. Patient-level restrictions
  are derived once, in NewPatient, from the clinical flags; afterwards only
  their penalties may change.

DERIVED RESTRICTIONS:
  immunosuppressed       -> needs_side_room(10)
  end_of_life            -> needs_side_room(3)
  infection_control      -> needs_side_room(4)
  falls_risk             -> prohibited_side_room(5)
  needs_visual_supervision -> needs_visual_supervision(5)

  Each flag adds its own instance; penalties are additive.

SEE ALSO:
  - hospital.go: Admit/Discharge maintain the patient<->bed association
*/
package hospital

import (
	"fmt"
	"math"
	"strings"
)

const noBed BedID = -1

// ClinicalFlags is the fixed set of boolean attributes used by restrictions.
type ClinicalFlags struct {
	KnownCovid              bool `json:"is_covid" yaml:"is_covid"`
	SuspectedCovid          bool `json:"is_suspected_covid" yaml:"is_suspected_covid"`
	Immunosuppressed        bool `json:"is_immunosuppressed" yaml:"is_immunosuppressed"`
	EndOfLife               bool `json:"is_end_of_life" yaml:"is_end_of_life"`
	InfectionControl        bool `json:"needs_infection_control" yaml:"needs_infection_control"`
	FallsRisk               bool `json:"is_high_falls_risk" yaml:"is_high_falls_risk"`
	DementiaRisk            bool `json:"is_dementia_risk" yaml:"is_dementia_risk"`
	NeedsMobilityAssistance bool `json:"needs_mobility_assistance" yaml:"needs_mobility_assistance"`
	NeedsVisualSupervision  bool `json:"needs_visual_supervision" yaml:"needs_visual_supervision"`
	HighAcuity              bool `json:"is_high_acuity" yaml:"is_high_acuity"`
	Elective                bool `json:"is_elective" yaml:"is_elective"`
	AcuteSurgical           bool `json:"is_acute_surgical" yaml:"is_acute_surgical"`
}

// PatientSpec holds the constructor inputs for a Patient.
type PatientSpec struct {
	Name        string
	Sex         Sex
	Department  Department
	Specialty   Specialty
	Weight      float64
	Age         int
	Flags       ClinicalFlags
	ExpectedLOS int
	LOS         int
}

// Patient is a person awaiting or occupying a bed.
type Patient struct {
	Name        string
	Sex         Sex
	Department  Department
	Specialty   Specialty
	Weight      float64
	Age         int
	Flags       ClinicalFlags
	ExpectedLOS int
	LOS         int

	restrictions []Restriction
	bed          BedID
}

// NewPatient validates spec and derives the patient's restrictions.
func NewPatient(spec PatientSpec) (*Patient, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, &InvalidValueError{Field: "name", Value: spec.Name}
	}
	if !spec.Sex.valid() {
		return nil, &InvalidValueError{Field: "sex", Value: fmt.Sprint(int(spec.Sex))}
	}
	if !spec.Department.valid() {
		return nil, &InvalidValueError{Field: "department", Value: fmt.Sprint(int(spec.Department))}
	}
	if !spec.Specialty.valid() {
		return nil, &InvalidValueError{Field: "specialty", Value: fmt.Sprint(int(spec.Specialty))}
	}
	if spec.Weight < 0 || math.IsNaN(spec.Weight) {
		return nil, &InvalidValueError{Field: "weight", Value: fmt.Sprint(spec.Weight)}
	}
	if spec.Age < 0 {
		return nil, &InvalidValueError{Field: "age", Value: fmt.Sprint(spec.Age)}
	}
	if spec.ExpectedLOS < 0 {
		return nil, &InvalidValueError{Field: "expected_length_of_stay", Value: fmt.Sprint(spec.ExpectedLOS)}
	}
	if spec.LOS < 0 {
		return nil, &InvalidValueError{Field: "length_of_stay", Value: fmt.Sprint(spec.LOS)}
	}

	p := &Patient{
		Name:        spec.Name,
		Sex:         spec.Sex,
		Department:  spec.Department,
		Specialty:   spec.Specialty,
		Weight:      spec.Weight,
		Age:         spec.Age,
		Flags:       spec.Flags,
		ExpectedLOS: spec.ExpectedLOS,
		LOS:         spec.LOS,
		bed:         noBed,
	}
	p.restrictions = deriveRestrictions(spec.Flags)
	return p, nil
}

func deriveRestrictions(f ClinicalFlags) []Restriction {
	var rs []Restriction
	if f.Immunosuppressed {
		rs = append(rs, Restriction{Kind: NeedsSideRoom, Penalty: 10})
	}
	if f.EndOfLife {
		rs = append(rs, Restriction{Kind: NeedsSideRoom, Penalty: 3})
	}
	if f.InfectionControl {
		rs = append(rs, Restriction{Kind: NeedsSideRoom, Penalty: 4})
	}
	if f.FallsRisk {
		rs = append(rs, Restriction{Kind: ProhibitedSideRoom, Penalty: 5})
	}
	if f.NeedsVisualSupervision {
		rs = append(rs, Restriction{Kind: NeedsVisualSupervision, Penalty: 5})
	}
	return rs
}

// Restrictions returns a copy of the patient's restrictions.
func (p *Patient) Restrictions() []Restriction {
	out := make([]Restriction, len(p.restrictions))
	copy(out, p.restrictions)
	return out
}

// SetPenalty changes the penalty of every restriction of the given kind
// and reports how many were changed.
func (p *Patient) SetPenalty(kind RestrictionKind, penalty float64) int {
	n := 0
	for i := range p.restrictions {
		if p.restrictions[i].Kind == kind {
			p.restrictions[i].Penalty = penalty
			n++
		}
	}
	return n
}

// Admitted reports whether the patient currently holds a bed.
func (p *Patient) Admitted() bool { return p.bed != noBed }

// Spec returns the constructor inputs that reproduce this patient.
func (p *Patient) Spec() PatientSpec {
	return PatientSpec{
		Name:        p.Name,
		Sex:         p.Sex,
		Department:  p.Department,
		Specialty:   p.Specialty,
		Weight:      p.Weight,
		Age:         p.Age,
		Flags:       p.Flags,
		ExpectedLOS: p.ExpectedLOS,
		LOS:         p.LOS,
	}
}

// Clone returns an unadmitted copy with its own restriction slice.
func (p *Patient) Clone() *Patient {
	c := *p
	c.restrictions = p.Restrictions()
	c.bed = noBed
	return &c
}

func (p *Patient) String() string {
	return fmt.Sprintf("%s (%s, %s, %s)", p.Name, p.Sex, p.Department, p.Specialty)
}
