/*
Package factory converts JSON and YAML hospital layouts into hospital trees.

PURPOSE:
  Hospitals are described as data: wards with their sex, department,
  specialties and restrictions, rooms with their kind and restrictions, and
  beds with an optional occupant. The factory validates the document, parses
  every enum string at the boundary (unknown values are errors, never
  silently dropped) and builds a *hospital.Hospital. Export goes the other
  way so a live hospital, including occupants and elapsed stay, can be
  snapshotted and restored.

JSON SCHEMA:
  {
    "name": "H1",
    "wards": [
      {
        "name": "Ward B",
        "sex": "female",
        "department": "medicine",
        "specialties": ["endocrinology"],
        "restrictions": [{"kind": "incorrect_sex", "penalty": 10}],
        "rooms": [
          {
            "name": "R00",
            "kind": "bed_bay",
            "restrictions": [{"kind": "no_mixed_sex", "penalty": 8}],
            "beds": [
              {"name": "B000"},
              {"name": "B001", "kind": "high_visibility",
               "patient": {"name": "7000123", "sex": "female", "age": 71,
                           "expected_length_of_stay": 40, "length_of_stay": 3,
                           "is_high_falls_risk": true}}
            ]
          }
        ]
      }
    ]
  }

DEFAULTS:
  ward sex          unknown
  ward department   medicine
  room kind         bed_bay
  bed kind          standard
  patient department / specialty   medicine / general

USAGE:
  f := factory.NewHospitalFactory()
  h, err := f.ParseHospital(data)        // JSON
  h, err := f.ParseHospitalYAML(data)    // YAML
  data, err := f.Export(h)

SEE ALSO:
  - presets.go: Generated layouts and the demo hospital
  - hospital/hospital.go: The tree being built
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// HospitalJSON is the document representation of a hospital.
type HospitalJSON struct {
	Name  string     `json:"name" yaml:"name" validate:"required"`
	Wards []WardJSON `json:"wards" yaml:"wards" validate:"dive"`
}

// WardJSON represents one ward and its rooms.
type WardJSON struct {
	Name         string            `json:"name" yaml:"name" validate:"required"`
	Sex          string            `json:"sex,omitempty" yaml:"sex,omitempty"`
	Department   string            `json:"department,omitempty" yaml:"department,omitempty"`
	Specialties  []string          `json:"specialties,omitempty" yaml:"specialties,omitempty"`
	Restrictions []RestrictionJSON `json:"restrictions,omitempty" yaml:"restrictions,omitempty" validate:"dive"`
	Rooms        []RoomJSON        `json:"rooms" yaml:"rooms" validate:"dive"`
}

// RoomJSON represents a bed bay or side room.
type RoomJSON struct {
	Name         string            `json:"name" yaml:"name" validate:"required"`
	Kind         string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Restrictions []RestrictionJSON `json:"restrictions,omitempty" yaml:"restrictions,omitempty" validate:"dive"`
	Beds         []BedJSON         `json:"beds" yaml:"beds" validate:"dive"`
}

// BedJSON represents a bed and its occupant, if any.
type BedJSON struct {
	Name    string       `json:"name" yaml:"name" validate:"required"`
	Kind    string       `json:"kind,omitempty" yaml:"kind,omitempty"`
	Patient *PatientJSON `json:"patient,omitempty" yaml:"patient,omitempty"`
}

// RestrictionJSON is a rule name with its penalty.
type RestrictionJSON struct {
	Kind    string  `json:"kind" yaml:"kind" validate:"required"`
	Penalty float64 `json:"penalty" yaml:"penalty" validate:"gte=0"`
}

// PatientJSON represents a patient. Clinical flags are inlined.
type PatientJSON struct {
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Sex         string  `json:"sex" yaml:"sex" validate:"required"`
	Department  string  `json:"department,omitempty" yaml:"department,omitempty"`
	Specialty   string  `json:"specialty,omitempty" yaml:"specialty,omitempty"`
	Weight      float64 `json:"weight,omitempty" yaml:"weight,omitempty" validate:"gte=0"`
	Age         int     `json:"age,omitempty" yaml:"age,omitempty" validate:"gte=0"`
	ExpectedLOS int     `json:"expected_length_of_stay" yaml:"expected_length_of_stay" validate:"gte=0"`
	LOS         int     `json:"length_of_stay,omitempty" yaml:"length_of_stay,omitempty" validate:"gte=0"`

	hospital.ClinicalFlags `yaml:",inline"`
}

// =============================================================================
// HOSPITAL FACTORY
// =============================================================================

// HospitalFactory converts layout documents to hospitals and back.
type HospitalFactory struct {
	validate *validator.Validate
}

// NewHospitalFactory creates a new hospital factory.
func NewHospitalFactory() *HospitalFactory {
	return &HospitalFactory{validate: validator.New()}
}

// ParseHospital parses a JSON layout into a hospital.
func (f *HospitalFactory) ParseHospital(data []byte) (*hospital.Hospital, error) {
	var hj HospitalJSON
	if err := json.Unmarshal(data, &hj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse hospital JSON: %w", hospital.ErrInvalidValue, err)
	}
	return f.FromJSON(hj)
}

// ParseHospitalYAML parses a YAML layout into a hospital.
func (f *HospitalFactory) ParseHospitalYAML(data []byte) (*hospital.Hospital, error) {
	var hj HospitalJSON
	if err := yaml.Unmarshal(data, &hj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse hospital YAML: %w", hospital.ErrInvalidValue, err)
	}
	return f.FromJSON(hj)
}

// FromJSON validates hj and builds the hospital it describes, admitting any
// listed occupants.
func (f *HospitalFactory) FromJSON(hj HospitalJSON) (*hospital.Hospital, error) {
	if err := f.validate.Struct(hj); err != nil {
		return nil, fmt.Errorf("%w: %v", hospital.ErrInvalidValue, err)
	}

	h := hospital.New(hj.Name)
	type occupant struct {
		patient *hospital.Patient
		bed     string
	}
	var occupants []occupant

	for _, wj := range hj.Wards {
		spec, err := wardSpec(wj)
		if err != nil {
			return nil, fmt.Errorf("ward %s: %w", wj.Name, err)
		}
		wid, err := h.AddWard(spec)
		if err != nil {
			return nil, err
		}
		for _, rj := range wj.Rooms {
			rspec, err := roomSpec(rj)
			if err != nil {
				return nil, fmt.Errorf("room %s: %w", rj.Name, err)
			}
			rid, err := h.AddRoom(wid, rspec)
			if err != nil {
				return nil, err
			}
			for _, bj := range rj.Beds {
				kind, err := hospital.ParseBedKind(bj.Kind)
				if err != nil {
					return nil, fmt.Errorf("bed %s: %w", bj.Name, err)
				}
				if _, err := h.AddBed(rid, hospital.BedSpec{Name: bj.Name, Kind: kind}); err != nil {
					return nil, err
				}
				if bj.Patient != nil {
					p, err := f.PatientFromJSON(*bj.Patient)
					if err != nil {
						return nil, fmt.Errorf("bed %s: %w", bj.Name, err)
					}
					occupants = append(occupants, occupant{patient: p, bed: bj.Name})
				}
			}
		}
	}

	for _, o := range occupants {
		if err := h.Admit(o.patient, o.bed); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// ParsePatient parses a JSON patient.
func (f *HospitalFactory) ParsePatient(data []byte) (*hospital.Patient, error) {
	var pj PatientJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse patient JSON: %w", hospital.ErrInvalidValue, err)
	}
	return f.PatientFromJSON(pj)
}

// PatientFromJSON validates pj and constructs the patient.
func (f *HospitalFactory) PatientFromJSON(pj PatientJSON) (*hospital.Patient, error) {
	if err := f.validate.Struct(pj); err != nil {
		return nil, fmt.Errorf("%w: %v", hospital.ErrInvalidValue, err)
	}
	sex, err := hospital.ParseSex(pj.Sex)
	if err != nil {
		return nil, err
	}
	dept, err := parseDepartment(pj.Department)
	if err != nil {
		return nil, err
	}
	specialty := hospital.SpecialtyGeneral
	if pj.Specialty != "" {
		if specialty, err = hospital.ParseSpecialty(pj.Specialty); err != nil {
			return nil, err
		}
	}
	return hospital.NewPatient(hospital.PatientSpec{
		Name:        pj.Name,
		Sex:         sex,
		Department:  dept,
		Specialty:   specialty,
		Weight:      pj.Weight,
		Age:         pj.Age,
		Flags:       pj.ClinicalFlags,
		ExpectedLOS: pj.ExpectedLOS,
		LOS:         pj.LOS,
	})
}

// ToJSON converts a hospital, including occupants, to its document form.
func (f *HospitalFactory) ToJSON(h *hospital.Hospital) HospitalJSON {
	hj := HospitalJSON{Name: h.Name, Wards: []WardJSON{}}
	for _, w := range h.Wards() {
		wj := WardJSON{
			Name:         w.Name,
			Sex:          w.Sex.String(),
			Department:   w.Department.String(),
			Restrictions: restrictionsToJSON(w.Restrictions()),
			Rooms:        []RoomJSON{},
		}
		for _, s := range w.Specialties {
			wj.Specialties = append(wj.Specialties, s.String())
		}
		for _, rid := range w.RoomIDs() {
			r := h.Room(rid)
			rj := RoomJSON{
				Name:         r.Name,
				Kind:         r.Kind.String(),
				Restrictions: restrictionsToJSON(r.Restrictions()),
				Beds:         []BedJSON{},
			}
			for _, b := range h.RoomBeds(rid) {
				bj := BedJSON{Name: b.Name(), Kind: b.Kind().String()}
				if p := b.Occupant(); p != nil {
					pj := PatientToJSON(p)
					bj.Patient = &pj
				}
				rj.Beds = append(rj.Beds, bj)
			}
			wj.Rooms = append(wj.Rooms, rj)
		}
		hj.Wards = append(hj.Wards, wj)
	}
	return hj
}

// Export serialises a hospital as JSON.
func (f *HospitalFactory) Export(h *hospital.Hospital) ([]byte, error) {
	data, err := json.Marshal(f.ToJSON(h))
	if err != nil {
		return nil, fmt.Errorf("failed to export hospital %s: %w", h.Name, err)
	}
	return data, nil
}

// ExportYAML serialises a hospital as YAML.
func (f *HospitalFactory) ExportYAML(h *hospital.Hospital) ([]byte, error) {
	data, err := yaml.Marshal(f.ToJSON(h))
	if err != nil {
		return nil, fmt.Errorf("failed to export hospital %s: %w", h.Name, err)
	}
	return data, nil
}

// PatientToJSON converts a patient to its document form.
func PatientToJSON(p *hospital.Patient) PatientJSON {
	return PatientJSON{
		Name:          p.Name,
		Sex:           p.Sex.String(),
		Department:    p.Department.String(),
		Specialty:     p.Specialty.String(),
		Weight:        p.Weight,
		Age:           p.Age,
		ExpectedLOS:   p.ExpectedLOS,
		LOS:           p.LOS,
		ClinicalFlags: p.Flags,
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func wardSpec(wj WardJSON) (hospital.WardSpec, error) {
	spec := hospital.WardSpec{Name: wj.Name, Sex: hospital.SexUnknown}
	var err error
	if wj.Sex != "" {
		if spec.Sex, err = hospital.ParseSex(wj.Sex); err != nil {
			return spec, err
		}
	}
	if spec.Department, err = parseDepartment(wj.Department); err != nil {
		return spec, err
	}
	for _, s := range wj.Specialties {
		sp, err := hospital.ParseSpecialty(s)
		if err != nil {
			return spec, err
		}
		spec.Specialties = append(spec.Specialties, sp)
	}
	spec.Restrictions, err = RestrictionsFromJSON(wj.Restrictions, hospital.ScopeWard)
	return spec, err
}

func roomSpec(rj RoomJSON) (hospital.RoomSpec, error) {
	kind, err := hospital.ParseRoomKind(rj.Kind)
	if err != nil {
		return hospital.RoomSpec{}, err
	}
	rs, err := RestrictionsFromJSON(rj.Restrictions, hospital.ScopeRoom)
	if err != nil {
		return hospital.RoomSpec{}, err
	}
	return hospital.RoomSpec{Name: rj.Name, Kind: kind, Restrictions: rs}, nil
}

func parseDepartment(s string) (hospital.Department, error) {
	if s == "" {
		return hospital.DepartmentMedicine, nil
	}
	return hospital.ParseDepartment(s)
}

// RestrictionsFromJSON parses rule names and checks each belongs to scope.
func RestrictionsFromJSON(rjs []RestrictionJSON, scope hospital.Scope) ([]hospital.Restriction, error) {
	var out []hospital.Restriction
	for _, rj := range rjs {
		kind, err := hospital.ParseRestrictionKind(rj.Kind)
		if err != nil {
			return nil, err
		}
		r, err := hospital.NewRestriction(kind, rj.Penalty, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func restrictionsToJSON(rs []hospital.Restriction) []RestrictionJSON {
	var out []RestrictionJSON
	for _, r := range rs {
		out = append(out, RestrictionJSON{Kind: r.Name(), Penalty: r.Penalty})
	}
	return out
}
