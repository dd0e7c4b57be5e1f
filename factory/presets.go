/*
presets.go - Ward presets and generated hospital layouts

PURPOSE:
  Building a realistic hospital by hand means naming a few hundred beds.
  GenerateLayout takes per-ward bed and side-room counts and lays the ward
  out the way the trust's estates plans do: single-bed side rooms first,
  then bays of roughly six beds, every bay carrying no_mixed_sex(8).

NAMING:
  Rooms are R00, R01, ... and beds B000, B001, ... numbered sequentially
  across the whole hospital, so bed names stay unique.

BAY SIZING:
  bays = (beds - side rooms) / 6, at least 1 when any bay beds remain.
  The remainder is spread one extra bed per bay from the first bay.
  31 beds with 2 side rooms gives bays of 8, 7, 7, 7.

SEE ALSO:
  - hospital.go: Document parsing and export
*/
package factory

import (
	"fmt"

	"github.com/warp/bed-engine/hospital"
)

const (
	bayTargetSize   = 6
	bayMixedSexRule = 8
)

// =============================================================================
// WARD PRESETS
// =============================================================================

// MedicalWard returns a ward spec in the medicine department.
func MedicalWard(name string, sex hospital.Sex, specialties []hospital.Specialty, rs ...hospital.Restriction) hospital.WardSpec {
	return hospital.WardSpec{
		Name:         name,
		Sex:          sex,
		Department:   hospital.DepartmentMedicine,
		Specialties:  specialties,
		Restrictions: rs,
	}
}

// SurgicalWard returns a ward spec in the surgery department.
func SurgicalWard(name string, sex hospital.Sex, specialties []hospital.Specialty, rs ...hospital.Restriction) hospital.WardSpec {
	return hospital.WardSpec{
		Name:         name,
		Sex:          sex,
		Department:   hospital.DepartmentSurgery,
		Specialties:  specialties,
		Restrictions: rs,
	}
}

func r(kind hospital.RestrictionKind, penalty float64) hospital.Restriction {
	return hospital.Restriction{Kind: kind, Penalty: penalty}
}

func specialties(s ...hospital.Specialty) []hospital.Specialty { return s }

// =============================================================================
// GENERATED LAYOUTS
// =============================================================================

// WardLayout is a ward spec plus its bed counts. Beds includes side rooms.
type WardLayout struct {
	Ward      hospital.WardSpec
	Beds      int
	SideRooms int
}

// GenerateLayout builds a hospital with generated rooms and beds.
func GenerateLayout(name string, layouts []WardLayout) (*hospital.Hospital, error) {
	h := hospital.New(name)
	roomSeq, bedSeq := 0, 0
	nextRoom := func() string { s := fmt.Sprintf("R%02d", roomSeq); roomSeq++; return s }
	nextBed := func() string { s := fmt.Sprintf("B%03d", bedSeq); bedSeq++; return s }

	for _, l := range layouts {
		if l.SideRooms < 0 || l.Beds < l.SideRooms {
			return nil, &hospital.InvalidValueError{
				Field: "ward layout",
				Value: fmt.Sprintf("%s: %d beds, %d side rooms", l.Ward.Name, l.Beds, l.SideRooms),
			}
		}
		wid, err := h.AddWard(l.Ward)
		if err != nil {
			return nil, err
		}

		for range l.SideRooms {
			rid, err := h.AddRoom(wid, hospital.RoomSpec{Name: nextRoom(), Kind: hospital.SideRoom})
			if err != nil {
				return nil, err
			}
			if _, err := h.AddBed(rid, hospital.BedSpec{Name: nextBed()}); err != nil {
				return nil, err
			}
		}

		for _, size := range baySizes(l.Beds - l.SideRooms) {
			rid, err := h.AddRoom(wid, hospital.RoomSpec{
				Name:         nextRoom(),
				Kind:         hospital.BedBay,
				Restrictions: []hospital.Restriction{r(hospital.NoMixedSex, bayMixedSexRule)},
			})
			if err != nil {
				return nil, err
			}
			for range size {
				if _, err := h.AddBed(rid, hospital.BedSpec{Name: nextBed()}); err != nil {
					return nil, err
				}
			}
		}
	}
	return h, nil
}

func baySizes(beds int) []int {
	if beds <= 0 {
		return nil
	}
	bays := max(beds/bayTargetSize, 1)
	out := make([]int, bays)
	for i := range out {
		out[i] = beds / bays
		if i < beds%bays {
			out[i]++
		}
	}
	return out
}

// DemoWards returns the six-ward layout of the demonstration hospital.
func DemoWards() []WardLayout {
	covid := []hospital.Restriction{r(hospital.NoKnownCovid, 10), r(hospital.NoSuspectedCovid, 10)}
	medical := func(extra ...hospital.Restriction) []hospital.Restriction {
		rs := append([]hospital.Restriction{}, covid...)
		rs = append(rs, r(hospital.NoSurgical, 3), r(hospital.IncorrectSpecialty, 2))
		return append(rs, extra...)
	}
	surgical := func() []hospital.Restriction {
		rs := append([]hospital.Restriction{}, covid...)
		return append(rs,
			r(hospital.NoMedical, 1),
			r(hospital.IncorrectSpecialty, 2),
			r(hospital.NoAcuteSurgical, 8),
		)
	}

	return []WardLayout{
		{
			Ward: MedicalWard("Ward A", hospital.SexUnknown, specialties(hospital.SpecialtyGeneral), medical()...),
			Beds: 31, SideRooms: 2,
		},
		{
			Ward: MedicalWard("Ward B", hospital.SexFemale, specialties(hospital.SpecialtyEndocrinology),
				medical(r(hospital.IncorrectSex, 10))...),
			Beds: 27, SideRooms: 6,
		},
		{
			Ward: MedicalWard("Ward C", hospital.SexMale, specialties(hospital.SpecialtyEndocrinology),
				medical(r(hospital.IncorrectSex, 10))...),
			Beds: 27, SideRooms: 6,
		},
		{
			Ward: MedicalWard("Ward D", hospital.SexUnknown, specialties(hospital.SpecialtyRespiratory),
				r(hospital.NoNonCovid, 10), r(hospital.NoSurgical, 3), r(hospital.IncorrectSpecialty, 2)),
			Beds: 18, SideRooms: 2,
		},
		{
			Ward: SurgicalWard("Ward E", hospital.SexUnknown, specialties(hospital.SpecialtyGeneral), surgical()...),
			Beds: 24, SideRooms: 0,
		},
		{
			Ward: SurgicalWard("Ward F", hospital.SexUnknown, specialties(hospital.SpecialtyTraumaAndOrthopaedic), surgical()...),
			Beds: 27, SideRooms: 3,
		},
	}
}

// DemoLayout builds the empty demonstration hospital.
func DemoLayout() (*hospital.Hospital, error) {
	return GenerateLayout("H1", DemoWards())
}
