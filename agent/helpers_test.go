package agent_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func rs(pairs ...any) []hospital.Restriction {
	var out []hospital.Restriction
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, hospital.Restriction{
			Kind:    pairs[i].(hospital.RestrictionKind),
			Penalty: float64(pairs[i+1].(int)),
		})
	}
	return out
}

func patient(t *testing.T, name string, sex hospital.Sex) *hospital.Patient {
	t.Helper()
	p, err := hospital.NewPatient(hospital.PatientSpec{
		Name:        name,
		Sex:         sex,
		Department:  hospital.DepartmentMedicine,
		Specialty:   hospital.SpecialtyGeneral,
		Weight:      70,
		Age:         60,
		ExpectedLOS: 1000,
	})
	require.NoError(t, err)
	return p
}

func addRoom(t *testing.T, h *hospital.Hospital, ward hospital.WardID, name string, kind hospital.RoomKind, restrictions []hospital.Restriction, beds ...string) {
	t.Helper()
	rid, err := h.AddRoom(ward, hospital.RoomSpec{Name: name, Kind: kind, Restrictions: restrictions})
	require.NoError(t, err)
	for _, b := range beds {
		_, err := h.AddBed(rid, hospital.BedSpec{Name: b})
		require.NoError(t, err)
	}
}

// threeWards builds:
//
//	F (female, medicine): F-Bay{F1,F2,F3} NoMixedSex(8), F-Side{FS1}; IncorrectSex(10), NoSurgical(3)
//	M (male, medicine):   M-Bay{M1,M2}; IncorrectSex(10)
//	U (unknown, surgery): U-Bay{U1,U2} NoMixedSex(8); NoMedical(1)
func threeWards(t *testing.T) *hospital.Hospital {
	t.Helper()
	h := hospital.New("Test Hospital")
	general := []hospital.Specialty{hospital.SpecialtyGeneral}

	f, err := h.AddWard(hospital.WardSpec{Name: "F", Sex: hospital.SexFemale, Department: hospital.DepartmentMedicine,
		Specialties: general, Restrictions: rs(hospital.IncorrectSex, 10, hospital.NoSurgical, 3)})
	require.NoError(t, err)
	addRoom(t, h, f, "F-Bay", hospital.BedBay, rs(hospital.NoMixedSex, 8), "F1", "F2", "F3")
	addRoom(t, h, f, "F-Side", hospital.SideRoom, nil, "FS1")

	m, err := h.AddWard(hospital.WardSpec{Name: "M", Sex: hospital.SexMale, Department: hospital.DepartmentMedicine,
		Specialties: general, Restrictions: rs(hospital.IncorrectSex, 10)})
	require.NoError(t, err)
	addRoom(t, h, m, "M-Bay", hospital.BedBay, nil, "M1", "M2")

	u, err := h.AddWard(hospital.WardSpec{Name: "U", Sex: hospital.SexUnknown, Department: hospital.DepartmentSurgery,
		Specialties: general, Restrictions: rs(hospital.NoMedical, 1)})
	require.NoError(t, err)
	addRoom(t, h, u, "U-Bay", hospital.BedBay, rs(hospital.NoMixedSex, 8), "U1", "U2")
	return h
}

// oneBay builds a single unknown-sex ward with one bay of n beds B0..Bn-1.
func oneBay(t *testing.T, n int) *hospital.Hospital {
	t.Helper()
	h := hospital.New("Bay Hospital")
	w, err := h.AddWard(hospital.WardSpec{Name: "W", Sex: hospital.SexUnknown})
	require.NoError(t, err)
	beds := make([]string, n)
	for i := range beds {
		beds[i] = fmt.Sprintf("B%d", i)
	}
	addRoom(t, h, w, "Bay", hospital.BedBay, nil, beds...)
	return h
}

func names(ps []*hospital.Patient) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
