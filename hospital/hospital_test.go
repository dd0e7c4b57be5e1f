package hospital_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type patientOpt func(*hospital.PatientSpec)

func withFlags(f hospital.ClinicalFlags) patientOpt {
	return func(s *hospital.PatientSpec) { s.Flags = f }
}

func withDepartment(d hospital.Department) patientOpt {
	return func(s *hospital.PatientSpec) { s.Department = d }
}

func withSpecialty(sp hospital.Specialty) patientOpt {
	return func(s *hospital.PatientSpec) { s.Specialty = sp }
}

func newPatient(t *testing.T, name string, sex hospital.Sex, opts ...patientOpt) *hospital.Patient {
	t.Helper()
	spec := hospital.PatientSpec{
		Name:        name,
		Sex:         sex,
		Department:  hospital.DepartmentMedicine,
		Specialty:   hospital.SpecialtyGeneral,
		Weight:      70,
		Age:         50,
		ExpectedLOS: 24,
	}
	for _, o := range opts {
		o(&spec)
	}
	p, err := hospital.NewPatient(spec)
	require.NoError(t, err)
	return p
}

// singleWard builds one ward with a bay of bayBeds beds (B1..Bn) and, when
// sideRooms > 0, that many single-bed side rooms (S1..Sn).
func singleWard(t *testing.T, ward hospital.WardSpec, bayRestrictions []hospital.Restriction, bayBeds, sideRooms int) *hospital.Hospital {
	t.Helper()
	h := hospital.New("Test Hospital")
	wid, err := h.AddWard(ward)
	require.NoError(t, err)

	bay, err := h.AddRoom(wid, hospital.RoomSpec{Name: "Bay", Kind: hospital.BedBay, Restrictions: bayRestrictions})
	require.NoError(t, err)
	for i := 1; i <= bayBeds; i++ {
		_, err := h.AddBed(bay, hospital.BedSpec{Name: "B" + string(rune('0'+i))})
		require.NoError(t, err)
	}
	for i := 1; i <= sideRooms; i++ {
		n := string(rune('0' + i))
		side, err := h.AddRoom(wid, hospital.RoomSpec{Name: "Side" + n, Kind: hospital.SideRoom})
		require.NoError(t, err)
		_, err = h.AddBed(side, hospital.BedSpec{Name: "S" + n})
		require.NoError(t, err)
	}
	return h
}

func r(kind hospital.RestrictionKind, penalty float64) hospital.Restriction {
	return hospital.Restriction{Kind: kind, Penalty: penalty}
}

// =============================================================================
// ADMIT / DISCHARGE
// =============================================================================

func TestAdmitDischarge_RoundTripRestoresEvaluation(t *testing.T) {
	// GIVEN: A ward with several rules and one existing occupant
	// WHEN: Admitting then discharging a second patient
	// THEN: The evaluation is identical to before the admission

	h := singleWard(t, hospital.WardSpec{
		Name: "A", Sex: hospital.SexFemale, Department: hospital.DepartmentMedicine,
		Specialties:  []hospital.Specialty{hospital.SpecialtyGeneral},
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 10), r(hospital.NoSurgical, 3)},
	}, []hospital.Restriction{r(hospital.NoMixedSex, 8)}, 4, 1)

	require.NoError(t, h.Admit(newPatient(t, "existing", hospital.SexMale), "B1"))
	before := h.EvalRestrictions()

	for _, bed := range []string{"B2", "S1"} {
		p := newPatient(t, "new", hospital.SexMale, withDepartment(hospital.DepartmentSurgery),
			withFlags(hospital.ClinicalFlags{FallsRisk: true}))
		require.NoError(t, h.Admit(p, bed))
		assert.NotEqual(t, before.Score, h.Score())
		require.NoError(t, h.Discharge(p))
		assert.Equal(t, before, h.EvalRestrictions(), "bed %s", bed)
		assert.False(t, p.Admitted())
	}
}

func TestAdmit_UnknownBed(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 1, 0)

	err := h.Admit(newPatient(t, "p", hospital.SexMale), "nope")

	var nf *hospital.BedNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Bed)
	assert.True(t, hospital.IsNotFound(err))
}

func TestAdmit_OccupiedBed(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 1, 0)
	require.NoError(t, h.Admit(newPatient(t, "first", hospital.SexMale), "B1"))

	second := newPatient(t, "second", hospital.SexMale)
	err := h.Admit(second, "B1")

	var occ *hospital.BedOccupiedError
	require.ErrorAs(t, err, &occ)
	assert.Equal(t, "first", occ.Occupant)
	assert.True(t, errors.Is(err, hospital.ErrBedOccupied))
	assert.False(t, second.Admitted())
}

func TestAdmit_PatientAlreadyInBed(t *testing.T) {
	// GIVEN: A patient already admitted to B1
	// WHEN: Admitting the same patient to B2
	// THEN: ErrPatientAdmitted, and B2 stays empty

	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 2, 0)
	p := newPatient(t, "p", hospital.SexMale)
	require.NoError(t, h.Admit(p, "B1"))

	err := h.Admit(p, "B2")

	assert.ErrorIs(t, err, hospital.ErrPatientAdmitted)
	b2, _ := h.FindBed("B2")
	assert.True(t, b2.IsAvailable())
}

func TestDischarge_PatientNotInHospital(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 1, 0)

	err := h.Discharge(newPatient(t, "ghost", hospital.SexMale))

	var nf *hospital.PatientNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.Patient)
}

func TestClear_DischargesEveryone(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 3, 1)
	var ps []*hospital.Patient
	for _, bed := range []string{"B1", "B3", "S1"} {
		p := newPatient(t, bed, hospital.SexFemale)
		require.NoError(t, h.Admit(p, bed))
		ps = append(ps, p)
	}

	h.Clear()

	assert.Equal(t, 0, h.NumOccupied())
	assert.Empty(t, h.Patients())
	for _, p := range ps {
		assert.False(t, p.Admitted())
	}
}

// =============================================================================
// RESTRICTION SCENARIOS
// =============================================================================

func TestCovidRules_OnlyMatchingRuleFires(t *testing.T) {
	// GIVEN: Ward with NoKnownCovid(10) and NoSuspectedCovid(10)
	// WHEN: A known-COVID patient goes to a bay, then to a side room
	// THEN: Score is 10 in the bay and 0 in the side room

	h := singleWard(t, hospital.WardSpec{
		Name: "A", Sex: hospital.SexUnknown,
		Specialties:  []hospital.Specialty{hospital.SpecialtyGeneral},
		Restrictions: []hospital.Restriction{r(hospital.NoKnownCovid, 10), r(hospital.NoSuspectedCovid, 10)},
	}, nil, 2, 1)
	p := newPatient(t, "covid", hospital.SexMale, withFlags(hospital.ClinicalFlags{KnownCovid: true}))

	require.NoError(t, h.Admit(p, "B1"))
	ev := h.EvalRestrictions()
	assert.Equal(t, 10.0, ev.Score)
	assert.Equal(t, []string{"no_known_covid"}, ev.Names)

	require.NoError(t, h.Discharge(p))
	require.NoError(t, h.Admit(p, "S1"))
	assert.Equal(t, 0.0, h.Score())
}

func TestNoMixedSex_ChargedOncePerRoom(t *testing.T) {
	// GIVEN: A bay with NoMixedSex(20)
	// WHEN: Two men, then a woman, then another woman are admitted
	// THEN: 0, then 20, and still 20

	h := singleWard(t, hospital.WardSpec{Name: "A", Sex: hospital.SexUnknown},
		[]hospital.Restriction{r(hospital.NoMixedSex, 20)}, 5, 0)

	require.NoError(t, h.Admit(newPatient(t, "m1", hospital.SexMale), "B1"))
	require.NoError(t, h.Admit(newPatient(t, "m2", hospital.SexMale), "B2"))
	assert.Equal(t, 0.0, h.Score())

	require.NoError(t, h.Admit(newPatient(t, "f1", hospital.SexFemale), "B3"))
	assert.Equal(t, 20.0, h.Score())

	require.NoError(t, h.Admit(newPatient(t, "f2", hospital.SexFemale), "B4"))
	ev := h.EvalRestrictions()
	assert.Equal(t, 20.0, ev.Score)
	assert.Equal(t, []string{"no_mixed_sex"}, ev.Names)
}

func TestIncorrectSex_TwoBedWard(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{
		Name: "M", Sex: hospital.SexMale,
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 100)},
	}, nil, 2, 0)

	man := newPatient(t, "man", hospital.SexMale)
	require.NoError(t, h.Admit(man, "B1"))
	assert.Equal(t, 0.0, h.Score())
	require.NoError(t, h.Discharge(man))

	woman := newPatient(t, "woman", hospital.SexFemale)
	require.NoError(t, h.Admit(woman, "B1"))
	assert.Equal(t, 100.0, h.Score())

	require.NoError(t, h.Discharge(woman))
	assert.Equal(t, 0.0, h.Score())
}

func TestIncorrectSex_UnknownWardSexNeverFires(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{
		Name: "U", Sex: hospital.SexUnknown,
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 100)},
	}, nil, 2, 0)

	require.NoError(t, h.Admit(newPatient(t, "f", hospital.SexFemale), "B1"))
	require.NoError(t, h.Admit(newPatient(t, "m", hospital.SexMale), "B2"))

	assert.Equal(t, 0.0, h.Score())
}

func TestEvalRestrictions_Additivity(t *testing.T) {
	// GIVEN: Ward, room and patient rules with distinct unit penalties
	// WHEN: Evaluating the hospital
	// THEN: Score equals the sum of independent ward/room/patient scores,
	//       and names times unit penalties reproduce the score

	h := hospital.New("H")
	wid, err := h.AddWard(hospital.WardSpec{
		Name: "W", Sex: hospital.SexMale, Department: hospital.DepartmentMedicine,
		Specialties: []hospital.Specialty{hospital.SpecialtyGeneral},
		Restrictions: []hospital.Restriction{
			r(hospital.IncorrectSex, 7), r(hospital.NoSurgical, 3), r(hospital.IncorrectSpecialty, 2),
		},
	})
	require.NoError(t, err)
	bay, err := h.AddRoom(wid, hospital.RoomSpec{Name: "Bay", Kind: hospital.BedBay,
		Restrictions: []hospital.Restriction{r(hospital.NoMixedSex, 8)}})
	require.NoError(t, err)
	side, err := h.AddRoom(wid, hospital.RoomSpec{Name: "Side", Kind: hospital.SideRoom,
		Restrictions: []hospital.Restriction{r(hospital.KeepSideRoomEmpty, 4)}})
	require.NoError(t, err)
	for _, n := range []string{"B1", "B2", "B3"} {
		_, err := h.AddBed(bay, hospital.BedSpec{Name: n})
		require.NoError(t, err)
	}
	_, err = h.AddBed(side, hospital.BedSpec{Name: "S1"})
	require.NoError(t, err)

	p1 := newPatient(t, "p1", hospital.SexFemale, withFlags(hospital.ClinicalFlags{Immunosuppressed: true}))
	p2 := newPatient(t, "p2", hospital.SexMale, withDepartment(hospital.DepartmentSurgery),
		withSpecialty(hospital.SpecialtyCardiology))
	p3 := newPatient(t, "p3", hospital.SexFemale, withDepartment(hospital.DepartmentSurgery),
		withFlags(hospital.ClinicalFlags{FallsRisk: true}))
	require.NoError(t, h.Admit(p1, "B1"))
	require.NoError(t, h.Admit(p2, "B2"))
	require.NoError(t, h.Admit(p3, "S1"))

	ev := h.EvalRestrictions()

	assert.Equal(t, 49.0, ev.Score)
	assert.Equal(t, []string{
		"incorrect_sex", "incorrect_sex", "no_surgical", "no_surgical", "incorrect_specialty",
		"no_mixed_sex", "keep_side_room_empty",
		"needs_side_room", "prohibited_side_room",
	}, ev.Names)

	independent := h.WardScore(wid) + h.RoomScore(bay) + h.RoomScore(side)
	for _, p := range h.Patients() {
		independent += h.PatientScore(p)
	}
	assert.Equal(t, ev.Score, independent)
	assert.Equal(t, ev.Score, h.Score())

	unit := map[string]float64{
		"incorrect_sex": 7, "no_surgical": 3, "incorrect_specialty": 2, "no_mixed_sex": 8,
		"keep_side_room_empty": 4, "needs_side_room": 10, "prohibited_side_room": 5,
	}
	var fromNames float64
	for _, n := range ev.Names {
		fromNames += unit[n]
	}
	assert.Equal(t, ev.Score, fromNames)
}

func TestRestrictionCatalogue_EveryKindEvaluates(t *testing.T) {
	// GIVEN: Every restriction kind attached at its own scope
	// WHEN: Evaluating a hospital with an occupant matching all flags
	// THEN: Evaluation does not panic and every kind has a name

	var wardRs, roomRs []hospital.Restriction
	for _, k := range hospital.RestrictionKinds() {
		assert.NotEqual(t, "invalid", k.String())
		parsed, err := hospital.ParseRestrictionKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)

		switch k.Scope() {
		case hospital.ScopeWard:
			rs, err := hospital.NewRestriction(k, 1, hospital.ScopeWard)
			require.NoError(t, err)
			wardRs = append(wardRs, rs)
		case hospital.ScopeRoom:
			rs, err := hospital.NewRestriction(k, 1, hospital.ScopeRoom)
			require.NoError(t, err)
			roomRs = append(roomRs, rs)
		case hospital.ScopePatient:
			_, err := hospital.NewRestriction(k, 1, hospital.ScopeWard)
			assert.ErrorIs(t, err, hospital.ErrRestrictionScope)
		}
	}

	h := singleWard(t, hospital.WardSpec{Name: "All", Sex: hospital.SexFemale, Restrictions: wardRs}, roomRs, 2, 0)
	p := newPatient(t, "everything", hospital.SexMale, withFlags(hospital.ClinicalFlags{
		KnownCovid: true, SuspectedCovid: true, Immunosuppressed: true, EndOfLife: true,
		InfectionControl: true, FallsRisk: true, DementiaRisk: true, NeedsMobilityAssistance: true,
		NeedsVisualSupervision: true, HighAcuity: true, AcuteSurgical: true,
	}))

	require.NoError(t, h.Admit(p, "B1"))
	assert.NotPanics(t, func() { h.EvalRestrictions() })
	assert.Positive(t, h.Score())
}

func TestParseRestrictionKind_Unknown(t *testing.T) {
	_, err := hospital.ParseRestrictionKind("no_smoking")
	assert.ErrorIs(t, err, hospital.ErrUnknownRestriction)

	k, err := hospital.ParseRestrictionKind("NoKnownCovid")
	require.NoError(t, err)
	assert.Equal(t, hospital.NoKnownCovid, k)
}

func TestSetRestrictions_RejectsWrongScope(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 1, 0)
	w := h.Wards()[0]

	err := w.SetRestrictions([]hospital.Restriction{r(hospital.NoMixedSex, 1)})

	assert.ErrorIs(t, err, hospital.ErrRestrictionScope)
	assert.True(t, hospital.IsClientError(err))
}

func TestSetPenalty_ChangesScore(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{
		Name: "M", Sex: hospital.SexMale,
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 10)},
	}, nil, 1, 0)
	require.NoError(t, h.Admit(newPatient(t, "f", hospital.SexFemale), "B1"))

	n := h.Wards()[0].SetPenalty(hospital.IncorrectSex, 2.5)

	assert.Equal(t, 1, n)
	assert.Equal(t, 2.5, h.Score())
}

func TestSetPenalty_NegativeWeightScoresAgree(t *testing.T) {
	// GIVEN: A female patient on a male ward
	h := singleWard(t, hospital.WardSpec{
		Name: "M", Sex: hospital.SexMale,
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 10)},
	}, nil, 1, 0)
	require.NoError(t, h.Admit(newPatient(t, "f", hospital.SexFemale), "B1"))

	// WHEN: The rule is turned into a bonus
	h.Wards()[0].SetPenalty(hospital.IncorrectSex, -5)

	// THEN: Both scoring paths report it
	ev := h.EvalRestrictions()
	assert.Equal(t, -5.0, h.Score())
	assert.Equal(t, h.Score(), ev.Score)
	assert.Equal(t, []string{"incorrect_sex"}, ev.Names)
}

// =============================================================================
// PATIENTS
// =============================================================================

func TestNewPatient_DerivedRestrictionsAreAdditive(t *testing.T) {
	p := newPatient(t, "p", hospital.SexFemale, withFlags(hospital.ClinicalFlags{
		Immunosuppressed: true, EndOfLife: true, InfectionControl: true,
		FallsRisk: true, NeedsVisualSupervision: true,
	}))

	assert.Equal(t, []hospital.Restriction{
		r(hospital.NeedsSideRoom, 10),
		r(hospital.NeedsSideRoom, 3),
		r(hospital.NeedsSideRoom, 4),
		r(hospital.ProhibitedSideRoom, 5),
		r(hospital.NeedsVisualSupervision, 5),
	}, p.Restrictions())
}

func TestNewPatient_RejectsInvalidValues(t *testing.T) {
	cases := map[string]hospital.PatientSpec{
		"empty name": {Name: ""},
		"bad sex":    {Name: "p", Sex: hospital.Sex(9)},
		"bad dept":   {Name: "p", Department: hospital.Department(5)},
		"bad spec":   {Name: "p", Specialty: hospital.Specialty(-1)},
		"neg weight": {Name: "p", Weight: -1},
		"neg los":    {Name: "p", LOS: -2},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := hospital.NewPatient(spec)
			assert.ErrorIs(t, err, hospital.ErrInvalidValue)
		})
	}
}

func TestParseEnums(t *testing.T) {
	s, err := hospital.ParseSex("Female")
	require.NoError(t, err)
	assert.Equal(t, hospital.SexFemale, s)

	_, err = hospital.ParseSex("other")
	var iv *hospital.InvalidValueError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "sex", iv.Field)

	d, err := hospital.ParseDepartment("surgery")
	require.NoError(t, err)
	assert.Equal(t, hospital.DepartmentSurgery, d)

	sp, err := hospital.ParseSpecialty("trauma_and_orthopaedic")
	require.NoError(t, err)
	assert.Equal(t, hospital.SpecialtyTraumaAndOrthopaedic, sp)

	_, err = hospital.ParseSpecialty("dermatology")
	assert.ErrorIs(t, err, hospital.ErrInvalidValue)

	k, err := hospital.ParseRoomKind("side_room")
	require.NoError(t, err)
	assert.Equal(t, hospital.SideRoom, k)

	bk, err := hospital.ParseBedKind("high_visibility")
	require.NoError(t, err)
	assert.Equal(t, hospital.HighVisibilityBed, bk)
}

func TestNeedsVisualSupervision_HighVisibilityBed(t *testing.T) {
	h := hospital.New("H")
	wid, _ := h.AddWard(hospital.WardSpec{Name: "W"})
	rid, _ := h.AddRoom(wid, hospital.RoomSpec{Name: "Bay"})
	_, err := h.AddBed(rid, hospital.BedSpec{Name: "std"})
	require.NoError(t, err)
	_, err = h.AddBed(rid, hospital.BedSpec{Name: "vis", Kind: hospital.HighVisibilityBed})
	require.NoError(t, err)
	p := newPatient(t, "p", hospital.SexMale, withFlags(hospital.ClinicalFlags{NeedsVisualSupervision: true}))

	require.NoError(t, h.Admit(p, "std"))
	assert.Equal(t, 5.0, h.Score())
	require.NoError(t, h.Discharge(p))
	require.NoError(t, h.Admit(p, "vis"))
	assert.Equal(t, 0.0, h.Score())
}

// =============================================================================
// VIEWS, CLONE, RENDER
// =============================================================================

func TestAddBed_DuplicateName(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 1, 0)
	room := h.Rooms()[0]

	_, err := h.AddBed(room.ID(), hospital.BedSpec{Name: "B1"})

	assert.ErrorIs(t, err, hospital.ErrDuplicateBed)
}

func TestEmptyAndOccupiedBeds(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 3, 1)
	require.NoError(t, h.Admit(newPatient(t, "p", hospital.SexMale), "B2"))

	var empty []string
	for b := range h.EmptyBeds() {
		empty = append(empty, b.Name())
	}
	var occupied []string
	for b := range h.OccupiedBeds() {
		occupied = append(occupied, b.Name())
	}

	assert.Equal(t, []string{"B1", "B3", "S1"}, empty)
	assert.Equal(t, []string{"B2"}, occupied)
	assert.True(t, h.HasEmptyBeds())

	// Early exit from the lazy view
	var first []string
	for b := range h.EmptyBeds() {
		first = append(first, b.Name())
		break
	}
	assert.Equal(t, []string{"B1"}, first)
}

func TestFindPatientByName(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 2, 0)
	require.NoError(t, h.Admit(newPatient(t, "alice", hospital.SexFemale), "B2"))

	p, b, err := h.FindPatientByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, "B2", b.Name())

	_, _, err = h.FindPatientByName("bob")
	assert.ErrorIs(t, err, hospital.ErrPatientNotFound)
}

func TestClone_IsIndependent(t *testing.T) {
	// GIVEN: A hospital with one occupant
	// WHEN: Mutating the clone (admit, discharge, penalty change, LOS)
	// THEN: The original is unchanged

	h := singleWard(t, hospital.WardSpec{
		Name: "M", Sex: hospital.SexMale,
		Restrictions: []hospital.Restriction{r(hospital.IncorrectSex, 10)},
	}, nil, 3, 0)
	orig := newPatient(t, "f", hospital.SexFemale)
	require.NoError(t, h.Admit(orig, "B1"))
	before := h.EvalRestrictions()

	c := h.Clone()
	cp, _, err := c.FindPatientByName("f")
	require.NoError(t, err)
	assert.NotSame(t, orig, cp)

	cp.LOS = 99
	require.NoError(t, c.Discharge(cp))
	require.NoError(t, c.Admit(newPatient(t, "g", hospital.SexFemale), "B2"))
	c.Wards()[0].SetPenalty(hospital.IncorrectSex, 1)

	assert.Equal(t, before, h.EvalRestrictions())
	assert.Equal(t, 0, orig.LOS)
	b1, _ := h.FindBed("B1")
	assert.Same(t, orig, b1.Occupant())
	assert.Equal(t, 1.0, c.Score())

	// Patients from the original are not found in the clone by identity
	_, err = c.FindPatient(orig)
	assert.ErrorIs(t, err, hospital.ErrPatientNotFound)
}

func TestRender(t *testing.T) {
	h := singleWard(t, hospital.WardSpec{Name: "A"}, nil, 2, 1)
	require.NoError(t, h.Admit(newPatient(t, "Jane", hospital.SexFemale), "B2"))

	out := h.RenderString(0)

	assert.Equal(t, strings.Join([]string{
		"Test Hospital",
		"└── A",
		"    ├── Bay",
		"    │   ├── B1",
		"    │   └── B2:Jane",
		"    └── Side1",
		"        └── S1",
		"",
	}, "\n"), out)

	wardsOnly := h.RenderString(2)
	assert.Equal(t, "Test Hospital\n└── A\n", wardsOnly)
}

func TestDerivedViews_TreeOrder(t *testing.T) {
	h := hospital.New("H")
	a, _ := h.AddWard(hospital.WardSpec{Name: "A"})
	b, _ := h.AddWard(hospital.WardSpec{Name: "B"})
	rb, _ := h.AddRoom(b, hospital.RoomSpec{Name: "rb"})
	ra, _ := h.AddRoom(a, hospital.RoomSpec{Name: "ra"})
	_, _ = h.AddBed(rb, hospital.BedSpec{Name: "b1"})
	_, _ = h.AddBed(ra, hospital.BedSpec{Name: "a1"})

	var names []string
	for _, bed := range h.Beds() {
		names = append(names, bed.Name())
	}
	assert.Equal(t, []string{"a1", "b1"}, names)
	assert.True(t, slices.Equal([]string{"ra", "rb"}, []string{h.Rooms()[0].Name, h.Rooms()[1].Name}))
	assert.Equal(t, "A", h.WardOf(h.Beds()[0]).Name)
	assert.Equal(t, "ra", h.RoomOf(h.Beds()[0]).Name)
}
