package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bed-engine/factory"
	"github.com/warp/bed-engine/hospital"
)

const layoutJSON = `{
  "name": "H",
  "wards": [
    {
      "name": "Ward M",
      "sex": "male",
      "specialties": ["general", "cardiology"],
      "restrictions": [{"kind": "incorrect_sex", "penalty": 10}, {"kind": "NoKnownCovid", "penalty": 5}],
      "rooms": [
        {
          "name": "Bay",
          "restrictions": [{"kind": "no_mixed_sex", "penalty": 8}],
          "beds": [
            {"name": "M1", "patient": {"name": "p1", "sex": "male", "age": 70, "weight": 82.5,
              "expected_length_of_stay": 24, "length_of_stay": 3, "is_high_falls_risk": true}},
            {"name": "M2", "kind": "high_visibility"}
          ]
        },
        {"name": "Side", "kind": "side_room", "beds": [{"name": "MS1"}]}
      ]
    }
  ]
}`

const layoutYAML = `
name: H
wards:
  - name: Ward S
    department: surgery
    restrictions:
      - kind: no_medical
        penalty: 1
    rooms:
      - name: Bay
        beds:
          - name: S1
            patient:
              name: p1
              sex: female
              department: medicine
              expected_length_of_stay: 10
              is_immunosuppressed: true
          - name: S2
`

// =============================================================================
// PARSING
// =============================================================================

func TestParseHospital_JSON(t *testing.T) {
	// GIVEN: A one-ward layout with an occupied bay bed and a side room
	// WHEN: Parsing
	// THEN: Enums, restrictions, beds and the occupant are all in place

	h, err := factory.NewHospitalFactory().ParseHospital([]byte(layoutJSON))
	require.NoError(t, err)

	w := h.WardByName("Ward M")
	require.NotNil(t, w)
	assert.Equal(t, hospital.SexMale, w.Sex)
	assert.Equal(t, hospital.DepartmentMedicine, w.Department, "department defaults to medicine")
	assert.Equal(t, []hospital.Specialty{hospital.SpecialtyGeneral, hospital.SpecialtyCardiology}, w.Specialties)
	assert.Equal(t, []hospital.Restriction{
		{Kind: hospital.IncorrectSex, Penalty: 10},
		{Kind: hospital.NoKnownCovid, Penalty: 5},
	}, w.Restrictions())

	assert.Equal(t, 3, h.NumBeds())
	m2, err := h.FindBed("M2")
	require.NoError(t, err)
	assert.Equal(t, hospital.HighVisibilityBed, m2.Kind())
	ms1, err := h.FindBed("MS1")
	require.NoError(t, err)
	assert.True(t, h.RoomOf(ms1).IsSideRoom())

	p, bed, err := h.FindPatientByName("p1")
	require.NoError(t, err)
	assert.Equal(t, "M1", bed.Name())
	assert.Equal(t, 3, p.LOS)
	assert.True(t, p.Flags.FallsRisk)
	assert.Equal(t, []hospital.Restriction{{Kind: hospital.ProhibitedSideRoom, Penalty: 5}}, p.Restrictions())
	assert.Equal(t, 0.0, h.Score())
}

func TestParseHospitalYAML(t *testing.T) {
	h, err := factory.NewHospitalFactory().ParseHospitalYAML([]byte(layoutYAML))
	require.NoError(t, err)

	w := h.WardByName("Ward S")
	require.NotNil(t, w)
	assert.Equal(t, hospital.SexUnknown, w.Sex)
	assert.Equal(t, hospital.DepartmentSurgery, w.Department)

	p, _, err := h.FindPatientByName("p1")
	require.NoError(t, err)
	assert.True(t, p.Flags.Immunosuppressed)

	ev := h.EvalRestrictions()
	assert.Equal(t, 11.0, ev.Score, "no_medical(1) + needs_side_room(10)")
	assert.ElementsMatch(t, []string{"no_medical", "needs_side_room"}, ev.Names)
}

func TestParseHospital_Rejects(t *testing.T) {
	f := factory.NewHospitalFactory()
	cases := []struct {
		name   string
		layout string
		check  func(error) bool
	}{
		{"malformed json", `{"name":`, hospital.IsClientError},
		{"missing name", `{"wards": []}`, hospital.IsClientError},
		{"bad sex", `{"name":"H","wards":[{"name":"W","sex":"other","rooms":[]}]}`, hospital.IsClientError},
		{"bad specialty", `{"name":"H","wards":[{"name":"W","specialties":["dentistry"],"rooms":[]}]}`, hospital.IsClientError},
		{"unknown restriction", `{"name":"H","wards":[{"name":"W","restrictions":[{"kind":"no_cats","penalty":1}],"rooms":[]}]}`, hospital.IsClientError},
		{"room rule on ward", `{"name":"H","wards":[{"name":"W","restrictions":[{"kind":"no_mixed_sex","penalty":1}],"rooms":[]}]}`, hospital.IsClientError},
		{"negative penalty", `{"name":"H","wards":[{"name":"W","restrictions":[{"kind":"no_medical","penalty":-1}],"rooms":[]}]}`, hospital.IsClientError},
		{"bad room kind", `{"name":"H","wards":[{"name":"W","rooms":[{"name":"R","kind":"cupboard","beds":[]}]}]}`, hospital.IsClientError},
		{"duplicate bed", `{"name":"H","wards":[{"name":"W","rooms":[{"name":"R","beds":[{"name":"B"},{"name":"B"}]}]}]}`, hospital.IsConflict},
		{"patient without sex", `{"name":"H","wards":[{"name":"W","rooms":[{"name":"R","beds":[{"name":"B","patient":{"name":"p"}}]}]}]}`, hospital.IsClientError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ParseHospital([]byte(tc.layout))
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error class: %v", err)
		})
	}
}

func TestParsePatient(t *testing.T) {
	f := factory.NewHospitalFactory()

	p, err := f.ParsePatient([]byte(`{"name":"p","sex":"Female","specialty":"elderly_care",
		"expected_length_of_stay":5,"is_end_of_life":true,"needs_visual_supervision":true}`))

	require.NoError(t, err)
	assert.Equal(t, hospital.SexFemale, p.Sex)
	assert.Equal(t, hospital.SpecialtyElderlyCare, p.Specialty)
	assert.Equal(t, []hospital.Restriction{
		{Kind: hospital.NeedsSideRoom, Penalty: 3},
		{Kind: hospital.NeedsVisualSupervision, Penalty: 5},
	}, p.Restrictions())
	assert.False(t, p.Admitted())

	_, err = f.ParsePatient([]byte(`{"name":"p","sex":"male","age":-1}`))
	assert.ErrorIs(t, err, hospital.ErrInvalidValue)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_RoundTrip(t *testing.T) {
	// GIVEN: A parsed hospital with one more admission
	// WHEN: Exporting and parsing the export
	// THEN: The tree, occupants and evaluation are unchanged

	f := factory.NewHospitalFactory()
	h, err := f.ParseHospital([]byte(layoutJSON))
	require.NoError(t, err)
	woman, err := f.ParsePatient([]byte(`{"name":"p2","sex":"female","expected_length_of_stay":8,"length_of_stay":2}`))
	require.NoError(t, err)
	require.NoError(t, h.Admit(woman, "M2"))

	data, err := f.Export(h)
	require.NoError(t, err)
	back, err := f.ParseHospital(data)
	require.NoError(t, err)

	assert.Equal(t, h.EvalRestrictions(), back.EvalRestrictions())
	assert.Equal(t, h.RenderString(0), back.RenderString(0))
	p2, _, err := back.FindPatientByName("p2")
	require.NoError(t, err)
	assert.Equal(t, 2, p2.LOS)

	yml, err := f.ExportYAML(h)
	require.NoError(t, err)
	fromYAML, err := f.ParseHospitalYAML(yml)
	require.NoError(t, err)
	assert.Equal(t, h.EvalRestrictions(), fromYAML.EvalRestrictions())
}

// =============================================================================
// PRESETS
// =============================================================================

func TestWardPresets(t *testing.T) {
	med := factory.MedicalWard("A", hospital.SexUnknown, nil)
	surg := factory.SurgicalWard("B", hospital.SexFemale, nil, hospital.Restriction{Kind: hospital.NoMedical, Penalty: 1})

	assert.Equal(t, hospital.DepartmentMedicine, med.Department)
	assert.Equal(t, hospital.DepartmentSurgery, surg.Department)
	assert.Len(t, surg.Restrictions, 1)
}

func TestGenerateLayout_BaySizing(t *testing.T) {
	// GIVEN: A ward of 31 beds with 2 side rooms
	// WHEN: Generating
	// THEN: 2 side rooms then bays of 8, 7, 7, 7, each with no_mixed_sex(8)

	h, err := factory.GenerateLayout("H", []factory.WardLayout{
		{Ward: factory.MedicalWard("A", hospital.SexUnknown, nil), Beds: 31, SideRooms: 2},
	})
	require.NoError(t, err)

	rooms := h.Rooms()
	require.Len(t, rooms, 6)
	var sizes []int
	for _, room := range rooms {
		sizes = append(sizes, len(room.BedIDs()))
	}
	assert.Equal(t, []int{1, 1, 8, 7, 7, 7}, sizes)
	assert.Equal(t, "R00", rooms[0].Name)
	assert.True(t, rooms[0].IsSideRoom())
	assert.Empty(t, rooms[0].Restrictions())
	assert.Equal(t, []hospital.Restriction{{Kind: hospital.NoMixedSex, Penalty: 8}}, rooms[2].Restrictions())

	beds := h.Beds()
	assert.Equal(t, "B000", beds[0].Name())
	assert.Equal(t, "B030", beds[30].Name())
}

func TestGenerateLayout_SmallAndInvalid(t *testing.T) {
	h, err := factory.GenerateLayout("H", []factory.WardLayout{
		{Ward: factory.MedicalWard("A", hospital.SexUnknown, nil), Beds: 4, SideRooms: 1},
	})
	require.NoError(t, err)
	assert.Len(t, h.Rooms(), 2, "fewer than six bay beds still make one bay")
	assert.Equal(t, 4, h.NumBeds())

	_, err = factory.GenerateLayout("H", []factory.WardLayout{
		{Ward: factory.MedicalWard("A", hospital.SexUnknown, nil), Beds: 1, SideRooms: 2},
	})
	assert.ErrorIs(t, err, hospital.ErrInvalidValue)
}

func TestDemoLayout(t *testing.T) {
	h, err := factory.DemoLayout()
	require.NoError(t, err)

	assert.Equal(t, "H1", h.Name)
	assert.Len(t, h.Wards(), 6)
	assert.Len(t, h.Rooms(), 39)
	assert.Equal(t, 154, h.NumBeds())
	assert.Equal(t, 0, h.NumOccupied())
	assert.Equal(t, 0.0, h.Score())

	b := h.WardByName("Ward B")
	require.NotNil(t, b)
	assert.Equal(t, hospital.SexFemale, b.Sex)
	assert.Contains(t, b.Restrictions(), hospital.Restriction{Kind: hospital.IncorrectSex, Penalty: 10})

	e := h.WardByName("Ward E")
	require.NotNil(t, e)
	assert.Equal(t, hospital.DepartmentSurgery, e.Department)
	for _, rid := range e.RoomIDs() {
		assert.False(t, h.Room(rid).IsSideRoom(), "Ward E has no side rooms")
	}
}
