/*
hospital.go - The hospital tree and its occupancy operations

PURPOSE:
  Hospital owns every Ward, Room and Bed in three flat arenas. Edges are
  stored as index lists (ward -> rooms, room -> beds) and back-indexes
  (room -> ward, bed -> room), so traversal never needs pointers between
  levels and Clone is a slice copy.

OCCUPANCY:
  A Bed holds a non-owning *Patient; the Patient holds the BedID back.
  Admit sets both sides, Discharge clears both. A bed holds at most one
  patient and a patient holds at most one bed.

VIEWS:
  Wards, Rooms, Beds and Patients are computed in tree order on each call.
  EmptyBeds and OccupiedBeds are lazy iter.Seq views; do not admit or
  discharge while ranging over them, collect first.

CONCURRENCY:
  A Hospital is not safe for concurrent use. Callers that share one must
  serialise access; planners work on a Clone.

SEE ALSO:
  - evaluate.go: Restriction scoring over the tree
  - render.go: Text rendering of the tree
*/
package hospital

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// =============================================================================
// TREE NODES
// =============================================================================

// Ward groups rooms under a sex, department and set of specialties.
type Ward struct {
	Name        string
	Sex         Sex
	Department  Department
	Specialties []Specialty

	id           WardID
	restrictions []Restriction
	rooms        []RoomID
}

func (w *Ward) ID() WardID { return w.id }

// RoomIDs returns the ward's rooms in insertion order.
func (w *Ward) RoomIDs() []RoomID { return slices.Clone(w.rooms) }

// Restrictions returns a copy of the ward-level restrictions.
func (w *Ward) Restrictions() []Restriction { return slices.Clone(w.restrictions) }

// SetRestrictions replaces the ward-level restrictions wholesale.
func (w *Ward) SetRestrictions(rs []Restriction) error {
	if err := checkScope(rs, ScopeWard); err != nil {
		return err
	}
	w.restrictions = slices.Clone(rs)
	return nil
}

// SetPenalty changes the penalty of every ward restriction of kind.
func (w *Ward) SetPenalty(kind RestrictionKind, penalty float64) int {
	return setPenalty(w.restrictions, kind, penalty)
}

func (w *Ward) hasSpecialty(s Specialty) bool {
	return slices.Contains(w.Specialties, s)
}

// Room is a bed bay or side room inside a ward.
type Room struct {
	Name string
	Kind RoomKind

	id           RoomID
	ward         WardID
	restrictions []Restriction
	beds         []BedID
}

func (r *Room) ID() RoomID       { return r.id }
func (r *Room) WardID() WardID   { return r.ward }
func (r *Room) BedIDs() []BedID  { return slices.Clone(r.beds) }
func (r *Room) IsSideRoom() bool { return r.Kind == SideRoom }

// Restrictions returns a copy of the room-level restrictions.
func (r *Room) Restrictions() []Restriction { return slices.Clone(r.restrictions) }

// SetRestrictions replaces the room-level restrictions wholesale.
func (r *Room) SetRestrictions(rs []Restriction) error {
	if err := checkScope(rs, ScopeRoom); err != nil {
		return err
	}
	r.restrictions = slices.Clone(rs)
	return nil
}

// SetPenalty changes the penalty of every room restriction of kind.
func (r *Room) SetPenalty(kind RestrictionKind, penalty float64) int {
	return setPenalty(r.restrictions, kind, penalty)
}

// Bed is a single bed, optionally occupied.
type Bed struct {
	id       BedID
	name     string
	kind     BedKind
	room     RoomID
	ward     WardID
	occupant *Patient
}

func (b *Bed) ID() BedID          { return b.id }
func (b *Bed) Name() string       { return b.name }
func (b *Bed) Kind() BedKind      { return b.kind }
func (b *Bed) RoomID() RoomID     { return b.room }
func (b *Bed) WardID() WardID     { return b.ward }
func (b *Bed) Occupant() *Patient { return b.occupant }
func (b *Bed) IsAvailable() bool  { return b.occupant == nil }
func (b *Bed) IsOccupied() bool   { return b.occupant != nil }

func (b *Bed) String() string {
	if b.occupant != nil {
		return fmt.Sprintf("%s:%s", b.name, b.occupant.Name)
	}
	return b.name
}

func setPenalty(rs []Restriction, kind RestrictionKind, penalty float64) int {
	n := 0
	for i := range rs {
		if rs[i].Kind == kind {
			rs[i].Penalty = penalty
			n++
		}
	}
	return n
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// WardSpec describes a ward to add.
type WardSpec struct {
	Name         string
	Sex          Sex
	Department   Department
	Specialties  []Specialty
	Restrictions []Restriction
}

// RoomSpec describes a room to add.
type RoomSpec struct {
	Name         string
	Kind         RoomKind
	Restrictions []Restriction
}

// BedSpec describes a bed to add.
type BedSpec struct {
	Name string
	Kind BedKind
}

// Hospital is the root of the ward/room/bed tree.
type Hospital struct {
	Name string

	wards    []*Ward
	rooms    []*Room
	beds     []*Bed
	bedIndex map[string]BedID
}

// New creates an empty hospital.
func New(name string) *Hospital {
	return &Hospital{
		Name:     name,
		bedIndex: make(map[string]BedID),
	}
}

// AddWard validates spec and appends a ward.
func (h *Hospital) AddWard(spec WardSpec) (WardID, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return 0, &InvalidValueError{Field: "ward name", Value: spec.Name}
	}
	if !spec.Sex.valid() {
		return 0, &InvalidValueError{Field: "sex", Value: fmt.Sprint(int(spec.Sex))}
	}
	if !spec.Department.valid() {
		return 0, &InvalidValueError{Field: "department", Value: fmt.Sprint(int(spec.Department))}
	}
	for _, s := range spec.Specialties {
		if !s.valid() {
			return 0, &InvalidValueError{Field: "specialty", Value: fmt.Sprint(int(s))}
		}
	}
	if err := checkScope(spec.Restrictions, ScopeWard); err != nil {
		return 0, fmt.Errorf("ward %s: %w", spec.Name, err)
	}

	id := WardID(len(h.wards))
	h.wards = append(h.wards, &Ward{
		Name:         spec.Name,
		Sex:          spec.Sex,
		Department:   spec.Department,
		Specialties:  slices.Clone(spec.Specialties),
		id:           id,
		restrictions: slices.Clone(spec.Restrictions),
	})
	return id, nil
}

// AddRoom validates spec and appends a room to ward.
func (h *Hospital) AddRoom(ward WardID, spec RoomSpec) (RoomID, error) {
	w := h.Ward(ward)
	if w == nil {
		return 0, &InvalidValueError{Field: "ward id", Value: fmt.Sprint(int(ward))}
	}
	if strings.TrimSpace(spec.Name) == "" {
		return 0, &InvalidValueError{Field: "room name", Value: spec.Name}
	}
	if spec.Kind != BedBay && spec.Kind != SideRoom {
		return 0, &InvalidValueError{Field: "room_kind", Value: fmt.Sprint(int(spec.Kind))}
	}
	if err := checkScope(spec.Restrictions, ScopeRoom); err != nil {
		return 0, fmt.Errorf("room %s: %w", spec.Name, err)
	}

	id := RoomID(len(h.rooms))
	h.rooms = append(h.rooms, &Room{
		Name:         spec.Name,
		Kind:         spec.Kind,
		id:           id,
		ward:         ward,
		restrictions: slices.Clone(spec.Restrictions),
	})
	w.rooms = append(w.rooms, id)
	return id, nil
}

// AddBed validates spec and appends a bed to room. Bed names are unique
// across the hospital.
func (h *Hospital) AddBed(room RoomID, spec BedSpec) (BedID, error) {
	r := h.Room(room)
	if r == nil {
		return 0, &InvalidValueError{Field: "room id", Value: fmt.Sprint(int(room))}
	}
	if strings.TrimSpace(spec.Name) == "" {
		return 0, &InvalidValueError{Field: "bed name", Value: spec.Name}
	}
	if spec.Kind != StandardBed && spec.Kind != HighVisibilityBed {
		return 0, &InvalidValueError{Field: "bed_kind", Value: fmt.Sprint(int(spec.Kind))}
	}
	if _, ok := h.bedIndex[spec.Name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateBed, spec.Name)
	}

	id := BedID(len(h.beds))
	h.beds = append(h.beds, &Bed{
		id:   id,
		name: spec.Name,
		kind: spec.Kind,
		room: room,
		ward: r.ward,
	})
	r.beds = append(r.beds, id)
	h.bedIndex[spec.Name] = id
	return id, nil
}

// =============================================================================
// ADMISSION / DISCHARGE
// =============================================================================

// Admit places p into the named bed.
func (h *Hospital) Admit(p *Patient, bedName string) error {
	bed, err := h.FindBed(bedName)
	if err != nil {
		return err
	}
	if p.Admitted() {
		return fmt.Errorf("%w: %s", ErrPatientAdmitted, p.Name)
	}
	if bed.occupant != nil {
		return &BedOccupiedError{Bed: bed.name, Occupant: bed.occupant.Name}
	}
	bed.occupant = p
	p.bed = bed.id
	return nil
}

// Discharge removes p from the bed holding it.
func (h *Hospital) Discharge(p *Patient) error {
	bed, err := h.FindPatient(p)
	if err != nil {
		return err
	}
	bed.occupant = nil
	p.bed = noBed
	return nil
}

// Clear discharges every occupied bed.
func (h *Hospital) Clear() {
	for _, b := range h.beds {
		if b.occupant != nil {
			b.occupant.bed = noBed
			b.occupant = nil
		}
	}
}

// =============================================================================
// LOOKUPS
// =============================================================================

// FindBed returns the bed with the given name.
func (h *Hospital) FindBed(name string) (*Bed, error) {
	id, ok := h.bedIndex[name]
	if !ok {
		return nil, &BedNotFoundError{Bed: name}
	}
	return h.beds[id], nil
}

// FindPatient returns the bed currently holding p. Identity is by pointer.
func (h *Hospital) FindPatient(p *Patient) (*Bed, error) {
	if p == nil || p.bed < 0 || int(p.bed) >= len(h.beds) || h.beds[p.bed].occupant != p {
		name := ""
		if p != nil {
			name = p.Name
		}
		return nil, &PatientNotFoundError{Patient: name}
	}
	return h.beds[p.bed], nil
}

// FindPatientByName returns the first occupant with the given name, in
// bed order, and its bed.
func (h *Hospital) FindPatientByName(name string) (*Patient, *Bed, error) {
	for b := range h.OccupiedBeds() {
		if b.occupant.Name == name {
			return b.occupant, b, nil
		}
	}
	return nil, nil, &PatientNotFoundError{Patient: name}
}

func (h *Hospital) Ward(id WardID) *Ward {
	if id < 0 || int(id) >= len(h.wards) {
		return nil
	}
	return h.wards[id]
}

func (h *Hospital) Room(id RoomID) *Room {
	if id < 0 || int(id) >= len(h.rooms) {
		return nil
	}
	return h.rooms[id]
}

func (h *Hospital) Bed(id BedID) *Bed {
	if id < 0 || int(id) >= len(h.beds) {
		return nil
	}
	return h.beds[id]
}

// WardByName returns the ward with the given name, or nil.
func (h *Hospital) WardByName(name string) *Ward {
	for _, w := range h.wards {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// RoomOf returns the room containing bed.
func (h *Hospital) RoomOf(b *Bed) *Room { return h.rooms[b.room] }

// WardOf returns the ward containing bed.
func (h *Hospital) WardOf(b *Bed) *Ward { return h.wards[b.ward] }

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// Wards returns the wards in insertion order.
func (h *Hospital) Wards() []*Ward { return slices.Clone(h.wards) }

// Rooms returns every room in tree order.
func (h *Hospital) Rooms() []*Room {
	out := make([]*Room, 0, len(h.rooms))
	for _, w := range h.wards {
		for _, rid := range w.rooms {
			out = append(out, h.rooms[rid])
		}
	}
	return out
}

// Beds returns every bed in tree order.
func (h *Hospital) Beds() []*Bed {
	return slices.Collect(h.allBeds())
}

// WardBeds returns the beds of one ward in tree order.
func (h *Hospital) WardBeds(id WardID) []*Bed {
	var out []*Bed
	for _, rid := range h.wards[id].rooms {
		for _, bid := range h.rooms[rid].beds {
			out = append(out, h.beds[bid])
		}
	}
	return out
}

// RoomBeds returns the beds of one room.
func (h *Hospital) RoomBeds(id RoomID) []*Bed {
	ids := h.rooms[id].beds
	out := make([]*Bed, len(ids))
	for i, bid := range ids {
		out[i] = h.beds[bid]
	}
	return out
}

// Patients returns every occupant in tree order.
func (h *Hospital) Patients() []*Patient {
	var out []*Patient
	for b := range h.OccupiedBeds() {
		out = append(out, b.occupant)
	}
	return out
}

// WardPatients returns the occupants of one ward.
func (h *Hospital) WardPatients(id WardID) []*Patient {
	var out []*Patient
	for _, b := range h.WardBeds(id) {
		if b.occupant != nil {
			out = append(out, b.occupant)
		}
	}
	return out
}

// RoomPatients returns the occupants of one room.
func (h *Hospital) RoomPatients(id RoomID) []*Patient {
	var out []*Patient
	for _, bid := range h.rooms[id].beds {
		if p := h.beds[bid].occupant; p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (h *Hospital) allBeds() iter.Seq[*Bed] {
	return func(yield func(*Bed) bool) {
		for _, w := range h.wards {
			for _, rid := range w.rooms {
				for _, bid := range h.rooms[rid].beds {
					if !yield(h.beds[bid]) {
						return
					}
				}
			}
		}
	}
}

// EmptyBeds lazily yields unoccupied beds in tree order.
func (h *Hospital) EmptyBeds() iter.Seq[*Bed] {
	return func(yield func(*Bed) bool) {
		for b := range h.allBeds() {
			if b.occupant == nil && !yield(b) {
				return
			}
		}
	}
}

// OccupiedBeds lazily yields occupied beds in tree order.
func (h *Hospital) OccupiedBeds() iter.Seq[*Bed] {
	return func(yield func(*Bed) bool) {
		for b := range h.allBeds() {
			if b.occupant != nil && !yield(b) {
				return
			}
		}
	}
}

// HasEmptyBeds reports whether at least one bed is free.
func (h *Hospital) HasEmptyBeds() bool {
	for range h.EmptyBeds() {
		return true
	}
	return false
}

func (h *Hospital) NumBeds() int { return len(h.beds) }

// NumOccupied returns the number of occupied beds.
func (h *Hospital) NumOccupied() int {
	n := 0
	for _, b := range h.beds {
		if b.occupant != nil {
			n++
		}
	}
	return n
}

// =============================================================================
// CLONE
// =============================================================================

// Clone returns a fully independent copy. Occupants are cloned too, so
// patient pointers from h are not found in the copy; look them up by bed.
func (h *Hospital) Clone() *Hospital {
	c := &Hospital{
		Name:     h.Name,
		wards:    make([]*Ward, len(h.wards)),
		rooms:    make([]*Room, len(h.rooms)),
		beds:     make([]*Bed, len(h.beds)),
		bedIndex: make(map[string]BedID, len(h.bedIndex)),
	}
	for i, w := range h.wards {
		cw := *w
		cw.Specialties = slices.Clone(w.Specialties)
		cw.restrictions = slices.Clone(w.restrictions)
		cw.rooms = slices.Clone(w.rooms)
		c.wards[i] = &cw
	}
	for i, r := range h.rooms {
		cr := *r
		cr.restrictions = slices.Clone(r.restrictions)
		cr.beds = slices.Clone(r.beds)
		c.rooms[i] = &cr
	}
	for i, b := range h.beds {
		cb := *b
		if b.occupant != nil {
			p := b.occupant.Clone()
			p.bed = cb.id
			cb.occupant = p
		}
		c.beds[i] = &cb
	}
	for k, v := range h.bedIndex {
		c.bedIndex[k] = v
	}
	return c
}

func (h *Hospital) String() string {
	return fmt.Sprintf("Hospital(name=%s, wards=%d, beds=%d, occupied=%d)",
		h.Name, len(h.wards), len(h.beds), h.NumOccupied())
}
