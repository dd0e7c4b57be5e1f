package agent

import (
	"github.com/warp/bed-engine/hospital"
)

// Representative is the bed chosen to stand for one class of equivalent
// empty beds, with the share of all empty beds that class covers.
type Representative struct {
	Bed      string
	Fraction float64
}

// equivalenceKey identifies a class of interchangeable empty beds.
// Bay beds in a ward with a definite sex are keyed by ward; every other
// bed is keyed by its room.
type equivalenceKey struct {
	byWard bool
	ward   hospital.WardID
	room   hospital.RoomID
}

func keyOf(h *hospital.Hospital, b *hospital.Bed) equivalenceKey {
	room := h.RoomOf(b)
	if room.Kind == hospital.BedBay && h.WardOf(b).Sex.IsDefinite() {
		return equivalenceKey{byWard: true, ward: b.WardID()}
	}
	return equivalenceKey{room: b.RoomID()}
}

// EquivalentBeds groups the empty beds of h into equivalence classes,
// in order of first appearance.
func EquivalentBeds(h *hospital.Hospital) [][]*hospital.Bed {
	index := make(map[equivalenceKey]int)
	var classes [][]*hospital.Bed
	for b := range h.EmptyBeds() {
		k := keyOf(h, b)
		i, ok := index[k]
		if !ok {
			i = len(classes)
			index[k] = i
			classes = append(classes, nil)
		}
		classes[i] = append(classes[i], b)
	}
	return classes
}

// QuotientHospital returns one representative per class of equivalent
// empty beds: the class member with the smallest name. Classes keep
// their order of first appearance. An empty result means no empty beds.
func QuotientHospital(h *hospital.Hospital) []Representative {
	classes := EquivalentBeds(h)
	total := 0
	for _, c := range classes {
		total += len(c)
	}

	reps := make([]Representative, 0, len(classes))
	for _, c := range classes {
		first := c[0]
		for _, b := range c[1:] {
			if b.Name() < first.Name() {
				first = b
			}
		}
		reps = append(reps, Representative{
			Bed:      first.Name(),
			Fraction: float64(len(c)) / float64(total),
		})
	}
	return reps
}

// EmptyWardBeds returns the empty beds of each ward, keyed by ward name.
func EmptyWardBeds(h *hospital.Hospital) map[string][]*hospital.Bed {
	out := make(map[string][]*hospital.Bed)
	for b := range h.EmptyBeds() {
		name := h.WardOf(b).Name
		out[name] = append(out[name], b)
	}
	return out
}
