/*
evaluate.go - Hospital-wide restriction scoring

PURPOSE:
  EvalRestrictions walks wards, rooms and occupants and returns the total
  penalty plus the multiset of violated rule names. Score does the same
  walk without building the name list; the simulator and planner call it
  after every admission and discharge.

NAME MULTIPLICITY:
  Ward restrictions sum per-bed penalties, so a rule that fired on three
  beds contributes 3*penalty. The name is repeated round(total/penalty)
  times so that len(names) per rule times the unit penalty gives back the
  rule's share of the score.

ORDER:
  Ward restrictions first (ward order), then room restrictions (tree
  order), then patient restrictions (bed order).
*/
package hospital

import "math"

// Evaluation is the result of scoring a hospital.
type Evaluation struct {
	Score float64  `json:"score"`
	Names []string `json:"names"`
}

// EvalRestrictions scores the whole hospital.
func (h *Hospital) EvalRestrictions() Evaluation {
	var ev Evaluation
	for _, w := range h.wards {
		for _, r := range w.restrictions {
			ev.add(r, h.wardTotal(w, r))
		}
	}
	for _, w := range h.wards {
		for _, rid := range w.rooms {
			room := h.rooms[rid]
			for _, r := range room.restrictions {
				ev.add(r, r.evalRoom(h, room))
			}
		}
	}
	for b := range h.OccupiedBeds() {
		room := h.rooms[b.room]
		for _, r := range b.occupant.restrictions {
			ev.add(r, r.evalPatient(room, b))
		}
	}
	return ev
}

func (ev *Evaluation) add(r Restriction, total float64) {
	if total == 0 {
		return
	}
	ev.Score += total
	n := 1
	if r.Penalty != 0 {
		n = int(math.Round(total / r.Penalty))
	}
	for range n {
		ev.Names = append(ev.Names, r.Kind.String())
	}
}

// Score returns the total penalty without collecting names.
func (h *Hospital) Score() float64 {
	var s float64
	for _, w := range h.wards {
		s += h.WardScore(w.id)
	}
	for _, room := range h.rooms {
		s += h.RoomScore(room.id)
	}
	for _, b := range h.beds {
		if b.occupant != nil {
			s += h.PatientScore(b.occupant)
		}
	}
	return s
}

// WardScore returns the penalty of one ward's own restrictions.
func (h *Hospital) WardScore(id WardID) float64 {
	w := h.wards[id]
	var s float64
	for _, r := range w.restrictions {
		s += h.wardTotal(w, r)
	}
	return s
}

// RoomScore returns the penalty of one room's own restrictions.
func (h *Hospital) RoomScore(id RoomID) float64 {
	room := h.rooms[id]
	var s float64
	for _, r := range room.restrictions {
		s += r.evalRoom(h, room)
	}
	return s
}

// PatientScore returns the penalty of an admitted patient's restrictions.
// Unadmitted patients score zero.
func (h *Hospital) PatientScore(p *Patient) float64 {
	b, err := h.FindPatient(p)
	if err != nil {
		return 0
	}
	room := h.rooms[b.room]
	var s float64
	for _, r := range p.restrictions {
		s += r.evalPatient(room, b)
	}
	return s
}

func (h *Hospital) wardTotal(w *Ward, r Restriction) float64 {
	var total float64
	for _, rid := range w.rooms {
		room := h.rooms[rid]
		for _, bid := range room.beds {
			total += r.evalBed(w, room, h.beds[bid].occupant)
		}
	}
	return total
}
