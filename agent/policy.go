/*
policy.go - Allocation policies

PURPOSE:
  Pure functions that place queued patients into a hospital.

POLICIES:
  RandomAllocate:    shuffle empty beds, pair with patients in queue order
  GreedyAllocate:    each patient to the bed with the lowest marginal penalty
  GreedySuggestions: top-k beds for one patient with the rules each breaks

QUEUE SEMANTICS:
  A patient is only removed from the queue once a bed has been found for
  it. When beds run out the rest of the queue stays put for the next
  step.

SEE ALSO:
  - quotient.go: Bed equivalence classes used by the greedy policies
*/
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// POLICY INTERFACE
// =============================================================================

// Policy allocates queued patients into h in place.
type Policy interface {
	Allocate(h *hospital.Hospital, q *PatientQueue) error
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(h *hospital.Hospital, q *PatientQueue) error

func (f PolicyFunc) Allocate(h *hospital.Hospital, q *PatientQueue) error { return f(h, q) }

// RandomPolicy returns a Policy that calls RandomAllocate with rng.
func RandomPolicy(rng *rand.Rand) Policy {
	return PolicyFunc(func(h *hospital.Hospital, q *PatientQueue) error {
		return RandomAllocate(h, q, rng)
	})
}

// GreedyPolicy returns a Policy that calls GreedyAllocate.
func GreedyPolicy() Policy {
	return PolicyFunc(GreedyAllocate)
}

// =============================================================================
// RANDOM
// =============================================================================

// RandomAllocate shuffles the empty beds and pairs them with queued
// patients until either runs out. No penalty awareness.
func RandomAllocate(h *hospital.Hospital, q *PatientQueue, rng *rand.Rand) error {
	var empty []*hospital.Bed
	for b := range h.EmptyBeds() {
		empty = append(empty, b)
	}
	rng.Shuffle(len(empty), func(i, j int) { empty[i], empty[j] = empty[j], empty[i] })

	for len(empty) > 0 {
		p, ok := q.Pop()
		if !ok {
			return nil
		}
		bed := empty[len(empty)-1]
		empty = empty[:len(empty)-1]
		if err := h.Admit(p, bed.Name()); err != nil {
			return fmt.Errorf("random allocate %s: %w", p.Name, err)
		}
	}
	return nil
}

// =============================================================================
// GREEDY
// =============================================================================

// GreedyAllocate admits each queued patient, in order, into the bed with
// the lowest marginal penalty. It stops without error when the hospital
// is full.
func GreedyAllocate(h *hospital.Hospital, q *PatientQueue) error {
	for {
		p, ok := q.Peek()
		if !ok {
			return nil
		}
		best, err := FindBestBed(p, h, 1)
		if errors.Is(err, ErrNoEmptyBeds) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := h.Admit(p, best[0]); err != nil {
			return fmt.Errorf("greedy allocate %s: %w", p.Name, err)
		}
		q.Pop()
	}
}

// FindBestBed returns up to k bed names with the lowest marginal penalty
// for p, ascending. Only one representative per equivalence class is
// evaluated; ties keep evaluation order. A full hospital returns
// ErrNoEmptyBeds.
func FindBestBed(p *hospital.Patient, h *hospital.Hospital, k int) ([]string, error) {
	reps := QuotientHospital(h)
	if len(reps) == 0 {
		return nil, ErrNoEmptyBeds
	}

	type candidate struct {
		bed   string
		delta float64
	}
	base := h.Score()
	results := make([]candidate, 0, len(reps))
	for _, rep := range reps {
		delta, err := marginalScore(h, p, rep.Bed, base)
		if err != nil {
			return nil, err
		}
		results = append(results, candidate{bed: rep.Bed, delta: delta})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].delta < results[j].delta })
	if k < len(results) {
		results = results[:max(k, 0)]
	}
	out := make([]string, len(results))
	for i, c := range results {
		out[i] = c.bed
	}
	return out, nil
}

func marginalScore(h *hospital.Hospital, p *hospital.Patient, bed string, base float64) (float64, error) {
	if err := h.Admit(p, bed); err != nil {
		return 0, err
	}
	delta := h.Score() - base
	if err := h.Discharge(p); err != nil {
		return 0, err
	}
	return delta, nil
}

// Suggestion is one candidate bed for a patient.
type Suggestion struct {
	Bed                  string   `json:"bed"`
	Penalty              float64  `json:"penalty"`
	ViolatedRestrictions []string `json:"violated_restrictions"`
}

// GreedySuggestions returns the k best beds for p with the marginal
// penalty of each and the rule names that placement newly violates.
// h is left as it was found.
func GreedySuggestions(h *hospital.Hospital, p *hospital.Patient, k int) ([]Suggestion, error) {
	best, err := FindBestBed(p, h, k)
	if err != nil {
		return nil, err
	}
	base := h.EvalRestrictions()

	out := make([]Suggestion, 0, len(best))
	for _, bed := range best {
		if err := h.Admit(p, bed); err != nil {
			return nil, err
		}
		ev := h.EvalRestrictions()
		if err := h.Discharge(p); err != nil {
			return nil, err
		}
		out = append(out, Suggestion{
			Bed:                  bed,
			Penalty:              ev.Score - base.Score,
			ViolatedRestrictions: ReduceRestrictions(base.Names, ev.Names),
		})
	}
	return out, nil
}

// =============================================================================
// POPULATION
// =============================================================================

// PatientSource produces synthetic patients.
type PatientSource interface {
	Patient() (*hospital.Patient, error)
}

// PopulateHospital draws patients from src and random-allocates them
// until int(beds*occupancy) beds are occupied.
func PopulateHospital(h *hospital.Hospital, occupancy float64, src PatientSource, rng *rand.Rand) error {
	if occupancy < 0 || occupancy > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidOccupancy, occupancy)
	}
	target := int(float64(h.NumBeds()) * occupancy)
	for h.NumOccupied() < target {
		p, err := src.Patient()
		if err != nil {
			return fmt.Errorf("populate hospital: %w", err)
		}
		if err := RandomAllocate(h, NewPatientQueue(p), rng); err != nil {
			return err
		}
	}
	return nil
}
