/*
Package agent implements bed-allocation policies and the MCTS planner.

PURPOSE:
  Everything that decides where patients go lives here. The hospital
  package only knows how to admit, discharge and score; this package
  searches over those operations.

KEY CONCEPTS:
  - PatientQueue: FIFO of patients waiting for a bed
  - Policy: allocates queued patients into a hospital (random, greedy)
  - QuotientHospital: one representative bed per class of
    interchangeable empty beds, used by the greedy policies
  - Simulator: hourly discharge/arrival/allocation loop on a private
    copy of a hospital
  - Node / RunMCTS: search tree over joint bed assignments of the
    arriving patients, valued by discounted simulator rollouts

OWNERSHIP:
  Policies admit the *Patient values they pop from the queue. The
  simulator and the planner clone forecast patients before admitting
  them, so the same forecast can be replayed across rollouts.

SEE ALSO:
  - policy.go: RandomAllocate, GreedyAllocate, GreedySuggestions
  - simulator.go: Simulator
  - mcts.go, run.go: the planner
*/
package agent

import "github.com/warp/bed-engine/hospital"

// PatientQueue is a FIFO of patients awaiting placement.
// Not safe for concurrent use.
type PatientQueue struct {
	items []*hospital.Patient
}

func NewPatientQueue(ps ...*hospital.Patient) *PatientQueue {
	q := &PatientQueue{}
	q.Push(ps...)
	return q
}

// Push appends patients to the back of the queue.
func (q *PatientQueue) Push(ps ...*hospital.Patient) {
	q.items = append(q.items, ps...)
}

// Pop removes and returns the front patient.
func (q *PatientQueue) Pop() (*hospital.Patient, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return p, true
}

// Peek returns the front patient without removing it.
func (q *PatientQueue) Peek() (*hospital.Patient, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

func (q *PatientQueue) Len() int { return len(q.items) }

// Patients returns a copy of the queued patients, front first.
func (q *PatientQueue) Patients() []*hospital.Patient {
	out := make([]*hospital.Patient, len(q.items))
	copy(out, q.items)
	return out
}

// Clear empties the queue.
func (q *PatientQueue) Clear() { q.items = nil }
