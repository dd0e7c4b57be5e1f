/*
simulator.go - Hourly discharge/arrival/allocation loop

PURPOSE:
  A Simulator advances a private copy of a hospital one hour at a time.
  Each Step runs, in order:
    1. every occupant's LOS += 1
    2. probabilistic discharge (see DischargePatients)
    3. next arrival batch joins the queue (exhausted source = no arrivals)
    4. the policy allocates from the queue
  and returns the post-step score.

  Arriving patients are cloned before queueing so one forecast can be
  replayed by many simulators without sharing mutable state.

SEE ALSO:
  - mcts.go: Node.Simulate uses a Simulator for rollouts
*/
package agent

import (
	"math/rand/v2"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// ARRIVALS
// =============================================================================

// ArrivalSource yields one batch of arriving patients per simulated hour.
// ok is false once the source is exhausted.
type ArrivalSource interface {
	Next() (batch []*hospital.Patient, ok bool)
}

// SliceArrivals replays a fixed forecast, one batch per call.
type SliceArrivals struct {
	batches [][]*hospital.Patient
	pos     int
}

// ForecastArrivals wraps a forecast of per-hour arrival batches.
func ForecastArrivals(batches [][]*hospital.Patient) *SliceArrivals {
	return &SliceArrivals{batches: batches}
}

func (s *SliceArrivals) Next() ([]*hospital.Patient, bool) {
	if s.pos >= len(s.batches) {
		return nil, false
	}
	b := s.batches[s.pos]
	s.pos++
	return b, true
}

// Remaining reports how many batches are left.
func (s *SliceArrivals) Remaining() int { return len(s.batches) - s.pos }

// =============================================================================
// SIMULATOR
// =============================================================================

type Simulator struct {
	Hospital *hospital.Hospital

	original *hospital.Hospital
	arrivals ArrivalSource
	policy   Policy
	queue    *PatientQueue
	rng      *rand.Rand
}

// NewSimulator copies h; the caller's hospital is never touched.
// A nil arrivals source means no arrivals.
func NewSimulator(h *hospital.Hospital, arrivals ArrivalSource, policy Policy, rng *rand.Rand) *Simulator {
	orig := h.Clone()
	return &Simulator{
		Hospital: orig.Clone(),
		original: orig,
		arrivals: arrivals,
		policy:   policy,
		queue:    NewPatientQueue(),
		rng:      rng,
	}
}

// Queue returns the patients still waiting for a bed.
func (s *Simulator) Queue() *PatientQueue { return s.queue }

// Step simulates one hour and returns the resulting score.
func (s *Simulator) Step() (float64, error) {
	IncrementTimers(s.Hospital, 1)
	DischargePatients(s.Hospital, s.rng)

	if s.arrivals != nil {
		if batch, ok := s.arrivals.Next(); ok {
			for _, p := range batch {
				s.queue.Push(p.Clone())
			}
		}
	}

	if err := s.policy.Allocate(s.Hospital, s.queue); err != nil {
		return 0, err
	}
	return s.Hospital.Score(), nil
}

// Run executes n steps and returns the score after each.
func (s *Simulator) Run(n int) ([]float64, error) {
	scores := make([]float64, 0, n)
	for range n {
		score, err := s.Step()
		if err != nil {
			return scores, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// Reset restores the hospital given to NewSimulator and empties the
// queue. The arrival source is not rewound.
func (s *Simulator) Reset() {
	s.Hospital = s.original.Clone()
	s.queue.Clear()
}
