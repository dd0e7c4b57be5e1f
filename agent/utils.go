package agent

import (
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"github.com/warp/bed-engine/hospital"
)

// Logistic is the standard sigmoid 1 / (1 + e^-x).
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Bernoulli draws true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// ReduceRestrictions returns the multiset difference after - before:
// names in after not matched by an equal name in before, counting
// repeats. Order follows after.
func ReduceRestrictions(before, after []string) []string {
	remaining := make(map[string]int, len(before))
	for _, n := range before {
		remaining[n]++
	}
	out := []string{}
	for _, n := range after {
		if remaining[n] > 0 {
			remaining[n]--
			continue
		}
		out = append(out, n)
	}
	return out
}

// NormalisePenalties divides every ward restriction penalty by the
// maximum possible ward penalty (sum over wards of each restriction's
// penalty times the ward's bed count), so ward scores fall in [0, 1].
// It returns the divisor; a zero maximum leaves penalties unchanged.
// Room and patient restrictions are not rescaled.
func NormalisePenalties(h *hospital.Hospital) float64 {
	maxPenalty := decimal.Zero
	for _, w := range h.Wards() {
		beds := decimal.NewFromInt(int64(len(h.WardBeds(w.ID()))))
		for _, r := range w.Restrictions() {
			maxPenalty = maxPenalty.Add(decimal.NewFromFloat(r.Penalty).Mul(beds))
		}
	}
	if maxPenalty.IsZero() {
		return 0
	}

	for _, w := range h.Wards() {
		rs := w.Restrictions()
		for i := range rs {
			rs[i].Penalty = decimal.NewFromFloat(rs[i].Penalty).Div(maxPenalty).InexactFloat64()
		}
		// Same kinds, same scope: cannot fail.
		_ = w.SetRestrictions(rs)
	}
	return maxPenalty.InexactFloat64()
}

// IncrementTimers adds delta hours to every occupant's length of stay.
func IncrementTimers(h *hospital.Hospital, delta int) {
	for b := range h.OccupiedBeds() {
		b.Occupant().LOS += delta
	}
}

// DischargePatients discharges each occupant with probability
// Logistic(2*(LOS-ExpectedLOS+1)) and returns how many left.
func DischargePatients(h *hospital.Hospital, rng *rand.Rand) int {
	var leaving []*hospital.Patient
	for b := range h.OccupiedBeds() {
		p := b.Occupant()
		if Bernoulli(rng, Logistic(2*float64(p.LOS-p.ExpectedLOS+1))) {
			leaving = append(leaving, p)
		}
	}
	for _, p := range leaving {
		// Patients come straight from OccupiedBeds, so Discharge cannot fail.
		_ = h.Discharge(p)
	}
	return len(leaving)
}
