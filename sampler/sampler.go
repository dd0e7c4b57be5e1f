/*
Package sampler draws synthetic patients and turns hourly arrival
forecasts into per-hour patient batches.

PURPOSE:
  The planner needs a stream of plausible patients: for populating a
  hospital to a starting occupancy and for filling forecast hours with
  arrivals. All distribution parameters are carried in an explicit Config
  rather than package-level tables, so two samplers with different
  casemixes can coexist.

DISTRIBUTIONS (defaults):
  sex           50/50 male/female
  age           uniform [18, 100)
  weight        normal(70, 12) truncated to [30, 120], 2 decimals
  expected LOS  exponential, mean 10 hours (truncated to int)
  specialty     categorical over Config.Specialties
  elective      Bernoulli(HourlyElective[hour]); electives are redrawn
                unless IncludeElective is set
  high acuity   early-warning score ~ Geometric(0.5)-1, high when > 5
  flags         independent Bernoulli per clinical flag; at most one of
                known COVID, COVID re-swab, COVID exposure

SEE ALSO:
  - agent.PatientSource: *Random satisfies it
*/
package sampler

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// CONFIG
// =============================================================================

// SpecialtyWeight is one entry of the admitting-specialty distribution.
type SpecialtyWeight struct {
	Specialty   hospital.Specialty
	Department  hospital.Department
	Probability float64 `validate:"gte=0,lte=1"`
}

// FlagProbabilities holds the chance of each clinical flag being set.
type FlagProbabilities struct {
	KnownCovid        float64 `validate:"gte=0,lte=1"`
	CovidReswab       float64 `validate:"gte=0,lte=1"`
	CovidExposure     float64 `validate:"gte=0,lte=1"`
	Dementia          float64 `validate:"gte=0,lte=1"`
	EndOfLife         float64 `validate:"gte=0,lte=1"`
	Falls             float64 `validate:"gte=0,lte=1"`
	VisualImpairment  float64 `validate:"gte=0,lte=1"`
	VisualSupervision float64 `validate:"gte=0,lte=1"`
	Immunosuppressed  float64 `validate:"gte=0,lte=1"`
	InfectionControl  float64 `validate:"gte=0,lte=1"`
}

type Config struct {
	MaleProbability float64           `validate:"gte=0,lte=1"`
	MinAge          int               `validate:"gte=0"`
	MaxAge          int               `validate:"gtfield=MinAge"`
	MeanLOSHours    float64           `validate:"gt=0"`
	Specialties     []SpecialtyWeight `validate:"min=1,dive"`
	HourlyElective  [24]float64       `validate:"dive,gte=0,lte=1"`
	IncludeElective bool
	Flags           FlagProbabilities
}

// DefaultConfig returns the synthetic casemix used by the demo hospital.
func DefaultConfig() Config {
	var elective [24]float64
	for h := range elective {
		elective[h] = 0.02
		if h >= 8 && h < 18 {
			elective[h] = 0.15
		}
	}
	return Config{
		MaleProbability: 0.5,
		MinAge:          18,
		MaxAge:          100,
		MeanLOSHours:    10,
		Specialties: []SpecialtyWeight{
			{hospital.SpecialtyGeneral, hospital.DepartmentMedicine, 0.30},
			{hospital.SpecialtyGeneral, hospital.DepartmentSurgery, 0.10},
			{hospital.SpecialtyTraumaAndOrthopaedic, hospital.DepartmentSurgery, 0.10},
			{hospital.SpecialtyRespiratory, hospital.DepartmentMedicine, 0.10},
			{hospital.SpecialtyGastroenterology, hospital.DepartmentMedicine, 0.10},
			{hospital.SpecialtyEndocrinology, hospital.DepartmentMedicine, 0.05},
			{hospital.SpecialtyCardiology, hospital.DepartmentMedicine, 0.10},
			{hospital.SpecialtyElderlyCare, hospital.DepartmentMedicine, 0.15},
		},
		HourlyElective: elective,
		Flags: FlagProbabilities{
			KnownCovid:        0.004,
			CovidReswab:       0.032,
			CovidExposure:     0.002,
			Dementia:          0.044,
			EndOfLife:         0.025,
			Falls:             0.245,
			VisualImpairment:  0.01,
			VisualSupervision: 0.069,
			Immunosuppressed:  0.005,
			InfectionControl:  0.01,
		},
	}
}

var validate = validator.New()

// Validate checks ranges and that specialty probabilities sum to 1.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: sampler config: %v", hospital.ErrInvalidValue, err)
	}
	var sum float64
	for _, s := range c.Specialties {
		sum += s.Probability
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: specialty probabilities sum to %g", hospital.ErrInvalidValue, sum)
	}
	if !c.IncludeElective {
		for h, p := range c.HourlyElective {
			if p >= 1 {
				return fmt.Errorf("%w: hour %d is always elective but electives are excluded", hospital.ErrInvalidValue, h)
			}
		}
	}
	return nil
}

// =============================================================================
// RANDOM SAMPLER
// =============================================================================

// Random draws synthetic patients from a Config. Not safe for concurrent use.
type Random struct {
	cfg  Config
	rng  *rand.Rand
	hour int
}

// New validates cfg and returns a sampler drawing from rng.
func New(cfg Config, rng *rand.Rand) (*Random, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Random{cfg: cfg, rng: rng}, nil
}

// SetHour sets the hour of day (0-23) used for elective probabilities.
func (r *Random) SetHour(hour int) { r.hour = ((hour % 24) + 24) % 24 }

// Patient draws one patient at the current hour.
func (r *Random) Patient() (*hospital.Patient, error) {
	for {
		spec := r.draw()
		if spec.Flags.Elective && !r.cfg.IncludeElective {
			continue
		}
		return hospital.NewPatient(spec)
	}
}

// Patients draws n patients at the current hour.
func (r *Random) Patients(n int) ([]*hospital.Patient, error) {
	out := make([]*hospital.Patient, 0, n)
	for range n {
		p, err := r.Patient()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Arrivals expands a forecast of hourly counts, starting at startHour,
// into one batch of patients per hour.
func (r *Random) Arrivals(startHour int, counts []int) ([][]*hospital.Patient, error) {
	out := make([][]*hospital.Patient, len(counts))
	for i, n := range counts {
		if n < 0 {
			return nil, &hospital.InvalidValueError{Field: "arrival count", Value: fmt.Sprint(n)}
		}
		r.SetHour(startHour + i)
		batch, err := r.Patients(n)
		if err != nil {
			return nil, err
		}
		out[i] = batch
	}
	return out, nil
}

// RandomCounts draws hours independent arrival counts uniformly in
// [0, maxPerHour).
func RandomCounts(rng *rand.Rand, hours, maxPerHour int) []int {
	out := make([]int, hours)
	for i := range out {
		out[i] = rng.IntN(max(maxPerHour, 1))
	}
	return out
}

// name returns a version 4 UUID built from the sampler's rng, so seeded
// runs reproduce the same names.
func (r *Random) name() string {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], r.rng.Uint64())
	binary.BigEndian.PutUint64(u[8:], r.rng.Uint64())
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u.String()
}

func (r *Random) draw() hospital.PatientSpec {
	cfg := r.cfg
	sex := hospital.SexFemale
	if r.bernoulli(cfg.MaleProbability) {
		sex = hospital.SexMale
	}
	spec := r.specialty()
	elective := r.bernoulli(cfg.HourlyElective[r.hour])

	f := cfg.Flags
	known, reswab, exposed := r.bernoulli(f.KnownCovid), r.bernoulli(f.CovidReswab), r.bernoulli(f.CovidExposure)
	if n := count(known, reswab, exposed); n > 1 {
		pick := r.rng.IntN(3)
		known, reswab, exposed = pick == 0, pick == 1, pick == 2
	}
	dementia := r.bernoulli(f.Dementia)
	falls := r.bernoulli(f.Falls)
	visualImpairment := r.bernoulli(f.VisualImpairment)
	visualSupervision := r.bernoulli(f.VisualSupervision)

	return hospital.PatientSpec{
		Name:       r.name(),
		Sex:        sex,
		Department: spec.Department,
		Specialty:  spec.Specialty,
		Weight:     r.weight(),
		Age:        cfg.MinAge + r.rng.IntN(cfg.MaxAge-cfg.MinAge),
		Flags: hospital.ClinicalFlags{
			KnownCovid:              known,
			SuspectedCovid:          reswab || exposed,
			Immunosuppressed:        r.bernoulli(f.Immunosuppressed),
			EndOfLife:               r.bernoulli(f.EndOfLife),
			InfectionControl:        r.bernoulli(f.InfectionControl),
			FallsRisk:               falls,
			DementiaRisk:            dementia,
			NeedsMobilityAssistance: dementia || falls || visualImpairment || visualSupervision,
			NeedsVisualSupervision:  visualSupervision,
			HighAcuity:              r.earlyWarningScore() > 5,
			Elective:                elective,
			AcuteSurgical:           spec.Department == hospital.DepartmentSurgery && !elective,
		},
		ExpectedLOS: int(r.rng.ExpFloat64() * cfg.MeanLOSHours),
	}
}

func (r *Random) bernoulli(p float64) bool { return r.rng.Float64() < p }

func (r *Random) specialty() SpecialtyWeight {
	u := r.rng.Float64()
	var acc float64
	for _, s := range r.cfg.Specialties {
		acc += s.Probability
		if u < acc {
			return s
		}
	}
	return r.cfg.Specialties[len(r.cfg.Specialties)-1]
}

// weight draws from normal(70, 12) truncated to [30, 120] by rejection.
func (r *Random) weight() float64 {
	for {
		w := 70 + 12*r.rng.NormFloat64()
		if w >= 30 && w <= 120 {
			return math.Round(w*100) / 100
		}
	}
}

// earlyWarningScore is the number of failures before the first success
// of a fair coin.
func (r *Random) earlyWarningScore() int {
	n := 0
	for r.rng.IntN(2) == 0 {
		n++
	}
	return n
}

func count(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
