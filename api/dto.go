/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Layouts and patients
  reuse the factory document types so a hospital posted to the API has the
  same shape as one loaded from a file.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Hospitals:
    CreateHospitalRequest, HospitalDTO

  Occupancy:
    AdmitRequest, DischargeRequest, OccupancyChangeDTO

  Planning:
    SuggestionsRequest, SuggestionDTO, PlanRequest, PlanResponse, PlanResultDTO

  Events:
    EventDTO

VALIDATION:
  Request types carry validator struct tags; handlers call validate.Struct
  before touching the hospital. Penalties in responses are rounded to four
  decimal places.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/hospital.go: HospitalJSON and PatientJSON
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/bed-engine/agent"
	"github.com/warp/bed-engine/factory"
	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateHospitalRequest creates a hospital from a layout or the demo preset.
// Occupancy > 0 fills that fraction of beds with synthetic patients.
type CreateHospitalRequest struct {
	Name      string                `json:"name,omitempty"`
	Layout    *factory.HospitalJSON `json:"layout,omitempty"`
	Demo      bool                  `json:"demo,omitempty"`
	Occupancy float64               `json:"occupancy,omitempty" validate:"gte=0,lte=1"`
}

// HospitalDTO represents a hospital in API responses.
type HospitalDTO struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Beds                 int                   `json:"beds"`
	Occupied             int                   `json:"occupied"`
	Score                float64               `json:"score"`
	ViolatedRestrictions []string              `json:"violated_restrictions"`
	CreatedAt            time.Time             `json:"created_at"`
	Layout               *factory.HospitalJSON `json:"layout,omitempty"`
}

// AdmitRequest places a new patient into a named bed.
type AdmitRequest struct {
	Bed     string              `json:"bed" validate:"required"`
	Patient factory.PatientJSON `json:"patient"`
}

// DischargeRequest discharges the patient with the given name.
type DischargeRequest struct {
	Patient string `json:"patient" validate:"required"`
}

// OccupancyChangeDTO reports an admission or discharge.
type OccupancyChangeDTO struct {
	EventID    string  `json:"event_id"`
	Patient    string  `json:"patient"`
	Bed        string  `json:"bed"`
	ScoreDelta float64 `json:"score_delta"`
	Score      float64 `json:"score"`
}

// SuggestionsRequest asks for the best beds for one patient.
type SuggestionsRequest struct {
	Patient factory.PatientJSON `json:"patient"`
	Limit   int                 `json:"limit,omitempty" validate:"gte=0"`
}

// SuggestionDTO is one ranked candidate bed.
type SuggestionDTO struct {
	Bed                  string   `json:"bed"`
	Ward                 string   `json:"ward"`
	Room                 string   `json:"room"`
	Penalty              float64  `json:"penalty"`
	ViolatedRestrictions []string `json:"violated_restrictions"`
}

// PlanRequest runs the tree search. Arrivals[0] are the patients waiting
// now; further entries are known arrivals per hour. Forecast holds hourly
// counts for which synthetic patients are drawn and appended after
// Arrivals.
type PlanRequest struct {
	Arrivals   [][]factory.PatientJSON `json:"arrivals" validate:"required,min=1"`
	Forecast   []int                   `json:"forecast,omitempty" validate:"dive,gte=0"`
	StartHour  int                     `json:"start_hour,omitempty" validate:"gte=0,lte=23"`
	Iterations int                     `json:"iterations,omitempty" validate:"gte=0"`
	Discount   *float64                `json:"discount,omitempty" validate:"omitempty,gte=0,lte=1"`
	Normalise  bool                    `json:"normalise,omitempty"`
	Apply      bool                    `json:"apply,omitempty"`
}

// AssignmentDTO is one bed/patient pair of a planned action.
type AssignmentDTO struct {
	Bed     string `json:"bed"`
	Patient string `json:"patient"`
}

// PlanResultDTO is one ranked root action.
type PlanResultDTO struct {
	Rank                 int             `json:"rank"`
	Assignments          []AssignmentDTO `json:"assignments"`
	Score                float64         `json:"score"`
	ViolatedRestrictions []string        `json:"violated_restrictions"`
	Value                float64         `json:"value"`
	VisitCount           int             `json:"visit_count"`
}

// PlanResponse wraps the ranked results.
type PlanResponse struct {
	RunID      string          `json:"run_id"`
	Results    []PlanResultDTO `json:"results"`
	Iterations int             `json:"iterations"`
	Horizon    int             `json:"horizon"`
	Applied    bool            `json:"applied"`
	DurationMS int64           `json:"duration_ms"`
}

// EventDTO represents a logged occupancy event.
type EventDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Patient    string    `json:"patient,omitempty"`
	Bed        string    `json:"bed,omitempty"`
	ScoreDelta float64   `json:"score_delta"`
	CreatedAt  time.Time `json:"created_at"`
}

// RestrictionKindDTO describes one entry of the restriction catalogue.
type RestrictionKindDTO struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func roundPenalty(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

func toSuggestionDTOs(h *hospital.Hospital, ss []agent.Suggestion) []SuggestionDTO {
	out := make([]SuggestionDTO, 0, len(ss))
	for _, s := range ss {
		dto := SuggestionDTO{
			Bed:                  s.Bed,
			Penalty:              roundPenalty(s.Penalty),
			ViolatedRestrictions: s.ViolatedRestrictions,
		}
		if b, err := h.FindBed(s.Bed); err == nil {
			dto.Ward = h.WardOf(b).Name
			dto.Room = h.RoomOf(b).Name
		}
		out = append(out, dto)
	}
	return out
}

func toPlanResultDTOs(results []agent.Result) []PlanResultDTO {
	out := make([]PlanResultDTO, 0, len(results))
	for i, r := range results {
		dto := PlanResultDTO{
			Rank:                 i + 1,
			Assignments:          make([]AssignmentDTO, 0, len(r.Action)),
			Score:                roundPenalty(r.Score),
			ViolatedRestrictions: r.ViolatedRestrictions,
			Value:                r.Value,
			VisitCount:           r.VisitCount,
		}
		for _, as := range r.Action {
			dto.Assignments = append(dto.Assignments, AssignmentDTO{Bed: as.Bed, Patient: as.Patient.Name})
		}
		out = append(out, dto)
	}
	return out
}

func toEventDTOs(es []hospital.Event) []EventDTO {
	out := make([]EventDTO, 0, len(es))
	for _, e := range es {
		out = append(out, EventDTO{
			ID:         e.ID,
			Type:       string(e.Type),
			Patient:    e.Patient,
			Bed:        e.Bed,
			ScoreDelta: roundPenalty(e.ScoreDelta),
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
