package agent

import "errors"

var (
	// ErrNoEmptyBeds is returned when a policy or expansion needs a free bed
	// and the hospital is full.
	ErrNoEmptyBeds = errors.New("no empty beds")

	// ErrRootUCB is returned when a UCB score is requested for a root node.
	ErrRootUCB = errors.New("cannot compute UCB score for a root node")

	// ErrInvalidOccupancy is returned for an occupancy fraction outside [0, 1].
	ErrInvalidOccupancy = errors.New("occupancy must be between 0 and 1")
)
