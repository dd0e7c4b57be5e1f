package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// RUN
// =============================================================================

// RunMCTS searches from a snapshot of h. arrivals[0] holds the patients
// awaiting placement now; arrivals[t] the forecast for hour t. The tree
// depth is len(arrivals). h itself is not modified.
//
// ctx is checked between iterations; on cancellation the partial tree is
// returned together with ctx.Err().
func RunMCTS(ctx context.Context, h *hospital.Hospital, arrivals [][]*hospital.Patient,
	discount float64, iterations int, opts ...Option) (*Node, error) {

	root := NewRoot(h.Clone(), len(arrivals), discount, opts...)
	log := root.cfg.logger
	start := time.Now()

	for i := range iterations {
		if err := ctx.Err(); err != nil {
			log.Info("mcts cancelled", zap.Int("iteration", i), zap.Error(err))
			return root, err
		}

		node := root.Select()
		if node.IsTerminal() {
			continue
		}

		batch := arrivals[node.depth]
		children, err := node.Expand(batch)
		if errors.Is(err, ErrNoEmptyBeds) {
			log.Warn("hospital full, cannot allocate patients",
				zap.Int("iteration", i),
				zap.Int("depth", node.depth),
				zap.Int("arrivals", len(batch)))
			continue
		}
		if err != nil {
			return root, err
		}
		log.Debug("expanded node",
			zap.Int("iteration", i),
			zap.Int("depth", node.depth),
			zap.Int("children", len(children)),
			zap.Int("arrivals", len(batch)))

		for _, child := range children {
			if child.IsTerminal() {
				continue
			}
			rewards, discounts, err := child.Simulate(ForecastArrivals(arrivals[child.depth:]))
			if err != nil {
				return root, fmt.Errorf("simulate: %w", err)
			}
			child.Backpropagate(rewards, discounts)
		}
	}

	log.Debug("mcts finished",
		zap.Int("iterations", iterations),
		zap.Int("root_children", len(root.children)),
		zap.Int("root_visits", root.VisitCount()),
		zap.Duration("elapsed", time.Since(start)))
	return root, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// Result describes one root action applied to the live hospital.
type Result struct {
	Action               Action
	Score                float64
	ViolatedRestrictions []string
	Value                float64
	VisitCount           int
}

// ConstructOutput applies each root child's action to a working copy of
// h and reports the marginal score against h, the newly violated rules,
// and the child's search statistics. Results are ordered by visit count
// descending, then value descending, then score ascending.
func ConstructOutput(h *hospital.Hospital, root *Node) ([]Result, error) {
	work := h.Clone()
	base := work.EvalRestrictions()

	results := make([]Result, 0, len(root.children))
	for _, child := range root.children {
		admitted := make([]*hospital.Patient, 0, len(child.Action))
		for _, as := range child.Action {
			p := as.Patient.Clone()
			if err := work.Admit(p, as.Bed); err != nil {
				return nil, fmt.Errorf("apply action %s: %w", child.Action, err)
			}
			admitted = append(admitted, p)
		}

		ev := work.EvalRestrictions()
		results = append(results, Result{
			Action:               child.Action,
			Score:                ev.Score - base.Score,
			ViolatedRestrictions: ReduceRestrictions(base.Names, ev.Names),
			Value:                child.Value(),
			VisitCount:           child.VisitCount(),
		})

		for _, p := range admitted {
			if err := work.Discharge(p); err != nil {
				return nil, err
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.VisitCount != b.VisitCount {
			return a.VisitCount > b.VisitCount
		}
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Score < b.Score
	})
	return results, nil
}

// AssignBestAction admits the patients of the first result into h.
// Either every assignment succeeds or h is left unchanged. No results is
// a no-op.
func AssignBestAction(h *hospital.Hospital, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	action := results[0].Action
	for i, as := range action {
		if err := h.Admit(as.Patient, as.Bed); err != nil {
			for _, done := range action[:i] {
				_ = h.Discharge(done.Patient)
			}
			return fmt.Errorf("assign %s to %s: %w", as.Patient.Name, as.Bed, err)
		}
	}
	return nil
}
