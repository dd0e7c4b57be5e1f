/*
mcts.go - Monte Carlo Tree Search over joint bed assignments

PURPOSE:
  Each Node owns an independent hospital snapshot. A child differs from
  its parent by one hour of discharges (non-root parents only) plus the
  admission of that hour's arrivals according to the child's Action.

NODE LIFECYCLE:
  expandable -> expanded (has children)
  terminal: depth == MaxTreeDepth, selected but never expanded

SEARCH STEPS:
  Select:        descend by max UCB until an expandable node
  Expand:        one child per injective pairing of arrivals and empty beds
  Simulate:      random-policy rollout from the node's snapshot
  Backpropagate: discounted, normalised value recorded on every ancestor

UCB:
  value(child) + prior(child) * sqrt(visits(parent)) / (visits(child) + 1)

REWARD:
  1 - score. Scores are raw penalty sums unless the caller normalised the
  hospital first (NormalisePenalties).

SEE ALSO:
  - run.go: RunMCTS drives these steps and ranks the root's children
*/
package agent

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// ACTION
// =============================================================================

// Assignment places one patient into one bed.
type Assignment struct {
	Bed     string
	Patient *hospital.Patient
}

// Action is the ordered set of assignments that turns a parent into a child.
type Action []Assignment

// Map returns the action keyed by bed name.
func (a Action) Map() map[string]*hospital.Patient {
	m := make(map[string]*hospital.Patient, len(a))
	for _, as := range a {
		m[as.Bed] = as.Patient
	}
	return m
}

func (a Action) String() string {
	s := "{"
	for i, as := range a {
		if i > 0 {
			s += ", "
		}
		s += as.Bed + ": " + as.Patient.Name
	}
	return s + "}"
}

// =============================================================================
// TREE OPTIONS
// =============================================================================

type treeConfig struct {
	rng         *rand.Rand
	parallelism int
	logger      *zap.Logger
}

// Option configures a search tree.
type Option func(*treeConfig)

// WithRand sets the random source used for discharges and rollouts.
func WithRand(rng *rand.Rand) Option {
	return func(c *treeConfig) { c.rng = rng }
}

// WithSeed seeds a fresh PCG random source.
func WithSeed(seed uint64) Option {
	return func(c *treeConfig) { c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithParallelism builds up to n sibling children concurrently during
// expansion. Values below 1 mean 1.
func WithParallelism(n int) Option {
	return func(c *treeConfig) { c.parallelism = max(n, 1) }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *treeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newTreeConfig(opts []Option) *treeConfig {
	c := &treeConfig{parallelism: 1, logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// =============================================================================
// NODE
// =============================================================================

type Node struct {
	Hospital        *hospital.Hospital
	Prior           float64
	VisitValues     []float64
	ImmediateReward float64
	DiscountFactor  float64
	MaxTreeDepth    int
	Action          Action

	parent   *Node
	children []*Node
	depth    int
	cfg      *treeConfig
}

// NewRoot creates the root of a search tree. h is owned by the root
// from here on; pass a clone if the caller keeps using it.
func NewRoot(h *hospital.Hospital, maxTreeDepth int, discount float64, opts ...Option) *Node {
	return &Node{
		Hospital:        h,
		ImmediateReward: 1 - h.Score(),
		DiscountFactor:  discount,
		MaxTreeDepth:    maxTreeDepth,
		cfg:             newTreeConfig(opts),
	}
}

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) Children() []*Node  { return n.children }
func (n *Node) Depth() int         { return n.depth }
func (n *Node) IsRoot() bool       { return n.parent == nil }
func (n *Node) IsExpandable() bool { return len(n.children) == 0 }
func (n *Node) IsTerminal() bool   { return n.depth >= n.MaxTreeDepth }
func (n *Node) VisitCount() int    { return len(n.VisitValues) }

// Value is the mean of the recorded visit values, 0 if never visited.
func (n *Node) Value() float64 {
	if len(n.VisitValues) == 0 {
		return 0
	}
	var sum float64
	for _, v := range n.VisitValues {
		sum += v
	}
	return sum / float64(len(n.VisitValues))
}

// UCB scores the transition from the parent to n.
func (n *Node) UCB() (float64, error) {
	if n.parent == nil {
		return 0, ErrRootUCB
	}
	return n.ucb(), nil
}

func (n *Node) ucb() float64 {
	ratio := math.Sqrt(float64(n.parent.VisitCount())) / float64(n.VisitCount()+1)
	return n.Value() + n.Prior*ratio
}

// Select descends by highest UCB until it reaches an expandable node.
// The first child wins ties.
func (n *Node) Select() *Node {
	node := n
	for !node.IsExpandable() {
		best := node.children[0]
		bestScore := best.ucb()
		for _, c := range node.children[1:] {
			if s := c.ucb(); s > bestScore {
				best, bestScore = c, s
			}
		}
		node = best
	}
	return node
}

// Expand creates one child per pairing of arrivals with empty beds and
// returns them. It is a no-op when n already has children or there are
// no arrivals. A non-root node first advances its copy by one hour of
// discharges. A full hospital returns ErrNoEmptyBeds and leaves n
// unexpanded.
func (n *Node) Expand(arrivals []*hospital.Patient) ([]*Node, error) {
	if !n.IsExpandable() || len(arrivals) == 0 {
		return nil, nil
	}

	base := n.Hospital.Clone()
	if !n.IsRoot() {
		IncrementTimers(base, 1)
		DischargePatients(base, n.cfg.rng)
	}

	var beds []string
	for b := range base.EmptyBeds() {
		beds = append(beds, b.Name())
	}
	if len(beds) == 0 {
		return nil, ErrNoEmptyBeds
	}

	actions := allocationCombinations(beds, arrivals)
	prior := 1 / float64(len(actions))
	children := make([]*Node, len(actions))

	var g errgroup.Group
	g.SetLimit(n.cfg.parallelism)
	for i, action := range actions {
		g.Go(func() error {
			h := base.Clone()
			for _, as := range action {
				if err := h.Admit(as.Patient.Clone(), as.Bed); err != nil {
					return fmt.Errorf("expand %s: %w", action, err)
				}
			}
			children[i] = &Node{
				Hospital:        h,
				Prior:           prior,
				ImmediateReward: 1 - h.Score(),
				DiscountFactor:  n.DiscountFactor,
				MaxTreeDepth:    n.MaxTreeDepth,
				Action:          action,
				parent:          n,
				depth:           n.depth + 1,
				cfg:             n.cfg,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n.children = children
	return children, nil
}

// Simulate rolls the node's snapshot forward MaxTreeDepth-depth hours
// with the random policy and returns per-step rewards (1 - score) and
// discounts (DiscountFactor^t).
func (n *Node) Simulate(arrivals ArrivalSource) (rewards, discounts []float64, err error) {
	steps := max(n.MaxTreeDepth-n.depth, 0)
	sim := NewSimulator(n.Hospital, arrivals, RandomPolicy(n.cfg.rng), n.cfg.rng)
	scores, err := sim.Run(steps)
	if err != nil {
		return nil, nil, err
	}
	rewards = make([]float64, len(scores))
	discounts = make([]float64, len(scores))
	for t, s := range scores {
		rewards[t] = 1 - s
		discounts[t] = math.Pow(n.DiscountFactor, float64(t))
	}
	return rewards, discounts, nil
}

// Backpropagate walks from n to the root. At each node it prepends the
// node's immediate reward (weight 1), scales the earlier discounts by
// DiscountFactor, and records sum(r*d)/sum(d) as a visit value.
func (n *Node) Backpropagate(rewards, discounts []float64) {
	gamma := n.DiscountFactor
	rs := append([]float64(nil), rewards...)
	ds := append([]float64(nil), discounts...)
	for node := n; node != nil; node = node.parent {
		rs = append([]float64{node.ImmediateReward}, rs...)
		next := make([]float64, len(ds)+1)
		next[0] = 1
		for i, d := range ds {
			next[i+1] = gamma * d
		}
		ds = next

		var num, den float64
		for i := range rs {
			num += rs[i] * ds[i]
			den += ds[i]
		}
		node.VisitValues = append(node.VisitValues, num/den)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s -- Value: %g, Count: %d", n.Action, n.Value(), n.VisitCount())
}

// =============================================================================
// COMBINATIONS
// =============================================================================

// allocationCombinations pairs arrivals with beds injectively. With at
// least as many beds as arrivals it takes ordered selections of beds,
// zipped with arrivals in order; otherwise ordered selections of
// arrivals, zipped with beds in order. Selections are in lexicographic
// index order.
func allocationCombinations(beds []string, arrivals []*hospital.Patient) []Action {
	var actions []Action
	if len(beds) >= len(arrivals) {
		for perm := range permutations(len(beds), len(arrivals)) {
			a := make(Action, len(arrivals))
			for i, p := range arrivals {
				a[i] = Assignment{Bed: beds[perm[i]], Patient: p}
			}
			actions = append(actions, a)
		}
		return actions
	}
	for perm := range permutations(len(arrivals), len(beds)) {
		a := make(Action, len(beds))
		for i, b := range beds {
			a[i] = Assignment{Bed: b, Patient: arrivals[perm[i]]}
		}
		actions = append(actions, a)
	}
	return actions
}

// permutations yields every ordered selection of k distinct indices from
// [0, n) in lexicographic order. The yielded slice is reused.
func permutations(n, k int) func(yield func([]int) bool) {
	return func(yield func([]int) bool) {
		if k > n || k < 0 {
			return
		}
		perm := make([]int, 0, k)
		used := make([]bool, n)
		var walk func() bool
		walk = func() bool {
			if len(perm) == k {
				return yield(perm)
			}
			for i := 0; i < n; i++ {
				if used[i] {
					continue
				}
				used[i] = true
				perm = append(perm, i)
				if !walk() {
					return false
				}
				perm = perm[:len(perm)-1]
				used[i] = false
			}
			return true
		}
		walk()
	}
}
