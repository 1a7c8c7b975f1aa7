package tactical

import (
	"container/heap"
	"errors"
)

// ErrNoPlan is returned when the search exhausts its bound without reaching
// the goal. It is not a crash condition: the caller falls back to a default
// goal (patrol) and tries again next tick.
var ErrNoPlan = errors.New("tactical: no plan found")

// Plan is an ordered action sequence owned by one agent. It is replaced
// wholesale on every replan, never partially mutated.
type Plan struct {
	Actions   []*Action
	TotalCost float64
}

// Empty reports whether the plan has no steps (start state already satisfied
// the goal).
func (p *Plan) Empty() bool { return p == nil || len(p.Actions) == 0 }

// Planner performs a best-first search over fact snapshots. Deterministic:
// ties among equal-priority nodes break on insertion order, and successors
// are generated in catalog declaration order, so identical inputs always
// yield identical plans.
type Planner struct {
	catalog       []Action
	maxDepth      int
	maxExpansions int
	costFloor     float64
}

// NewPlanner builds a planner over the given catalog with tuning-supplied
// bounds.
func NewPlanner(catalog []Action, tn Tuning) *Planner {
	return &Planner{
		catalog:       catalog,
		maxDepth:      tn.PlannerMaxDepth,
		maxExpansions: tn.PlannerMaxExpansions,
		costFloor:     tn.PlannerCostFloor,
	}
}

// searchNode is one snapshot in the open/closed graph.
type searchNode struct {
	ws     *WorldState
	g      float64 // accumulated edge cost
	f      float64 // g + heuristic
	depth  int
	seq    int // insertion order, the deterministic tie-break
	parent *searchNode
	via    *Action // edge taken from parent
}

type openSet []*searchNode

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)   { *o = append(*o, x.(*searchNode)) }
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return it
}

// Plan searches for the cheapest action sequence transforming start into a
// state satisfying goal. start is snapshotted; the live store is never
// touched. Exceeding the depth or expansion bound yields ErrNoPlan.
func (p *Planner) Plan(view AgentView, start *WorldState, goal map[string]FactValue) (*Plan, error) {
	root := &searchNode{
		ws: start.Clone(),
		f:  p.heuristic(start, goal),
	}

	open := &openSet{root}
	heap.Init(open)
	closed := make(map[uint64]bool)
	seq := 0
	expansions := 0

	for open.Len() > 0 {
		node := heap.Pop(open).(*searchNode)
		// A snapshot closes when it is popped, not when it is generated:
		// several actions may produce the same snapshot at different costs,
		// and only the pop order knows which edge was cheapest. Later pops
		// of the same snapshot are stale duplicates.
		h := node.ws.Hash()
		if closed[h] {
			continue
		}
		closed[h] = true
		// Goal test at pop too, so the cheapest satisfying path is the one
		// returned.
		if node.ws.Matches(goal) {
			return reconstruct(node), nil
		}
		expansions++
		if expansions > p.maxExpansions {
			return nil, ErrNoPlan
		}
		if node.depth >= p.maxDepth {
			continue
		}
		for i := range p.catalog {
			act := &p.catalog[i]
			if !node.ws.Matches(act.Preconditions) {
				continue
			}
			next := node.ws.Clone()
			next.Apply(act.Effects)
			if closed[next.Hash()] {
				continue
			}
			seq++
			g := node.g + act.Cost(view, node.ws, p.costFloor)
			heap.Push(open, &searchNode{
				ws:     next,
				g:      g,
				f:      g + p.heuristic(next, goal),
				depth:  node.depth + 1,
				seq:    seq,
				parent: node,
				via:    act,
			})
		}
	}
	return nil, ErrNoPlan
}

// heuristic counts goal facts the snapshot does not yet satisfy, scaled by
// the catalog's cost floor so it never overestimates the remaining cost.
func (p *Planner) heuristic(ws *WorldState, goal map[string]FactValue) float64 {
	unsat := 0
	for name, want := range goal {
		single := map[string]FactValue{name: want}
		if !ws.Matches(single) {
			unsat++
		}
	}
	return float64(unsat) * p.costFloor
}

func reconstruct(node *searchNode) *Plan {
	var actions []*Action
	cost := node.g
	for n := node; n.parent != nil; n = n.parent {
		actions = append(actions, n.via)
	}
	// Reverse into execution order.
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return &Plan{Actions: actions, TotalCost: cost}
}
