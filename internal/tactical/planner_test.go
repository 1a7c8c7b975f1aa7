package tactical

import (
	"errors"
	"math"
	"testing"
)

func plannerView() AgentView {
	return AgentView{Health: 10, Grenades: 2, Mode: ModeDirectPursuit}
}

func planKinds(p *Plan) []ActionKind {
	kinds := make([]ActionKind, len(p.Actions))
	for i, a := range p.Actions {
		kinds[i] = a.Kind
	}
	return kinds
}

// --- Planner over the real catalog ---

func TestPlan_MultiStepHunt(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactTargetKnown, BoolFact(true))
	ws.Set(FactTargetVisible, BoolFact(false))

	plan, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactTargetDown: BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	want := []ActionKind{ActionSearchLastKnown, ActionAdvance, ActionEngage}
	got := planKinds(plan)
	if len(got) != len(want) {
		t.Fatalf("plan length: want %d, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactTargetKnown, BoolFact(true))
	goal := map[string]FactValue{FactTargetDown: BoolFact(true)}

	first, err := pl.Plan(plannerView(), ws, goal)
	if err != nil {
		t.Fatalf("first plan failed: %v", err)
	}
	second, err := pl.Plan(plannerView(), ws, goal)
	if err != nil {
		t.Fatalf("second plan failed: %v", err)
	}
	a, b := planKinds(first), planKinds(second)
	if len(a) != len(b) {
		t.Fatalf("plan lengths differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("plans diverge at step %d: %v vs %v", i, a, b)
		}
	}
	if first.TotalCost != second.TotalCost {
		t.Fatalf("costs differ: %.3f vs %.3f", first.TotalCost, second.TotalCost)
	}
}

func TestPlan_DesperationThrowWinsOnCost(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactHasGrenades, BoolFact(true))
	ws.Set(FactReadyToThrow, BoolFact(true))
	ws.Set(FactTrigDesperate, BoolFact(true))

	plan, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactGrenadeThrown: BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0].Kind != ActionThrowDesperate {
		t.Fatalf("desperation throw must win, got %v", planKinds(plan))
	}
	if plan.TotalCost != 0.05 {
		t.Fatalf("desperation throw costs 0.05, got %.3f", plan.TotalCost)
	}
}

func TestPlan_VulnerableThrowWhenNotDesperate(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactHasGrenades, BoolFact(true))
	ws.Set(FactReadyToThrow, BoolFact(true))
	ws.Set(FactTrigVulnerable, BoolFact(true))

	plan, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactGrenadeThrown: BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0].Kind != ActionThrowAtVulnerable {
		t.Fatalf("vulnerable throw must win when desperation is off, got %v", planKinds(plan))
	}
}

func TestPlan_SuppressiveThrowIsFallback(t *testing.T) {
	// Ready via a trigger with no dedicated cheap action (e.g. suspicion):
	// the generic suppressive throw at 0.2 beats the disabled 1000-cost
	// specialized throws.
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactHasGrenades, BoolFact(true))
	ws.Set(FactReadyToThrow, BoolFact(true))
	ws.Set(FactTrigSuspicion, BoolFact(true))

	plan, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactGrenadeThrown: BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0].Kind != ActionThrowSuppressive {
		t.Fatalf("suppressive throw is the fallback, got %v", planKinds(plan))
	}
}

func TestPlan_NoPlanFound(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState() // no target knowledge at all

	_, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactTargetDown: BoolFact(true)})
	if !errors.Is(err, ErrNoPlan) {
		t.Fatalf("unreachable goal must yield ErrNoPlan, got %v", err)
	}
}

func TestPlan_EmptyWhenGoalAlreadyHolds(t *testing.T) {
	pl := NewPlanner(Catalog(), DefaultTuning())
	ws := NewWorldState()
	ws.Set(FactPatrolling, BoolFact(true))

	plan, err := pl.Plan(plannerView(), ws, map[string]FactValue{FactPatrolling: BoolFact(true)})
	if err != nil {
		t.Fatalf("satisfied goal should plan trivially, got %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("expected an empty plan, got %v", planKinds(plan))
	}
}

// --- Admissibility over a hand-built catalog ---

func TestPlan_CheapestPathWins(t *testing.T) {
	mini := []Action{
		{
			Kind: ActionKind(0), Name: "direct",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      5,
		},
		{
			Kind: ActionKind(1), Name: "setup",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"staged": BoolFact(true)},
			BaseCost:      1,
		},
		{
			Kind: ActionKind(2), Name: "finish",
			Preconditions: map[string]FactValue{"staged": BoolFact(true)},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      1,
		},
	}
	pl := NewPlanner(mini, DefaultTuning())
	plan, err := pl.Plan(AgentView{}, NewWorldState(), map[string]FactValue{"goal": BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	if len(plan.Actions) != 2 || plan.Actions[0].Name != "setup" || plan.Actions[1].Name != "finish" {
		names := make([]string, len(plan.Actions))
		for i, a := range plan.Actions {
			names[i] = a.Name
		}
		t.Fatalf("two-step path at cost 2 must beat the direct cost-5 action, got %v", names)
	}
	if math.Abs(plan.TotalCost-2.0) > 1e-9 {
		t.Fatalf("total cost: want 2.0, got %.3f", plan.TotalCost)
	}
}

func TestPlan_DuplicateSnapshotTakesCheaperEdge(t *testing.T) {
	// Two actions produce the identical snapshot; the one declared first is
	// context-disabled. The disabled sentinel must leave its edge unreachable
	// rather than poisoning the snapshot for the cheap edge behind it.
	mini := []Action{
		{
			Kind: ActionKind(0), Name: "blocked",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      disabledCost,
		},
		{
			Kind: ActionKind(1), Name: "open",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      1,
		},
	}
	pl := NewPlanner(mini, DefaultTuning())
	plan, err := pl.Plan(AgentView{}, NewWorldState(), map[string]FactValue{"goal": BoolFact(true)})
	if err != nil {
		t.Fatalf("expected a plan, got %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0].Name != "open" {
		names := make([]string, len(plan.Actions))
		for i, a := range plan.Actions {
			names[i] = a.Name
		}
		t.Fatalf("the cheap edge must win, got %v at cost %.2f", names, plan.TotalCost)
	}
	if math.Abs(plan.TotalCost-1.0) > 1e-9 {
		t.Fatalf("total cost: want 1.0, got %.2f", plan.TotalCost)
	}
}

func TestPlan_TieBreaksByDeclarationOrder(t *testing.T) {
	mini := []Action{
		{
			Kind: ActionKind(0), Name: "first",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      1,
		},
		{
			Kind: ActionKind(1), Name: "second",
			Preconditions: map[string]FactValue{},
			Effects:       map[string]FactValue{"goal": BoolFact(true)},
			BaseCost:      1,
		},
	}
	pl := NewPlanner(mini, DefaultTuning())
	for i := 0; i < 5; i++ {
		plan, err := pl.Plan(AgentView{}, NewWorldState(), map[string]FactValue{"goal": BoolFact(true)})
		if err != nil {
			t.Fatalf("expected a plan, got %v", err)
		}
		if plan.Actions[0].Name != "first" {
			t.Fatalf("equal costs must break ties by declaration order, got %q", plan.Actions[0].Name)
		}
	}
}
