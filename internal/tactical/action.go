package tactical

// GrenadeKind selects the projectile the throw service is asked for.
type GrenadeKind int

const (
	GrenadeFrag GrenadeKind = iota
	GrenadeSmoke
)

func (g GrenadeKind) String() string {
	switch g {
	case GrenadeFrag:
		return "frag"
	case GrenadeSmoke:
		return "smoke"
	default:
		return "unknown"
	}
}

// ActionKind identifies one catalog action. The set is closed: the execute
// dispatch in agent.go switches over every kind, so a new kind fails to
// compile until it is handled everywhere.
type ActionKind int

const (
	ActionPatrol ActionKind = iota
	ActionSearchLastKnown
	ActionAdvance
	ActionTakeCover
	ActionEngage
	ActionEngageFromCover
	ActionThrowDesperate
	ActionThrowAtVulnerable
	ActionThrowSuppressive
	actionKindCount
)

func (k ActionKind) String() string {
	switch k {
	case ActionPatrol:
		return "patrol"
	case ActionSearchLastKnown:
		return "search_last_known"
	case ActionAdvance:
		return "advance"
	case ActionTakeCover:
		return "take_cover"
	case ActionEngage:
		return "engage"
	case ActionEngageFromCover:
		return "engage_from_cover"
	case ActionThrowDesperate:
		return "throw_desperate"
	case ActionThrowAtVulnerable:
		return "throw_at_vulnerable"
	case ActionThrowSuppressive:
		return "throw_suppressive"
	default:
		return "unknown"
	}
}

// AgentView is the read-only slice of agent state a cost function may see.
type AgentView struct {
	Pos        Vec2
	Health     int
	Grenades   int
	UnderFire  bool
	TargetDist float64
	Mode       BehaviorMode
}

// disabledCost makes an action unreachable in the current context without
// removing it from the catalog.
const disabledCost = 1000.0

// Action is an immutable precondition/effect/cost template. The catalog is
// process-wide and read-only; per-agent planning only reads it. CostFn must
// be pure and strictly positive; nil means BaseCost.
type Action struct {
	Kind          ActionKind
	Name          string
	Preconditions map[string]FactValue
	Effects       map[string]FactValue
	BaseCost      float64
	CostFn        func(view AgentView, ws *WorldState) float64
}

// Cost evaluates the action's cost in context, floored at a small positive
// value so the planner's heuristic stays admissible.
func (a *Action) Cost(view AgentView, ws *WorldState, floor float64) float64 {
	c := a.BaseCost
	if a.CostFn != nil {
		c = a.CostFn(view, ws)
	}
	if c < floor {
		c = floor
	}
	return c
}

// catalog is the shared action registry. Declaration order is the planner's
// tie-break order: earlier actions win among equal-cost expansions.
var catalog = []Action{
	{
		Kind: ActionThrowDesperate,
		Name: "throw_desperate",
		Preconditions: map[string]FactValue{
			FactHasGrenades:  BoolFact(true),
			FactReadyToThrow: BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactGrenadeThrown: BoolFact(true),
		},
		BaseCost: 0.05,
		CostFn: func(view AgentView, ws *WorldState) float64 {
			// Last-ditch throw: only when health is critical.
			if ws.GetBool(FactTrigDesperate) {
				return 0.05
			}
			return disabledCost
		},
	},
	{
		Kind: ActionThrowAtVulnerable,
		Name: "throw_at_vulnerable",
		Preconditions: map[string]FactValue{
			FactHasGrenades:  BoolFact(true),
			FactReadyToThrow: BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactGrenadeThrown: BoolFact(true),
		},
		BaseCost: 0.1,
		CostFn: func(view AgentView, ws *WorldState) float64 {
			// The target just reloaded or dry-fired somewhere out of sight.
			if ws.GetBool(FactTrigVulnerable) {
				return 0.1
			}
			return disabledCost
		},
	},
	{
		Kind: ActionThrowSuppressive,
		Name: "throw_suppressive",
		Preconditions: map[string]FactValue{
			FactHasGrenades:  BoolFact(true),
			FactReadyToThrow: BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactGrenadeThrown: BoolFact(true),
		},
		// Generic flush-them-out throw for the remaining triggers.
		BaseCost: 0.2,
	},
	{
		Kind: ActionEngageFromCover,
		Name: "engage_from_cover",
		Preconditions: map[string]FactValue{
			FactTargetVisible: BoolFact(true),
			FactInRange:       BoolFact(true),
			FactInCover:       BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactTargetDown: BoolFact(true),
		},
		BaseCost: 0.8,
	},
	{
		Kind: ActionEngage,
		Name: "engage",
		Preconditions: map[string]FactValue{
			FactTargetVisible: BoolFact(true),
			FactInRange:       BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactTargetDown: BoolFact(true),
		},
		BaseCost: 1.0,
		CostFn: func(view AgentView, ws *WorldState) float64 {
			// Standing fire in the open costs more while taking hits.
			if view.UnderFire {
				return 1.8
			}
			return 1.0
		},
	},
	{
		Kind: ActionTakeCover,
		Name: "take_cover",
		Preconditions: map[string]FactValue{},
		Effects: map[string]FactValue{
			FactInCover: BoolFact(true),
		},
		BaseCost: 2.0,
		CostFn: func(view AgentView, ws *WorldState) float64 {
			if view.UnderFire {
				return 0.5
			}
			return 2.0
		},
	},
	{
		Kind: ActionAdvance,
		Name: "advance",
		Preconditions: map[string]FactValue{
			FactTargetVisible: BoolFact(true),
		},
		Effects: map[string]FactValue{
			FactInRange: BoolFact(true),
		},
		BaseCost: 1.5,
	},
	{
		Kind: ActionSearchLastKnown,
		Name: "search_last_known",
		Preconditions: map[string]FactValue{
			FactTargetKnown:   BoolFact(true),
			FactTargetVisible: BoolFact(false),
		},
		Effects: map[string]FactValue{
			FactTargetVisible: BoolFact(true),
		},
		BaseCost: 2.0,
		CostFn: func(view AgentView, ws *WorldState) float64 {
			// A fresher memory makes the sweep cheaper.
			switch view.Mode {
			case ModeDirectPursuit:
				return 1.2
			case ModeCautiousApproach:
				return 1.8
			case ModeSearch:
				return 2.4
			default:
				return 3.0
			}
		},
	},
	{
		Kind:          ActionPatrol,
		Name:          "patrol",
		Preconditions: map[string]FactValue{},
		Effects: map[string]FactValue{
			FactPatrolling: BoolFact(true),
		},
		BaseCost: 1.0,
	},
}

// Catalog returns the shared read-only action registry.
func Catalog() []Action { return catalog }
