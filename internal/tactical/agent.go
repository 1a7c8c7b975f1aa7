package tactical

import (
	"fmt"
	"sort"
	"strings"
)

// Mover executes move-to-position actions and reports arrival.
type Mover interface {
	MoveTo(agentID int, dest Vec2)
	Arrived(agentID int, dest Vec2, tolerance float64) bool
}

// Shooter executes engage/fire actions. Fire returns true when the shot
// brought the target down.
type Shooter interface {
	Fire(agentID int, at Vec2) bool
}

// Thrower accepts a target position and grenade kind and performs the
// physical throw. Trajectory and bounce are its problem, not the core's.
type Thrower interface {
	Throw(agentID int, at Vec2, kind GrenadeKind)
}

// Services bundles the injected collaborators an agent tick may call.
// Explicit dependency injection: there is no global lookup, and a missing
// service is a construction-time bug, not a silent no-op.
type Services struct {
	Mover   Mover
	Shooter Shooter
	Thrower Thrower
}

// RawInputs bundles one tick's worth of raw signals for one agent.
type RawInputs struct {
	CanSeeTarget bool
	TargetPos    Vec2
	TargetDead   bool

	UnderFire      bool
	AllySuppressed bool
	Health         int

	Sounds     []SoundEvent // everything emitted this tick, unfiltered
	AllyDeaths []Vec2       // ally death positions this tick

	CoverIndices []int // arena indices available in the current map region
}

const (
	dangerZoneSeconds = 3.0 // how long a grenade warning keeps its zone hot
	blastAvoidRadius  = 90.0
	throwCooldownSecs = 8.0
	patrolTolerance   = 10.0
	triggerCount      = 7
)

// Agent is one combatant's decision core. Its fact store is exclusively
// owned: only this agent's own tick mutates it. Every tick runs two phases
// in strict order — evaluate (perception, sound, cover, triggers refresh the
// derived facts) and decide (replan if needed, execute one action) — so the
// planner never reads half-updated state.
type Agent struct {
	ID    int
	Label string
	Pos   Vec2
	Home  Vec2 // patrol anchor

	Grenades    int
	GrenadeType GrenadeKind

	ws       *WorldState
	memory   TargetMemory
	triggers TriggerState
	planner  *Planner

	cover   *CoverEvaluator
	arena   *CoverArena
	claimed int // arena index, -1 when none

	plan     *Plan
	planStep int
	goal     map[string]FactValue

	svc Services
	ex  *Exchange
	log *DecisionLog
	tn  Tuning

	now       float64
	tick      int
	dangerPos Vec2
	dangerTil float64
	cooldown  float64 // seconds until the next throw is allowed

	prevTrig  [triggerCount]bool
	prevReady bool
	prevSight bool
}

// NewAgent wires an agent to its services, exchange, arena and evaluator.
func NewAgent(id int, pos Vec2, svc Services, ex *Exchange, arena *CoverArena, eval *CoverEvaluator, tn Tuning, log *DecisionLog) *Agent {
	return &Agent{
		ID:       id,
		Label:    fmt.Sprintf("A%d", id),
		Pos:      pos,
		Home:     pos,
		Grenades: 2,
		ws:       NewWorldState(),
		planner:  NewPlanner(Catalog(), tn),
		cover:    eval,
		arena:    arena,
		claimed:  -1,
		svc:      svc,
		ex:       ex,
		log:      log,
		tn:       tn,
	}
}

// Facts exposes the agent's fact store for tests and the viewer. Read-only
// by convention; mutation belongs to the agent's own tick.
func (ag *Agent) Facts() *WorldState { return ag.ws }

// Memory exposes the target memory.
func (ag *Agent) Memory() *TargetMemory { return &ag.memory }

// Triggers exposes the grenade trigger state.
func (ag *Agent) Triggers() *TriggerState { return &ag.triggers }

// ClaimedCover returns the claimed arena index, -1 when none.
func (ag *Agent) ClaimedCover() int { return ag.claimed }

// CurrentPlan returns the executing plan, nil when idle.
func (ag *Agent) CurrentPlan() *Plan { return ag.plan }

// Update runs one simulation tick and returns the action being executed, or
// nil when the agent is idling with no valid plan.
func (ag *Agent) Update(delta float64, in RawInputs) *Action {
	ag.now += delta
	ag.tick++
	if ag.cooldown > 0 {
		ag.cooldown -= delta
	}

	ag.evaluate(delta, in)
	return ag.decide(in)
}

// --- evaluate phase ---

func (ag *Agent) evaluate(delta float64, in RawInputs) {
	// Drain last tick's cross-agent messages first: relayed intel is the
	// stalest signal and must never override a direct observation below.
	for _, m := range ag.ex.Current() {
		if m.Sender == ag.ID {
			continue
		}
		switch m.Kind {
		case MsgSightingRelay:
			ag.memory.Observe(m.Pos, m.Confidence*RelayConfidenceDecay, ag.now)
			ag.log.AddVerbose(ag.tick, ag.Label, "message", "sighting_relay",
				fmt.Sprintf("from A%d conf=%.2f", m.Sender, m.Confidence), m.Confidence)
		case MsgGrenadeWarning:
			ag.dangerPos = m.Pos
			ag.dangerTil = ag.now + dangerZoneSeconds
			ag.log.Add(ag.tick, ag.Label, "message", "grenade_warning",
				fmt.Sprintf("blast at (%.0f,%.0f)", m.Pos.X, m.Pos.Y), 0)
		}
	}

	if in.TargetDead {
		ag.memory.Clear()
	}

	hadSight := in.CanSeeTarget
	if hadSight {
		ag.memory.Observe(in.TargetPos, ConfidenceSight, ag.now)
		if !ag.prevSight {
			ag.log.Add(ag.tick, ag.Label, "perception", "sighting",
				fmt.Sprintf("target at (%.0f,%.0f)", in.TargetPos.X, in.TargetPos.Y), ag.memory.Confidence)
		}
	}
	ag.prevSight = hadSight

	// Sound: keep only events this listener actually receives.
	received := ag.receiveSounds(in.Sounds)
	for _, ev := range received {
		switch {
		case ev.Kind == SoundGunshot:
			ag.memory.Observe(ev.Origin, ConfidenceGunshot, ag.now)
		case ev.Kind.Vulnerable():
			ag.memory.Observe(ev.Origin, ConfidenceReload, ag.now)
		}
	}

	// Ally deaths count only when witnessed.
	var witnessed []Vec2
	for _, d := range in.AllyDeaths {
		if HasLineOfSight(ag.Pos, d, ag.cover.Obstacles) {
			witnessed = append(witnessed, d)
		}
	}

	ag.memory.Decay(delta, ag.tn.MemoryDecayRate)

	targetDist := 0.0
	if hadSight {
		targetDist = ag.Pos.Dist(in.TargetPos)
	}
	ag.triggers.Update(TriggerInputs{
		Now:            ag.now,
		Delta:          delta,
		TargetVisible:  hadSight,
		TargetPos:      in.TargetPos,
		TargetDist:     targetDist,
		Confidence:     ag.memory.Confidence,
		UnderFire:      in.UnderFire,
		AllySuppressed: in.AllySuppressed,
		Health:         in.Health,
		Sounds:         received,
		AllyDeaths:     witnessed,
	}, ag.tn)

	// Relay a fresh direct sighting to allies.
	if hadSight {
		ag.ex.Post(Message{
			Kind:       MsgSightingRelay,
			Sender:     ag.ID,
			Pos:        in.TargetPos,
			Confidence: ag.memory.Confidence,
			Tick:       ag.tick,
		})
	}

	ag.refreshFacts(in)
	ag.logTriggerEdges()
}

// receiveSounds filters this tick's emissions through the propagation model.
func (ag *Agent) receiveSounds(sounds []SoundEvent) []SoundEvent {
	var out []SoundEvent
	for _, ev := range sounds {
		if ev.SourceID == ag.ID {
			continue
		}
		los := HasLineOfSight(ag.Pos, ev.Origin, ag.cover.Obstacles)
		if ok, _ := Propagate(ev, ag.Pos, los); ok {
			out = append(out, ev)
		}
	}
	return out
}

// refreshFacts rewrites every derived fact from this tick's reality. Derived
// facts are recomputed, never trusted from the previous tick — a plan whose
// preconditions stop matching is the StaleFact signal that forces a replan.
func (ag *Agent) refreshFacts(in RawInputs) {
	ws := ag.ws
	ws.Set(FactTargetVisible, BoolFact(in.CanSeeTarget))
	ws.Set(FactTargetKnown, BoolFact(ag.memory.Actionable()))
	ws.Set(FactTargetPos, PosFact(ag.memory.LastKnown))
	ws.Set(FactUnderFire, BoolFact(in.UnderFire))
	ws.Set(FactHealth, IntFact(in.Health))
	ws.Set(FactHasGrenades, BoolFact(ag.Grenades > 0))
	ws.Set(FactGrenadeType, IntFact(int(ag.GrenadeType)))

	inCover := ag.claimed >= 0 && InCover(ag.Pos, ag.arena.Point(ag.claimed), ag.tn.CoverTolerance)
	ws.Set(FactInCover, BoolFact(inCover))

	inRange := in.CanSeeTarget && ag.Pos.Dist(in.TargetPos) <= ag.tn.EngageRange
	ws.Set(FactInRange, BoolFact(inRange))

	danger := ag.now < ag.dangerTil
	ws.Set(FactDangerZone, BoolFact(danger))
	if danger {
		ws.Set(FactDangerPos, PosFact(ag.dangerPos))
	}

	tn := ag.tn
	ws.Set(FactTrigAmbush, BoolFact(ag.triggers.Ambush(tn)))
	ws.Set(FactTrigPursuit, BoolFact(ag.triggers.Pursuit(tn)))
	ws.Set(FactTrigKills, BoolFact(ag.triggers.WitnessedKills(tn)))
	ws.Set(FactTrigVulnerable, BoolFact(ag.triggers.VulnerableSound(tn)))
	ws.Set(FactTrigZoneFire, BoolFact(ag.triggers.ZoneFire(tn)))
	ws.Set(FactTrigDesperate, BoolFact(ag.triggers.Desperate(tn)))
	ws.Set(FactTrigSuspicion, BoolFact(ag.triggers.Suspicion(tn)))
	ws.Set(FactReadyToThrow, BoolFact(ag.triggers.ReadyToThrow(tn)))
}

func (ag *Agent) logTriggerEdges() {
	tn := ag.tn
	cur := [triggerCount]bool{
		ag.triggers.Ambush(tn),
		ag.triggers.Pursuit(tn),
		ag.triggers.WitnessedKills(tn),
		ag.triggers.VulnerableSound(tn),
		ag.triggers.ZoneFire(tn),
		ag.triggers.Desperate(tn),
		ag.triggers.Suspicion(tn),
	}
	names := [triggerCount]string{
		"ambush", "pursuit", "witnessed_kills", "vulnerable",
		"zone_fire", "desperate", "suspicion",
	}
	for i, on := range cur {
		if on && !ag.prevTrig[i] {
			ag.log.Add(ag.tick, ag.Label, "trigger", names[i], "rose", 1)
		}
	}
	ag.prevTrig = cur

	ready := ag.triggers.ReadyToThrow(tn)
	if ready && !ag.prevReady {
		ag.log.Add(ag.tick, ag.Label, "trigger", "ready_to_throw", "rose", 1)
	}
	ag.prevReady = ready
}

// --- decide phase ---

func (ag *Agent) decide(in RawInputs) *Action {
	goal := ag.chooseGoal()
	if !factMapEqual(goal, ag.goal) {
		ag.goal = goal
		ag.dropPlan("goal_change")
	}

	if ag.plan != nil && ag.planStep < len(ag.plan.Actions) {
		act := ag.plan.Actions[ag.planStep]
		if !ag.ws.Matches(act.Preconditions) {
			ag.log.Add(ag.tick, ag.Label, "plan", "stale_fact", act.Name, 0)
			ag.dropPlan("stale_fact")
		}
	}

	if ag.plan == nil || ag.planStep >= len(ag.plan.Actions) {
		if !ag.replan() {
			return nil
		}
	}
	if ag.plan.Empty() {
		// Goal already satisfied; nothing to execute.
		return nil
	}

	act := ag.plan.Actions[ag.planStep]
	done := ag.execute(act, in)
	if done {
		ag.ws.Apply(act.Effects)
		ag.planStep++
		if ag.planStep >= len(ag.plan.Actions) {
			ag.log.AddVerbose(ag.tick, ag.Label, "plan", "complete", planString(ag.plan), ag.plan.TotalCost)
			ag.dropPlan("complete")
			// Achievements are not observations; let the next cycle start clean.
			ag.ws.Set(FactGrenadeThrown, BoolFact(false))
			ag.ws.Set(FactPatrolling, BoolFact(false))
		}
	}
	return act
}

// chooseGoal picks the tick's goal: evade a known blast, then throw when
// armed and triggered, then hunt, then patrol.
func (ag *Agent) chooseGoal() map[string]FactValue {
	if ag.ws.GetBool(FactDangerZone) && ag.Pos.Dist(ag.dangerPos) < blastAvoidRadius {
		return map[string]FactValue{FactInCover: BoolFact(true)}
	}
	if ag.ws.GetBool(FactReadyToThrow) && ag.ws.GetBool(FactHasGrenades) && ag.cooldown <= 0 {
		return map[string]FactValue{FactGrenadeThrown: BoolFact(true)}
	}
	if ag.memory.Actionable() {
		return map[string]FactValue{FactTargetDown: BoolFact(true)}
	}
	return map[string]FactValue{FactPatrolling: BoolFact(true)}
}

func (ag *Agent) view() AgentView {
	return AgentView{
		Pos:        ag.Pos,
		Health:     ag.ws.GetInt(FactHealth),
		Grenades:   ag.Grenades,
		UnderFire:  ag.ws.GetBool(FactUnderFire),
		TargetDist: ag.Pos.Dist(ag.memory.LastKnown),
		Mode:       ag.memory.Mode(),
	}
}

// replan searches for the current goal, falling back to patrol on ErrNoPlan.
// Returns false only when even the fallback fails.
func (ag *Agent) replan() bool {
	plan, err := ag.planner.Plan(ag.view(), ag.ws, ag.goal)
	if err != nil {
		ag.log.Add(ag.tick, ag.Label, "plan", "no_plan", goalString(ag.goal), 0)
		ag.goal = map[string]FactValue{FactPatrolling: BoolFact(true)}
		plan, err = ag.planner.Plan(ag.view(), ag.ws, ag.goal)
		if err != nil {
			return false
		}
	}
	ag.plan = plan
	ag.planStep = 0
	ag.log.Add(ag.tick, ag.Label, "plan", "new", planString(plan), plan.TotalCost)
	return true
}

func (ag *Agent) dropPlan(reason string) {
	if ag.plan != nil {
		ag.log.AddVerbose(ag.tick, ag.Label, "plan", "drop", reason, 0)
	}
	ag.plan = nil
	ag.planStep = 0
}

// execute runs one tick of the action via the injected services and reports
// whether the action completed.
func (ag *Agent) execute(act *Action, in RawInputs) bool {
	switch act.Kind {
	case ActionPatrol:
		ag.svc.Mover.MoveTo(ag.ID, ag.Home)
		return ag.svc.Mover.Arrived(ag.ID, ag.Home, patrolTolerance)

	case ActionSearchLastKnown:
		dest := ag.memory.LastKnown
		ag.svc.Mover.MoveTo(ag.ID, dest)
		// Catching sight of the target completes the sweep early.
		return in.CanSeeTarget || ag.svc.Mover.Arrived(ag.ID, dest, patrolTolerance)

	case ActionAdvance:
		ag.svc.Mover.MoveTo(ag.ID, in.TargetPos)
		return ag.ws.GetBool(FactInRange)

	case ActionTakeCover:
		return ag.seekCover(in.CoverIndices)

	case ActionEngage, ActionEngageFromCover:
		return ag.svc.Shooter.Fire(ag.ID, in.TargetPos)

	case ActionThrowDesperate, ActionThrowAtVulnerable, ActionThrowSuppressive:
		ag.throwGrenade(act.Kind)
		return true

	default:
		panic(fmt.Sprintf("tactical: unhandled action kind %d", act.Kind))
	}
}

// seekCover claims and moves to the best free arena point, avoiding a hot
// blast zone. region restricts the search to the given arena indices; nil
// means the whole arena. Completes when the agent is inside its claimed
// point.
func (ag *Agent) seekCover(region []int) bool {
	if ag.claimed >= 0 && InCover(ag.Pos, ag.arena.Point(ag.claimed), ag.tn.CoverTolerance) {
		return true
	}

	threats := []Vec2{}
	if ag.memory.Actionable() {
		threats = append(threats, ag.memory.LastKnown)
	}
	danger := ag.ws.GetBool(FactDangerZone)

	if region == nil {
		region = make([]int, len(ag.arena.Points()))
		for i := range region {
			region[i] = i
		}
	}
	var candidates []Vec2
	var indices []int
	for _, i := range region {
		if i < 0 || i >= len(ag.arena.Points()) {
			continue
		}
		p := ag.arena.Point(i)
		holder := ag.arena.ClaimedBy(i)
		if holder != noClaim && holder != ag.ID {
			continue
		}
		if danger && p.Dist(ag.dangerPos) < blastAvoidRadius {
			continue
		}
		candidates = append(candidates, p)
		indices = append(indices, i)
	}
	if len(candidates) == 0 {
		return false
	}

	// With a live lead, prefer cover that makes ground toward the target and
	// avoids re-hiding behind the current obstacle. When every candidate
	// fails the progress cut (or there is no lead), fall back to the plain
	// protective ranking.
	var ranked []CoverCandidate
	if ag.memory.Actionable() {
		cur := BlockingObstacle(ag.Pos, ag.memory.LastKnown, ag.cover.Obstacles)
		ranked = ag.cover.FindPursuitCover(ag.Pos, ag.memory.LastKnown, threats, candidates,
			cur, ag.tn.PursuitMinProgress, ag.tn.CoverReusePenalty)
	}
	if len(ranked) == 0 {
		ranked = ag.cover.FindCover(ag.Pos, threats, candidates)
	}
	best := ranked[0]
	idx := indices[best.Index]
	if idx != ag.claimed {
		if ag.claimed >= 0 {
			ag.arena.Release(ag.claimed, ag.ID)
		}
		if !ag.arena.Claim(idx, ag.ID) {
			return false
		}
		ag.claimed = idx
		ag.log.AddVerbose(ag.tick, ag.Label, "action", "claim_cover",
			fmt.Sprintf("point %d score=%.2f", idx, best.Protection), best.Protection)
	}
	dest := ag.arena.Point(idx)
	ag.svc.Mover.MoveTo(ag.ID, dest)
	return ag.svc.Mover.Arrived(ag.ID, dest, ag.tn.CoverTolerance)
}

// throwGrenade performs the throw, warns allies and starts the cooldown.
func (ag *Agent) throwGrenade(kind ActionKind) {
	at := ag.memory.LastKnown
	switch kind {
	case ActionThrowAtVulnerable:
		at = ag.triggers.VulnerableOrigin
	case ActionThrowSuppressive:
		if ag.triggers.ZoneFire(ag.tn) {
			at = ag.triggers.ZoneCenter
		}
	}
	ag.svc.Thrower.Throw(ag.ID, at, ag.GrenadeType)
	ag.Grenades--
	ag.cooldown = throwCooldownSecs
	ag.ex.Post(Message{
		Kind:   MsgGrenadeWarning,
		Sender: ag.ID,
		Pos:    at,
		Tick:   ag.tick,
	})
	ag.log.Add(ag.tick, ag.Label, "action", "throw",
		fmt.Sprintf("%s %s at (%.0f,%.0f)", ag.GrenadeType, kind, at.X, at.Y), 0)
}

// Die releases shared resources on agent removal.
func (ag *Agent) Die() {
	ag.arena.ReleaseAll(ag.ID)
	ag.claimed = -1
	ag.plan = nil
}

// --- helpers ---

func factMapEqual(a, b map[string]FactValue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !v.Equal(bv) {
			return false
		}
	}
	return true
}

func planString(p *Plan) string {
	if p == nil || len(p.Actions) == 0 {
		return "(empty)"
	}
	names := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		names[i] = a.Name
	}
	return strings.Join(names, " > ")
}

func goalString(goal map[string]FactValue) string {
	parts := make([]string, 0, len(goal))
	for k, v := range goal {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
