package tactical

import "math/rand"

// FireRequest records one engage call made against the weapon service.
type FireRequest struct {
	AgentID int
	At      Vec2
	Tick    int
}

// ThrowRequest records one grenade throw requested from the throw service.
type ThrowRequest struct {
	AgentID int
	At      Vec2
	Kind    GrenadeKind
	Tick    int
}

// targetSourceID marks sounds emitted by the scripted hostile.
const targetSourceID = -1

// DecisionSim is a headless arena driving the decision core against a
// scripted hostile target. It implements the Mover/Shooter/Thrower services
// itself, recording fire and throw requests for assertions, and is used by
// the package tests, cmd/headless-report and the cmd/game viewer.
type DecisionSim struct {
	Width, Height float64
	Obstacles     []Rect
	Arena         *CoverArena
	Eval          *CoverEvaluator
	Agents        []*Agent
	Exchange      *Exchange
	Log           *DecisionLog
	Tuning        Tuning
	Tick          int

	TargetPos   Vec2
	TargetAlive bool
	SightRange  float64

	// ShotsKill makes Shooter.Fire report a kill, for plans that must be
	// driven through their engage step.
	ShotsKill bool

	// CoverRegion restricts every agent's cover search to these arena
	// indices; nil leaves the whole arena available.
	CoverRegion []int

	FireRequests  []FireRequest
	ThrowRequests []ThrowRequest
	LastActions   map[int]*Action

	dt         float64
	agentSpeed float64
	rng        *rand.Rand

	coverPoints []Vec2
	health      map[int]int
	underFire   map[int]bool
	allySupp    map[int]bool
	sounds      []SoundEvent
	allyDeaths  []Vec2
	moveDest    map[int]Vec2
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // size, obstacles, cover, tuning, seed — applied first
	simOptAgent                      // add agents — applied after arena is built
)

// SimOption is a builder function applied to a DecisionSim during
// construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*DecisionSim)
}

// WithArenaSize sets the playfield dimensions.
func WithArenaSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.Width = w
		ds.Height = h
	}}
}

// WithObstacle adds a blocking rectangle.
func WithObstacle(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.Obstacles = append(ds.Obstacles, Rect{X: x, Y: y, W: w, H: h})
	}}
}

// WithCoverPoint adds one shared cover position to the arena.
func WithCoverPoint(x, y float64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.coverPoints = append(ds.coverPoints, Vec2{X: x, Y: y})
	}}
}

// WithTuning overrides the default tuning.
func WithTuning(tn Tuning) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.Tuning = tn
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.Log = NewDecisionLog(v)
	}}
}

// WithTimeStep sets the simulated seconds per tick (default 1/60).
func WithTimeStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.dt = dt
	}}
}

// WithTarget places the scripted hostile.
func WithTarget(x, y float64) SimOption {
	return SimOption{simOptInfra, func(ds *DecisionSim) {
		ds.TargetPos = Vec2{X: x, Y: y}
		ds.TargetAlive = true
	}}
}

// WithAgentAt adds an agent with the given ID at (x,y).
func WithAgentAt(id int, x, y float64) SimOption {
	return SimOption{simOptAgent, func(ds *DecisionSim) {
		ds.addAgent(id, Vec2{X: x, Y: y})
	}}
}

// NewDecisionSim constructs a sim from the given options in two ordered
// passes: infrastructure first, then agents (which need the arena and
// evaluator to exist).
func NewDecisionSim(opts ...SimOption) *DecisionSim {
	ds := &DecisionSim{
		Width:       1280,
		Height:      720,
		Tuning:      DefaultTuning(),
		Exchange:    NewExchange(),
		Log:         NewDecisionLog(false),
		SightRange:  300,
		dt:          1.0 / 60.0,
		agentSpeed:  90, // world units per second
		rng:         rand.New(rand.NewSource(1)), // #nosec G404 -- harness default
		health:      make(map[int]int),
		underFire:   make(map[int]bool),
		allySupp:    make(map[int]bool),
		moveDest:    make(map[int]Vec2),
		LastActions: make(map[int]*Action),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ds)
		}
	}
	ds.Arena = NewCoverArena(ds.coverPoints)
	ds.Eval = NewCoverEvaluator(ds.Obstacles)
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ds)
		}
	}
	return ds
}

func (ds *DecisionSim) addAgent(id int, pos Vec2) {
	svc := Services{Mover: ds, Shooter: ds, Thrower: ds}
	ag := NewAgent(id, pos, svc, ds.Exchange, ds.Arena, ds.Eval, ds.Tuning, ds.Log)
	ds.Agents = append(ds.Agents, ag)
	ds.health[id] = 10
}

// --- injected services ---

// MoveTo steps the agent toward dest at the sim's movement speed.
func (ds *DecisionSim) MoveTo(agentID int, dest Vec2) {
	ds.moveDest[agentID] = dest
	ag := ds.agentByID(agentID)
	if ag == nil {
		return
	}
	d := dest.Sub(ag.Pos)
	dist := d.Len()
	step := ds.agentSpeed * ds.dt
	if dist <= step {
		ag.Pos = dest
		return
	}
	ag.Pos = ag.Pos.Add(d.Scale(step / dist))
}

// Arrived reports whether the agent reached dest.
func (ds *DecisionSim) Arrived(agentID int, dest Vec2, tolerance float64) bool {
	ag := ds.agentByID(agentID)
	if ag == nil {
		return false
	}
	return ag.Pos.Dist(dest) <= tolerance
}

// Fire records an engage request. The kill outcome is scripted by ShotsKill.
func (ds *DecisionSim) Fire(agentID int, at Vec2) bool {
	ds.FireRequests = append(ds.FireRequests, FireRequest{AgentID: agentID, At: at, Tick: ds.Tick})
	if ds.ShotsKill {
		ds.TargetAlive = false
		return true
	}
	return false
}

// Throw records a grenade throw request.
func (ds *DecisionSim) Throw(agentID int, at Vec2, kind GrenadeKind) {
	ds.ThrowRequests = append(ds.ThrowRequests, ThrowRequest{AgentID: agentID, At: at, Kind: kind, Tick: ds.Tick})
}

// --- scripting helpers ---

// QueueSound emits a sound for the upcoming tick.
func (ds *DecisionSim) QueueSound(ev SoundEvent) {
	ds.sounds = append(ds.sounds, ev)
}

// TargetShoots emits a gunshot at the target's position and marks every
// agent with line of sight to the target as under fire.
func (ds *DecisionSim) TargetShoots() {
	ds.QueueSound(SoundEvent{Kind: SoundGunshot, Origin: ds.TargetPos, SourceID: targetSourceID})
	for _, ag := range ds.Agents {
		if HasLineOfSight(ag.Pos, ds.TargetPos, ds.Obstacles) {
			ds.underFire[ag.ID] = true
		}
	}
}

// SetUnderFire marks one agent as under fire for the upcoming tick.
func (ds *DecisionSim) SetUnderFire(agentID int) { ds.underFire[agentID] = true }

// SetAllySuppressed marks one agent as having witnessed ally suppression.
func (ds *DecisionSim) SetAllySuppressed(agentID int) { ds.allySupp[agentID] = true }

// SetHealth scripts an agent's health.
func (ds *DecisionSim) SetHealth(agentID, health int) { ds.health[agentID] = health }

// ReportAllyDeath queues an ally death at the given position.
func (ds *DecisionSim) ReportAllyDeath(pos Vec2) {
	ds.allyDeaths = append(ds.allyDeaths, pos)
}

// MoveTarget repositions the scripted hostile.
func (ds *DecisionSim) MoveTarget(pos Vec2) { ds.TargetPos = pos }

// WanderTarget nudges the hostile by up to maxStep on each axis, clamped to
// the arena, using the sim's seeded RNG so runs stay reproducible.
func (ds *DecisionSim) WanderTarget(maxStep float64) {
	ds.TargetPos.X += (ds.rng.Float64()*2 - 1) * maxStep
	ds.TargetPos.Y += (ds.rng.Float64()*2 - 1) * maxStep
	if ds.TargetPos.X < 0 {
		ds.TargetPos.X = 0
	}
	if ds.TargetPos.X > ds.Width {
		ds.TargetPos.X = ds.Width
	}
	if ds.TargetPos.Y < 0 {
		ds.TargetPos.Y = 0
	}
	if ds.TargetPos.Y > ds.Height {
		ds.TargetPos.Y = ds.Height
	}
}

// Now returns simulated seconds elapsed.
func (ds *DecisionSim) Now() float64 { return float64(ds.Tick) * ds.dt }

// --- tick loop ---

// Step runs one simulation tick: flip the exchange, build each agent's raw
// inputs from the scripted world, then update every agent in ID order.
func (ds *DecisionSim) Step() {
	ds.Tick++
	ds.Exchange.Flip()

	sounds := ds.sounds
	deaths := ds.allyDeaths
	ds.sounds = nil
	ds.allyDeaths = nil

	for _, ag := range ds.Agents {
		canSee := ds.TargetAlive &&
			ag.Pos.Dist(ds.TargetPos) <= ds.SightRange &&
			HasLineOfSight(ag.Pos, ds.TargetPos, ds.Obstacles)
		in := RawInputs{
			CanSeeTarget:   canSee,
			TargetPos:      ds.TargetPos,
			TargetDead:     !ds.TargetAlive,
			UnderFire:      ds.underFire[ag.ID],
			AllySuppressed: ds.allySupp[ag.ID],
			Health:         ds.health[ag.ID],
			Sounds:         sounds,
			AllyDeaths:     deaths,
			CoverIndices:   ds.CoverRegion,
		}
		ds.LastActions[ag.ID] = ag.Update(ds.dt, in)
	}

	// Under-fire and suppression are single-tick flags; the scripts re-arm
	// them as needed, mirroring a per-tick incoming-fire counter reset.
	for id := range ds.underFire {
		delete(ds.underFire, id)
	}
	for id := range ds.allySupp {
		delete(ds.allySupp, id)
	}
}

// Advance runs n ticks.
func (ds *DecisionSim) Advance(n int) {
	for i := 0; i < n; i++ {
		ds.Step()
	}
}

func (ds *DecisionSim) agentByID(id int) *Agent {
	for _, ag := range ds.Agents {
		if ag.ID == id {
			return ag
		}
	}
	return nil
}
