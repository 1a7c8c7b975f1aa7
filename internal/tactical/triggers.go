package tactical

// TriggerInputs bundles the raw signals the grenade evaluator consumes on one
// tick. Sounds must already be filtered to events the agent actually received
// (see Propagate).
type TriggerInputs struct {
	Now   float64
	Delta float64

	TargetVisible bool
	TargetPos     Vec2
	TargetDist    float64 // distance to target when visible
	Confidence    float64 // current target-memory confidence

	UnderFire      bool
	AllySuppressed bool // witnessed an ally under suppressive fire
	Health         int

	Sounds     []SoundEvent
	AllyDeaths []Vec2 // death positions witnessed this tick (LOS-checked by the caller)
}

// TriggerState maintains the seven independent grenade-throw predicates over
// recent history. The planner reads them only as derived boolean facts; the
// evaluator mutates them every tick. Each predicate drops back to false the
// instant its defining condition stops holding, except for the explicit time
// windows below.
type TriggerState struct {
	now float64

	// Hidden-target clock, shared by ambush (1) and suspicion (7).
	everSeen   bool
	lastSeen   float64
	suppressed bool // agent or a witnessed ally has been suppressed since last contact

	// Pursuit (2).
	prevDist    float64
	havePrev    bool
	closingRate float64
	underFire   bool

	// Witnessed kills (3): timestamps inside the rolling window.
	killTimes []float64

	// Vulnerable sound (4).
	haveVulnerable   bool
	vulnerableAt     float64
	VulnerableOrigin Vec2
	targetVisible    bool

	// Sustained zone fire (5).
	zoneActive bool
	ZoneCenter Vec2
	fireAccum  float64
	lastShot   float64

	// Desperation (6).
	health int

	// Suspicion (7) shares everSeen/lastSeen with (1).
	confidence float64
}

// Update advances every predicate by one tick.
func (ts *TriggerState) Update(in TriggerInputs, tn Tuning) {
	ts.now = in.Now
	ts.health = in.Health
	ts.confidence = in.Confidence
	ts.underFire = in.UnderFire
	ts.targetVisible = in.TargetVisible

	// Hidden clock. Contact resets both the clock and the suppression
	// premise — a re-engaged target is no longer an ambush problem.
	if in.TargetVisible {
		ts.everSeen = true
		ts.lastSeen = in.Now
		ts.suppressed = false
	}
	if in.UnderFire || in.AllySuppressed {
		ts.suppressed = true
	}

	// Pursuit: closure rate while visible; no reading without two samples.
	if in.TargetVisible && ts.havePrev && in.Delta > 0 {
		ts.closingRate = (ts.prevDist - in.TargetDist) / in.Delta
	} else if !in.TargetVisible {
		ts.closingRate = 0
		ts.havePrev = false
	}
	if in.TargetVisible {
		ts.prevDist = in.TargetDist
		ts.havePrev = true
	}

	// Witnessed kills: rolling window.
	for range in.AllyDeaths {
		ts.killTimes = append(ts.killTimes, in.Now)
	}
	kept := ts.killTimes[:0]
	for _, t := range ts.killTimes {
		if in.Now-t <= tn.KillWindowSeconds {
			kept = append(kept, t)
		}
	}
	ts.killTimes = kept

	// Sounds feed predicates 4 and 5.
	for _, ev := range in.Sounds {
		if ev.Kind.Vulnerable() {
			ts.haveVulnerable = true
			ts.vulnerableAt = in.Now
			ts.VulnerableOrigin = ev.Origin
		}
		if ev.Kind == SoundGunshot {
			ts.recordZoneShot(ev.Origin, in.Now, tn)
		}
	}
	if ts.haveVulnerable && in.Now-ts.vulnerableAt > tn.VulnerableWindow {
		ts.haveVulnerable = false
	}
	// A silent gap drains the zone accumulator to exactly zero.
	if ts.zoneActive && in.Now-ts.lastShot > tn.MaxShotGapSeconds {
		ts.zoneActive = false
		ts.fireAccum = 0
	}
}

// recordZoneShot accumulates sustained fire inside a spatial zone. A shot
// outside the zone, or following a gap over the limit, restarts accumulation
// with the new shot as the zone seed.
func (ts *TriggerState) recordZoneShot(origin Vec2, now float64, tn Tuning) {
	if !ts.zoneActive {
		ts.zoneActive = true
		ts.ZoneCenter = origin
		ts.fireAccum = 0
		ts.lastShot = now
		return
	}
	gap := now - ts.lastShot
	if gap > tn.MaxShotGapSeconds || origin.Dist(ts.ZoneCenter) > tn.FireZoneRadius {
		ts.ZoneCenter = origin
		ts.fireAccum = 0
		ts.lastShot = now
		return
	}
	ts.fireAccum += gap
	ts.lastShot = now
}

// Ambush: suppressed (self or witnessed ally) and then no contact for the
// long hidden window.
func (ts *TriggerState) Ambush(tn Tuning) bool {
	return ts.suppressed && ts.hiddenFor() >= tn.AmbushHiddenSeconds
}

// Pursuit: under fire while the target closes faster than the threshold.
func (ts *TriggerState) Pursuit(tn Tuning) bool {
	return ts.underFire && ts.closingRate > tn.PursuitClosingRate
}

// WitnessedKills: enough ally deaths observed inside the rolling window.
func (ts *TriggerState) WitnessedKills(tn Tuning) bool {
	return len(ts.killTimes) >= tn.KillCount
}

// VulnerableSound: a reload or empty click heard recently while the target
// is not visible. The stored origin is the throw point.
func (ts *TriggerState) VulnerableSound(tn Tuning) bool {
	return ts.haveVulnerable && !ts.targetVisible && ts.now-ts.vulnerableAt <= tn.VulnerableWindow
}

// ZoneFire: sustained gunfire accumulated in one spatial zone.
func (ts *TriggerState) ZoneFire(tn Tuning) bool {
	return ts.zoneActive && ts.fireAccum >= tn.SustainedFireSeconds
}

// Desperate: health at or below the critical floor. Boundary is ≤, not <.
func (ts *TriggerState) Desperate(tn Tuning) bool {
	return ts.health <= tn.CriticalHealth
}

// Suspicion: medium-or-better confidence with the target hidden past the
// short window. A lower-bar variant of Ambush.
func (ts *TriggerState) Suspicion(tn Tuning) bool {
	return ts.confidence >= confMedium && ts.hiddenFor() >= tn.SuspicionSeconds
}

// ReadyToThrow is the OR of all seven predicates, published into the fact
// store every tick.
func (ts *TriggerState) ReadyToThrow(tn Tuning) bool {
	return ts.Ambush(tn) || ts.Pursuit(tn) || ts.WitnessedKills(tn) ||
		ts.VulnerableSound(tn) || ts.ZoneFire(tn) || ts.Desperate(tn) ||
		ts.Suspicion(tn)
}

// FireAccum exposes the sustained-fire accumulator for headless reports.
func (ts *TriggerState) FireAccum() float64 { return ts.fireAccum }

func (ts *TriggerState) hiddenFor() float64 {
	if !ts.everSeen || ts.targetVisible {
		return 0
	}
	return ts.now - ts.lastSeen
}
