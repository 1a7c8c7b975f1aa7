package tactical

import "math"

// Confidence contributions by observation source.
const (
	ConfidenceSight      = 1.0 // direct visual contact
	ConfidenceGunshot    = 0.7 // heard a shot
	ConfidenceReload     = 0.6 // heard a reload or empty click
	RelayConfidenceDecay = 0.9 // applied to sightings relayed by an ally
)

// Confidence bands for behavior classification.
const (
	confHigh   = 0.8
	confMedium = 0.5
	confLow    = 0.3
	confLost   = 0.05
)

// BehaviorMode classifies how an agent should act on its target memory.
type BehaviorMode int

const (
	ModeDirectPursuit    BehaviorMode = iota // confidence ≥ 0.8: go straight in
	ModeCautiousApproach                     // ≥ 0.5: close in, expect contact
	ModeSearch                               // ≥ 0.3: sweep the last known area
	ModePatrol                               // ≥ 0.05: stale lead, resume route
	ModeLost                                 // memory is empty
)

func (m BehaviorMode) String() string {
	switch m {
	case ModeDirectPursuit:
		return "direct_pursuit"
	case ModeCautiousApproach:
		return "cautious_approach"
	case ModeSearch:
		return "search"
	case ModePatrol:
		return "patrol"
	case ModeLost:
		return "lost"
	default:
		return "unknown"
	}
}

// TargetMemory is an agent's belief about where its target is. Confidence
// rises only through explicit observations and falls only through time
// decay; every write clamps into [0,1].
type TargetMemory struct {
	LastKnown  Vec2
	Confidence float64
	LastUpdate float64
}

// Observe records an observation at pos with the given confidence
// contribution. A weaker signal never downgrades a stronger belief: the
// position is overwritten only when the contribution is at least the current
// confidence. Relayed sightings must pre-multiply their contribution by
// RelayConfidenceDecay before calling Observe.
func (tm *TargetMemory) Observe(pos Vec2, contribution, now float64) {
	contribution = clamp01(contribution)
	if contribution < tm.Confidence {
		return
	}
	tm.LastKnown = pos
	tm.Confidence = math.Max(tm.Confidence, contribution)
	tm.LastUpdate = now
}

// Decay applies time-based confidence loss, clamped at zero. Called every
// tick regardless of observation.
func (tm *TargetMemory) Decay(delta, rate float64) {
	tm.Confidence = math.Max(0, tm.Confidence-rate*delta)
}

// Mode classifies the memory into a behavior band. Pure in confidence:
// the highest threshold met wins.
func (tm *TargetMemory) Mode() BehaviorMode {
	c := tm.Confidence
	switch {
	case c >= confHigh:
		return ModeDirectPursuit
	case c >= confMedium:
		return ModeCautiousApproach
	case c >= confLow:
		return ModeSearch
	case c >= confLost:
		return ModePatrol
	default:
		return ModeLost
	}
}

// Actionable reports whether the record is reliable enough to act on.
func (tm *TargetMemory) Actionable() bool {
	return tm.Confidence >= confLost
}

// Clear wipes the memory, e.g. when the target dies.
func (tm *TargetMemory) Clear() {
	*tm = TargetMemory{}
}
