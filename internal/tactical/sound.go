package tactical

import "math"

// SoundKind identifies what produced a sound event.
type SoundKind int

const (
	SoundGunshot SoundKind = iota
	SoundReload
	SoundEmptyClick
	SoundReloadComplete
	SoundFootstep
	SoundImpact
	SoundExplosion
	soundKindCount
)

func (k SoundKind) String() string {
	switch k {
	case SoundGunshot:
		return "gunshot"
	case SoundReload:
		return "reload"
	case SoundEmptyClick:
		return "empty_click"
	case SoundReloadComplete:
		return "reload_complete"
	case SoundFootstep:
		return "footstep"
	case SoundImpact:
		return "impact"
	case SoundExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// soundProfile fixes the audibility of one kind of sound.
// Mechanical weapon noises (reload, empty click, reload complete) are quiet
// but distinctive: they carry through obstacles at full range. Loud impulse
// sounds do not — an occluded listener simply never receives them.
type soundProfile struct {
	baseRange    float64
	throughWalls bool
}

var soundProfiles = [soundKindCount]soundProfile{
	SoundGunshot:        {baseRange: 1400, throughWalls: false},
	SoundReload:         {baseRange: 300, throughWalls: true},
	SoundEmptyClick:     {baseRange: 250, throughWalls: true},
	SoundReloadComplete: {baseRange: 300, throughWalls: true},
	SoundFootstep:       {baseRange: 160, throughWalls: false},
	SoundImpact:         {baseRange: 500, throughWalls: false},
	SoundExplosion:      {baseRange: 2000, throughWalls: false},
}

// BaseRange returns the kind's audible range in world units.
func (k SoundKind) BaseRange() float64 {
	if k < 0 || k >= soundKindCount {
		return 0
	}
	return soundProfiles[k].baseRange
}

// ThroughWalls reports whether the kind remains audible without line of sight.
func (k SoundKind) ThroughWalls() bool {
	if k < 0 || k >= soundKindCount {
		return false
	}
	return soundProfiles[k].throughWalls
}

// Vulnerable reports whether the sound marks the emitter as momentarily
// unable to fire (the grenade evaluator's "vulnerable sound").
func (k SoundKind) Vulnerable() bool {
	return k == SoundReload || k == SoundEmptyClick
}

// SoundEvent is one emitted sound. Transient: emitted once, consumed by all
// in-range listeners in the same tick, never persisted.
type SoundEvent struct {
	Kind     SoundKind
	Origin   Vec2
	SourceID int

	// Override replaces the computed intensity when HasOverride is set,
	// used by weapon loudness configuration.
	Override    float64
	HasOverride bool
}

// Propagate decides whether ev reaches a listener and at what strength.
// Pure: a missed event is silently dropped, never an error. Intensity falls
// off as baseRange/distance with the divisor floored at 1.
func Propagate(ev SoundEvent, listener Vec2, listenerHasLOS bool) (received bool, intensity float64) {
	prof := soundProfiles[ev.Kind]
	if !listenerHasLOS && !prof.throughWalls {
		return false, 0
	}
	dist := ev.Origin.Dist(listener)
	if dist > prof.baseRange {
		return false, 0
	}
	if ev.HasOverride {
		return true, ev.Override
	}
	return true, prof.baseRange / math.Max(dist, 1.0)
}
