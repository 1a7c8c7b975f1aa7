package tactical

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
)

// Fact vocabulary. Fact names are a closed, agent-scoped set; anything not
// listed here is a bug in the caller, not a runtime condition.
const (
	FactTargetVisible  = "target_visible"
	FactTargetKnown    = "target_known" // memory holds an actionable position
	FactInRange        = "in_range"
	FactInCover        = "in_cover"
	FactUnderFire      = "under_fire"
	FactHasGrenades    = "has_grenades"
	FactGrenadeType    = "grenade_type"
	FactReadyToThrow   = "ready_to_throw"
	FactGrenadeThrown  = "grenade_thrown"
	FactTargetDown     = "target_down"
	FactPatrolling     = "patrolling"
	FactDangerZone     = "danger_zone" // a grenade warning names a blast point
	FactHealth         = "health"
	FactTargetPos      = "target_pos"
	FactDangerPos      = "danger_pos"
	FactTrigAmbush     = "trigger_ambush"     // suppressed then hidden
	FactTrigPursuit    = "trigger_pursuit"    // target closing under fire
	FactTrigKills      = "trigger_kills"      // witnessed ally deaths
	FactTrigVulnerable = "trigger_vulnerable" // reload / empty click heard
	FactTrigZoneFire   = "trigger_zone_fire"  // sustained fire in a zone
	FactTrigDesperate  = "trigger_desperate"  // critical health
	FactTrigSuspicion  = "trigger_suspicion"  // confident but hidden
)

// FactKind tags the value variant held by a FactValue.
type FactKind int

const (
	FactBool FactKind = iota
	FactInt
	FactFloat
	FactPos
)

func (k FactKind) String() string {
	switch k {
	case FactBool:
		return "bool"
	case FactInt:
		return "int"
	case FactFloat:
		return "float"
	case FactPos:
		return "pos"
	default:
		return "unknown"
	}
}

// FactValue is a tagged union over the four fact value types.
// The zero value is the bool fact "false".
type FactValue struct {
	Kind FactKind
	B    bool
	I    int
	F    float64
	P    Vec2
}

// BoolFact wraps a bool.
func BoolFact(b bool) FactValue { return FactValue{Kind: FactBool, B: b} }

// IntFact wraps an int.
func IntFact(i int) FactValue { return FactValue{Kind: FactInt, I: i} }

// FloatFact wraps a float64.
func FloatFact(f float64) FactValue { return FactValue{Kind: FactFloat, F: f} }

// PosFact wraps a position.
func PosFact(p Vec2) FactValue { return FactValue{Kind: FactPos, P: p} }

// Equal reports whether two fact values have the same kind and payload.
func (v FactValue) Equal(o FactValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case FactBool:
		return v.B == o.B
	case FactInt:
		return v.I == o.I
	case FactFloat:
		return v.F == o.F
	case FactPos:
		return v.P == o.P
	default:
		return false
	}
}

func (v FactValue) String() string {
	switch v.Kind {
	case FactBool:
		return fmt.Sprintf("%v", v.B)
	case FactInt:
		return fmt.Sprintf("%d", v.I)
	case FactFloat:
		return fmt.Sprintf("%.3f", v.F)
	case FactPos:
		return fmt.Sprintf("(%.1f,%.1f)", v.P.X, v.P.Y)
	default:
		return "?"
	}
}

// WorldState is one agent's flat fact store: its current understanding of the
// world, refreshed every tick by the perception and trigger modules and
// mutated by executed-action effects. Exclusively owned by its agent.
type WorldState struct {
	facts map[string]FactValue
}

// NewWorldState returns an empty store.
func NewWorldState() *WorldState {
	return &WorldState{facts: make(map[string]FactValue)}
}

// Get returns the stored value, or the zero FactValue (bool false) when the
// fact is unset. It never fails.
func (ws *WorldState) Get(name string) FactValue {
	return ws.facts[name]
}

// Set overwrites the fact.
func (ws *WorldState) Set(name string, v FactValue) {
	ws.facts[name] = v
}

// Has reports whether the fact is explicitly set.
func (ws *WorldState) Has(name string) bool {
	_, ok := ws.facts[name]
	return ok
}

// GetBool returns the fact as a bool; unset reads as false.
// Panics if the fact is set with a different kind — that is a catalog/schema
// mismatch, never silently coerced.
func (ws *WorldState) GetBool(name string) bool {
	v, ok := ws.facts[name]
	if !ok {
		return false
	}
	if v.Kind != FactBool {
		panic(fmt.Sprintf("tactical: fact %q read as bool but stored as %s", name, v.Kind))
	}
	return v.B
}

// GetInt returns the fact as an int; unset reads as 0.
func (ws *WorldState) GetInt(name string) int {
	v, ok := ws.facts[name]
	if !ok {
		return 0
	}
	if v.Kind != FactInt {
		panic(fmt.Sprintf("tactical: fact %q read as int but stored as %s", name, v.Kind))
	}
	return v.I
}

// GetFloat returns the fact as a float64; unset reads as 0.
func (ws *WorldState) GetFloat(name string) float64 {
	v, ok := ws.facts[name]
	if !ok {
		return 0
	}
	if v.Kind != FactFloat {
		panic(fmt.Sprintf("tactical: fact %q read as float but stored as %s", name, v.Kind))
	}
	return v.F
}

// GetPos returns the fact as a position; unset reads as the origin.
func (ws *WorldState) GetPos(name string) Vec2 {
	v, ok := ws.facts[name]
	if !ok {
		return Vec2{}
	}
	if v.Kind != FactPos {
		panic(fmt.Sprintf("tactical: fact %q read as pos but stored as %s", name, v.Kind))
	}
	return v.P
}

// Matches reports whether every fact in want is present with an equal value.
// An unset fact matches a bool-false want, so goals like patrolling=false
// hold on a fresh store.
func (ws *WorldState) Matches(want map[string]FactValue) bool {
	for name, wv := range want {
		cur, ok := ws.facts[name]
		if !ok {
			if wv.Kind == FactBool && !wv.B {
				continue
			}
			return false
		}
		if !cur.Equal(wv) {
			return false
		}
	}
	return true
}

// Apply merges the effect facts into the store, overwriting existing values.
func (ws *WorldState) Apply(effects map[string]FactValue) {
	for name, v := range effects {
		ws.facts[name] = v
	}
}

// Clone returns an independent copy of the store.
func (ws *WorldState) Clone() *WorldState {
	cp := make(map[string]FactValue, len(ws.facts))
	for k, v := range ws.facts {
		cp[k] = v
	}
	return &WorldState{facts: cp}
}

// Len returns the number of set facts.
func (ws *WorldState) Len() int { return len(ws.facts) }

// Hash returns a deterministic digest of the fact mapping, used by the
// planner's closed set to prune duplicate snapshots.
func (ws *WorldState) Hash() uint64 {
	names := make([]string, 0, len(ws.facts))
	for name := range ws.facts {
		names = append(names, name)
	}
	sort.Strings(names)

	h := fnv.New64a()
	var buf [8]byte
	for _, name := range names {
		h.Write([]byte(name))
		v := ws.facts[name]
		buf[0] = byte(v.Kind)
		h.Write(buf[:1])
		switch v.Kind {
		case FactBool:
			if v.B {
				buf[0] = 1
			} else {
				buf[0] = 0
			}
			h.Write(buf[:1])
		case FactInt:
			putUint64(buf[:], uint64(v.I))
			h.Write(buf[:])
		case FactFloat:
			putUint64(buf[:], math.Float64bits(v.F))
			h.Write(buf[:])
		case FactPos:
			putUint64(buf[:], math.Float64bits(v.P.X))
			h.Write(buf[:])
			putUint64(buf[:], math.Float64bits(v.P.Y))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
