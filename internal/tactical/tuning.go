package tactical

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning collects every numeric knob of the decision core. Defaults are the
// shipped behavior; a yaml file overrides them for balancing runs.
type Tuning struct {
	// Target memory.
	MemoryDecayRate float64 `yaml:"memory_decay_rate"` // confidence lost per second

	// Grenade trigger windows (seconds unless noted).
	AmbushHiddenSeconds  float64 `yaml:"ambush_hidden_seconds"`  // suppressed-then-hidden wait
	SuspicionSeconds     float64 `yaml:"suspicion_seconds"`      // confident-but-hidden wait
	VulnerableWindow     float64 `yaml:"vulnerable_window"`      // reload/click usable for this long
	KillWindowSeconds    float64 `yaml:"kill_window_seconds"`    // rolling witnessed-kill window
	KillCount            int     `yaml:"kill_count"`             // witnessed kills to trigger
	PursuitClosingRate   float64 `yaml:"pursuit_closing_rate"`   // units/s of closure under fire
	FireZoneRadius       float64 `yaml:"fire_zone_radius"`       // sustained-fire zone radius, world units
	SustainedFireSeconds float64 `yaml:"sustained_fire_seconds"` // accumulated fire to trigger
	MaxShotGapSeconds    float64 `yaml:"max_shot_gap_seconds"`   // gap that resets accumulation
	CriticalHealth       int     `yaml:"critical_health"`        // desperation at health ≤ this

	// Cover.
	CoverTolerance     float64 `yaml:"cover_tolerance"`      // "arrived at cover" distance
	PursuitMinProgress float64 `yaml:"pursuit_min_progress"` // fraction of distance-to-target
	CoverReusePenalty  float64 `yaml:"cover_reuse_penalty"`  // same-obstacle score divisor

	// Planner bounds.
	PlannerMaxDepth      int     `yaml:"planner_max_depth"`
	PlannerMaxExpansions int     `yaml:"planner_max_expansions"`
	PlannerCostFloor     float64 `yaml:"planner_cost_floor"` // min positive action cost, scales the heuristic

	// Execution.
	EngageRange float64 `yaml:"engage_range"` // in_range distance for direct fire
}

// DefaultTuning returns the shipped constants. The fire-zone radius default
// approximates one sixth of the original viewport height; it is a plain
// configured parameter here.
func DefaultTuning() Tuning {
	return Tuning{
		MemoryDecayRate: 0.04,

		AmbushHiddenSeconds:  6.0,
		SuspicionSeconds:     3.0,
		VulnerableWindow:     5.0,
		KillWindowSeconds:    30.0,
		KillCount:            2,
		PursuitClosingRate:   40.0,
		FireZoneRadius:       150.0,
		SustainedFireSeconds: 10.0,
		MaxShotGapSeconds:    2.0,
		CriticalHealth:       1,

		CoverTolerance:     12.0,
		PursuitMinProgress: 0.15,
		CoverReusePenalty:  4.0,

		PlannerMaxDepth:      10,
		PlannerMaxExpansions: 1000,
		PlannerCostFloor:     0.05,

		EngageRange: 280.0,
	}
}

// LoadTuning reads a yaml tuning file over the defaults, so a partial file
// only overrides the keys it names.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
