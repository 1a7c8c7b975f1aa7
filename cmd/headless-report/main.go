package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Grenadier-Sense/internal/tactical"
)

type runStats struct {
	runIndex int
	seed     int64

	firstSightTick    int
	firstTriggerTicks map[string]int
	firstReadyTick    int
	firstThrowTick    int
	targetDownTick    int

	plansNew   int
	staleFacts int
	noPlans    int
	throws     int
	fires      int
	relays     int
	warnings   int
}

var triggerNames = []string{
	"ambush", "pursuit", "witnessed_kills", "vulnerable",
	"zone_fire", "desperate", "suspicion",
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var tuningPath string
	var toClipboard bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "ambush", "scenario name")
	flag.StringVar(&tuningPath, "tuning", "", "optional yaml tuning file")
	flag.BoolVar(&toClipboard, "clipboard", false, "copy the report to the system clipboard")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "ambush" {
		fmt.Printf("error: unsupported scenario %q (supported: ambush)\n", scenario)
		return
	}

	tn := tactical.DefaultTuning()
	if tuningPath != "" {
		var err error
		tn, err = tactical.LoadTuning(tuningPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	}

	var report strings.Builder
	fmt.Fprintf(&report, "=== Headless Grenadier Report ===\n")
	fmt.Fprintf(&report, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioAmbush(i+1, seed, ticks, tn)
		all = append(all, stats)
		printRun(&report, stats)
	}
	printAggregate(&report, all)

	fmt.Print(report.String())
	if toClipboard {
		if err := clipboard.WriteAll(report.String()); err != nil {
			fmt.Printf("clipboard: %v\n", err)
			return
		}
		fmt.Println("(report copied to clipboard)")
	}
}

// runScenarioAmbush drops three agents into a walled arena against a wandering
// hostile that fires every 1.5 simulated seconds. The mix of occlusion,
// repeated gunshots from one area and scripted pressure exercises the full
// trigger set.
func runScenarioAmbush(runIndex int, seed int64, ticks int, tn tactical.Tuning) runStats {
	ds := tactical.NewDecisionSim(
		tactical.WithArenaSize(1280, 720),
		tactical.WithSeed(seed),
		tactical.WithTuning(tn),
		tactical.WithObstacle(560, 120, 30, 180),
		tactical.WithObstacle(560, 420, 30, 180),
		tactical.WithObstacle(880, 280, 160, 30),
		tactical.WithCoverPoint(530, 200),
		tactical.WithCoverPoint(530, 500),
		tactical.WithCoverPoint(850, 330),
		tactical.WithCoverPoint(620, 360),
		tactical.WithTarget(1050, 360),
		tactical.WithAgentAt(0, 120, 220),
		tactical.WithAgentAt(1, 120, 360),
		tactical.WithAgentAt(2, 120, 500),
	)
	ds.ShotsKill = true

	shotInterval := int(1.5 / (1.0 / 60.0)) // fire every 1.5 simulated seconds
	for t := 0; t < ticks; t++ {
		if ds.TargetAlive {
			if t%shotInterval == 0 {
				ds.TargetShoots()
			}
			if t%120 == 0 {
				ds.WanderTarget(25)
			}
		}
		ds.Step()
	}

	entries := ds.Log.Entries()
	firstTriggers := make(map[string]int, len(triggerNames))
	for _, name := range triggerNames {
		firstTriggers[name] = firstTick(entries, "trigger", name)
	}

	return runStats{
		runIndex:          runIndex,
		seed:              seed,
		firstSightTick:    firstTick(entries, "perception", "sighting"),
		firstTriggerTicks: firstTriggers,
		firstReadyTick:    firstTick(entries, "trigger", "ready_to_throw"),
		firstThrowTick:    firstTick(entries, "action", "throw"),
		targetDownTick:    targetDownTick(ds),
		plansNew:          countEntries(entries, "plan", "new"),
		staleFacts:        countEntries(entries, "plan", "stale_fact"),
		noPlans:           countEntries(entries, "plan", "no_plan"),
		throws:            len(ds.ThrowRequests),
		fires:             len(ds.FireRequests),
		relays:            countEntries(entries, "message", "sighting_relay"),
		warnings:          countEntries(entries, "message", "grenade_warning"),
	}
}

// firstTick returns the tick of the earliest entry matching category and key,
// -1 when it never happened.
func firstTick(entries []tactical.DecisionEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func countEntries(entries []tactical.DecisionEntry, category, key string) int {
	n := 0
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			n++
		}
	}
	return n
}

func targetDownTick(ds *tactical.DecisionSim) int {
	if ds.TargetAlive {
		return -1
	}
	if len(ds.FireRequests) == 0 {
		return -1
	}
	return ds.FireRequests[len(ds.FireRequests)-1].Tick
}

func printRun(w *strings.Builder, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: first_sight=%d ready_to_throw=%d first_throw=%d target_down=%d\n",
		rs.firstSightTick, rs.firstReadyTick, rs.firstThrowTick, rs.targetDownTick)
	parts := make([]string, 0, len(triggerNames))
	for _, name := range triggerNames {
		parts = append(parts, fmt.Sprintf("%s=%d", name, rs.firstTriggerTicks[name]))
	}
	fmt.Fprintf(w, "trigger_first_ticks: %s\n", strings.Join(parts, " "))
	fmt.Fprintf(w, "planner: new=%d stale_fact=%d no_plan=%d\n", rs.plansNew, rs.staleFacts, rs.noPlans)
	fmt.Fprintf(w, "actions: fires=%d throws=%d\n", rs.fires, rs.throws)
	fmt.Fprintf(w, "messages: sighting_relays=%d grenade_warnings=%d\n\n", rs.relays, rs.warnings)
}

func printAggregate(w *strings.Builder, all []runStats) {
	totalPlans := 0
	totalStale := 0
	totalNoPlan := 0
	totalThrows := 0
	totalFires := 0
	kills := 0

	readyTicks := make([]int, 0, len(all))
	throwTicks := make([]int, 0, len(all))
	downTicks := make([]int, 0, len(all))
	triggerTicks := map[string][]int{}

	for _, rs := range all {
		totalPlans += rs.plansNew
		totalStale += rs.staleFacts
		totalNoPlan += rs.noPlans
		totalThrows += rs.throws
		totalFires += rs.fires
		if rs.targetDownTick >= 0 {
			kills++
			downTicks = append(downTicks, rs.targetDownTick)
		}
		if rs.firstReadyTick >= 0 {
			readyTicks = append(readyTicks, rs.firstReadyTick)
		}
		if rs.firstThrowTick >= 0 {
			throwTicks = append(throwTicks, rs.firstThrowTick)
		}
		for name, tick := range rs.firstTriggerTicks {
			if tick >= 0 {
				triggerTicks[name] = append(triggerTicks[name], tick)
			}
		}
	}

	fmt.Fprintf(w, "=== Aggregate ===\n")
	fmt.Fprintf(w, "runs=%d target_down_in=%d/%d\n", len(all), kills, len(all))
	fmt.Fprintf(w, "avg_per_run: plans=%.1f stale_facts=%.1f no_plans=%.1f fires=%.1f throws=%.1f\n",
		avg(totalPlans, len(all)), avg(totalStale, len(all)), avg(totalNoPlan, len(all)),
		avg(totalFires, len(all)), avg(totalThrows, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: ready_to_throw=%s first_throw=%s target_down=%s\n",
		avgTickString(readyTicks), avgTickString(throwTicks), avgTickString(downTicks))
	parts := make([]string, 0, len(triggerNames))
	for _, name := range triggerNames {
		parts = append(parts, fmt.Sprintf("%s=%s (%d/%d runs)",
			name, avgTickString(triggerTicks[name]), len(triggerTicks[name]), len(all)))
	}
	fmt.Fprintf(w, "trigger_avg_first_ticks: %s\n", strings.Join(parts, " "))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
