package tactical

import "fmt"

// DecisionEntry is one recorded event during a simulation run.
type DecisionEntry struct {
	Tick     int
	Agent    string  // label e.g. "A0", or "--" for global events
	Category string  // perception, trigger, plan, action, message
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] A0   trigger   zone_fire   accum=10.5
func (e DecisionEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-10s %-18s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// DecisionLog collects structured events during a run. Unbounded and
// machine-readable; the viewer renders its tail, tests filter it.
type DecisionLog struct {
	entries []DecisionEntry
	verbose bool
}

// NewDecisionLog creates a log. If verbose is true, per-tick state entries
// are also recorded.
func NewDecisionLog(verbose bool) *DecisionLog {
	return &DecisionLog{verbose: verbose}
}

// Add records a new entry.
func (dl *DecisionLog) Add(tick int, agent, category, key, value string, numVal float64) {
	dl.entries = append(dl.entries, DecisionEntry{
		Tick:     tick,
		Agent:    agent,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (dl *DecisionLog) AddVerbose(tick int, agent, category, key, value string, numVal float64) {
	if !dl.verbose {
		return
	}
	dl.Add(tick, agent, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (dl *DecisionLog) Entries() []DecisionEntry { return dl.entries }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (dl *DecisionLog) Filter(category, key string) []DecisionEntry {
	var out []DecisionEntry
	for _, e := range dl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Tail returns the most recent n entries in chronological order.
func (dl *DecisionLog) Tail(n int) []DecisionEntry {
	if n >= len(dl.entries) {
		return dl.entries
	}
	return dl.entries[len(dl.entries)-n:]
}
