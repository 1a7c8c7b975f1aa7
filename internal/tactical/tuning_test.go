package tactical

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuning_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	body := "fire_zone_radius: 200\nkill_count: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	tn, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tn.FireZoneRadius != 200 {
		t.Fatalf("fire_zone_radius should be overridden to 200, got %v", tn.FireZoneRadius)
	}
	if tn.KillCount != 3 {
		t.Fatalf("kill_count should be overridden to 3, got %v", tn.KillCount)
	}

	// Keys the file does not name keep their defaults.
	def := DefaultTuning()
	if tn.MemoryDecayRate != def.MemoryDecayRate {
		t.Fatalf("memory_decay_rate should keep default %v, got %v", def.MemoryDecayRate, tn.MemoryDecayRate)
	}
	if tn.PlannerMaxDepth != def.PlannerMaxDepth {
		t.Fatalf("planner_max_depth should keep default %v, got %v", def.PlannerMaxDepth, tn.PlannerMaxDepth)
	}
}

func TestLoadTuning_MissingFileReturnsDefaults(t *testing.T) {
	tn, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("a missing file must surface an error")
	}
	if tn != DefaultTuning() {
		t.Fatal("the returned tuning must still be the defaults")
	}
}

func TestLoadTuning_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("fire_zone_radius: [not a number"), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Fatal("malformed yaml must return an error")
	}
}
