package tactical

import "testing"

// --- Target memory ---

func TestMemory_ObserveStrongerOverwrites(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{X: 10, Y: 10}, ConfidenceReload, 0)
	tm.Observe(Vec2{X: 50, Y: 50}, ConfidenceSight, 1)

	if tm.LastKnown != (Vec2{X: 50, Y: 50}) {
		t.Fatalf("stronger signal should overwrite position, got %v", tm.LastKnown)
	}
	if tm.Confidence != 1.0 {
		t.Fatalf("confidence should be 1.0, got %.2f", tm.Confidence)
	}
}

func TestMemory_WeakerSignalIgnored(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{X: 10, Y: 10}, ConfidenceSight, 0)
	tm.Observe(Vec2{X: 50, Y: 50}, ConfidenceGunshot, 1)

	if tm.LastKnown != (Vec2{X: 10, Y: 10}) {
		t.Fatal("weaker signal must not downgrade a stronger belief")
	}
	if tm.Confidence != 1.0 {
		t.Fatalf("confidence should stay 1.0, got %.2f", tm.Confidence)
	}
}

func TestMemory_EqualContributionOverwrites(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{X: 10, Y: 10}, ConfidenceGunshot, 0)
	tm.Observe(Vec2{X: 50, Y: 50}, ConfidenceGunshot, 1)

	if tm.LastKnown != (Vec2{X: 50, Y: 50}) {
		t.Fatal("equal contribution should refresh the position")
	}
}

func TestMemory_DecayMonotonic(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{}, 1.0, 0)

	prev := tm.Confidence
	for i := 0; i < 100; i++ {
		tm.Decay(0.5, 0.04)
		if tm.Confidence > prev {
			t.Fatalf("confidence rose without an observation: %.4f -> %.4f", prev, tm.Confidence)
		}
		prev = tm.Confidence
	}
	if tm.Confidence < 0 {
		t.Fatalf("decay must clamp at 0, got %.4f", tm.Confidence)
	}
}

func TestMemory_ObserveClampsContribution(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{}, 5.0, 0)
	if tm.Confidence != 1.0 {
		t.Fatalf("out-of-range contribution must clamp to 1.0, got %.2f", tm.Confidence)
	}
}

func TestMemory_ModeBands(t *testing.T) {
	cases := []struct {
		confidence float64
		want       BehaviorMode
	}{
		{1.0, ModeDirectPursuit},
		{0.8, ModeDirectPursuit},
		{0.79, ModeCautiousApproach},
		{0.5, ModeCautiousApproach},
		{0.49, ModeSearch},
		{0.3, ModeSearch},
		{0.29, ModePatrol},
		{0.05, ModePatrol},
		{0.049, ModeLost},
		{0.0, ModeLost},
	}
	for _, c := range cases {
		tm := TargetMemory{Confidence: c.confidence}
		if got := tm.Mode(); got != c.want {
			t.Fatalf("confidence %.3f: want %s, got %s", c.confidence, c.want, got)
		}
		// Pure: same confidence, same answer.
		if again := tm.Mode(); again != c.want {
			t.Fatalf("Mode() not stable for %.3f", c.confidence)
		}
	}
}

func TestMemory_ClearEmptiesRecord(t *testing.T) {
	var tm TargetMemory
	tm.Observe(Vec2{X: 9, Y: 9}, 1.0, 3)
	tm.Clear()
	if tm.Actionable() {
		t.Fatal("cleared memory must not be actionable")
	}
	if tm.Mode() != ModeLost {
		t.Fatalf("cleared memory should read Lost, got %s", tm.Mode())
	}
}
