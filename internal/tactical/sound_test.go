package tactical

import (
	"math"
	"testing"
)

// --- Sound propagation ---

func TestPropagate_ReloadThroughWall(t *testing.T) {
	ev := SoundEvent{Kind: SoundReload, Origin: Vec2{X: 0, Y: 0}}
	listener := Vec2{X: 200, Y: 0}

	received, intensity := Propagate(ev, listener, false)
	if !received {
		t.Fatal("reload must be received without line of sight")
	}
	want := SoundReload.BaseRange() / 200.0
	if math.Abs(intensity-want) > 1e-9 {
		t.Fatalf("intensity: want %.4f, got %.4f", want, intensity)
	}
}

func TestPropagate_GunshotBlockedByWall(t *testing.T) {
	ev := SoundEvent{Kind: SoundGunshot, Origin: Vec2{X: 0, Y: 0}}
	listener := Vec2{X: 200, Y: 0}

	if received, _ := Propagate(ev, listener, false); received {
		t.Fatal("occluded gunshot must not be received")
	}
	// Same shot with line of sight is received.
	if received, _ := Propagate(ev, listener, true); !received {
		t.Fatal("unoccluded gunshot must be received")
	}
}

func TestPropagate_BeyondRangeDropped(t *testing.T) {
	ev := SoundEvent{Kind: SoundFootstep, Origin: Vec2{}}
	listener := Vec2{X: SoundFootstep.BaseRange() + 1}

	if received, _ := Propagate(ev, listener, true); received {
		t.Fatal("event beyond base range must be silently dropped")
	}
}

func TestPropagate_DistanceFloor(t *testing.T) {
	ev := SoundEvent{Kind: SoundGunshot, Origin: Vec2{}}
	// Point-blank: divisor floors at 1, intensity equals base range.
	_, intensity := Propagate(ev, Vec2{X: 0.2}, true)
	if intensity != SoundGunshot.BaseRange() {
		t.Fatalf("point-blank intensity should equal base range, got %.1f", intensity)
	}
}

func TestPropagate_IntensityOverride(t *testing.T) {
	ev := SoundEvent{Kind: SoundGunshot, Origin: Vec2{}, Override: 0.33, HasOverride: true}
	received, intensity := Propagate(ev, Vec2{X: 100}, true)
	if !received {
		t.Fatal("override event in range must be received")
	}
	if intensity != 0.33 {
		t.Fatalf("override must win: want 0.33, got %.2f", intensity)
	}
}

func TestSoundKind_VulnerableSet(t *testing.T) {
	if !SoundReload.Vulnerable() || !SoundEmptyClick.Vulnerable() {
		t.Fatal("reload and empty click are vulnerable sounds")
	}
	if SoundGunshot.Vulnerable() || SoundReloadComplete.Vulnerable() {
		t.Fatal("gunshot and reload-complete are not vulnerable sounds")
	}
}
