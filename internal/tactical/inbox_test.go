package tactical

import "testing"

func TestExchange_PostedInvisibleUntilFlip(t *testing.T) {
	ex := NewExchange()
	ex.Post(Message{Kind: MsgSightingRelay, Sender: 0, Pos: Vec2{X: 50, Y: 60}})

	if len(ex.Current()) != 0 {
		t.Fatal("a posted message must not be visible before Flip")
	}
	if ex.Pending() != 1 {
		t.Fatalf("expected 1 pending message, got %d", ex.Pending())
	}

	ex.Flip()
	cur := ex.Current()
	if len(cur) != 1 {
		t.Fatalf("expected 1 current message after Flip, got %d", len(cur))
	}
	if cur[0].Pos != (Vec2{X: 50, Y: 60}) {
		t.Fatalf("message payload corrupted: %v", cur[0].Pos)
	}
	if ex.Pending() != 0 {
		t.Fatal("Flip must clear the posting buffer")
	}
}

func TestExchange_FlipDropsUndrainedMessages(t *testing.T) {
	ex := NewExchange()
	ex.Post(Message{Kind: MsgGrenadeWarning, Sender: 1})
	ex.Flip()
	ex.Flip()

	if len(ex.Current()) != 0 {
		t.Fatal("messages live exactly one tick; the second Flip must drop them")
	}
}

func TestExchange_PostDuringDrainDeliversNextTick(t *testing.T) {
	ex := NewExchange()
	ex.Post(Message{Kind: MsgSightingRelay, Sender: 0})
	ex.Flip()

	// A receiver reacting to the current batch posts its own message.
	for range ex.Current() {
		ex.Post(Message{Kind: MsgSightingRelay, Sender: 1})
	}
	if len(ex.Current()) != 1 {
		t.Fatal("posting during drain must not grow the current batch")
	}

	ex.Flip()
	cur := ex.Current()
	if len(cur) != 1 || cur[0].Sender != 1 {
		t.Fatalf("reply must arrive in the next batch, got %v", cur)
	}
}
