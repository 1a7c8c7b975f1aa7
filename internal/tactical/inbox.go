package tactical

// MessageKind classifies cross-agent traffic.
type MessageKind int

const (
	MsgSightingRelay  MessageKind = iota // "I saw the target here"
	MsgGrenadeWarning                    // "grenade out, blast point here"
)

func (k MessageKind) String() string {
	switch k {
	case MsgSightingRelay:
		return "sighting_relay"
	case MsgGrenadeWarning:
		return "grenade_warning"
	default:
		return "unknown"
	}
}

// Message is an immutable cross-agent value. Agents never mutate each
// other's fact stores; everything travels through the Exchange.
type Message struct {
	Kind       MessageKind
	Sender     int
	Pos        Vec2
	Confidence float64 // sender's confidence at send time, for sighting relays
	Tick       int
}

// Exchange is the shared per-tick inbox. Messages posted during tick N are
// append-only and invisible until Flip promotes them at the start of tick
// N+1, so no agent's evaluation can re-enter another agent's.
type Exchange struct {
	current []Message
	next    []Message
}

// NewExchange returns an empty exchange.
func NewExchange() *Exchange { return &Exchange{} }

// Post appends a message for delivery next tick.
func (ex *Exchange) Post(m Message) {
	ex.next = append(ex.next, m)
}

// Flip promotes pending messages and clears the posting buffer. Called once
// at the start of each tick, before any agent evaluates.
func (ex *Exchange) Flip() {
	ex.current = ex.next
	ex.next = nil
}

// Current returns this tick's deliverable messages. Receivers skip their own
// sender ID.
func (ex *Exchange) Current() []Message { return ex.current }

// Pending returns the number of messages queued for the next tick.
func (ex *Exchange) Pending() int { return len(ex.next) }
