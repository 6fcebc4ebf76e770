// Package telemetry provides colony health tracking, bookmarking and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventPickup EventType = iota
	EventDelivery
	EventRelocation
	EventBounce
	EventDeposit
	EventDroppedDeposit
)

var eventNames = [...]string{"pickup", "delivery", "relocation", "bounce", "deposit", "dropped_deposit"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents one or more occurrences of the same kind in a tick.
type Event struct {
	Type   EventType
	Tick   int32
	Count  int
	Amount float64 // food moved, for pickups and deliveries
}

// NewPickupEvent creates an event for food taken from sources.
func NewPickupEvent(tick int32, pickups int, amount float64) Event {
	return Event{Type: EventPickup, Tick: tick, Count: pickups, Amount: amount}
}

// NewDeliveryEvent creates an event for food handed to a nest.
func NewDeliveryEvent(tick int32, deliveries int, amount float64) Event {
	return Event{Type: EventDelivery, Tick: tick, Count: deliveries, Amount: amount}
}

// NewCountEvent creates an event that only carries a count.
func NewCountEvent(t EventType, tick int32, n int) Event {
	return Event{Type: t, Tick: tick, Count: n}
}
