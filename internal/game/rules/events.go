package rules

import (
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventFoodGained   EventType = "FOOD_GAINED"
	EventEggsLaid     EventType = "EGGS_LAID"
	EventCardsDrawn   EventType = "CARDS_DRAWN"
	EventBirdPlayed   EventType = "BIRD_PLAYED"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventRoundEnded   EventType = "ROUND_ENDED"
	EventGameEnded    EventType = "GAME_ENDED"
)

// Event describes something that happened in a game.
type Event struct {
	Type      EventType
	PlayerID  string
	SourceID  string // placed bird or card instance, when relevant
	Habitat   string
	Foods     []string
	Amount    int
	Data      string
	Timestamp time.Time
}

// NewEvent creates an event for playerID.
func NewEvent(eventType EventType, playerID string) Event {
	return Event{
		Type:      eventType,
		PlayerID:  playerID,
		Timestamp: time.Now(),
	}
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type typedListener struct {
	handle    int
	eventType EventType
	callback  Listener
}

// EventBus is a synchronous publish/subscribe bus. It belongs to a single game
// and shares that game's serialization; it does no locking of its own.
type EventBus struct {
	listeners  []typedListener
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every event and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for one event type. An empty type
// receives every event.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, typedListener{
		handle:    handle,
		eventType: eventType,
		callback:  listener,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	for i, l := range bus.listeners {
		if l.handle == handle {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to matching listeners in subscription order.
func (bus *EventBus) Publish(event Event) {
	for _, l := range bus.listeners {
		if l.eventType == "" || l.eventType == event.Type {
			l.callback(event)
		}
	}
}
