package rules

import (
	"github.com/google/uuid"
)

// Activation is the client-facing record of a resolved bird power.
type Activation struct {
	PlayerID   string         `json:"playerId"`
	PlayerName string         `json:"playerName"`
	BirdName   string         `json:"birdName"`
	Message    string         `json:"message"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Trigger reacts to another player's action on behalf of a placed bird.
type Trigger struct {
	ID         string
	SourceID   string // placed bird instance
	Controller string // owning player
	EventType  EventType
	Condition  func(Event) bool
	Resolve    func(Event) *Activation
	Once       bool
}

// TriggerManager stores reactive triggers and evaluates them against events
// in registration order.
type TriggerManager struct {
	triggers []Trigger
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{}
}

// Register adds a trigger and returns its id.
func (tm *TriggerManager) Register(trigger Trigger) string {
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.triggers = append(tm.triggers, trigger)
	return trigger.ID
}

// Unregister removes a trigger by id.
func (tm *TriggerManager) Unregister(id string) {
	for i, t := range tm.triggers {
		if t.ID == id {
			tm.triggers = append(tm.triggers[:i], tm.triggers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered triggers.
func (tm *TriggerManager) Len() int {
	return len(tm.triggers)
}

// Handle evaluates event against every trigger. Each trigger fires at most once
// per event and never for its own controller's actions. Resolvers returning
// nil produce no activation.
func (tm *TriggerManager) Handle(event Event) []Activation {
	if len(tm.triggers) == 0 {
		return nil
	}

	var (
		activations []Activation
		kept        = tm.triggers[:0:0]
	)
	// Copy first: resolvers may register further triggers.
	pending := append([]Trigger(nil), tm.triggers...)
	fired := make(map[string]bool)

	for _, trigger := range pending {
		if trigger.EventType != event.Type || trigger.Controller == event.PlayerID {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		fired[trigger.ID] = true
		if trigger.Resolve == nil {
			continue
		}
		if act := trigger.Resolve(event); act != nil {
			activations = append(activations, *act)
		}
	}

	for _, t := range tm.triggers {
		if t.Once && fired[t.ID] {
			continue
		}
		kept = append(kept, t)
	}
	tm.triggers = kept

	return activations
}
