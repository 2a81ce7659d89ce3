package ai

import (
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// ActionKind names what a resolved action did.
type ActionKind string

const (
	ActionHeal        ActionKind = "heal"
	ActionBuff        ActionKind = "buff"
	ActionDebuff      ActionKind = "debuff"
	ActionAttack      ActionKind = "attack"
	ActionBasicAttack ActionKind = "basic_attack"
	ActionPass        ActionKind = "pass"
	ActionSkip        ActionKind = "skip"
)

// Action is one step of a resolved party member turn. Actions are already
// applied to the Context when ResolveTurn returns.
type Action struct {
	Kind     ActionKind `json:"kind"`
	ActorID  string     `json:"actor_id"`
	CardID   string     `json:"card_id,omitempty"`
	TargetID string     `json:"target_id,omitempty"`
	// Amount is damage dealt or HP/durability restored.
	Amount int       `json:"amount,omitempty"`
	Effect status.ID `json:"effect,omitempty"`
	Magic  bool      `json:"magic,omitempty"`
	// Killed is set when the action reduced its target to zero HP.
	Killed bool `json:"killed,omitempty"`
	// APAfter is the actor's AP once the action has been paid for.
	APAfter   int    `json:"ap_after"`
	Narrative string `json:"narrative"`
}
