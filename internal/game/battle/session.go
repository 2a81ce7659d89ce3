// Package battle is the turn controller: it owns one battle session, runs the
// player action, party AI and enemy phases over it, and reports the external
// effects each transition produces.
package battle

import (
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/deck"
)

// Phase is the controller's position in the turn cycle.
type Phase string

const (
	PhasePlayerAction Phase = "player_action"
	PhasePartyAI      Phase = "party_ai"
	PhaseEnemy        Phase = "enemy"
	// PhaseOver is entered together with a terminal Outcome.
	PhaseOver Phase = "over"
)

// Outcome is a battle's terminal result; empty while the battle runs.
type Outcome string

const (
	OutcomeVictory  Outcome = "victory"
	OutcomeDefeat   Outcome = "defeat"
	OutcomeFled     Outcome = "fled"
	OutcomeTimeOver Outcome = "time_over"
)

// Session is the complete state of one battle. The controller never mutates a
// Session it has handed out; every operation produces a new one.
//
// Invariant: 0 <= AP <= Rules.APCap; Outcome != "" iff Phase == PhaseOver.
type Session struct {
	ID         string                `json:"id"`
	ScenarioID string                `json:"scenario_id,omitempty"`
	Turn       int                   `json:"turn"`
	AP         int                   `json:"ap"`
	Player     *combat.Player        `json:"player"`
	Enemies    []*combat.Enemy       `json:"enemies"`
	Party      []*combat.PartyMember `json:"party"`
	Piles      *deck.Piles           `json:"piles"`
	TargetID   string                `json:"target_id,omitempty"`
	Phase      Phase                 `json:"phase"`
	Outcome    Outcome               `json:"outcome,omitempty"`
	Log        []string              `json:"log"`
	// Defeated lists the template ids of slain enemies in kill order.
	Defeated []string `json:"defeated,omitempty"`
	// VitalityDrained is set once a drain enemy has drained vitality this turn.
	VitalityDrained bool `json:"vitality_drained,omitempty"`
}

// Over reports whether the battle has reached a terminal outcome.
func (s *Session) Over() bool { return s.Outcome != "" }

// Enemy returns the enemy with unit id id, or nil.
func (s *Session) Enemy(id string) *combat.Enemy {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Member returns the party member with id id, or nil.
func (s *Session) Member(id string) *combat.PartyMember {
	for _, m := range s.Party {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Target returns the current target enemy when it is alive.
func (s *Session) Target() *combat.Enemy {
	if e := s.Enemy(s.TargetID); e != nil && e.IsAlive() {
		return e
	}
	return nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Player != nil {
		cp.Player = s.Player.Clone()
	}
	cp.Enemies = make([]*combat.Enemy, len(s.Enemies))
	for i, e := range s.Enemies {
		cp.Enemies[i] = e.Clone()
	}
	cp.Party = make([]*combat.PartyMember, len(s.Party))
	for i, m := range s.Party {
		cp.Party[i] = m.Clone()
	}
	if s.Piles != nil {
		cp.Piles = s.Piles.Clone()
	}
	cp.Log = append([]string(nil), s.Log...)
	cp.Defeated = append([]string(nil), s.Defeated...)
	return &cp
}
