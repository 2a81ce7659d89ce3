package battle

import (
	"fmt"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// ValidateCardUse checks whether the player may play c against targetID:
// AP first, then fear, then target legality for c's target type. Unknown
// target types pass.
func ValidateCardUse(c card.Card, targetID string, s *Session) error {
	if c.APCost > s.AP {
		return fmt.Errorf("%w: %s costs %d, %d remaining", ErrInsufficientAP, c.Name, c.APCost, s.AP)
	}
	if c.Category == card.CategoryAttack && status.IsFeared(s.Player.Effects) {
		return fmt.Errorf("%w: %s cannot use %s", ErrFeared, s.Player.Name, c.Name)
	}
	switch c.Target() {
	case card.TargetSingleEnemy:
		if len(combat.Living(s.Enemies)) == 0 {
			return ErrNoLivingEnemy
		}
		if t := combat.Taunting(s.Enemies); t != nil && targetID != t.ID {
			return fmt.Errorf("%w: %s", ErrMustTargetTaunt, t.Name)
		}
		if targetID == "" {
			return ErrNoTarget
		}
		if e := s.Enemy(targetID); e == nil || !e.IsAlive() {
			return fmt.Errorf("%w: %q", ErrInvalidTarget, targetID)
		}
	case card.TargetAllEnemies, card.TargetRandomEnemy:
		if len(combat.Living(s.Enemies)) == 0 {
			return ErrNoLivingEnemy
		}
	case card.TargetSingleAlly:
		if targetID == "" {
			return ErrNoTarget
		}
		if s.Member(targetID) == nil {
			return fmt.Errorf("%w: %q", ErrInvalidTarget, targetID)
		}
	}
	return nil
}

// DefaultTarget resolves a target for c when the caller gives none. It returns
// "" for whole-group and self target types.
func DefaultTarget(c card.Card, s *Session) string {
	switch c.Target() {
	case card.TargetSingleEnemy:
		if e := combat.PickTarget(s.Enemies, s.TargetID); e != nil {
			return e.ID
		}
	case card.TargetSingleAlly:
		var best *combat.PartyMember
		for _, m := range s.Party {
			if m.CanAct() && (best == nil || m.Ratio() < best.Ratio()) {
				best = m
			}
		}
		if best != nil {
			return best.ID
		}
	}
	return ""
}
