package main

import (
	"context"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/game/card"
)

// autopilot drives c to an outcome. Each player phase it sheds affordable
// Noise cards, then plays the first playable card until none is left, then
// advances through the AI phases with pause between them.
//
// Postcondition: Returns the final snapshot; err is non-nil only when ctx
// ended the run early.
func autopilot(ctx context.Context, c *battle.Controller, pause battle.PauseFunc, out *narrator) (*battle.Session, error) {
	for {
		s := c.Snapshot()
		if s.Over() {
			return s, nil
		}
		if err := ctx.Err(); err != nil {
			return s, err
		}

		var (
			res battle.Result
			err error
		)
		switch s.Phase {
		case battle.PhasePlayerAction:
			if id, noise, ok := nextCard(s); ok {
				if noise {
					res, err = c.ExhaustNoise(id)
				} else {
					res, err = c.PlayCard(id, "")
				}
				out.lines(res.Log)
				if err == nil && !res.Ignored {
					continue
				}
			}
			res, err = battle.AutoAdvance(ctx, c, pause)
		case battle.PhasePartyAI:
			res, err = c.ProcessPartyTurn()
		case battle.PhaseEnemy:
			res, err = c.ProcessEnemyTurn()
		}
		out.lines(res.Log)
		if err != nil {
			return c.Snapshot(), err
		}
	}
}

// nextCard picks the hand card autopilot uses next: an affordable Noise card
// first, otherwise the first card that validates against its default target.
// Heals are held while the player is unhurt.
func nextCard(s *battle.Session) (instanceID string, noise, ok bool) {
	for _, cd := range s.Piles.Hand {
		if cd.Category == card.CategoryNoise && cd.DiscardCost <= s.AP {
			return cd.InstanceID, true, true
		}
	}
	for _, cd := range s.Piles.Hand {
		if cd.Category == card.CategoryNoise {
			continue
		}
		if cd.ResolvedKind() == card.KindHeal && cd.Target() != card.TargetSingleAlly && s.Player.HP >= s.Player.MaxHP {
			continue
		}
		if battle.ValidateCardUse(cd, battle.DefaultTarget(cd, s), s) == nil {
			return cd.InstanceID, false, true
		}
	}
	return "", false, false
}
