package battle

import (
	"github.com/cory-johannsen/deckbattle/internal/game/ai"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/npc"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// Wait ends the player action phase without spending AP.
func (c *Controller) Wait() (Result, error) {
	return c.run("wait", func(tx *txn) error {
		if tx.s.Over() || tx.s.Phase != PhasePlayerAction {
			return errIgnored
		}
		tx.log("%s waits.", tx.s.Player.Name)
		tx.endTurn()
		return nil
	})
}

// EndTurn closes the player action phase: it advances the turn counter,
// regenerates AP, ticks every unit's status effects, refills the hand and
// hands over to the party AI phase.
func (c *Controller) EndTurn() (Result, error) {
	return c.run("end_turn", func(tx *txn) error {
		if tx.s.Over() || tx.s.Phase != PhasePlayerAction {
			return errIgnored
		}
		tx.endTurn()
		return nil
	})
}

func (tx *txn) endTurn() {
	s := tx.s
	s.Turn++
	if s.Turn > tx.rules.MaxTurns {
		tx.end(OutcomeTimeOver, "Time is up. The battle is lost.")
		return
	}
	tx.log("-- Turn %d --", s.Turn)

	if status.IsStunned(s.Player.Effects) {
		tx.log("%s is stunned and recovers no AP.", s.Player.Name)
	} else {
		s.AP = min(s.AP+tx.rules.APRegen, tx.rules.APCap)
	}

	p := s.Player
	p.Effects = tx.tick(p.Name, p.Effects, p.MaxHP, p.Heal, p.ApplyDamage)
	for _, e := range s.Enemies {
		if e.IsAlive() {
			e.Effects = tx.tick(e.Name, e.Effects, e.MaxHP, e.Heal, e.ApplyDamage)
		}
	}
	for _, m := range s.Party {
		if m.CanAct() {
			m.Effects = tx.tick(m.Name, m.Effects, m.MaxDurability, m.Heal, m.ApplyDamage)
		}
	}
	s.VitalityDrained = false

	tx.settle()
	if tx.checkOutcome() {
		return
	}
	res := s.Piles.Deal(tx.rules.HandSize, tx.src)
	if res.Reshuffled {
		tx.log("The discard pile is shuffled back into the deck.")
	}
	if res.Struggle {
		tx.log("Out of cards! %s can only Struggle.", s.Player.Name)
	}
	s.Phase = PhasePartyAI
}

// tick runs one unit's end-of-turn status processing and returns its new
// effect list.
func (tx *txn) tick(name string, effects []status.Effect, maxHP int, heal, hurt func(int) int) []status.Effect {
	bleed := status.GetBleedDamage(effects)
	res := status.Tick(effects, maxHP, name)
	switch {
	case res.HPDelta > 0:
		if n := heal(res.HPDelta); n > 0 {
			tx.log("%s regenerates %d.", name, n)
		}
	case res.HPDelta < 0:
		tx.log("%s suffers %d poison damage.", name, hurt(-res.HPDelta))
	}
	if bleed > 0 {
		tx.log("%s bleeds for %d.", name, hurt(bleed))
	}
	for _, m := range res.Messages {
		tx.log("%s", m)
	}
	return res.Effects
}

// ProcessPartyTurn resolves every party member's turn in list order.
func (c *Controller) ProcessPartyTurn() (Result, error) {
	return c.run("party_turn", func(tx *txn) error {
		s := tx.s
		if s.Over() || s.Phase != PhasePartyAI {
			return errIgnored
		}
		for _, m := range s.Party {
			ctx := &ai.Context{
				Player:   s.Player,
				Party:    s.Party,
				Enemies:  s.Enemies,
				TargetID: s.TargetID,
				Src:      tx.src,
				APRegen:  tx.rules.NPCAPRegen,
				APCap:    tx.rules.NPCAPCap,
			}
			for _, a := range ai.ResolveTurn(m, ctx) {
				tx.log("%s", a.Narrative)
			}
			s.TargetID = ctx.TargetID
			tx.settle()
			if tx.checkOutcome() {
				return nil
			}
		}
		s.Phase = PhaseEnemy
		return nil
	})
}

// ProcessEnemyTurn has every living enemy attack once.
func (c *Controller) ProcessEnemyTurn() (Result, error) {
	return c.run("enemy_turn", func(tx *txn) error {
		if tx.s.Over() || tx.s.Phase != PhaseEnemy {
			return errIgnored
		}
		tx.enemyPhase()
		return nil
	})
}

// enemyPhase routes each living enemy's attack and applies it. It leaves the
// session in the player action phase unless the player falls.
func (tx *txn) enemyPhase() {
	s := tx.s
	for _, e := range s.Enemies {
		if !e.IsAlive() {
			continue
		}
		if status.IsStunned(e.Effects) {
			tx.log("%s is stunned and cannot attack.", e.Name)
			continue
		}
		attack := e.AttackValue()
		if status.IsFeared(e.Effects) {
			attack /= 2
		}
		route := combat.RouteAttack(s.Party, tx.src)
		dmg := combat.Mitigate(attack, route, s.Player, e.Effects)
		if route.Covered() {
			m := route.Cover
			tx.log("%s shields %s and takes %d damage from %s.", m.Name, s.Player.Name, m.ApplyDamage(dmg), e.Name)
			if m.Durability == 0 {
				tx.log("%s can no longer fight.", m.Name)
			}
			continue
		}
		dealt := s.Player.ApplyDamage(dmg)
		tx.log("%s attacks %s for %d damage.", e.Name, s.Player.Name, dealt)
		if dealt > 0 && e.HasTrait(npc.TraitDrainVitality) && !s.VitalityDrained && s.Player.Vitality > 0 {
			s.Player.Vitality--
			s.VitalityDrained = true
			tx.log("%s drains %s's vitality.", e.Name, s.Player.Name)
		}
		if !s.Player.IsAlive() {
			tx.end(OutcomeDefeat, s.Player.Name+" has fallen...")
			return
		}
	}
	s.Phase = PhasePlayerAction
}

// Flee tries to escape. On failure every enemy retaliates at once and the
// turn counter does not advance.
func (c *Controller) Flee() (Result, error) {
	return c.run("flee", func(tx *txn) error {
		s := tx.s
		if s.Over() || s.Phase != PhasePlayerAction {
			return errIgnored
		}
		if dice.Chance(tx.src, tx.rules.FleeChance) {
			tx.end(OutcomeFled, s.Player.Name+" escaped!")
			return nil
		}
		tx.log("%s failed to escape!", s.Player.Name)
		tx.enemyPhase()
		return nil
	})
}
