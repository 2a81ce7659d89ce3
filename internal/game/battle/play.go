package battle

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// PlayCard plays the hand card instanceID against targetID. An empty targetID
// is resolved with DefaultTarget. Any number of cards may be played in one
// player action phase while AP lasts.
func (c *Controller) PlayCard(instanceID, targetID string) (Result, error) {
	return c.run("play_card", func(tx *txn) error {
		s := tx.s
		if s.Over() || s.Phase != PhasePlayerAction {
			return errIgnored
		}
		cd, ok := s.Piles.Find(instanceID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrCardNotInHand, instanceID)
		}
		if cd.Category == card.CategoryNoise {
			return fmt.Errorf("%w: %s can only be discarded", ErrUnplayable, cd.Name)
		}
		if targetID == "" {
			targetID = DefaultTarget(cd, s)
		}
		if err := ValidateCardUse(cd, targetID, s); err != nil {
			if errors.Is(err, ErrNoLivingEnemy) {
				return errIgnored
			}
			return err
		}

		s.Piles.Take(instanceID)
		s.AP -= cd.APCost
		tx.log("%s plays %s.", s.Player.Name, cd.Name)
		tx.resolve(cd, targetID)
		if cd.SelfDamage > 0 {
			lost := s.Player.ApplyDamage(cd.SelfDamage)
			tx.log("%s takes %d recoil damage.", s.Player.Name, lost)
		}
		s.Piles.Dispose(cd)
		tx.settle()
		tx.checkOutcome()
		return nil
	})
}

// ExhaustNoise pays a Noise card's discard cost and removes it from the battle.
func (c *Controller) ExhaustNoise(instanceID string) (Result, error) {
	return c.run("exhaust_noise", func(tx *txn) error {
		s := tx.s
		if s.Over() || s.Phase != PhasePlayerAction {
			return errIgnored
		}
		cd, ok := s.Piles.Find(instanceID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrCardNotInHand, instanceID)
		}
		if cd.Category != card.CategoryNoise {
			return fmt.Errorf("%w: only Noise cards can be exhausted", ErrUnplayable)
		}
		if cd.DiscardCost > s.AP {
			return fmt.Errorf("%w: discarding %s costs %d, %d remaining", ErrInsufficientAP, cd.Name, cd.DiscardCost, s.AP)
		}
		s.Piles.Take(instanceID)
		s.AP -= cd.DiscardCost
		s.Piles.Dispose(cd)
		tx.log("%s shakes off %s.", s.Player.Name, cd.Name)
		return nil
	})
}

// resolve applies a validated card's combat effect.
func (tx *txn) resolve(cd card.Card, targetID string) {
	s := tx.s
	switch cd.ResolvedKind() {
	case card.KindHeal:
		amount := cd.HealAmount()
		if m := s.Member(targetID); m != nil && cd.Target() == card.TargetSingleAlly {
			tx.log("%s recovers %d durability.", m.Name, m.Heal(amount))
			return
		}
		tx.log("%s recovers %d HP.", s.Player.Name, s.Player.Heal(amount))
	case card.KindBuff, card.KindDebuff:
		if !cd.Target().Hostile() {
			tx.buff(cd, targetID)
			return
		}
		for _, e := range tx.enemyTargets(cd, targetID) {
			tx.afflict(cd, e)
		}
	default:
		for _, e := range tx.enemyTargets(cd, targetID) {
			dmg := combat.CalculateDamage(cd.Power, e.Def, s.Player.Effects, e.Effects, cd.IsMagic(), s.Player.Attack)
			tx.log("%s takes %d damage.", e.Name, e.ApplyDamage(dmg))
			if cd.EffectID != "" && !cd.EffectID.SelfTargeted() {
				tx.afflict(cd, e)
			}
		}
		if cd.EffectID.SelfTargeted() {
			tx.buff(cd, combat.PlayerID)
		}
	}
}

func (tx *txn) buff(cd card.Card, targetID string) {
	s := tx.s
	if cd.EffectID == "" {
		return
	}
	apply := func(name string, effects *[]status.Effect) {
		*effects = status.Apply(*effects, cd.EffectID, cd.Duration())
		tx.log("%s gains %s for %d turns.", name, cd.EffectID.Name(), cd.Duration())
	}
	switch cd.Target() {
	case card.TargetSingleAlly:
		if m := s.Member(targetID); m != nil {
			apply(m.Name, &m.Effects)
			return
		}
	case card.TargetAllAllies:
		apply(s.Player.Name, &s.Player.Effects)
		for _, m := range s.Party {
			if m.CanAct() {
				apply(m.Name, &m.Effects)
			}
		}
		return
	}
	apply(s.Player.Name, &s.Player.Effects)
}

func (tx *txn) afflict(cd card.Card, e *combat.Enemy) {
	if cd.EffectID == "" || !e.IsAlive() {
		return
	}
	e.Effects = status.Apply(e.Effects, cd.EffectID, cd.Duration())
	tx.log("%s is afflicted with %s for %d turns.", e.Name, cd.EffectID.Name(), cd.Duration())
}

// enemyTargets expands a hostile card's target type into living enemies.
func (tx *txn) enemyTargets(cd card.Card, targetID string) []*combat.Enemy {
	living := combat.Living(tx.s.Enemies)
	if len(living) == 0 {
		return nil
	}
	switch cd.Target() {
	case card.TargetAllEnemies:
		return living
	case card.TargetRandomEnemy:
		return []*combat.Enemy{living[tx.src.Intn(len(living))]}
	}
	if e := tx.s.Enemy(targetID); e != nil && e.IsAlive() {
		return []*combat.Enemy{e}
	}
	return []*combat.Enemy{combat.PickTarget(tx.s.Enemies, tx.s.TargetID)}
}

// settle narrates newly slain enemies, rolls their drops and moves the target
// off a dead enemy.
func (tx *txn) settle() {
	s := tx.s
	for _, e := range s.Enemies {
		if e.IsAlive() || e.Settled {
			continue
		}
		e.Settled = true
		s.Defeated = append(s.Defeated, e.TemplateID)
		tx.log("%s is defeated!", e.Name)
		if slug, ok := e.RollDrop(tx.src); ok {
			tx.log("%s dropped %s.", e.Name, slug)
			tx.emit(Effect{Kind: EffectGrantItem, ItemSlug: slug})
		}
	}
	if s.Target() == nil {
		s.TargetID = ""
		if next := combat.PickTarget(s.Enemies, ""); next != nil {
			s.TargetID = next.ID
		}
	}
}

// checkOutcome sets Victory when every enemy is dead, else Defeat when the
// player is. It reports whether the battle ended.
func (tx *txn) checkOutcome() bool {
	s := tx.s
	switch {
	case len(combat.Living(s.Enemies)) == 0:
		tx.end(OutcomeVictory, "Victory!")
		for _, slug := range s.Piles.Consumed {
			tx.emit(Effect{Kind: EffectConsumeItem, ItemSlug: slug})
		}
		tx.emit(Effect{Kind: EffectReportVictory, Victory: &VictoryReport{
			Action:     "victory",
			Impacts:    append([]string(nil), s.Defeated...),
			ScenarioID: s.ScenarioID,
		}})
		return true
	case !s.Player.IsAlive():
		tx.end(OutcomeDefeat, fmt.Sprintf("%s has fallen...", s.Player.Name))
		return true
	}
	return false
}

func (tx *txn) end(o Outcome, line string) {
	tx.s.Outcome = o
	tx.s.Phase = PhaseOver
	tx.log("%s", line)
}
