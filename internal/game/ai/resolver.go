package ai

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/deck"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

const (
	// DefaultAPRegen and DefaultAPCap govern a member's private AP pool.
	DefaultAPRegen = 5
	DefaultAPCap   = 10

	// smartReserveCost is the card cost a smart member saves AP for.
	smartReserveCost = 5

	healThreshold = 0.5
	buffThreshold = 0.7
)

// basicAttackDice is the baseline fallback damage, 8 to 12.
var basicAttackDice = dice.MustParse("1d5+7")

// Context is the slice of battle state a party member acts on. ResolveTurn
// mutates the units in place; callers pass in copies they own.
type Context struct {
	Player  *combat.Player
	Party   []*combat.PartyMember
	Enemies []*combat.Enemy
	// TargetID is the battle's current enemy target; updated when it dies.
	TargetID string
	Src      dice.Source
	APRegen  int
	APCap    int
}

func (c *Context) regen() (int, int) {
	r, limit := c.APRegen, c.APCap
	if r <= 0 {
		r = DefaultAPRegen
	}
	if limit <= 0 {
		limit = DefaultAPCap
	}
	return r, limit
}

// turn carries one member's resolution.
type turn struct {
	m       *combat.PartyMember
	ctx     *Context
	role    Role
	grade   Grade
	actions []Action
}

// ResolveTurn runs m's full action sequence against ctx.
//
// Precondition: m is one of ctx.Party; ctx.Src is non-nil.
// Postcondition: m.AP >= 0; every returned action has been applied.
func ResolveTurn(m *combat.PartyMember, ctx *Context) []Action {
	if !m.CanAct() {
		return nil
	}
	t := &turn{m: m, ctx: ctx, role: DetermineRole(m), grade: DetermineGrade(m)}
	if status.IsStunned(m.Effects) {
		t.add(Action{Kind: ActionSkip, Narrative: fmt.Sprintf("%s is stunned and cannot act.", m.Name)})
		return t.actions
	}

	regen, limit := ctx.regen()
	m.AP = min(m.AP+regen, limit)
	m.Used = make(map[string]bool)

	if len(m.Deck) == 0 {
		t.basicAttack()
		return t.actions
	}
	if t.role == Medic {
		t.heal()
	}
	if t.grade == Smart && t.shouldWait() {
		t.add(Action{Kind: ActionPass, Narrative: fmt.Sprintf("%s bides their time.", m.Name)})
		return t.actions
	}
	t.buff()
	t.spend()
	if len(t.actions) == 0 {
		t.basicAttack()
	}
	return t.actions
}

func (t *turn) add(a Action) {
	a.ActorID = t.m.ID
	a.APAfter = t.m.AP
	t.actions = append(t.actions, a)
}

func (t *turn) affordable(c card.Card) bool {
	return c.APCost <= t.m.AP && !t.m.Used[c.ID]
}

func (t *turn) pay(c card.Card) {
	t.m.AP -= c.APCost
	t.m.Used[c.ID] = true
}

// shouldWait reports whether a smart member passes: it saves for an expensive
// card, or nothing in its deck is playable right now.
func (t *turn) shouldWait() bool {
	anyAffordable := false
	for _, c := range t.m.Deck {
		if c.APCost >= smartReserveCost && t.m.AP < smartReserveCost {
			return true
		}
		if t.affordable(c) {
			anyAffordable = true
		}
	}
	return !anyAffordable
}

// heal casts one heal card on the player when below half HP, else on the most
// hurt other active ally below half durability.
func (t *turn) heal() {
	target := t.hurtTarget(healThreshold)
	if target == "" {
		return
	}
	for _, c := range t.m.Deck {
		if c.ResolvedKind() == card.KindHeal && t.affordable(c) {
			t.pay(c)
			t.restore(c, target)
			return
		}
	}
}

// hurtTarget returns the player's id when their HP ratio is below threshold,
// otherwise the lowest-ratio other active ally below it, otherwise "".
func (t *turn) hurtTarget(threshold float64) string {
	if p := t.ctx.Player; p != nil && p.IsAlive() && p.Ratio() < threshold {
		return combat.PlayerID
	}
	best, bestRatio := "", threshold
	for _, ally := range t.ctx.Party {
		if ally.ID == t.m.ID || !ally.CanAct() {
			continue
		}
		if r := ally.Ratio(); r < bestRatio {
			best, bestRatio = ally.ID, r
		}
	}
	return best
}

func (t *turn) ally(id string) *combat.PartyMember {
	for _, a := range t.ctx.Party {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (t *turn) restore(c card.Card, targetID string) {
	amount := c.HealAmount()
	var name string
	var gained int
	if targetID == combat.PlayerID {
		gained = t.ctx.Player.Heal(amount)
		name = t.ctx.Player.Name
	} else if a := t.ally(targetID); a != nil {
		gained = a.Heal(amount)
		name = a.Name
	}
	t.add(Action{Kind: ActionHeal, CardID: c.ID, TargetID: targetID, Amount: gained,
		Narrative: fmt.Sprintf("%s casts %s on %s, restoring %d.", t.m.Name, c.Name, name, gained)})
}

// buff plays at most one role-appropriate buff card.
func (t *turn) buff() {
	var want []status.ID
	targetID := t.m.ID
	switch t.role {
	case Striker:
		want = []status.ID{status.AtkUp}
	case Guardian:
		want = []status.ID{status.DefUp}
	case Medic:
		targetID = t.hurtTarget(buffThreshold)
		if targetID == "" {
			return
		}
		want = []status.ID{status.Regen, status.DefUp}
	}
	for _, c := range t.m.Deck {
		if c.ResolvedKind() == card.KindBuff && slices.Contains(want, c.EffectID) && t.affordable(c) {
			t.pay(c)
			t.applyBuff(c, targetID)
			return
		}
	}
}

func (t *turn) applyBuff(c card.Card, targetID string) {
	name := t.m.Name
	switch {
	case targetID == combat.PlayerID:
		t.ctx.Player.Effects = status.Apply(t.ctx.Player.Effects, c.EffectID, c.Duration())
		name = t.ctx.Player.Name
	case t.ally(targetID) != nil:
		a := t.ally(targetID)
		a.Effects = status.Apply(a.Effects, c.EffectID, c.Duration())
		name = a.Name
	}
	t.add(Action{Kind: ActionBuff, CardID: c.ID, TargetID: targetID, Effect: c.EffectID,
		Narrative: fmt.Sprintf("%s uses %s: %s gains %s.", t.m.Name, c.Name, name, c.EffectID.Name())})
}

// spend plays affordable non-buff cards, most expensive first, until AP or
// targets run out.
func (t *turn) spend() {
	cands := make([]card.Card, 0, len(t.m.Deck))
	for _, c := range t.m.Deck {
		if c.ResolvedKind() != card.KindBuff {
			cands = append(cands, c)
		}
	}
	if t.grade == Random {
		deck.Shuffle(cands, t.ctx.Src)
	}
	slices.SortStableFunc(cands, func(a, b card.Card) int { return cmp.Compare(b.APCost, a.APCost) })

	feared := status.IsFeared(t.m.Effects)
	for _, c := range cands {
		if !t.affordable(c) {
			continue
		}
		if feared && c.Category == card.CategoryAttack {
			continue
		}
		if !t.execute(c) {
			continue
		}
		if len(combat.Living(t.ctx.Enemies)) == 0 {
			return
		}
	}
}

// execute resolves a non-buff card. It reports false when the card had nothing
// useful to do and was not played. Damage cards also apply their effect: a
// hostile one to the struck enemy, a self-targeted one to the caster.
func (t *turn) execute(c card.Card) bool {
	kind := c.ResolvedKind()
	if kind == card.KindHeal {
		target := t.hurtTarget(1)
		if target == "" {
			return false
		}
		t.pay(c)
		t.restore(c, target)
		return true
	}
	effectOnly := kind != card.KindDamage && c.EffectID != ""
	if effectOnly && c.EffectID.SelfTargeted() {
		t.pay(c)
		t.applyBuff(c, t.m.ID)
		return true
	}

	enemy := combat.PickTarget(t.ctx.Enemies, t.ctx.TargetID)
	if enemy == nil {
		return false
	}
	t.pay(c)
	if effectOnly {
		t.afflict(c, enemy)
		return true
	}
	magic := c.IsMagic()
	dmg := combat.CalculateDamage(c.Power, enemy.Def, t.m.Effects, enemy.Effects, magic, 0)
	dealt := enemy.ApplyDamage(dmg)
	a := Action{Kind: ActionAttack, CardID: c.ID, TargetID: enemy.ID, Amount: dealt, Magic: magic,
		Narrative: fmt.Sprintf("%s uses %s on %s for %d damage.", t.m.Name, c.Name, enemy.Name, dealt)}
	t.settle(&a, enemy)
	t.add(a)
	switch {
	case c.EffectID.SelfTargeted():
		t.applyBuff(c, t.m.ID)
	case c.EffectID != "" && enemy.IsAlive():
		t.afflict(c, enemy)
	}
	return true
}

func (t *turn) afflict(c card.Card, enemy *combat.Enemy) {
	enemy.Effects = status.Apply(enemy.Effects, c.EffectID, c.Duration())
	t.add(Action{Kind: ActionDebuff, CardID: c.ID, TargetID: enemy.ID, Effect: c.EffectID,
		Narrative: fmt.Sprintf("%s uses %s: %s is afflicted with %s.", t.m.Name, c.Name, enemy.Name, c.EffectID.Name())})
}

// basicAttack is the class-flavoured fallback when no card was played.
func (t *turn) basicAttack() {
	if status.IsFeared(t.m.Effects) {
		t.add(Action{Kind: ActionPass, Narrative: fmt.Sprintf("%s is too frightened to attack.", t.m.Name)})
		return
	}
	enemy := combat.PickTarget(t.ctx.Enemies, t.ctx.TargetID)
	if enemy == nil {
		return
	}
	base := dice.Roll(basicAttackDice, t.ctx.Src).Total()
	magic := false
	switch job := strings.ToLower(t.m.JobClass); job {
	case "warrior", "戦士":
		base += 5
	case "mage", "魔法使い":
		base += 8
		magic = true
	}
	dmg := combat.CalculateDamage(base, enemy.Def, t.m.Effects, enemy.Effects, magic, 0)
	dealt := enemy.ApplyDamage(dmg)
	a := Action{Kind: ActionBasicAttack, TargetID: enemy.ID, Amount: dealt, Magic: magic,
		Narrative: fmt.Sprintf("%s attacks %s for %d damage.", t.m.Name, enemy.Name, dealt)}
	t.settle(&a, enemy)
	t.add(a)
}

// settle marks a kill and moves the battle's target off a dead enemy. The
// battle narrates the defeat itself.
func (t *turn) settle(a *Action, enemy *combat.Enemy) {
	if enemy.IsAlive() {
		return
	}
	a.Killed = true
	if next := combat.PickTarget(t.ctx.Enemies, t.ctx.TargetID); next != nil {
		t.ctx.TargetID = next.ID
	}
}
