package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/deckbattle/internal/game/ai"
	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return f.val % n }

var (
	healCard  = card.Card{ID: "heal", Name: "Heal", Category: card.CategorySkill, APCost: 2, Power: -15}
	slashCard = card.Card{ID: "slash", Name: "Slash", Category: card.CategoryAttack, APCost: 1, Power: 20}
	bigCard   = card.Card{ID: "meteor", Name: "Meteor", Category: card.CategoryAttack, APCost: 6, Power: 40}
	powerUp   = card.Card{ID: "power_up", Name: "Power Up", Category: card.CategorySkill, APCost: 1, EffectID: status.AtkUp}
	shield    = card.Card{ID: "shield", Name: "Shield", Category: card.CategorySkill, APCost: 1, EffectID: status.DefUp}
	hexCard   = card.Card{ID: "hex", Name: "Hex", Category: card.CategorySkill, APCost: 2, EffectID: status.Poison}

	rageStrike = card.Card{ID: "rage_strike", Name: "Rage Strike", Category: card.CategoryAttack, APCost: 1, Power: 20, EffectID: status.AtkUp, Kind: card.KindDamage}
	rendCard   = card.Card{ID: "rend", Name: "Rend", Category: card.CategoryAttack, APCost: 1, Power: 20, EffectID: status.Bleed, Kind: card.KindDamage}
)

func member(deck ...card.Card) *combat.PartyMember {
	return &combat.PartyMember{ID: "m1", Name: "Aria", Durability: 50, MaxDurability: 50,
		Active: true, Used: map[string]bool{}, Deck: deck}
}

func newContext(m *combat.PartyMember, playerHP int) *ai.Context {
	return &ai.Context{
		Player:  combat.NewPlayer("Hero", combat.Stats{HP: playerHP, MaxHP: 100}),
		Party:   []*combat.PartyMember{m},
		Enemies: []*combat.Enemy{{ID: "e1", Name: "Slime", HP: 200, MaxHP: 200, Def: 5}},
		Src:     fixedSrc{val: 0},
	}
}

func TestDetermineRole_GuardianRegardlessOfDeck(t *testing.T) {
	m := member(healCard)
	m.Def = 3
	assert.Equal(t, ai.Guardian, ai.DetermineRole(m))

	m = member()
	m.CoverRate = 30
	assert.Equal(t, ai.Guardian, ai.DetermineRole(m))
}

func TestDetermineRole_MedicByCardName(t *testing.T) {
	m := member(card.Card{ID: "drop", Name: "回復の雫", Category: card.CategoryItem, APCost: 1, Power: 10})
	m.CoverRate = 10
	assert.Equal(t, ai.Medic, ai.DetermineRole(m))
}

func TestDetermineRole_MedicByJob(t *testing.T) {
	m := member(slashCard)
	m.JobClass = "Cleric"
	assert.Equal(t, ai.Medic, ai.DetermineRole(m))
}

func TestDetermineRole_Striker(t *testing.T) {
	assert.Equal(t, ai.Striker, ai.DetermineRole(member(slashCard)))
}

func TestDetermineGrade(t *testing.T) {
	m := member()
	assert.Equal(t, ai.Random, ai.DetermineGrade(m))
	m.OriginType = party.OriginShadowHeroic
	assert.Equal(t, ai.Smart, ai.DetermineGrade(m))
}

func TestResolveTurn_MedicHealsPlayerFirst(t *testing.T) {
	m := member(healCard)
	m.AP = 10
	ctx := newContext(m, 40)

	actions := ai.ResolveTurn(m, ctx)
	require.NotEmpty(t, actions)
	first := actions[0]
	assert.Equal(t, ai.ActionHeal, first.Kind)
	assert.Equal(t, combat.PlayerID, first.TargetID)
	assert.Equal(t, 15, first.Amount)
	assert.Equal(t, 8, first.APAfter)
	assert.Equal(t, 55, ctx.Player.HP)
}

func TestResolveTurn_MedicHealsHurtAlly(t *testing.T) {
	m := member(healCard)
	ally := &combat.PartyMember{ID: "m2", Name: "Bram", Durability: 10, MaxDurability: 50, Active: true}
	ctx := newContext(m, 90)
	ctx.Party = append(ctx.Party, ally)

	actions := ai.ResolveTurn(m, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, "m2", actions[0].TargetID)
	assert.Equal(t, 25, ally.Durability)
}

func TestResolveTurn_SkipsInactiveAndStunned(t *testing.T) {
	m := member(slashCard)
	m.Active = false
	assert.Empty(t, ai.ResolveTurn(m, newContext(m, 100)))

	m = member(slashCard)
	m.Effects = status.Apply(nil, status.Stun, 1)
	actions := ai.ResolveTurn(m, newContext(m, 100))
	require.Len(t, actions, 1)
	assert.Equal(t, ai.ActionSkip, actions[0].Kind)
	assert.Zero(t, m.AP, "stunned members do not regenerate")
}

func TestResolveTurn_RegeneratesAndCapsAP(t *testing.T) {
	m := member(bigCard)
	m.AP = 8
	ctx := newContext(m, 100)
	ai.ResolveTurn(m, ctx)
	// capped at 10, then meteor spent 6
	assert.Equal(t, 4, m.AP)
}

func TestResolveTurn_SmartWaitsForExpensiveCard(t *testing.T) {
	m := member(bigCard, slashCard)
	m.OriginType = party.OriginShadowHeroic
	ctx := newContext(m, 100)
	ctx.APRegen = 3
	actions := ai.ResolveTurn(m, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, ai.ActionPass, actions[0].Kind)
	assert.Equal(t, 3, m.AP)
}

func TestResolveTurn_StrikerBuffsThenSpendsMostExpensiveFirst(t *testing.T) {
	m := member(slashCard, powerUp, hexCard)
	ctx := newContext(m, 100)
	actions := ai.ResolveTurn(m, ctx)
	require.Len(t, actions, 3)
	assert.Equal(t, ai.ActionBuff, actions[0].Kind)
	assert.True(t, status.Has(m.Effects, status.AtkUp))
	assert.Equal(t, ai.ActionDebuff, actions[1].Kind, "hex costs 2, slash costs 1")
	assert.True(t, status.Has(ctx.Enemies[0].Effects, status.Poison))
	assert.Equal(t, ai.ActionAttack, actions[2].Kind)
	assert.Equal(t, 25, actions[2].Amount, "20*1.5-5")
	assert.Equal(t, 1, m.AP)
}

func TestResolveTurn_DamageCardWithSelfEffectHitsAndBuffs(t *testing.T) {
	m := member(rageStrike)
	m.AP = 1
	ctx := newContext(m, 100)
	actions := ai.ResolveTurn(m, ctx)

	kinds := make([]ai.ActionKind, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.Kind)
	}
	require.Contains(t, kinds, ai.ActionAttack)
	assert.Less(t, ctx.Enemies[0].HP, 200)
	assert.True(t, status.Has(m.Effects, status.AtkUp))
}

func TestResolveTurn_DamageCardWithHostileEffectHitsAndAfflicts(t *testing.T) {
	m := member(rendCard)
	m.AP = 1
	ctx := newContext(m, 100)
	actions := ai.ResolveTurn(m, ctx)

	require.GreaterOrEqual(t, len(actions), 2)
	assert.Equal(t, ai.ActionAttack, actions[0].Kind)
	assert.Equal(t, 15, actions[0].Amount, "20-5")
	assert.Equal(t, ai.ActionDebuff, actions[1].Kind)
	assert.Equal(t, 185, ctx.Enemies[0].HP)
	assert.True(t, status.Has(ctx.Enemies[0].Effects, status.Bleed))
}

func TestResolveTurn_GuardianShieldsSelf(t *testing.T) {
	m := member(shield, slashCard)
	m.Def = 4
	ai.ResolveTurn(m, newContext(m, 100))
	assert.True(t, status.Has(m.Effects, status.DefUp))
}

func TestResolveTurn_FearedSkipsAttackCards(t *testing.T) {
	m := member(slashCard)
	m.Effects = status.Apply(nil, status.Fear, 2)
	actions := ai.ResolveTurn(m, newContext(m, 100))
	require.Len(t, actions, 1)
	assert.Equal(t, ai.ActionPass, actions[0].Kind)
}

func TestResolveTurn_EmptyDeckBasicAttack(t *testing.T) {
	m := member()
	m.JobClass = "Mage"
	ctx := newContext(m, 100)
	actions := ai.ResolveTurn(m, ctx)
	require.Len(t, actions, 1)
	a := actions[0]
	assert.Equal(t, ai.ActionBasicAttack, a.Kind)
	assert.True(t, a.Magic)
	// 1d5+7 with a zero roll is 8, +8 for mage, defense ignored.
	assert.Equal(t, 16, a.Amount)
}

func TestResolveTurn_KillRetargets(t *testing.T) {
	m := member(slashCard)
	ctx := newContext(m, 100)
	ctx.Enemies = []*combat.Enemy{
		{ID: "e1", Name: "Rat", HP: 5, MaxHP: 5},
		{ID: "e2", Name: "Slime", HP: 50, MaxHP: 50},
	}
	ctx.TargetID = "e1"
	actions := ai.ResolveTurn(m, ctx)
	require.NotEmpty(t, actions)
	assert.True(t, actions[0].Killed)
	assert.Equal(t, "e2", ctx.TargetID)
}

func TestResolveTurn_Property_BasicAttackInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := member()
		ctx := newContext(m, 100)
		ctx.Enemies[0].Def = 0
		ctx.Src = dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		actions := ai.ResolveTurn(m, ctx)
		require.Len(rt, actions, 1)
		assert.GreaterOrEqual(rt, actions[0].Amount, 8)
		assert.LessOrEqual(rt, actions[0].Amount, 12)
	})
}

func TestResolveTurn_Property_APNeverNegative(t *testing.T) {
	pool := []card.Card{healCard, slashCard, bigCard, powerUp, shield, hexCard}
	rapid.Check(t, func(rt *rapid.T) {
		var d []card.Card
		for _, i := range rapid.SliceOfN(rapid.IntRange(0, len(pool)-1), 0, 6).Draw(rt, "deck") {
			d = append(d, pool[i])
		}
		m := member(d...)
		m.AP = rapid.IntRange(0, 10).Draw(rt, "ap")
		m.Def = rapid.IntRange(0, 5).Draw(rt, "def")
		if rapid.Bool().Draw(rt, "smart") {
			m.OriginType = party.OriginShadowHeroic
		}
		ctx := newContext(m, rapid.IntRange(1, 100).Draw(rt, "hp"))
		ctx.Src = dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		for _, a := range ai.ResolveTurn(m, ctx) {
			assert.GreaterOrEqual(rt, a.APAfter, 0)
		}
		assert.GreaterOrEqual(rt, m.AP, 0)
		assert.LessOrEqual(rt, m.AP, ai.DefaultAPCap)
	})
}
