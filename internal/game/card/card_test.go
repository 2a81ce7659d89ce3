package card_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

func TestIsHeal_Heuristics(t *testing.T) {
	assert.True(t, card.Card{Name: "回復の雫", Power: 0}.IsHeal())
	assert.True(t, card.Card{Name: "Minor Heal"}.IsHeal())
	assert.True(t, card.Card{Name: "Cure Wounds"}.IsHeal())
	assert.True(t, card.Card{Name: "ヒールライト"}.IsHeal())
	assert.True(t, card.Card{Name: "Strange Brew", Power: -10}.IsHeal())
	assert.False(t, card.Card{Name: "Slash", Power: 20}.IsHeal())
}

func TestIsHeal_ExplicitKindWins(t *testing.T) {
	assert.False(t, card.Card{Name: "Healing Spike", Power: 10, Kind: card.KindDamage}.IsHeal())
	assert.True(t, card.Card{Name: "Bandage", Kind: card.KindHeal}.IsHeal())
}

func TestIsMagic(t *testing.T) {
	assert.True(t, card.Card{Name: "Fireball"}.IsMagic())
	assert.True(t, card.Card{Name: "Ice Lance"}.IsMagic())
	assert.True(t, card.Card{Name: "炎の魔法"}.IsMagic())
	assert.False(t, card.Card{Name: "Slash"}.IsMagic())
	assert.False(t, card.Card{Name: "Fire Axe", DamageClass: card.Physical}.IsMagic())
	assert.True(t, card.Card{Name: "Hex", DamageClass: card.Magical}.IsMagic())
}

func TestResolvedKind(t *testing.T) {
	assert.Equal(t, card.KindBuff, card.Card{Name: "Rally", EffectID: status.AtkUp}.ResolvedKind())
	assert.Equal(t, card.KindDebuff, card.Card{Name: "Venom", EffectID: status.Poison}.ResolvedKind())
	assert.Equal(t, card.KindHeal, card.Card{Name: "Potion", Power: -20}.ResolvedKind())
	assert.Equal(t, card.KindHeal, card.Card{Name: "Heal"}.ResolvedKind())
	assert.Equal(t, card.KindDamage, card.Card{Name: "Slash", Power: 20}.ResolvedKind())
	assert.Equal(t, card.KindDamage, card.Card{Name: "Healing Spike", Power: 5}.ResolvedKind(),
		"positive power is an attack even with a heal-like name")
}

func TestHealAmount(t *testing.T) {
	assert.Equal(t, 15, card.Card{Power: -15}.HealAmount())
	assert.Equal(t, card.DefaultHeal, card.Card{}.HealAmount())
	assert.Equal(t, 7, card.Card{Power: 7, Kind: card.KindHeal}.HealAmount())
}

func TestInferTargetType(t *testing.T) {
	assert.Equal(t, card.TargetSelf, card.InferTargetType(card.Card{EffectID: status.DefUp}))
	assert.Equal(t, card.TargetSingleEnemy, card.InferTargetType(card.Card{EffectID: status.Stun}))
	assert.Equal(t, card.TargetSelf, card.InferTargetType(card.Card{Category: card.CategoryItem}))
	assert.Equal(t, card.TargetSingleEnemy, card.InferTargetType(card.Card{Category: card.CategoryAttack}))
	assert.Equal(t, card.TargetAllEnemies, card.Card{TargetType: card.TargetAllEnemies}.Target())
}

func TestExhausts(t *testing.T) {
	assert.True(t, card.Card{Category: card.CategoryNoise}.Exhausts())
	assert.True(t, card.Card{Category: card.CategoryItem, IsEquipment: true}.Exhausts())
	assert.False(t, card.Card{Category: card.CategoryItem}.Exhausts())
	assert.False(t, card.Card{Category: card.CategoryAttack, IsEquipment: true}.Exhausts())
}

func TestStruggle(t *testing.T) {
	s := card.Struggle()
	assert.Equal(t, 0, s.APCost)
	assert.Equal(t, 1, s.Power)
	assert.Equal(t, 1, s.SelfDamage)
	assert.True(t, s.Synthetic)
}

func TestDecode_DefaultsAPCost(t *testing.T) {
	cards, err := card.Decode(strings.NewReader(`
cards:
  - id: slash
    name: Slash
    category: Attack
    power: 20
  - id: meteor
    name: Meteor
    category: Skill
    ap_cost: 6
    power: 40
    damage_class: magical
`))
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 1, cards[0].APCost)
	assert.Equal(t, 6, cards[1].APCost)
	assert.True(t, cards[1].IsMagic())
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := card.Decode(strings.NewReader("cards:\n  - id: x\n    name: X\n    category: Attack\n    mana: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, card.Card{}.Validate())
	assert.Error(t, card.Card{ID: "x", Name: "X", Category: "Spell"}.Validate())
	assert.Error(t, card.Card{ID: "x", Name: "X", Category: card.CategoryAttack, APCost: -1}.Validate())
	assert.Error(t, card.Card{ID: "x", Name: "X", Category: card.CategoryAttack, DiscardCost: 1}.Validate())
	assert.Error(t, card.Card{ID: "x", Name: "X", Category: card.CategoryAttack, EffectID: "charm"}.Validate())
	assert.NoError(t, card.Card{ID: "x", Name: "X", Category: card.CategoryNoise, DiscardCost: 1}.Validate())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.yaml"), []byte(`
cards:
  - id: slash
    name: Slash
    category: Attack
    power: 20
  - id: drop
    name: 回復の雫
    category: Item
    power: -15
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	reg, err := card.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	found, missing := reg.ResolveAll([]string{"slash", "nope", "drop"})
	assert.Len(t, found, 2)
	assert.Equal(t, []string{"nope"}, missing)
	assert.Equal(t, "drop", reg.All()[0].ID)
}

func TestLoadDirectory_InvalidCard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("cards:\n  - id: bad\n    category: Attack\n"), 0o644))
	_, err := card.LoadDirectory(dir)
	assert.Error(t, err)
}
