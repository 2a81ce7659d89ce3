// Package card defines battle cards, their classification heuristics and the
// content registry that resolves card ids.
package card

import (
	"strings"

	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// Category groups cards by origin and disposition rules.
type Category string

const (
	CategoryAttack      Category = "Attack"
	CategorySkill       Category = "Skill"
	CategoryItem        Category = "Item"
	CategoryBasic       Category = "Basic"
	CategoryPersonality Category = "Personality"
	CategoryNoise       Category = "Noise"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAttack, CategorySkill, CategoryItem, CategoryBasic, CategoryPersonality, CategoryNoise:
		return true
	}
	return false
}

// TargetType selects which units a card may be aimed at.
type TargetType string

const (
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetRandomEnemy TargetType = "random_enemy"
	TargetSelf        TargetType = "self"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
)

// Hostile reports whether t aims at enemies.
func (t TargetType) Hostile() bool {
	return t == TargetSingleEnemy || t == TargetAllEnemies || t == TargetRandomEnemy
}

// EffectKind is the explicit resolution class of a card. The zero value means
// "infer from the legacy name heuristics".
type EffectKind string

const (
	KindDamage EffectKind = "damage"
	KindHeal   EffectKind = "heal"
	KindBuff   EffectKind = "buff"
	KindDebuff EffectKind = "debuff"
)

// DamageClass marks whether defense mitigates the card. The zero value means
// "infer from the name".
type DamageClass string

const (
	Physical DamageClass = "physical"
	Magical  DamageClass = "magical"
)

// DefaultHeal is the amount healed by a heal card with zero power.
const DefaultHeal = 15

// Card is one playable card. Definitions come from the Registry; the copies in
// a battle's piles additionally carry a unique InstanceID. APCost is decoded
// through fileCard so that an omitted ap_cost defaults to 1.
type Card struct {
	ID             string      `yaml:"id" json:"id"`
	InstanceID     string      `yaml:"-" json:"instance_id,omitempty"`
	Name           string      `yaml:"name" json:"name"`
	Category       Category    `yaml:"category" json:"category"`
	APCost         int         `yaml:"-" json:"ap_cost"`
	Power          int         `yaml:"power" json:"power"`
	SelfDamage     int         `yaml:"self_damage" json:"self_damage,omitempty"`
	EffectID       status.ID   `yaml:"effect_id" json:"effect_id,omitempty"`
	EffectDuration int         `yaml:"effect_duration" json:"effect_duration,omitempty"`
	TargetType     TargetType  `yaml:"target_type" json:"target_type,omitempty"`
	DiscardCost    int         `yaml:"discard_cost" json:"discard_cost,omitempty"`
	IsEquipment    bool        `yaml:"is_equipment" json:"is_equipment,omitempty"`
	Kind           EffectKind  `yaml:"effect_kind" json:"effect_kind,omitempty"`
	DamageClass    DamageClass `yaml:"damage_class" json:"damage_class,omitempty"`
	// Synthetic cards are injected by the engine and never counted or recycled.
	Synthetic bool `yaml:"-" json:"synthetic,omitempty"`
}

var (
	healWords  = []string{"heal", "cure", "回復", "ヒール"}
	magicWords = []string{"魔法", "magic", "fire", "ice"}
)

func containsAny(name string, words []string) bool {
	lower := strings.ToLower(name)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// HealName reports whether name matches the heal heuristic.
func HealName(name string) bool { return containsAny(name, healWords) }

// IsHeal reports whether c heals. An explicit Kind wins; otherwise a
// heal-like name or negative power marks a heal.
func (c Card) IsHeal() bool {
	if c.Kind != "" {
		return c.Kind == KindHeal
	}
	return HealName(c.Name) || c.Power < 0
}

// IsMagic reports whether c bypasses defense.
func (c Card) IsMagic() bool {
	if c.DamageClass != "" {
		return c.DamageClass == Magical
	}
	return containsAny(c.Name, magicWords)
}

// ResolvedKind returns the explicit Kind or the inferred one.
func (c Card) ResolvedKind() EffectKind {
	if c.Kind != "" {
		return c.Kind
	}
	if c.EffectID != "" {
		if c.EffectID.SelfTargeted() {
			return KindBuff
		}
		return KindDebuff
	}
	if c.Power <= 0 && c.IsHeal() {
		return KindHeal
	}
	return KindDamage
}

// HealAmount returns |Power|, or DefaultHeal when Power is zero.
func (c Card) HealAmount() int {
	switch {
	case c.Power < 0:
		return -c.Power
	case c.Power > 0:
		return c.Power
	default:
		return DefaultHeal
	}
}

// Duration returns EffectDuration, or status.DefaultDuration when unset.
func (c Card) Duration() int {
	if c.EffectDuration > 0 {
		return c.EffectDuration
	}
	return status.DefaultDuration
}

// InferTargetType picks a target type for a card without an explicit one.
func InferTargetType(c Card) TargetType {
	switch {
	case c.EffectID != "" && c.EffectID.SelfTargeted():
		return TargetSelf
	case c.EffectID != "":
		return TargetSingleEnemy
	case c.Category == CategoryItem:
		return TargetSelf
	default:
		return TargetSingleEnemy
	}
}

// Target returns the explicit TargetType or the inferred one.
func (c Card) Target() TargetType {
	if c.TargetType != "" {
		return c.TargetType
	}
	return InferTargetType(c)
}

// Exhausts reports whether playing or discarding c removes it from the cycle.
func (c Card) Exhausts() bool {
	return c.Category == CategoryNoise || (c.IsEquipment && c.Category == CategoryItem)
}

// StruggleID is the id of the synthetic fallback card.
const StruggleID = "struggle"

// Struggle returns the synthetic card injected when deck, discard and hand are
// all empty.
func Struggle() Card {
	return Card{
		ID:         StruggleID,
		InstanceID: StruggleID,
		Name:       "Struggle",
		Category:   CategoryBasic,
		APCost:     0,
		Power:      1,
		SelfDamage: 1,
		TargetType: TargetSingleEnemy,
		Kind:       KindDamage,
		Synthetic:  true,
	}
}
