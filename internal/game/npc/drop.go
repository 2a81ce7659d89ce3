package npc

import "github.com/cory-johannsen/deckbattle/internal/game/dice"

// RollDrop rolls the template's drop chance once.
func (t *Template) RollDrop(src dice.Source) (slug string, ok bool) {
	return RollDrop(t.DropRate, t.DropItemSlug, src)
}

// RollDrop rolls a drop of itemSlug with probability rate.
//
// Postcondition: ok is false, and no draw is consumed, when itemSlug is empty.
func RollDrop(rate float64, itemSlug string, src dice.Source) (slug string, ok bool) {
	if itemSlug == "" || !dice.Probability(src, rate) {
		return "", false
	}
	return itemSlug, true
}
