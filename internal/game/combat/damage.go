package combat

import (
	"math"

	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// CalculateDamage resolves one hit:
//
//	raw   = (power + attackerBonus) * AttackMod(attacker)
//	raw   = max(0, raw - targetDef)            (physical only)
//	final = max(1, floor(raw * DefenseMod(defender)))
//
// Magic hits skip the defense subtraction.
//
// Postcondition: Returns >= 1.
func CalculateDamage(power, targetDef int, attacker, defender []status.Effect, magic bool, attackerBonus int) int {
	raw := float64(power+attackerBonus) * status.AttackMod(attacker)
	if !magic {
		raw = math.Max(0, raw-float64(targetDef))
	}
	final := int(math.Floor(raw * status.DefenseMod(defender)))
	if final < 1 {
		final = 1
	}
	return final
}
