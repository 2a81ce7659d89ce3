package status

// AttackMod returns 1.5 when atk_up is attached, else 1.0.
func AttackMod(effects []Effect) float64 {
	if Has(effects, AtkUp) {
		return 1.5
	}
	return 1.0
}

// DefenseMod returns the received-damage multiplier: 0.5 when def_up is
// attached, else 1.0.
func DefenseMod(effects []Effect) float64 {
	if Has(effects, DefUp) {
		return 0.5
	}
	return 1.0
}

// IsStunned reports whether stun is attached.
func IsStunned(effects []Effect) bool { return Has(effects, Stun) }

// HasTaunt reports whether taunt is attached.
func HasTaunt(effects []Effect) bool { return Has(effects, Taunt) }

// IsFeared reports whether fear is attached.
func IsFeared(effects []Effect) bool { return Has(effects, Fear) }

// GetBleedDamage returns BleedDamage when bleed is attached, else 0.
func GetBleedDamage(effects []Effect) int {
	if Has(effects, Bleed) {
		return BleedDamage
	}
	return 0
}
