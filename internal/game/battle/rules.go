package battle

import "fmt"

// Rules are the tunable constants of the turn cycle.
type Rules struct {
	MaxTurns   int
	HandSize   int
	StartingAP int
	APRegen    int
	APCap      int
	NPCAPRegen int
	NPCAPCap   int
	// FleeChance is the flee success percentage.
	FleeChance int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		MaxTurns:   30,
		HandSize:   5,
		StartingAP: 5,
		APRegen:    5,
		APCap:      10,
		NPCAPRegen: 5,
		NPCAPCap:   10,
		FleeChance: 50,
	}
}

// Validate reports the first out-of-range rule.
func (r Rules) Validate() error {
	switch {
	case r.MaxTurns < 1:
		return fmt.Errorf("battle rules: max_turns must be >= 1, got %d", r.MaxTurns)
	case r.HandSize < 1:
		return fmt.Errorf("battle rules: hand_size must be >= 1, got %d", r.HandSize)
	case r.APCap < 0 || r.StartingAP < 0 || r.StartingAP > r.APCap:
		return fmt.Errorf("battle rules: starting_ap must be within [0, ap_cap], got %d/%d", r.StartingAP, r.APCap)
	case r.APRegen < 0 || r.NPCAPRegen < 0 || r.NPCAPCap < 0:
		return fmt.Errorf("battle rules: AP regen and caps must be >= 0")
	case r.FleeChance < 0 || r.FleeChance > 100:
		return fmt.Errorf("battle rules: flee_chance must be within [0, 100], got %d", r.FleeChance)
	}
	return nil
}
