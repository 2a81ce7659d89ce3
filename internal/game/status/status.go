// Package status implements the buff/debuff engine. All functions are pure:
// they take an effect list and return a new one, never mutating the input.
package status

import "fmt"

// ID names one status effect in the fixed taxonomy.
type ID string

const (
	AtkUp  ID = "atk_up"
	DefUp  ID = "def_up"
	Taunt  ID = "taunt"
	Regen  ID = "regen"
	Poison ID = "poison"
	Stun   ID = "stun"
	Bleed  ID = "bleed"
	Fear   ID = "fear"
)

// DefaultDuration is used when a card applies an effect without a duration.
const DefaultDuration = 3

// BleedDamage is the fixed damage a bleeding unit takes per tick.
const BleedDamage = 3

// Effect is one status attached to a unit.
//
// Invariant: Duration > 0 while the effect is attached.
type Effect struct {
	ID       ID  `json:"id"`
	Duration int `json:"duration"`
}

var names = map[ID]string{
	AtkUp:  "attack up",
	DefUp:  "defense up",
	Taunt:  "taunt",
	Regen:  "regen",
	Poison: "poison",
	Stun:   "stun",
	Bleed:  "bleed",
	Fear:   "fear",
}

// Name returns the display name for id; unknown ids are returned verbatim.
func (id ID) Name() string {
	if n, ok := names[id]; ok {
		return n
	}
	return string(id)
}

// Known reports whether id is part of the taxonomy.
func (id ID) Known() bool {
	_, ok := names[id]
	return ok
}

// SelfTargeted reports whether id is a beneficial effect that lands on the
// caster (or an ally) rather than on an enemy.
func (id ID) SelfTargeted() bool {
	switch id {
	case AtkUp, DefUp, Taunt, Regen:
		return true
	default:
		return false
	}
}

// Apply attaches id for duration turns. An effect already present has its
// duration overwritten; durations never stack.
//
// Postcondition: Has(result, id) is true; len(result) is len(effects) or len(effects)+1;
// durations below 1 are stored as 1.
func Apply(effects []Effect, id ID, duration int) []Effect {
	if duration < 1 {
		duration = 1
	}
	out := Clone(effects)
	for i := range out {
		if out[i].ID == id {
			out[i].Duration = duration
			return out
		}
	}
	return append(out, Effect{ID: id, Duration: duration})
}

// Remove returns effects without id. Removing an absent id is a no-op.
func Remove(effects []Effect, id ID) []Effect {
	out := make([]Effect, 0, len(effects))
	for _, e := range effects {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether id is attached.
func Has(effects []Effect, id ID) bool {
	for _, e := range effects {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Duration returns the remaining turns of id, or 0 when absent.
func Duration(effects []Effect, id ID) int {
	for _, e := range effects {
		if e.ID == id {
			return e.Duration
		}
	}
	return 0
}

// Clone returns an independent copy of effects.
func Clone(effects []Effect) []Effect {
	if effects == nil {
		return nil
	}
	out := make([]Effect, len(effects))
	copy(out, effects)
	return out
}

// String renders the list as "poison(2) stun(1)".
func String(effects []Effect) string {
	s := ""
	for i, e := range effects {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s(%d)", e.ID, e.Duration)
	}
	return s
}
