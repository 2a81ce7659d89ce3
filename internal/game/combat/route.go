package combat

import (
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// Route is where an enemy attack lands.
type Route struct {
	// Cover is the intercepting party member; nil when the player is hit.
	Cover *PartyMember
}

// Covered reports whether a party member intercepted the attack.
func (r Route) Covered() bool { return r.Cover != nil }

// TargetID returns the id of the unit taking the hit.
func (r Route) TargetID() string {
	if r.Cover != nil {
		return r.Cover.ID
	}
	return PlayerID
}

// RouteAttack decides who takes an attack aimed at the player. Each party
// member that can act and has a positive cover rate gets one independent
// CoverRate% interception roll, in list order; the first success covers.
func RouteAttack(party []*PartyMember, src dice.Source) Route {
	for _, m := range party {
		if !m.CanAct() || m.CoverRate <= 0 {
			continue
		}
		if dice.Chance(src, m.CoverRate) {
			return Route{Cover: m}
		}
	}
	return Route{}
}

// Mitigate returns the damage the routed defender actually takes from an
// attack of the given value: max(1, attack - def), halved by def_up and
// amplified by the attacker's atk_up.
func Mitigate(attack int, r Route, player *Player, attacker []status.Effect) int {
	if r.Cover != nil {
		return CalculateDamage(attack, r.Cover.Def, attacker, r.Cover.Effects, false, 0)
	}
	return CalculateDamage(attack, player.Defense, attacker, player.Effects, false, 0)
}
