package status

import "fmt"

// TickResult is the outcome of one end-of-turn tick.
type TickResult struct {
	Effects  []Effect
	HPDelta  int
	Messages []string
	Expired  []ID
}

// Tick resolves regen and poison into one combined HP delta (each worth 5% of
// maxHP, at least 1), then decrements every duration by one and drops the
// effects that reach zero. label names the unit in the expiry messages.
//
// Postcondition: every surviving effect has Duration == previous-1 > 0;
// len(Messages) == len(Expired).
func Tick(effects []Effect, maxHP int, label string) TickResult {
	var res TickResult
	step := maxHP * 5 / 100
	if step < 1 {
		step = 1
	}
	if Has(effects, Regen) {
		res.HPDelta += step
	}
	if Has(effects, Poison) {
		res.HPDelta -= step
	}

	res.Effects = make([]Effect, 0, len(effects))
	for _, e := range effects {
		e.Duration--
		if e.Duration <= 0 {
			res.Expired = append(res.Expired, e.ID)
			res.Messages = append(res.Messages, fmt.Sprintf("%s's %s wore off.", label, e.ID.Name()))
			continue
		}
		res.Effects = append(res.Effects, e)
	}
	return res
}
