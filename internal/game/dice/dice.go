// Package dice provides the randomness abstraction used by the battle engine.
// Every random decision (flee, cover interception, basic-attack spread, drops,
// shuffles) draws from a Source so that battles can be replayed from a seed.
package dice

import "fmt"

// Source is the randomness provider for all battle rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult holds the audit trail for a single dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "1d5+7 → [3] +7 = 10".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Chance reports whether a percentage roll succeeds: true with probability
// percent/100. Values <= 0 never succeed, values >= 100 always succeed and
// neither consumes a draw.
func Chance(src Source, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

// Probability reports whether a fractional roll succeeds: true with probability p.
// Resolution is 1/1000.
func Probability(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Intn(1000) < int(p*1000)
}
