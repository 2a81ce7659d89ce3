// Package deck owns the player's card piles: building the shared deck from
// equipped and party-injected cards, dealing the hand, and disposing of
// played cards.
package deck

import (
	"fmt"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
)

// DefaultHandSize is the number of cards the hand is topped up to.
const DefaultHandSize = 5

// Piles is the battle's card state.
//
// Invariant: Count() never increases over the life of a battle; only Exhaust
// removes cards from the cycle permanently. Consumed is an id ledger of the
// equipment cards in Exhaust and is not counted separately.
type Piles struct {
	Draw     []card.Card `json:"draw"`
	Hand     []card.Card `json:"hand"`
	Discard  []card.Card `json:"discard"`
	Exhaust  []card.Card `json:"exhaust"`
	Consumed []string    `json:"consumed,omitempty"`
}

// DealResult describes what Deal did.
type DealResult struct {
	Drawn      int
	Reshuffled bool
	Struggle   bool
}

// Build resolves the player's equipped card ids and the injected cards of
// every active roster member through r, gives each copy a unique instance id,
// and shuffles the pool once into the draw pile.
//
// Postcondition: Count() == len(equipped)+len(active injected ids)-len(missing).
func Build(equipped []string, roster []party.Record, r card.Resolver, src dice.Source) (*Piles, []string) {
	ids := append([]string(nil), equipped...)
	for _, rec := range roster {
		if rec.IsActive {
			ids = append(ids, rec.InjectCards...)
		}
	}
	pool, missing := card.ResolveAll(r, ids)
	for i := range pool {
		pool[i].InstanceID = fmt.Sprintf("%s#%d", pool[i].ID, i+1)
	}
	Shuffle(pool, src)
	return &Piles{Draw: pool}, missing
}

// Shuffle permutes cards in place (Fisher-Yates) using src.
func Shuffle(cards []card.Card, src dice.Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deal tops the hand up to handSize. When the draw pile runs dry the discard
// pile is shuffled back in. When draw, discard and hand are all empty a
// synthetic Struggle card is put in the hand instead.
func (p *Piles) Deal(handSize int, src dice.Source) DealResult {
	var res DealResult
	for len(p.Hand) < handSize {
		if len(p.Draw) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			p.Draw, p.Discard = p.Discard, nil
			Shuffle(p.Draw, src)
			res.Reshuffled = true
		}
		p.Hand = append(p.Hand, p.Draw[0])
		p.Draw = p.Draw[1:]
		res.Drawn++
	}
	if len(p.Hand) == 0 {
		p.Hand = append(p.Hand, card.Struggle())
		res.Struggle = true
	}
	return res
}

// Find returns the hand card with the given instance id.
func (p *Piles) Find(instanceID string) (card.Card, bool) {
	for _, c := range p.Hand {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return card.Card{}, false
}

// Take removes and returns the hand card with the given instance id.
func (p *Piles) Take(instanceID string) (card.Card, bool) {
	for i, c := range p.Hand {
		if c.InstanceID == instanceID {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return card.Card{}, false
}

// Dispose puts a played or discarded card where it belongs: synthetic cards
// vanish, Noise and equipment Items are exhausted, everything else goes to the
// discard pile.
func (p *Piles) Dispose(c card.Card) {
	switch {
	case c.Synthetic:
	case c.Exhausts():
		p.Exhaust = append(p.Exhaust, c)
		if c.IsEquipment {
			p.Consumed = append(p.Consumed, c.ID)
		}
	default:
		p.Discard = append(p.Discard, c)
	}
}

// Count is the number of real cards across every pile.
func (p *Piles) Count() int {
	n := 0
	for _, pile := range [][]card.Card{p.Draw, p.Hand, p.Discard, p.Exhaust} {
		for _, c := range pile {
			if !c.Synthetic {
				n++
			}
		}
	}
	return n
}

// Cycling is the number of real cards that can still be drawn or played.
func (p *Piles) Cycling() int {
	return p.Count() - len(p.Exhaust)
}

// Clone returns a deep copy.
func (p *Piles) Clone() *Piles {
	return &Piles{
		Draw:     append([]card.Card(nil), p.Draw...),
		Hand:     append([]card.Card(nil), p.Hand...),
		Discard:  append([]card.Card(nil), p.Discard...),
		Exhaust:  append([]card.Card(nil), p.Exhaust...),
		Consumed: append([]string(nil), p.Consumed...),
	}
}
