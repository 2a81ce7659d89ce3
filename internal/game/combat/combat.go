// Package combat holds the battle's combat units and the pure damage
// arithmetic shared by the player, party AI and enemy phases.
package combat

import (
	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/npc"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// PlayerID is the unit id the player is addressed by in actions and targeting.
const PlayerID = "player"

// Stats is what the PlayerStatsProvider supplies at battle start.
type Stats struct {
	HP       int `json:"hp"`
	MaxHP    int `json:"max_hp"`
	Attack   int `json:"attack"`
	Defense  int `json:"defense"`
	Vitality int `json:"vitality"`
	Level    int `json:"level"`
}

// Player is the human-controlled unit.
//
// Invariant: 0 <= HP <= MaxHP; Vitality >= 0.
type Player struct {
	Name     string          `json:"name"`
	HP       int             `json:"hp"`
	MaxHP    int             `json:"max_hp"`
	Attack   int             `json:"attack"`
	Defense  int             `json:"defense"`
	Vitality int             `json:"vitality"`
	Level    int             `json:"level"`
	Effects  []status.Effect `json:"effects,omitempty"`
}

// NewPlayer builds a Player from provider stats.
func NewPlayer(name string, s Stats) *Player {
	p := &Player{Name: name, HP: s.HP, MaxHP: s.MaxHP, Attack: s.Attack,
		Defense: s.Defense, Vitality: s.Vitality, Level: s.Level}
	if p.MaxHP < 1 {
		p.MaxHP = 1
	}
	p.HP = clamp(p.HP, 0, p.MaxHP)
	return p
}

// IsAlive reports whether HP > 0.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// Ratio returns HP/MaxHP.
func (p *Player) Ratio() float64 { return ratio(p.HP, p.MaxHP) }

// ApplyDamage reduces HP by amount, flooring at zero, and returns the HP lost.
func (p *Player) ApplyDamage(amount int) int {
	before := p.HP
	p.HP = clamp(p.HP-amount, 0, p.MaxHP)
	return before - p.HP
}

// Heal restores up to amount HP and returns the HP gained.
func (p *Player) Heal(amount int) int {
	before := p.HP
	p.HP = clamp(p.HP+amount, 0, p.MaxHP)
	return p.HP - before
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Effects = status.Clone(p.Effects)
	return &cp
}

// PartyMember is an AI-controlled ally. Durability acts as its HP.
//
// Invariant: 0 <= Durability <= MaxDurability; 0 <= AP.
type PartyMember struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	JobClass      string          `json:"job_class"`
	Level         int             `json:"level"`
	Durability    int             `json:"durability"`
	MaxDurability int             `json:"max_durability"`
	Def           int             `json:"def"`
	CoverRate     int             `json:"cover_rate"`
	OriginType    string          `json:"origin_type,omitempty"`
	Active        bool            `json:"is_active"`
	AP            int             `json:"ap"`
	Used          map[string]bool `json:"used,omitempty"`
	Deck          []card.Card     `json:"deck"`
	Effects       []status.Effect `json:"effects,omitempty"`
}

// NewPartyMember resolves rec's injected card ids through r.
//
// Postcondition: len(m.Deck)+len(missing) == len(rec.InjectCards).
func NewPartyMember(rec party.Record, r card.Resolver) (m *PartyMember, missing []string) {
	deck, missing := card.ResolveAll(r, rec.InjectCards)
	return &PartyMember{
		ID:            rec.ID,
		Name:          rec.Name,
		JobClass:      rec.JobClass,
		Level:         rec.Level,
		Durability:    rec.Durability,
		MaxDurability: rec.MaxDurability,
		Def:           rec.Def,
		CoverRate:     rec.CoverRate,
		OriginType:    rec.OriginType,
		Active:        rec.IsActive,
		Used:          make(map[string]bool),
		Deck:          deck,
	}, missing
}

// CanAct reports whether the member is active and has durability left.
func (m *PartyMember) CanAct() bool { return m.Active && m.Durability > 0 }

// Ratio returns Durability/MaxDurability.
func (m *PartyMember) Ratio() float64 { return ratio(m.Durability, m.MaxDurability) }

// ApplyDamage reduces Durability, flooring at zero, and returns the amount lost.
func (m *PartyMember) ApplyDamage(amount int) int {
	before := m.Durability
	m.Durability = clamp(m.Durability-amount, 0, m.MaxDurability)
	return before - m.Durability
}

// Heal restores up to amount durability and returns the amount gained.
func (m *PartyMember) Heal(amount int) int {
	before := m.Durability
	m.Durability = clamp(m.Durability+amount, 0, m.MaxDurability)
	return m.Durability - before
}

// Clone returns a deep copy. Deck cards are values and are copied with the slice.
func (m *PartyMember) Clone() *PartyMember {
	cp := *m
	cp.Deck = append([]card.Card(nil), m.Deck...)
	cp.Effects = status.Clone(m.Effects)
	cp.Used = make(map[string]bool, len(m.Used))
	for k, v := range m.Used {
		cp.Used[k] = v
	}
	return &cp
}

// Enemy is one hostile unit.
//
// Invariant: 0 <= HP <= MaxHP.
type Enemy struct {
	ID           string          `json:"id"`
	TemplateID   string          `json:"template_id"`
	Name         string          `json:"name"`
	Level        int             `json:"level"`
	HP           int             `json:"hp"`
	MaxHP        int             `json:"max_hp"`
	Def          int             `json:"def"`
	Traits       []string        `json:"traits,omitempty"`
	DropRate     float64         `json:"drop_rate,omitempty"`
	DropItemSlug string          `json:"drop_item_slug,omitempty"`
	Effects      []status.Effect `json:"effects,omitempty"`
	// Settled is set once the enemy's defeat has been narrated and its drop rolled.
	Settled bool `json:"settled,omitempty"`
}

// NewEnemy instantiates tmpl under the unit id id.
func NewEnemy(id string, tmpl *npc.Template) *Enemy {
	return &Enemy{
		ID:           id,
		TemplateID:   tmpl.ID,
		Name:         tmpl.Name,
		Level:        tmpl.Level,
		HP:           tmpl.StartingHP(),
		MaxHP:        tmpl.MaxHP,
		Def:          tmpl.Def,
		Traits:       append([]string(nil), tmpl.Traits...),
		DropRate:     tmpl.DropRate,
		DropItemSlug: tmpl.DropItemSlug,
	}
}

// IsAlive reports whether HP > 0.
func (e *Enemy) IsAlive() bool { return e.HP > 0 }

// Ratio returns HP/MaxHP.
func (e *Enemy) Ratio() float64 { return ratio(e.HP, e.MaxHP) }

// HasTrait reports whether the enemy carries trait.
func (e *Enemy) HasTrait(trait string) bool {
	for _, t := range e.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// AttackValue is the enemy's raw attack: level*5+10.
func (e *Enemy) AttackValue() int { return e.Level*5 + 10 }

// ApplyDamage reduces HP, flooring at zero, and returns the HP lost.
func (e *Enemy) ApplyDamage(amount int) int {
	before := e.HP
	e.HP = clamp(e.HP-amount, 0, e.MaxHP)
	return before - e.HP
}

// Heal restores up to amount HP and returns the HP gained.
func (e *Enemy) Heal(amount int) int {
	before := e.HP
	e.HP = clamp(e.HP+amount, 0, e.MaxHP)
	return e.HP - before
}

// Clone returns a deep copy.
func (e *Enemy) Clone() *Enemy {
	cp := *e
	cp.Traits = append([]string(nil), e.Traits...)
	cp.Effects = status.Clone(e.Effects)
	return &cp
}

// Living returns the enemies with HP > 0, in list order.
func Living(enemies []*Enemy) []*Enemy {
	var out []*Enemy
	for _, e := range enemies {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// Taunting returns the first living enemy with taunt attached, or nil.
func Taunting(enemies []*Enemy) *Enemy {
	for _, e := range enemies {
		if e.IsAlive() && status.HasTaunt(e.Effects) {
			return e
		}
	}
	return nil
}

// PickTarget chooses the enemy a single-target hostile action lands on: a
// taunting enemy first, then preferredID when it is alive, then the first
// living enemy. Returns nil when no enemy is alive.
func PickTarget(enemies []*Enemy, preferredID string) *Enemy {
	if t := Taunting(enemies); t != nil {
		return t
	}
	var first *Enemy
	for _, e := range enemies {
		if !e.IsAlive() {
			continue
		}
		if e.ID == preferredID {
			return e
		}
		if first == nil {
			first = e
		}
	}
	return first
}

func ratio(cur, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(cur) / float64(max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RollDrop rolls the enemy's drop once.
func (e *Enemy) RollDrop(src dice.Source) (string, bool) {
	return npc.RollDrop(e.DropRate, e.DropItemSlug, src)
}
