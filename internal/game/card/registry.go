package card

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolver looks up card definitions by id.
type Resolver interface {
	Resolve(id string) (Card, bool)
}

// Registry holds card definitions keyed by id.
type Registry struct {
	cards map[string]Card
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{cards: make(map[string]Card)}
}

// Register validates c and stores it, overwriting any existing definition.
func (r *Registry) Register(c Card) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.cards[c.ID] = c
	return nil
}

// Resolve returns a copy of the definition for id.
func (r *Registry) Resolve(id string) (Card, bool) {
	c, ok := r.cards[id]
	return c, ok
}

// ResolveAll resolves ids in order and returns the ids it could not find.
func (r *Registry) ResolveAll(ids []string) ([]Card, []string) {
	return ResolveAll(r, ids)
}

// Len returns the number of registered cards.
func (r *Registry) Len() int { return len(r.cards) }

// All returns every definition sorted by id.
func (r *Registry) All() []Card {
	out := make([]Card, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResolveAll resolves ids through any Resolver, skipping unknown ids.
//
// Postcondition: len(found)+len(missing) == len(ids).
func ResolveAll(r Resolver, ids []string) (found []Card, missing []string) {
	for _, id := range ids {
		c, ok := r.Resolve(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		found = append(found, c)
	}
	return found, missing
}

// Validate checks a definition's invariants.
func (c Card) Validate() error {
	if c.ID == "" {
		return errors.New("card: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("card %q: name must not be empty", c.ID)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("card %q: unknown category %q", c.ID, c.Category)
	}
	if c.APCost < 0 {
		return fmt.Errorf("card %q: ap_cost must be >= 0, got %d", c.ID, c.APCost)
	}
	if c.DiscardCost < 0 {
		return fmt.Errorf("card %q: discard_cost must be >= 0, got %d", c.ID, c.DiscardCost)
	}
	if c.DiscardCost > 0 && c.Category != CategoryNoise {
		return fmt.Errorf("card %q: discard_cost is only valid on Noise cards", c.ID)
	}
	if c.EffectID != "" && !c.EffectID.Known() {
		return fmt.Errorf("card %q: unknown effect_id %q", c.ID, c.EffectID)
	}
	switch c.Kind {
	case "", KindDamage, KindHeal, KindBuff, KindDebuff:
	default:
		return fmt.Errorf("card %q: unknown effect_kind %q", c.ID, c.Kind)
	}
	switch c.DamageClass {
	case "", Physical, Magical:
	default:
		return fmt.Errorf("card %q: unknown damage_class %q", c.ID, c.DamageClass)
	}
	return nil
}

// fileCard adds the ap_cost key, which Card itself does not decode.
type fileCard struct {
	Card   `yaml:",inline"`
	APCost *int `yaml:"ap_cost"`
}

type cardFile struct {
	Cards []fileCard `yaml:"cards"`
}

// Decode parses a YAML document of the form `cards: [...]`.
// Unknown fields are rejected.
func Decode(r io.Reader) ([]Card, error) {
	var f cardFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	out := make([]Card, 0, len(f.Cards))
	for _, fc := range f.Cards {
		c := fc.Card
		c.APCost = 1
		if fc.APCost != nil {
			c.APCost = *fc.APCost
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadDirectory reads every *.yaml file in dir into a new Registry.
//
// Postcondition: Returns a populated Registry, or an error naming the first
// file or card that failed to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading card dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		cards, err := Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, c := range cards {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
		}
	}
	return reg, nil
}
