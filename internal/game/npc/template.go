// Package npc provides enemy definitions loaded from YAML content.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TraitDrainVitality marks an enemy whose first damaging hit each turn drains
// one point of the player's vitality.
const TraitDrainVitality = "drain_vit"

// Template is an EnemyDefinition: the static description of one enemy.
type Template struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Level        int      `yaml:"level"`
	HP           int      `yaml:"hp"`
	MaxHP        int      `yaml:"max_hp"`
	Def          int      `yaml:"def"`
	Traits       []string `yaml:"traits"`
	DropRate     float64  `yaml:"drop_rate"` // probability in [0, 1]
	DropItemSlug string   `yaml:"drop_item_slug"`
}

// HasTrait reports whether the template carries trait.
func (t *Template) HasTrait(trait string) bool {
	for _, tr := range t.Traits {
		if tr == trait {
			return true
		}
	}
	return false
}

// Validate checks the template's invariants. A zero HP is read as "spawn at
// MaxHP" by the battle setup.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHP >= 1, 0 <= HP <= MaxHP, Def >= 0 and the drop fields are consistent.
func (t *Template) Validate() error {
	if t.ID == "" {
		return errors.New("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("enemy template %q: level must be >= 1", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("enemy template %q: max_hp must be >= 1", t.ID)
	}
	if t.HP < 0 || t.HP > t.MaxHP {
		return fmt.Errorf("enemy template %q: hp must be in [0, max_hp], got %d", t.ID, t.HP)
	}
	if t.Def < 0 {
		return fmt.Errorf("enemy template %q: def must be >= 0", t.ID)
	}
	if t.DropRate < 0 || t.DropRate > 1 {
		return fmt.Errorf("enemy template %q: drop_rate must be in [0, 1], got %f", t.ID, t.DropRate)
	}
	if t.DropRate > 0 && t.DropItemSlug == "" {
		return fmt.Errorf("enemy template %q: drop_item_slug required when drop_rate > 0", t.ID)
	}
	return nil
}

// StartingHP returns HP, or MaxHP when HP is unset.
func (t *Template) StartingHP() int {
	if t.HP == 0 {
		return t.MaxHP
	}
	return t.HP
}

// LoadTemplateFromBytes parses and validates a single template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir, one template per file.
//
// Postcondition: Returns all templates or an error on the first failure.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}
	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Index maps templates by id and rejects duplicates.
func Index(templates []*Template) (map[string]*Template, error) {
	out := make(map[string]*Template, len(templates))
	for _, t := range templates {
		if _, dup := out[t.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy template id %q", t.ID)
		}
		out[t.ID] = t
	}
	return out, nil
}
