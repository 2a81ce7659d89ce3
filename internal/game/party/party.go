// Package party holds the roster records supplied by the PartyProvider
// collaborator and a YAML-backed provider for local content.
package party

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OriginShadowHeroic is the origin type that grants the "smart" AI grade.
const OriginShadowHeroic = "shadow_heroic"

// Record is one party member as provided by the roster collaborator.
type Record struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	JobClass      string   `yaml:"job_class" json:"job_class"`
	Level         int      `yaml:"level" json:"level"`
	Durability    int      `yaml:"durability" json:"durability"`
	MaxDurability int      `yaml:"max_durability" json:"max_durability"`
	Def           int      `yaml:"def" json:"def"`
	CoverRate     int      `yaml:"cover_rate" json:"cover_rate"` // percent
	InjectCards   []string `yaml:"inject_cards" json:"inject_cards"`
	IsActive      bool     `yaml:"is_active" json:"is_active"`
	OriginType    string   `yaml:"origin_type" json:"origin_type"`
}

// Validate checks the record's invariants.
func (r Record) Validate() error {
	if r.ID == "" {
		return errors.New("party record: id must not be empty")
	}
	if r.Name == "" {
		return fmt.Errorf("party record %q: name must not be empty", r.ID)
	}
	if r.MaxDurability < 1 {
		return fmt.Errorf("party record %q: max_durability must be >= 1", r.ID)
	}
	if r.Durability < 0 || r.Durability > r.MaxDurability {
		return fmt.Errorf("party record %q: durability must be in [0, max_durability], got %d", r.ID, r.Durability)
	}
	if r.Def < 0 {
		return fmt.Errorf("party record %q: def must be >= 0", r.ID)
	}
	if r.CoverRate < 0 || r.CoverRate > 100 {
		return fmt.Errorf("party record %q: cover_rate must be in [0, 100], got %d", r.ID, r.CoverRate)
	}
	return nil
}

// Provider supplies the current party roster.
type Provider interface {
	PartyMembers(ctx context.Context) ([]Record, error)
}

// StaticProvider serves a fixed roster.
type StaticProvider []Record

// PartyMembers returns a copy of the roster.
func (p StaticProvider) PartyMembers(_ context.Context) ([]Record, error) {
	out := make([]Record, len(p))
	copy(out, p)
	return out, nil
}

type rosterFile struct {
	Party []Record `yaml:"party"`
}

// Decode parses a `party: [...]` YAML document and validates every record.
func Decode(r io.Reader) ([]Record, error) {
	var f rosterFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing party roster: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Party))
	for _, rec := range f.Party {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("party roster: duplicate id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return f.Party, nil
}

// LoadFile reads a roster file into a StaticProvider.
func LoadFile(path string) (StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading party file %q: %w", path, err)
	}
	recs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return StaticProvider(recs), nil
}
