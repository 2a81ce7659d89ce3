package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/game/status"
)

// narrator prints battle narration and state to a writer.
type narrator struct {
	w io.Writer
}

func newNarrator(w io.Writer) *narrator {
	return &narrator{w: w}
}

func (n *narrator) lines(log []string) {
	for _, l := range log {
		fmt.Fprintln(n.w, l)
	}
}

// status prints the player's view of s: vitals, enemies, party and hand.
func (n *narrator) status(s *battle.Session) {
	p := s.Player
	fmt.Fprintf(n.w, "Turn %d  AP %d  %s HP %d/%d  VIT %d\n", s.Turn, s.AP, p.Name, p.HP, p.MaxHP, p.Vitality)
	for _, e := range s.Enemies {
		if !e.IsAlive() {
			continue
		}
		fmt.Fprintf(n.w, "  [%s] %s HP %d/%d%s\n", e.ID, e.Name, e.HP, e.MaxHP, effectList(e.Effects))
	}
	for _, m := range s.Party {
		if !m.Active {
			continue
		}
		fmt.Fprintf(n.w, "  (%s) %s DUR %d/%d AP %d%s\n", m.ID, m.Name, m.Durability, m.MaxDurability, m.AP, effectList(m.Effects))
	}
	for i, c := range s.Piles.Hand {
		fmt.Fprintf(n.w, "  %d. %s (%d AP)\n", i+1, c.Name, c.APCost)
	}
	fmt.Fprintf(n.w, "  draw %d  discard %d  exhausted %d\n", len(s.Piles.Draw), len(s.Piles.Discard), len(s.Piles.Exhaust))
}

func (n *narrator) summary(s *battle.Session) {
	fmt.Fprintf(n.w, "Outcome: %s after %d turns.", s.Outcome, s.Turn)
	if len(s.Defeated) > 0 {
		fmt.Fprintf(n.w, " Defeated: %s.", strings.Join(s.Defeated, ", "))
	}
	fmt.Fprintln(n.w)
}

func effectList(effects []status.Effect) string {
	if len(effects) == 0 {
		return ""
	}
	parts := make([]string, len(effects))
	for i, e := range effects {
		parts[i] = fmt.Sprintf("%s %d", e.ID.Name(), e.Duration)
	}
	return " {" + strings.Join(parts, ", ") + "}"
}
