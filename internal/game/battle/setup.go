package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/deckbattle/internal/game/card"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/deck"
	"github.com/cory-johannsen/deckbattle/internal/game/dice"
	"github.com/cory-johannsen/deckbattle/internal/game/npc"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
)

// StatsProvider supplies the player's current stats.
type StatsProvider interface {
	PlayerStats(ctx context.Context) (combat.Stats, error)
}

// EquippedProvider supplies the ids of the player's equipped cards.
type EquippedProvider interface {
	EquippedCards(ctx context.Context) ([]string, error)
}

// StaticStats is a StatsProvider with fixed stats.
type StaticStats combat.Stats

// PlayerStats implements StatsProvider.
func (s StaticStats) PlayerStats(_ context.Context) (combat.Stats, error) {
	return combat.Stats(s), nil
}

// StaticEquipped is an EquippedProvider with a fixed card list.
type StaticEquipped []string

// EquippedCards implements EquippedProvider.
func (e StaticEquipped) EquippedCards(_ context.Context) ([]string, error) {
	return append([]string(nil), e...), nil
}

// Setup is everything Start needs to assemble a battle.
type Setup struct {
	ScenarioID string
	PlayerName string
	Enemies    []*npc.Template
	Stats      StatsProvider
	Party      party.Provider
	Equipped   EquippedProvider
	Cards      card.Resolver
	// Rules defaults to DefaultRules when zero.
	Rules  Rules
	Src    dice.Source
	Logger *zap.Logger
	// Sink receives committed effects; optional.
	Sink EffectSink
}

// Start assembles a new battle: it loads the player, party and equipped cards
// from their providers, instantiates the enemies, builds and shuffles the deck
// and deals the opening hand.
//
// Precondition: Enemies is non-empty; Stats, Party, Equipped, Cards, Src and
// Logger are non-nil.
func Start(ctx context.Context, st Setup) (*Controller, error) {
	if len(st.Enemies) == 0 {
		return nil, errors.New("battle: at least one enemy is required")
	}
	rules := st.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	stats, err := st.Stats.PlayerStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("battle: loading player stats: %w", err)
	}
	roster, err := st.Party.PartyMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("battle: loading party: %w", err)
	}
	equipped, err := st.Equipped.EquippedCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("battle: loading equipped cards: %w", err)
	}

	id := uuid.NewString()
	logger := st.Logger.With(zap.String("battle_id", id))
	name := st.PlayerName
	if name == "" {
		name = "Hero"
	}

	s := &Session{
		ID:         id,
		ScenarioID: st.ScenarioID,
		Turn:       1,
		AP:         rules.StartingAP,
		Player:     combat.NewPlayer(name, stats),
		Phase:      PhasePlayerAction,
	}
	for i, tmpl := range st.Enemies {
		s.Enemies = append(s.Enemies, combat.NewEnemy(fmt.Sprintf("e%d", i+1), tmpl))
	}
	for _, rec := range roster {
		m, missing := combat.NewPartyMember(rec, st.Cards)
		if len(missing) > 0 {
			logger.Warn("party member references unknown cards",
				zap.String("member", rec.ID), zap.Strings("missing", missing))
		}
		s.Party = append(s.Party, m)
	}
	piles, missing := deck.Build(equipped, roster, st.Cards, st.Src)
	if len(missing) > 0 {
		logger.Warn("deck references unknown cards", zap.Strings("missing", missing))
	}
	s.Piles = piles
	s.Piles.Deal(rules.HandSize, st.Src)
	if t := combat.PickTarget(s.Enemies, ""); t != nil {
		s.TargetID = t.ID
	}

	for _, e := range s.Enemies {
		s.Log = append(s.Log, fmt.Sprintf("%s appears!", e.Name))
	}
	s.Log = append(s.Log, "-- Turn 1 --")

	logger.Info("battle started",
		zap.String("scenario_id", st.ScenarioID),
		zap.Int("enemies", len(s.Enemies)),
		zap.Int("party", len(s.Party)),
		zap.Int("deck", s.Piles.Count()),
	)
	return NewController(s, rules, st.Src, logger, st.Sink), nil
}
