// Package main provides a CLI tool that seeds a player profile, its equipped
// cards and its party roster into the database from local content.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/deckbattle/internal/config"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
	"github.com/cory-johannsen/deckbattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	partyFile := flag.String("party", "", "party roster YAML; defaults to content.party_file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *partyFile == "" {
		*partyFile = cfg.Content.PartyFile
	}
	var roster []party.Record
	if *partyFile != "" {
		roster, err = party.LoadFile(*partyFile)
		if err != nil {
			log.Fatalf("loading party: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	id, err := postgres.CreateProfile(ctx, pool.DB(), cfg.Player.Name, cfg.Player.Stats.Stats())
	if err != nil {
		log.Fatalf("creating profile: %v", err)
	}
	store := pool.ForProfile(id)
	if err := store.Profile.SetEquipped(ctx, cfg.Player.Equipped); err != nil {
		log.Fatalf("equipping cards: %v", err)
	}
	for pos, rec := range roster {
		if err := store.Party.Save(ctx, pos, rec); err != nil {
			log.Fatalf("saving party: %v", err)
		}
	}

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stdout, "seeded profile %s (#%d): %d cards, %d party members [%s]\n",
		cfg.Player.Name, id, len(cfg.Player.Equipped), len(roster), elapsed)
	fmt.Fprintf(os.Stdout, "set player.profile_id=%d (or DECKBATTLE_PLAYER_PROFILE_ID) to battle with it\n", id)
}
