// Package config provides Viper-based configuration loading for the battle
// engine binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled selects the Postgres-backed collaborators; when false the
	// binaries fall back to static player stats and discard external effects.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the turn cycle's rule constants and pacing.
type BattleConfig struct {
	MaxTurns   int `mapstructure:"max_turns"`
	HandSize   int `mapstructure:"hand_size"`
	StartingAP int `mapstructure:"starting_ap"`
	APRegen    int `mapstructure:"ap_regen"`
	APCap      int `mapstructure:"ap_cap"`
	NPCAPRegen int `mapstructure:"npc_ap_regen"`
	NPCAPCap   int `mapstructure:"npc_ap_cap"`
	FleeChance int `mapstructure:"flee_chance"`
	// PhaseDelay is the presentation pause callers insert between phases.
	PhaseDelay time.Duration `mapstructure:"phase_delay"`
	// Seed makes every random draw reproducible; zero uses crypto randomness.
	Seed uint64 `mapstructure:"seed"`
}

// Rules converts the section into the engine's rule set.
func (b BattleConfig) Rules() battle.Rules {
	return battle.Rules{
		MaxTurns:   b.MaxTurns,
		HandSize:   b.HandSize,
		StartingAP: b.StartingAP,
		APRegen:    b.APRegen,
		APCap:      b.APCap,
		NPCAPRegen: b.NPCAPRegen,
		NPCAPCap:   b.NPCAPCap,
		FleeChance: b.FleeChance,
	}
}

// ContentConfig locates the YAML content and names the encounter to run.
type ContentConfig struct {
	CardsDir   string `mapstructure:"cards_dir"`
	EnemiesDir string `mapstructure:"enemies_dir"`
	PartyFile  string `mapstructure:"party_file"`
	// ScenarioID is reported with victories.
	ScenarioID string `mapstructure:"scenario_id"`
	// Encounter lists enemy template ids; repeats spawn several instances.
	Encounter []string `mapstructure:"encounter"`
}

// ScriptingConfig configures the optional victory impact script.
type ScriptingConfig struct {
	ImpactScript     string `mapstructure:"impact_script"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// StatsConfig is the player's fallback stat line.
type StatsConfig struct {
	HP       int `mapstructure:"hp"`
	MaxHP    int `mapstructure:"max_hp"`
	Attack   int `mapstructure:"attack"`
	Defense  int `mapstructure:"defense"`
	Vitality int `mapstructure:"vitality"`
	Level    int `mapstructure:"level"`
}

// Stats converts the section into combat stats.
func (s StatsConfig) Stats() combat.Stats {
	return combat.Stats{HP: s.HP, MaxHP: s.MaxHP, Attack: s.Attack, Defense: s.Defense,
		Vitality: s.Vitality, Level: s.Level}
}

// PlayerConfig identifies the player profile. Stats are used when the
// database is disabled.
type PlayerConfig struct {
	ProfileID int64       `mapstructure:"profile_id"`
	Name      string      `mapstructure:"name"`
	Stats     StatsConfig `mapstructure:"stats"`
	Equipped  []string    `mapstructure:"equipped"`
}

// SyncConfig bounds external effect execution.
type SyncConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Player    PlayerConfig    `mapstructure:"player"`
	Sync      SyncConfig      `mapstructure:"sync"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePlayer(c.Player, c.Database.Enabled); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, "scripting.instruction_limit must be >= 0")
	}
	if c.Sync.Timeout <= 0 {
		errs = append(errs, "sync.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	if err := b.Rules().Validate(); err != nil {
		return err
	}
	if b.PhaseDelay < 0 {
		return errors.New("battle.phase_delay must not be negative")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.CardsDir == "" {
		errs = append(errs, "content.cards_dir must not be empty")
	}
	if c.EnemiesDir == "" {
		errs = append(errs, "content.enemies_dir must not be empty")
	}
	if len(c.Encounter) == 0 {
		errs = append(errs, "content.encounter must name at least one enemy")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig, dbEnabled bool) error {
	if dbEnabled {
		if p.ProfileID < 1 {
			return fmt.Errorf("player.profile_id must be >= 1 when the database is enabled, got %d", p.ProfileID)
		}
		return nil
	}
	if p.Stats.MaxHP < 1 {
		return fmt.Errorf("player.stats.max_hp must be >= 1, got %d", p.Stats.MaxHP)
	}
	if p.Stats.HP < 0 || p.Stats.HP > p.Stats.MaxHP {
		return fmt.Errorf("player.stats.hp must be within [0, max_hp], got %d", p.Stats.HP)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DECKBATTLE_ prefix
	v.SetEnvPrefix("DECKBATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "deckbattle")
	v.SetDefault("database.password", "deckbattle")
	v.SetDefault("database.name", "deckbattle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	rules := battle.DefaultRules()
	v.SetDefault("battle.max_turns", rules.MaxTurns)
	v.SetDefault("battle.hand_size", rules.HandSize)
	v.SetDefault("battle.starting_ap", rules.StartingAP)
	v.SetDefault("battle.ap_regen", rules.APRegen)
	v.SetDefault("battle.ap_cap", rules.APCap)
	v.SetDefault("battle.npc_ap_regen", rules.NPCAPRegen)
	v.SetDefault("battle.npc_ap_cap", rules.NPCAPCap)
	v.SetDefault("battle.flee_chance", rules.FleeChance)
	v.SetDefault("battle.phase_delay", "400ms")
	v.SetDefault("battle.seed", 0)

	v.SetDefault("content.cards_dir", "content/cards")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.party_file", "content/party.yaml")

	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("player.name", "Hero")
	v.SetDefault("player.stats.hp", 100)
	v.SetDefault("player.stats.max_hp", 100)
	v.SetDefault("player.stats.vitality", 10)
	v.SetDefault("player.stats.level", 1)

	v.SetDefault("sync.timeout", "5s")
}
