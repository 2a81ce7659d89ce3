// Package postgres persists player profiles, party rosters, consumable
// inventory and victory reports using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/deckbattle/internal/config"
)

// applicationName tags every session so battle traffic is visible in
// pg_stat_activity.
const applicationName = "deckbattle"

// Pool owns the connection pool shared by every repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Health pings the database, failing once timeout elapses.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health: %w", err)
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// Store groups the repositories scoped to one player profile.
type Store struct {
	Profile   *ProfileRepository
	Party     *PartyRepository
	Inventory *InventoryRepository
	Reports   *ReportRepository
}

// ForProfile returns the repositories for profileID. It does not check that
// the profile exists; the first read reports ErrProfileNotFound.
func (p *Pool) ForProfile(profileID int64) Store {
	return Store{
		Profile:   NewProfileRepository(p.pool, profileID),
		Party:     NewPartyRepository(p.pool, profileID),
		Inventory: NewInventoryRepository(p.pool, profileID),
		Reports:   NewReportRepository(p.pool, profileID),
	}
}
