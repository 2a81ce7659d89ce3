package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/deckbattle/internal/game/party"
)

// PartyRepository stores a profile's party roster. It implements party.Provider.
type PartyRepository struct {
	db        *pgxpool.Pool
	profileID int64
}

// NewPartyRepository creates a PartyRepository for profileID.
//
// Precondition: db must be a valid, open connection pool.
func NewPartyRepository(db *pgxpool.Pool, profileID int64) *PartyRepository {
	return &PartyRepository{db: db, profileID: profileID}
}

// PartyMembers returns the roster in position order.
func (r *PartyRepository) PartyMembers(ctx context.Context) ([]party.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, job_class, level, durability, max_durability, def,
		       cover_rate, inject_cards, is_active, origin_type
		FROM party_members WHERE profile_id = $1 ORDER BY position ASC`, r.profileID)
	if err != nil {
		return nil, fmt.Errorf("listing party members: %w", err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (party.Record, error) {
		var rec party.Record
		err := row.Scan(&rec.ID, &rec.Name, &rec.JobClass, &rec.Level, &rec.Durability,
			&rec.MaxDurability, &rec.Def, &rec.CoverRate, &rec.InjectCards, &rec.IsActive, &rec.OriginType)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning party members: %w", err)
	}
	return recs, nil
}

// Save upserts one member at the given roster position.
//
// Precondition: rec.Validate() == nil.
func (r *PartyRepository) Save(ctx context.Context, position int, rec party.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	inject := rec.InjectCards
	if inject == nil {
		inject = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO party_members
			(id, profile_id, position, name, job_class, level, durability, max_durability,
			 def, cover_rate, inject_cards, is_active, origin_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (profile_id, id) DO UPDATE SET
			position = EXCLUDED.position, name = EXCLUDED.name, job_class = EXCLUDED.job_class,
			level = EXCLUDED.level, durability = EXCLUDED.durability,
			max_durability = EXCLUDED.max_durability, def = EXCLUDED.def,
			cover_rate = EXCLUDED.cover_rate, inject_cards = EXCLUDED.inject_cards,
			is_active = EXCLUDED.is_active, origin_type = EXCLUDED.origin_type`,
		rec.ID, r.profileID, position, rec.Name, rec.JobClass, rec.Level, rec.Durability,
		rec.MaxDurability, rec.Def, rec.CoverRate, inject, rec.IsActive, rec.OriginType,
	)
	if err != nil {
		return fmt.Errorf("saving party member %q: %w", rec.ID, err)
	}
	return nil
}
