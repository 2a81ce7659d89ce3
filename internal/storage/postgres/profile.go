package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/deckbattle/internal/game/combat"
)

// ProfileRepository reads and syncs one player profile. It implements the
// battle's stats and equipped-card providers and the dispatcher's profile sync.
type ProfileRepository struct {
	db        *pgxpool.Pool
	profileID int64
}

// NewProfileRepository creates a ProfileRepository for profileID.
//
// Precondition: db must be a valid, open connection pool; profileID > 0.
func NewProfileRepository(db *pgxpool.Pool, profileID int64) *ProfileRepository {
	return &ProfileRepository{db: db, profileID: profileID}
}

// CreateProfile inserts a profile and returns its id.
//
// Precondition: name non-empty; stats.MaxHP >= 1.
func CreateProfile(ctx context.Context, db *pgxpool.Pool, name string, s combat.Stats) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO profiles (name, hp, max_hp, attack, defense, vitality, level)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		name, s.HP, s.MaxHP, s.Attack, s.Defense, s.Vitality, s.Level,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting profile: %w", err)
	}
	return id, nil
}

// PlayerStats returns the profile's current stats.
//
// Postcondition: Returns ErrProfileNotFound when the profile does not exist.
func (r *ProfileRepository) PlayerStats(ctx context.Context) (combat.Stats, error) {
	var s combat.Stats
	err := r.db.QueryRow(ctx, `
		SELECT hp, max_hp, attack, defense, vitality, level
		FROM profiles WHERE id = $1`, r.profileID,
	).Scan(&s.HP, &s.MaxHP, &s.Attack, &s.Defense, &s.Vitality, &s.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		return combat.Stats{}, ErrProfileNotFound
	}
	if err != nil {
		return combat.Stats{}, fmt.Errorf("loading profile stats: %w", err)
	}
	return s, nil
}

// SyncHP stores the player's current HP.
func (r *ProfileRepository) SyncHP(ctx context.Context, hp int) error {
	return r.update(ctx, `UPDATE profiles SET hp = LEAST($2, max_hp), updated_at = NOW() WHERE id = $1`, hp)
}

// SyncVitality stores the player's current vitality.
func (r *ProfileRepository) SyncVitality(ctx context.Context, vitality int) error {
	return r.update(ctx, `UPDATE profiles SET vitality = $2, updated_at = NOW() WHERE id = $1`, vitality)
}

func (r *ProfileRepository) update(ctx context.Context, sql string, value int) error {
	tag, err := r.db.Exec(ctx, sql, r.profileID, value)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// EquippedCards returns the equipped card ids in slot order.
func (r *ProfileRepository) EquippedCards(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT card_id FROM profile_equipment
		WHERE profile_id = $1 ORDER BY slot ASC`, r.profileID)
	if err != nil {
		return nil, fmt.Errorf("listing equipped cards: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning equipped cards: %w", err)
	}
	return ids, nil
}

// SetEquipped replaces the profile's equipped cards, slot numbers following
// slice order.
func (r *ProfileRepository) SetEquipped(ctx context.Context, cardIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM profile_equipment WHERE profile_id = $1`, r.profileID); err != nil {
		return fmt.Errorf("clearing equipment: %w", err)
	}
	for slot, id := range cardIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO profile_equipment (profile_id, slot, card_id) VALUES ($1,$2,$3)`,
			r.profileID, slot, id); err != nil {
			return fmt.Errorf("equipping %q: %w", id, err)
		}
	}
	return tx.Commit(ctx)
}
