package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository grants and consumes a profile's items.
type InventoryRepository struct {
	db        *pgxpool.Pool
	profileID int64
}

// NewInventoryRepository creates an InventoryRepository for profileID.
//
// Precondition: db must be a valid, open connection pool.
func NewInventoryRepository(db *pgxpool.Pool, profileID int64) *InventoryRepository {
	return &InventoryRepository{db: db, profileID: profileID}
}

// Grant adds one of itemSlug.
func (r *InventoryRepository) Grant(ctx context.Context, itemSlug string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory (profile_id, item_slug, quantity) VALUES ($1, $2, 1)
		ON CONFLICT (profile_id, item_slug) DO UPDATE SET quantity = inventory.quantity + 1`,
		r.profileID, itemSlug)
	if err != nil {
		return fmt.Errorf("granting %q: %w", itemSlug, err)
	}
	return nil
}

// Consume removes one of itemSlug. Consuming an item the profile does not
// hold is a no-op.
func (r *InventoryRepository) Consume(ctx context.Context, itemSlug string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE inventory SET quantity = quantity - 1
		WHERE profile_id = $1 AND item_slug = $2 AND quantity > 0`,
		r.profileID, itemSlug)
	if err != nil {
		return fmt.Errorf("consuming %q: %w", itemSlug, err)
	}
	return nil
}

// Quantity returns how many of itemSlug the profile holds.
func (r *InventoryRepository) Quantity(ctx context.Context, itemSlug string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT quantity FROM inventory WHERE profile_id = $1 AND item_slug = $2`,
		r.profileID, itemSlug).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading quantity of %q: %w", itemSlug, err)
	}
	return n, nil
}
