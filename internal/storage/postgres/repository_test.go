package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/deckbattle/internal/dispatch"
	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/game/combat"
	"github.com/cory-johannsen/deckbattle/internal/game/party"
	"github.com/cory-johannsen/deckbattle/internal/storage/postgres"
	"github.com/cory-johannsen/deckbattle/internal/testutil"
)

func seedProfile(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()
	id, err := postgres.CreateProfile(context.Background(), db, "Hero",
		combat.Stats{HP: 80, MaxHP: 100, Attack: 3, Defense: 2, Vitality: 4, Level: 2})
	require.NoError(t, err)
	return id
}

func TestRepositories(t *testing.T) {
	db := testutil.NewMigratedPool(t)
	ctx := context.Background()

	t.Run("profile stats and sync", func(t *testing.T) {
		repo := postgres.NewProfileRepository(db, seedProfile(t, db))

		s, err := repo.PlayerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, combat.Stats{HP: 80, MaxHP: 100, Attack: 3, Defense: 2, Vitality: 4, Level: 2}, s)

		require.NoError(t, repo.SyncHP(ctx, 35))
		require.NoError(t, repo.SyncVitality(ctx, 3))
		s, err = repo.PlayerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 35, s.HP)
		assert.Equal(t, 3, s.Vitality)

		require.NoError(t, repo.SyncHP(ctx, 500))
		s, err = repo.PlayerStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100, s.HP, "hp is capped at max_hp")
	})

	t.Run("missing profile", func(t *testing.T) {
		repo := postgres.NewProfileRepository(db, 999999)
		_, err := repo.PlayerStats(ctx)
		assert.ErrorIs(t, err, postgres.ErrProfileNotFound)
		assert.ErrorIs(t, repo.SyncHP(ctx, 1), postgres.ErrProfileNotFound)
	})

	t.Run("equipped cards keep slot order", func(t *testing.T) {
		repo := postgres.NewProfileRepository(db, seedProfile(t, db))
		ids, err := repo.EquippedCards(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)

		require.NoError(t, repo.SetEquipped(ctx, []string{"slash", "guard", "potion"}))
		require.NoError(t, repo.SetEquipped(ctx, []string{"fireball", "slash"}))
		ids, err = repo.EquippedCards(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"fireball", "slash"}, ids)
	})

	t.Run("party roster round trip", func(t *testing.T) {
		repo := postgres.NewPartyRepository(db, seedProfile(t, db))
		knight := party.Record{ID: "knight", Name: "Knight", JobClass: "warrior", Level: 3,
			Durability: 40, MaxDurability: 50, Def: 4, CoverRate: 30, InjectCards: []string{"bash"}, IsActive: true}
		cleric := party.Record{ID: "cleric", Name: "Cleric", JobClass: "cleric", Level: 2,
			Durability: 30, MaxDurability: 30, IsActive: false, OriginType: party.OriginShadowHeroic}

		require.NoError(t, repo.Save(ctx, 1, cleric))
		require.NoError(t, repo.Save(ctx, 0, knight))

		got, err := repo.PartyMembers(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, knight, got[0])
		assert.Equal(t, "cleric", got[1].ID)
		assert.Empty(t, got[1].InjectCards)
		assert.False(t, got[1].IsActive)

		knight.Durability = 10
		require.NoError(t, repo.Save(ctx, 0, knight))
		got, err = repo.PartyMembers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, got[0].Durability)

		assert.Error(t, repo.Save(ctx, 2, party.Record{ID: "bad"}))
	})

	t.Run("inventory grant and consume", func(t *testing.T) {
		repo := postgres.NewInventoryRepository(db, seedProfile(t, db))
		require.NoError(t, repo.Grant(ctx, "herb"))
		require.NoError(t, repo.Grant(ctx, "herb"))
		n, err := repo.Quantity(ctx, "herb")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, repo.Consume(ctx, "herb"))
		require.NoError(t, repo.Consume(ctx, "herb"))
		require.NoError(t, repo.Consume(ctx, "herb"))
		n, err = repo.Quantity(ctx, "herb")
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		n, err = repo.Quantity(ctx, "never-held")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("victory reports are recorded once", func(t *testing.T) {
		repo := postgres.NewReportRepository(db, seedProfile(t, db))
		battleID := uuid.NewString()
		report := battle.VictoryReport{Action: "victory", Impacts: []string{"slime", "bat"}, ScenarioID: "meadow"}

		require.NoError(t, repo.ReportVictory(ctx, battleID, report))
		assert.ErrorIs(t, repo.ReportVictory(ctx, battleID, report), postgres.ErrReportExists)

		got, err := repo.ListByScenario(ctx, "meadow")
		require.NoError(t, err)
		assert.Equal(t, []battle.VictoryReport{report}, got)
	})
}

func TestPool(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))
	require.NoError(t, postgres.MigrateUp(pc.DSN()), "re-running migrations is a no-op")

	id := seedProfile(t, pc.RawPool)
	store := pc.Pool.ForProfile(id)
	require.NoError(t, store.Inventory.Grant(ctx, "potion"))
	n, err := store.Inventory.Quantity(ctx, "potion")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := store.Profile.PlayerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, s.MaxHP)
}

// Compile-time checks that the repositories satisfy the collaborator seams.
var (
	_ battle.StatsProvider    = (*postgres.ProfileRepository)(nil)
	_ battle.EquippedProvider = (*postgres.ProfileRepository)(nil)
	_ party.Provider          = (*postgres.PartyRepository)(nil)
	_ dispatch.ProfileSync    = (*postgres.ProfileRepository)(nil)
	_ dispatch.Inventory      = (*postgres.InventoryRepository)(nil)
	_ dispatch.Reporter       = (*postgres.ReportRepository)(nil)
)
