package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/cory-johannsen/deckbattle/migrations"
)

// NewMigrator returns a schema migrator for dsn. An empty sourceDir uses the
// migrations embedded in the binary; otherwise files are read from sourceDir.
//
// Postcondition: The caller must Close the returned migrator.
func NewMigrator(dsn, sourceDir string) (*migrate.Migrate, error) {
	if sourceDir != "" {
		m, err := migrate.New("file://"+sourceDir, dsn)
		if err != nil {
			return nil, fmt.Errorf("creating migrator for %q: %w", sourceDir, err)
		}
		return m, nil
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending embedded migration to dsn.
//
// Postcondition: Returns nil when the schema is current, including when
// nothing had to change.
func MigrateUp(dsn string) error {
	m, err := NewMigrator(dsn, "")
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
