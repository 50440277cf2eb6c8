package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

//go:embed *.sql
var sqlMigrations embed.FS

func newMigrator(db *bun.DB) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations()

	if err := migrations.Discover(sqlMigrations); err != nil {
		return nil, fmt.Errorf("failed to discover migrations: %w", err)
	}

	return migrate.NewMigrator(db, migrations), nil
}

// Migrate applies every pending migration. A failed group is rolled back before the
// error is returned.
func Migrate(ctx context.Context, db *bun.DB) (err error) {
	migrator, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrator: %w", err)
	}
	defer func() {
		if unlockErr := migrator.Unlock(ctx); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to unlock migrator: %w", unlockErr)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		if _, rollbackErr := migrator.Rollback(ctx); rollbackErr != nil {
			return fmt.Errorf(
				"failed to apply migrations (%v) and rollback was unsuccessful: %w",
				err,
				rollbackErr,
			)
		}
		return fmt.Errorf("failed to apply migrations. rolled back successfully: %w", err)
	}

	if group.IsZero() {
		log.Info("there are no new migrations to run (database is up to date)")
		return nil
	}
	log.Infof("migrated to %s", group)

	return nil
}

// Status returns the applied and pending migration names.
func Status(ctx context.Context, db *bun.DB) (applied []string, pending []string, err error) {
	migrator, err := newMigrator(db)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to init migrator: %w", err)
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get migration status: %w", err)
	}
	for _, m := range ms.Applied() {
		applied = append(applied, m.Name)
	}
	for _, m := range ms.Unapplied() {
		pending = append(pending, m.Name)
	}
	return applied, pending, nil
}
