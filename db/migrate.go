package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Embed migrations into the binary so `mealroute migrate` works
// regardless of the current working directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationNames returns the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// ApplyMigrations runs every embedded migration in order. Migrations are
// written to be re-runnable. applied is called after each file, if non-nil.
func ApplyMigrations(ctx context.Context, applied func(name string)) error {
	names, err := MigrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := Pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if applied != nil {
			applied(name)
		}
	}
	return nil
}
