package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"mealroute/config"
	"mealroute/db"
	"mealroute/models"
)

const testDatabaseEnv = "MEALROUTE_TEST_DATABASE_URL"

// setupDB connects to the database in MEALROUTE_TEST_DATABASE_URL, applies
// the migrations and empties every table. The database is wiped, so point it
// at a scratch database. Tests skip under -short or when the variable is unset.
func setupDB(t *testing.T) context.Context {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}
	ctx := context.Background()
	require.NoError(t, db.Init(ctx, config.DBConfig{URL: dsn}))
	t.Cleanup(db.Close)
	require.NoError(t, db.ApplyMigrations(ctx, nil))
	_, err := db.Pool.Exec(ctx, `
		TRUNCATE messages, login_throttle, admin_profile, ledger_entries, catering_events,
		         clients, staff_zones, staff, plans, zones`)
	require.NoError(t, err)
	return ctx
}

func saveTestZones(ctx context.Context, t *testing.T) {
	t.Helper()
	for _, z := range []models.Zone{
		{ID: "z1", Name: "Ameerpet", AreaGroup: "Central"},
		{ID: "z2", Name: "Begumpet", AreaGroup: "North"},
		{ID: "z3", Name: "Koti", AreaGroup: "Central"},
	} {
		_, err := SaveZone(ctx, z)
		require.NoError(t, err)
	}
}
