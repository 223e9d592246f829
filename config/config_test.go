package config

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "AUTO_MIGRATE",
		"TOKEN", "ADMIN_ID", "BUSINESS_NAME", "TIMEZONE", "EXPIRING_DAYS",
		"OUTPUT_DIR", "ARCHIVE_PATH", "METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	// godotenv.Load reads .env from the working directory; keep tests isolated from it.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Report.Timezone)
	assert.Equal(t, 3, cfg.Report.ExpiringDays)
	assert.Equal(t, "postgres://postgres:@localhost:5432/mealroute", cfg.DB.DSN())
	assert.Equal(t, "Asia/Kolkata", cfg.Report.Location().String())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mealroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  host: db.internal
  port: 6432
report:
  business_name: Brahmana Vantillu
  expiring_days: 5
metrics:
  addr: ":9102"
`), 0o600))

	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("ADMIN_ID", "12345")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override.internal", cfg.DB.Host)
	assert.Equal(t, 6432, cfg.DB.Port)
	assert.Equal(t, "Brahmana Vantillu", cfg.Report.BusinessName)
	assert.Equal(t, 5, cfg.Report.ExpiringDays)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
	assert.Equal(t, int64(12345), cfg.Telegram.AdminID)
	// untouched defaults survive the overlay
	assert.Equal(t, "postgres", cfg.DB.User)
	assert.Equal(t, "Asia/Kolkata", cfg.Report.Timezone)
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mealroute.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"report":{"timezone":"UTC"}}`), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Report.Timezone)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load("mealroute.toml")
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "")
	t.Setenv("DB_PORT", "abc")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("DB_PORT", "")
	t.Setenv("ADMIN_ID", "me")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_AutoMigrate(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTO_MIGRATE", "true")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{Host: "db.internal", Port: 6432, User: "route@ops", Password: "p@ss:/w#1", Database: "mealroute"}
	dsn := cfg.DSN()

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6432", u.Host)
	assert.Equal(t, "/mealroute", u.Path)
	assert.Equal(t, "route@ops", u.User.Username())
	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss:/w#1", pass)

	cfg.URL = "postgres://u:p@other:5432/x?sslmode=disable"
	assert.Equal(t, cfg.URL, cfg.DSN())
}

func TestLoad_DatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app:secret@pg:5432/meals")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:secret@pg:5432/meals", cfg.DB.DSN())
}
