package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrations_Rerunnable(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	for _, name := range names {
		b, err := migrationsFS.ReadFile(name)
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(b), ";") {
			s := strings.ToUpper(strings.TrimSpace(stmt))
			if strings.HasPrefix(s, "CREATE TABLE") {
				assert.Contains(t, s, "IF NOT EXISTS", "%s: %s", name, firstLine(stmt))
			}
			if strings.HasPrefix(s, "CREATE INDEX") {
				assert.Contains(t, s, "IF NOT EXISTS", "%s: %s", name, firstLine(stmt))
			}
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
