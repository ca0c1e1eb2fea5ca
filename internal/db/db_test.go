package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryMigrates(t *testing.T) {
	ctx := context.Background()
	database, err := OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	for _, table := range []string{"cycles", "daily_logs", "settings", "activity_log"} {
		var n int
		err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	v, err := SchemaVersion(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// Re-running is a no-op.
	require.NoError(t, Migrate(ctx, database))
}

func TestSchemaConstraints(t *testing.T) {
	database, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec("INSERT INTO cycles (id, start_date) VALUES ('CYC-0001', '2024-01-01')")
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO cycles (id, start_date) VALUES ('CYC-0002', '2024-01-01')")
	assert.Error(t, err, "start_date is unique")

	_, err = database.Exec("INSERT INTO cycles (id, start_date, end_date) VALUES ('CYC-0003', '2024-02-10', '2024-02-01')")
	assert.Error(t, err, "end before start is rejected")

	_, err = database.Exec("INSERT INTO daily_logs (id, date, flow) VALUES ('LOG-0001', '2024-01-01', 'torrential')")
	assert.Error(t, err, "unknown flow is rejected")
}

func TestSeedFixtures(t *testing.T) {
	database, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, SeedFixtures(database))

	var open int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM cycles WHERE end_date IS NULL").Scan(&open))
	assert.Equal(t, 1, open)
}
