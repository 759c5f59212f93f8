package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/corpweb/sitedesk/storage/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityQueries(t *testing.T) {
	_, queries, cleanup, err := NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	rows := []db.CreateActivityParams{
		{ID: "01A", Operator: "editor", Screen: "products", Action: "create", RecordID: "7", CreatedAt: 1000},
		{ID: "01B", Operator: "editor", Screen: "carousel", Action: "reorder", CreatedAt: 2000},
		{ID: "01C", Operator: "editor", Screen: "products", Action: "feature", RecordID: "7", CreatedAt: 3000},
	}
	for _, r := range rows {
		got, err := queries.CreateActivity(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)
	}

	recent, err := queries.ListRecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "01C", recent[0].ID)
	assert.Equal(t, "01B", recent[1].ID)

	counts, err := queries.CountActivityByScreenSince(ctx, 1500)
	require.NoError(t, err)
	assert.Equal(t, []db.CountActivityByScreenSinceRow{
		{Screen: "carousel", Total: 1},
		{Screen: "products", Total: 1},
	}, counts)

	n, err := queries.DeleteActivityBefore(ctx, 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	database, queries, cleanup, err := NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	err = WithTransaction(database, func(tx *sql.Tx) error {
		_, err := queries.WithTx(tx).CreateActivity(ctx, db.CreateActivityParams{
			ID: "01X", Operator: "editor", Screen: "awards", Action: "delete", CreatedAt: 1,
		})
		return err
	})
	require.NoError(t, err)

	recent, err := queries.ListRecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestNew_CreatesAndMigrates(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "data", "sitedesk.db"))
	require.NoError(t, err)
	defer store.Close()

	version, err := store.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}
