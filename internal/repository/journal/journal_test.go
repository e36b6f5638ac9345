package journal_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/cakequest/landing-api/internal/models"
	"github.com/cakequest/landing-api/internal/repository/journal"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE subscribers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		subscribed_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)

	return db
}

func TestRecordAndCount(t *testing.T) {
	j := journal.New(newTestDB(t))
	ctx := context.Background()

	cnt, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)

	err = j.Record(ctx, models.Subscriber{
		Email:        "user@example.com",
		SubscribedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	err = j.Record(ctx, models.Subscriber{
		Email:        "second@example.com",
		SubscribedAt: time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	cnt, err = j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	var email string
	err = j.DB.QueryRow(`SELECT email FROM subscribers ORDER BY id LIMIT 1`).Scan(&email)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}
