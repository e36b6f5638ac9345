package journal

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/cakequest/landing-api/internal/models"
)

// Journal is a local best-effort audit trail of accepted signups. The
// sheet stays the source of truth; the journal is never consulted for
// the duplicate check.
type Journal struct {
	DB *sql.DB
}

func New(db *sql.DB) *Journal {
	return &Journal{DB: db}
}

func (j *Journal) Record(ctx context.Context, sub models.Subscriber) error {
	_, err := j.DB.ExecContext(ctx,
		`INSERT INTO subscribers (email, subscribed_at) VALUES (?, ?)`,
		sub.Email, sub.SubscribedAt,
	)
	return err
}

func (j *Journal) Count(ctx context.Context) (int, error) {
	var cnt int
	err := j.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&cnt)
	return cnt, err
}
