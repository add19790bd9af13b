package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SessionRepository struct {
	db     *database.DB
	sealer *session.Sealer
}

// NewSessionRepository stores dashboard sessions in PostgreSQL. Remote bearer
// tokens are sealed with sealer before they reach the table.
func NewSessionRepository(db *database.DB, sealer *session.Sealer) *SessionRepository {
	return &SessionRepository{db: db, sealer: sealer}
}

var _ session.Repository = (*SessionRepository)(nil)

// EnsureSchema creates the sessions table when it does not exist yet.
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS dashboard_sessions (
				id UUID PRIMARY KEY,
				admin_id TEXT NOT NULL,
				admin_name TEXT NOT NULL DEFAULT '',
				admin_email TEXT NOT NULL DEFAULT '',
				admin_role TEXT NOT NULL DEFAULT '',
				sealed_token TEXT NOT NULL,
				expires_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`); err != nil {
			return fmt.Errorf("create dashboard_sessions: %w", err)
		}

		if _, err := q.Exec(ctx, `
			CREATE INDEX IF NOT EXISTS idx_dashboard_sessions_expires_at
			ON dashboard_sessions (expires_at)
		`); err != nil {
			return fmt.Errorf("create dashboard_sessions index: %w", err)
		}
		return nil
	})
}

func (r *SessionRepository) Save(ctx context.Context, rec session.Record) error {
	q := GetQuerier(ctx, r.db)

	sealed, err := r.sealer.Seal(rec.Snapshot.Token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	query := `
		INSERT INTO dashboard_sessions (id, admin_id, admin_name, admin_email, admin_role, sealed_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			admin_id = EXCLUDED.admin_id,
			admin_name = EXCLUDED.admin_name,
			admin_email = EXCLUDED.admin_email,
			admin_role = EXCLUDED.admin_role,
			sealed_token = EXCLUDED.sealed_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`
	identity := rec.Snapshot.Identity
	_, err = q.Exec(ctx, query,
		rec.ID,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.Role,
		sealed,
		rec.ExpiresAt.UTC(),
	)
	return err
}

func (r *SessionRepository) Find(ctx context.Context, id string) (session.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return session.Record{}, session.ErrNotFound
	}

	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id::text, admin_id, admin_name, admin_email, admin_role, sealed_token, expires_at
		FROM dashboard_sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var (
		rec    session.Record
		sealed string
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Snapshot.Identity.ID,
		&rec.Snapshot.Identity.Name,
		&rec.Snapshot.Identity.Email,
		&rec.Snapshot.Identity.Role,
		&sealed,
		&rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Record{}, session.ErrNotFound
		}
		return session.Record{}, err
	}

	token, err := r.sealer.Open(sealed)
	if err != nil {
		return session.Record{}, fmt.Errorf("open token of session %s: %w", id, err)
	}
	rec.Snapshot.Token = token
	return rec, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM dashboard_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
