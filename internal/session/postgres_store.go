package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore keeps the session in the sessions table, one row per
// profile. The table is created by the goose migrations.
type PostgresStore struct {
	db      *sql.DB
	profile string
}

// NewPostgresStore creates a store for one profile
func NewPostgresStore(db *sql.DB, profile string) *PostgresStore {
	return &PostgresStore{db: db, profile: profile}
}

func (p *PostgresStore) Load(ctx context.Context) (*Session, error) {
	query := `
		SELECT token, user_id, name, email, role
		FROM sessions
		WHERE profile = $1
	`

	s := &Session{}
	err := p.db.QueryRowContext(ctx, query, p.profile).Scan(
		&s.Token,
		&s.User.ID,
		&s.User.Name,
		&s.User.Email,
		&s.User.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (profile, token, user_id, name, email, role, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (profile) DO UPDATE SET
			token = EXCLUDED.token,
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			updated_at = NOW()
	`

	_, err := p.db.ExecContext(
		ctx,
		query,
		p.profile,
		s.Token,
		s.User.ID,
		s.User.Name,
		s.User.Email,
		s.User.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE profile = $1`, p.profile); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
