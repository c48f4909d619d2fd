package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feather-api/internal/db"

	"github.com/lib/pq"
)

// PostgresStore is the canonical user store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, access_token, refresh_token, roles, oauth_providers,
		       created_at, updated_at
		FROM app_user
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(
		&u.ID,
		&u.Email,
		&u.AccessToken,
		&u.RefreshToken,
		pq.Array(&u.Roles),
		pq.Array(&u.OAuthProviders),
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user: find by email: %w", err)
	}
	return u, nil
}

// Save inserts the user, or updates the mutable columns when the email
// is already registered. The user's ID is populated on return.
func (s *PostgresStore) Save(ctx context.Context, u *User) error {
	if len(u.Roles) == 0 {
		u.Roles = []string{DefaultRole}
	}
	if len(u.OAuthProviders) == 0 {
		u.OAuthProviders = []string{DefaultProvider}
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO app_user (email, access_token, refresh_token, roles, oauth_providers)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (LOWER(email)) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    roles = EXCLUDED.roles,
		    oauth_providers = EXCLUDED.oauth_providers,
		    updated_at = NOW()
		RETURNING id
	`,
		u.Email,
		u.AccessToken,
		u.RefreshToken,
		pq.Array(u.Roles),
		pq.Array(u.OAuthProviders),
	).Scan(&u.ID)

	if err != nil {
		return fmt.Errorf("user: save: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAccessToken(ctx context.Context, u *User, token string) error {
	return s.updateToken(ctx, u, "access_token", token)
}

func (s *PostgresStore) UpdateRefreshToken(ctx context.Context, u *User, token string) error {
	return s.updateToken(ctx, u, "refresh_token", token)
}

func (s *PostgresStore) updateToken(ctx context.Context, u *User, column, token string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE app_user SET `+column+` = $1, updated_at = NOW() WHERE id = $2`,
		token, u.ID,
	)
	if err != nil {
		return fmt.Errorf("user: update %s: %w", column, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user: update %s: %w", column, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
