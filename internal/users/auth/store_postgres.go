// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleyhq/parley/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByID retrieves a user record by primary key.

Parameters:
  - ctx: context.Context
  - id: int

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int) (*User, error) {
	const query = `
		SELECT id, username, password_digest, created_on
		FROM users
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordDigest,
		&user.CreatedOn,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_id")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, password_digest, created_on
		FROM users
		WHERE username = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordDigest,
		&user.CreatedOn,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_username")
	}

	return user, nil
}

/*
UsernameTaken reports whether a username already exists.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - bool: true when the username is registered
  - error: Database errors
*/
func (repository *PostgresUserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var taken bool
	if err := repository.pool.QueryRow(ctx, query, username).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "user_username_taken")
	}

	return taken, nil
}

/*
Create persists a new user record.

Description: Inserts the account row and backfills the generated primary key
onto the entity.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: dberr.ErrDuplicate on username collision, or database errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (username, password_digest)
		VALUES ($1, $2)
		RETURNING id, created_on`

	err := repository.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordDigest,
	).Scan(&user.ID, &user.CreatedOn)
	if err != nil {
		return dberr.Wrap(err, "user_create")
	}

	return nil
}
