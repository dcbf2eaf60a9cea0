// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package auth

import "context"

// UserRepository defines the persistence contract for user accounts.
//
// # Why an interface?
//
// The service layer depends on this contract rather than on pgx directly,
// so unit tests can exercise registration and login logic against an
// in-memory fake.
type UserRepository interface {
	// FindByID retrieves a user by primary key.
	FindByID(ctx context.Context, id int) (*User, error)

	// FindByUsername retrieves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// UsernameTaken reports whether a username is already registered.
	UsernameTaken(ctx context.Context, username string) (bool, error)

	// Create persists a new user and fills in the generated ID.
	Create(ctx context.Context, user *User) error
}
