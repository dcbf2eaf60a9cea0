// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

/*
Package auth implements user accounts and credential verification.

It handles registration with secure password hashing and the login check
used to bind a browser session to an account.

Architecture:

  - Service: Orchestrates business logic (Register, Authenticate).
  - Repository: Abstracted interface over PostgreSQL (Users).
  - Security: Bcrypt digests; constant-time comparison on login.

Browser session state itself lives in the sibling session package; this
package only decides who the visitor is.
*/
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/metrics"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/internal/platform/validate"
)

// Service implements the account use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing or login
// logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Conflict (username taken), or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	err := validator.
		Required(FieldUsername, input.Username).
		WordContent(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, 50).
		Required(FieldPassword, input.Password).
		Err()
	if err != nil {
		return nil, err
	}

	// Verify username uniqueness up front for a friendly message. The unique
	// index on users.username still backstops concurrent signups.
	taken, err := service.userRepository.UsernameTaken(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_username_check_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Username already taken!")
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// and CPU utilization during registration spikes.
	digest, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Username:       input.Username,
		PasswordDigest: digest,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		// A concurrent signup can still hit the unique index.
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			return nil, apperr.Conflict("Username already taken!")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

/*
Authenticate verifies a username/password pair.

Description: Looks up the account and performs a constant-time bcrypt
comparison. The failure message never reveals which of the two inputs was
wrong, to prevent account enumeration.

Parameters:
  - ctx: context.Context
  - username: string
  - password: string

Returns:
  - *User: The authenticated account
  - error: apperr.Unauthorized on any credential mismatch
*/
func (service *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := service.userRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, apperr.Unauthorized("Invalid username or password.")
	}

	if !sec.CheckPasswordHash(password, user.PasswordDigest) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, apperr.Unauthorized("Invalid username or password.")
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// Get retrieves a user by ID.
func (service *Service) Get(ctx context.Context, id int) (*User, error) {
	return service.userRepository.FindByID(ctx, id)
}
