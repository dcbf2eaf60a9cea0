// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/dberr"
	"github.com/parleyhq/parley/internal/users/auth"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	users  map[string]*auth.User
	nextID int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User), nextID: 1}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id int) (*auth.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeUserRepository) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, ok := f.users[user.Username]; ok {
		return dberr.ErrDuplicate
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account with a hashed password", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo)

		user, err := service.Register(ctx, auth.RegisterInput{
			Username: "rosa",
			Password: "correct horse",
		})

		require.NoError(t, err)
		assert.Equal(t, "rosa", user.Username)
		assert.NotEqual(t, "correct horse", user.PasswordDigest,
			"password must never be stored in plain text")
		assert.NotZero(t, user.ID)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo)

		_, err := service.Register(ctx, auth.RegisterInput{Username: "rosa", Password: "pw"})
		require.NoError(t, err)

		_, err = service.Register(ctx, auth.RegisterInput{Username: "rosa", Password: "other"})
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
		assert.Equal(t, "Username already taken!", appError.Message)
	})

	t.Run("rejects a blank username", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo)

		_, err := service.Register(ctx, auth.RegisterInput{Username: "   ", Password: "pw"})
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Empty(t, repo.users, "nothing may be persisted on validation failure")
	})

	t.Run("rejects a punctuation-only username", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo)

		_, err := service.Register(ctx, auth.RegisterInput{Username: "!!!", Password: "pw"})
		require.Error(t, err)
		assert.Empty(t, repo.users)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*auth.Service, *auth.User) {
		t.Helper()
		repo := newFakeUserRepository()
		service := auth.NewService(repo)
		user, err := service.Register(ctx, auth.RegisterInput{
			Username: "rosa",
			Password: "correct horse",
		})
		require.NoError(t, err)
		return service, user
	}

	t.Run("accepts valid credentials", func(t *testing.T) {
		service, registered := setup(t)

		user, err := service.Authenticate(ctx, "rosa", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Authenticate(ctx, "rosa", "battery staple")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
		assert.Equal(t, "Invalid username or password.", appError.Message)
	})

	t.Run("rejects an unknown user with the same message", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Authenticate(ctx, "nobody", "correct horse")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "Invalid username or password.", appError.Message,
			"failure reason must not reveal whether the account exists")
	})
}
