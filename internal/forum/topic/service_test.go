// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package topic_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/forum/topic"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/dberr"
)

// fakeRepository is an in-memory topic Repository for service tests.
type fakeRepository struct {
	topics map[int]*topic.Topic
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{topics: make(map[int]*topic.Topic), nextID: 1}
}

func (f *fakeRepository) seed(userID int, title string) *topic.Topic {
	created := &topic.Topic{
		ID:        f.nextID,
		UserID:    userID,
		Title:     title,
		Content:   "seeded content",
		CreatedOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	}
	f.topics[f.nextID] = created
	f.nextID++
	return created
}

func (f *fakeRepository) ordered() []topic.Topic {
	all := []topic.Topic{}
	for _, found := range f.topics {
		all = append(all, *found)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedOn.Equal(all[j].CreatedOn) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedOn.Before(all[j].CreatedOn)
	})
	return all
}

func (f *fakeRepository) GetTopic(_ context.Context, id int) (*topic.Topic, error) {
	if found, ok := f.topics[id]; ok {
		copied := *found
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) ListPage(_ context.Context, limit, offset int) ([]topic.Topic, error) {
	all := f.ordered()
	if offset >= len(all) {
		return []topic.Topic{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeRepository) CountTopics(_ context.Context) (int, error) {
	return len(f.topics), nil
}

func (f *fakeRepository) ListByUser(_ context.Context, userID int) ([]topic.Topic, error) {
	owned := []topic.Topic{}
	for _, found := range f.topics {
		if found.UserID == userID {
			owned = append(owned, *found)
		}
	}
	return owned, nil
}

func (f *fakeRepository) Exists(_ context.Context, id int) (bool, error) {
	_, ok := f.topics[id]
	return ok, nil
}

func (f *fakeRepository) CreateTopic(_ context.Context, newTopic *topic.Topic) error {
	newTopic.ID = f.nextID
	newTopic.CreatedOn = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	copied := *newTopic
	f.topics[f.nextID] = &copied
	f.nextID++
	return nil
}

func (f *fakeRepository) UpdateTopic(_ context.Context, id int, title, content string) error {
	if found, ok := f.topics[id]; ok {
		found.Title = title
		found.Content = content
		return nil
	}
	return dberr.ErrNotFound
}

func (f *fakeRepository) DeleteTopic(_ context.Context, id int) error {
	delete(f.topics, id)
	return nil
}

const (
	authorID = 7
	otherID  = 8
)

func TestHomePage(t *testing.T) {
	ctx := context.Background()

	t.Run("empty forum has exactly one page", func(t *testing.T) {
		service := topic.NewService(newFakeRepository())

		topics, meta, err := service.HomePage(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, topics)
		assert.Equal(t, 0, meta.LastPage)

		_, _, err = service.HomePage(ctx, 1)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("pages through topics oldest first", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		for i := 0; i < 7; i++ {
			repo.seed(authorID, fmt.Sprintf("thread %d", i+1))
		}

		first, meta, err := service.HomePage(ctx, 0)
		require.NoError(t, err)
		require.Len(t, first, 5)
		assert.Equal(t, "thread 1", first[0].Title)
		assert.Equal(t, 7, meta.Total)
		assert.Equal(t, 1, meta.LastPage)

		second, _, err := service.HomePage(ctx, 1)
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.Equal(t, "thread 6", second[0].Title)
	})

	t.Run("last page is reachable but empty at an exact multiple", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		for i := 0; i < 5; i++ {
			repo.seed(authorID, fmt.Sprintf("thread %d", i+1))
		}

		topics, meta, err := service.HomePage(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, topics)
		assert.Equal(t, 1, meta.Page)

		_, _, err = service.HomePage(ctx, 2)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("negative page", func(t *testing.T) {
		service := topic.NewService(newFakeRepository())
		_, _, err := service.HomePage(ctx, -1)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCreateTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("strips surrounding whitespace", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)

		created, err := service.Create(ctx, authorID, "  A question  ", "  about pagination  ")
		require.NoError(t, err)
		assert.Equal(t, "A question", created.Title)
		assert.Equal(t, "about pagination", created.Content)
		assert.NotZero(t, created.ID)
	})

	t.Run("rejects a punctuation-only title", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)

		_, err := service.Create(ctx, authorID, "???", "real content")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Empty(t, repo.topics)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)

		_, err := service.Create(ctx, authorID, "real title", "   ")
		require.Error(t, err)
		assert.Empty(t, repo.topics)
	})

	t.Run("collects both failures at once", func(t *testing.T) {
		service := topic.NewService(newFakeRepository())

		_, err := service.Create(ctx, authorID, "!!!", "   ")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Len(t, appError.Details, 2)
	})
}

func TestUpdateTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can update", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		seeded := repo.seed(authorID, "old title")

		require.NoError(t, service.Update(ctx, authorID, seeded.ID, "new title", "new content"))
		assert.Equal(t, "new title", repo.topics[seeded.ID].Title)
	})

	t.Run("non-owner is denied and storage is untouched", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		seeded := repo.seed(authorID, "old title")

		err := service.Update(ctx, otherID, seeded.ID, "hijacked", "hijacked")
		require.Error(t, err)
		assert.True(t, apperr.IsForbidden(err))
		assert.Equal(t, "old title", repo.topics[seeded.ID].Title)
	})

	t.Run("missing topic", func(t *testing.T) {
		service := topic.NewService(newFakeRepository())
		err := service.Update(ctx, authorID, 42, "title", "content")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		seeded := repo.seed(authorID, "doomed thread")

		require.NoError(t, service.Delete(ctx, authorID, seeded.ID))
		assert.NotContains(t, repo.topics, seeded.ID)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		repo := newFakeRepository()
		service := topic.NewService(repo)
		seeded := repo.seed(authorID, "protected thread")

		err := service.Delete(ctx, otherID, seeded.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsForbidden(err))
		assert.Contains(t, repo.topics, seeded.ID)
	})
}
