// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package comment_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/forum/comment"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/dberr"
)

// fakeRepository is an in-memory comment Repository for service tests.
type fakeRepository struct {
	comments map[int]*comment.Comment
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{comments: make(map[int]*comment.Comment), nextID: 1}
}

// seed inserts a comment directly, bypassing validation, with a timestamp
// offset to keep the display order deterministic.
func (f *fakeRepository) seed(userID, topicID int, content string) *comment.Comment {
	created := &comment.Comment{
		ID:        f.nextID,
		UserID:    userID,
		TopicID:   topicID,
		Content:   content,
		CreatedOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	}
	f.comments[f.nextID] = created
	f.nextID++
	return created
}

func (f *fakeRepository) GetComment(_ context.Context, id int) (*comment.Comment, error) {
	if found, ok := f.comments[id]; ok {
		copied := *found
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) ListByTopic(_ context.Context, topicID int) ([]comment.Comment, error) {
	thread := []comment.Comment{}
	for _, found := range f.comments {
		if found.TopicID == topicID {
			thread = append(thread, *found)
		}
	}
	sort.Slice(thread, func(i, j int) bool {
		if thread[i].CreatedOn.Equal(thread[j].CreatedOn) {
			return thread[i].ID < thread[j].ID
		}
		return thread[i].CreatedOn.Before(thread[j].CreatedOn)
	})
	return thread, nil
}

func (f *fakeRepository) ListPage(ctx context.Context, topicID, limit, offset int) ([]comment.Comment, error) {
	thread, _ := f.ListByTopic(ctx, topicID)
	if offset >= len(thread) {
		return []comment.Comment{}, nil
	}
	end := offset + limit
	if end > len(thread) {
		end = len(thread)
	}
	return thread[offset:end], nil
}

func (f *fakeRepository) CountByTopic(ctx context.Context, topicID int) (int, error) {
	thread, _ := f.ListByTopic(ctx, topicID)
	return len(thread), nil
}

func (f *fakeRepository) NewestCommentID(ctx context.Context, topicID int) (int, error) {
	newest := 0
	for _, found := range f.comments {
		if found.TopicID == topicID && found.ID > newest {
			newest = found.ID
		}
	}
	return newest, nil
}

func (f *fakeRepository) ListByUser(_ context.Context, userID int) ([]comment.Comment, error) {
	owned := []comment.Comment{}
	for _, found := range f.comments {
		if found.UserID == userID {
			owned = append(owned, *found)
		}
	}
	return owned, nil
}

func (f *fakeRepository) CreateComment(_ context.Context, newComment *comment.Comment) error {
	newComment.ID = f.nextID
	newComment.CreatedOn = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	copied := *newComment
	f.comments[f.nextID] = &copied
	f.nextID++
	return nil
}

func (f *fakeRepository) UpdateComment(_ context.Context, id int, content string) error {
	if found, ok := f.comments[id]; ok {
		found.Content = content
		return nil
	}
	return dberr.ErrNotFound
}

func (f *fakeRepository) DeleteComment(_ context.Context, id int) error {
	delete(f.comments, id)
	return nil
}

const (
	topicID  = 1
	authorID = 7
	otherID  = 8
)

func seedThread(repo *fakeRepository, count int) []*comment.Comment {
	seeded := make([]*comment.Comment, 0, count)
	for i := 0; i < count; i++ {
		seeded = append(seeded, repo.seed(authorID, topicID, fmt.Sprintf("reply %d", i+1)))
	}
	return seeded
}

func TestPageOf(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service := comment.NewService(repo)
	thread := seedThread(repo, 12)

	// Rank to page with five comments per page.
	testCases := []struct {
		rank     int
		wantPage int
	}{
		{rank: 0, wantPage: 0},
		{rank: 4, wantPage: 0},
		{rank: 5, wantPage: 1},
		{rank: 9, wantPage: 1},
		{rank: 10, wantPage: 2},
		{rank: 11, wantPage: 2},
	}

	for _, testCase := range testCases {
		t.Run(fmt.Sprintf("rank %d", testCase.rank), func(t *testing.T) {
			page, err := service.PageOf(ctx, thread[testCase.rank].ID, topicID)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantPage, page)
		})
	}

	t.Run("absent comment", func(t *testing.T) {
		_, err := service.PageOf(ctx, 9999, topicID)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("comment from another thread", func(t *testing.T) {
		stray := repo.seed(authorID, topicID+1, "elsewhere")
		_, err := service.PageOf(ctx, stray.ID, topicID)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestLatestPage(t *testing.T) {
	ctx := context.Background()

	t.Run("empty thread resolves to page zero", func(t *testing.T) {
		service := comment.NewService(newFakeRepository())
		page, err := service.LatestPage(ctx, topicID)
		require.NoError(t, err)
		assert.Equal(t, 0, page)
	})

	t.Run("posting the sixth comment moves the landing page", func(t *testing.T) {
		repo := newFakeRepository()
		service := comment.NewService(repo)
		seedThread(repo, 5)

		page, err := service.LatestPage(ctx, topicID)
		require.NoError(t, err)
		assert.Equal(t, 0, page, "fifth comment still sits on page zero")

		_, err = service.Create(ctx, authorID, topicID, "the sixth reply")
		require.NoError(t, err)

		page, err = service.LatestPage(ctx, topicID)
		require.NoError(t, err)
		assert.Equal(t, 1, page, "sixth comment opens page one")
	})

	t.Run("resolution is stable across repeated calls", func(t *testing.T) {
		repo := newFakeRepository()
		service := comment.NewService(repo)
		seedThread(repo, 7)

		first, err := service.LatestPage(ctx, topicID)
		require.NoError(t, err)
		second, err := service.LatestPage(ctx, topicID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestTopicPage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service := comment.NewService(repo)
	seedThread(repo, 10)

	t.Run("full page", func(t *testing.T) {
		comments, meta, err := service.TopicPage(ctx, topicID, 0)
		require.NoError(t, err)
		assert.Len(t, comments, 5)
		assert.Equal(t, 10, meta.Total)
		assert.Equal(t, 2, meta.LastPage)
	})

	t.Run("last page is reachable but empty at an exact multiple", func(t *testing.T) {
		comments, meta, err := service.TopicPage(ctx, topicID, 2)
		require.NoError(t, err)
		assert.Empty(t, comments)
		assert.Equal(t, 2, meta.Page)
	})

	t.Run("page past the end", func(t *testing.T) {
		_, _, err := service.TopicPage(ctx, topicID, 3)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("negative page", func(t *testing.T) {
		_, _, err := service.TopicPage(ctx, topicID, -1)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("strips surrounding whitespace", func(t *testing.T) {
		repo := newFakeRepository()
		service := comment.NewService(repo)

		created, err := service.Create(ctx, authorID, topicID, "  a fine point  ")
		require.NoError(t, err)
		assert.Equal(t, "a fine point", created.Content)
		assert.NotZero(t, created.ID)
	})

	t.Run("rejects punctuation-only content", func(t *testing.T) {
		repo := newFakeRepository()
		service := comment.NewService(repo)

		_, err := service.Create(ctx, authorID, topicID, "!!!")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Empty(t, repo.comments, "nothing may be persisted on validation failure")
	})
}

func TestOwnershipGates(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*comment.Service, *fakeRepository, *comment.Comment) {
		t.Helper()
		repo := newFakeRepository()
		return comment.NewService(repo), repo, repo.seed(authorID, topicID, "original wording")
	}

	t.Run("owner can update", func(t *testing.T) {
		service, repo, seeded := setup(t)

		require.NoError(t, service.Update(ctx, authorID, seeded.ID, "revised wording"))
		assert.Equal(t, "revised wording", repo.comments[seeded.ID].Content)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		service, repo, seeded := setup(t)

		err := service.Update(ctx, otherID, seeded.ID, "defaced")
		require.Error(t, err)
		assert.True(t, apperr.IsForbidden(err))
		assert.Equal(t, "original wording", repo.comments[seeded.ID].Content,
			"a denied edit must not touch storage")
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		service, repo, seeded := setup(t)

		err := service.Delete(ctx, otherID, seeded.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsForbidden(err))
		assert.Contains(t, repo.comments, seeded.ID)
	})

	t.Run("owner can delete", func(t *testing.T) {
		service, repo, seeded := setup(t)

		require.NoError(t, service.Delete(ctx, authorID, seeded.ID))
		assert.NotContains(t, repo.comments, seeded.ID)
	})

	t.Run("non-owner cannot open the edit page", func(t *testing.T) {
		service, _, seeded := setup(t)

		_, err := service.GetOwned(ctx, otherID, seeded.ID)
		assert.True(t, apperr.IsForbidden(err))

		owned, err := service.GetOwned(ctx, authorID, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, owned.ID)
	})
}

func TestEditDoesNotMoveComment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service := comment.NewService(repo)
	thread := seedThread(repo, 8)
	target := thread[6] // rank 6, page 1

	before, err := service.PageOf(ctx, target.ID, topicID)
	require.NoError(t, err)

	require.NoError(t, service.Update(ctx, authorID, target.ID, "edited in place"))

	after, err := service.PageOf(ctx, target.ID, topicID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "editing must not change a comment's position")
}
