// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

/*
Package comment implements thread replies and the page arithmetic that keeps
redirects landing on the right slice of a conversation.

Architecture:

  - Service: Validation, ownership checks, and page resolution.
  - Repository: Abstracted interface over PostgreSQL.

The page of a comment is never stored. It is always derived from the
comment's rank in its thread at read time, so deletions and concurrent posts
can shift a comment between pages without any bookkeeping.
*/
package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/metrics"
	"github.com/parleyhq/parley/internal/platform/validate"
	"github.com/parleyhq/parley/pkg/pagination"
)

// Permission denial messages. Word-for-word what the user sees in the flash.
const (
	msgEditDenied   = "Sorry, you don't have permission to edit that comment!"
	msgDeleteDenied = "Sorry, you don't have permission to delete that comment!"
)

// Service implements the comment use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new comment [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Read Side

/*
TopicPage returns one page of a thread.

Description: Validates the zero-based page index against the live comment
count, then reads five comments in display order. Mirrors HomePage on the
topic side, including the reachable-but-empty last page at exact multiples
of the page size.

Parameters:
  - ctx: context.Context
  - topicID: int
  - page: int (zero-based)

Returns:
  - []Comment: The page of comments
  - pagination.Meta: Page metadata for navigation
  - error: apperr.NotFound when the page index is out of range
*/
func (service *Service) TopicPage(ctx context.Context, topicID, page int) ([]Comment, pagination.Meta, error) {
	total, err := service.repository.CountByTopic(ctx, topicID)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("comment_service_count_failed: %w", err)
	}

	if !pagination.InRange(total, page) {
		return nil, pagination.Meta{}, apperr.NotFound("Page")
	}

	comments, err := service.repository.ListPage(ctx, topicID, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("comment_service_list_failed: %w", err)
	}

	return comments, pagination.NewMeta(page, total), nil
}

/*
PageOf locates the page a comment currently sits on within its thread.

Description: Reads the thread in display order and converts the comment's
rank into a page index. The computation always runs against live state;
posting or deleting neighbors between two calls may legitimately move the
comment to a different page.

Parameters:
  - ctx: context.Context
  - commentID: int
  - topicID: int

Returns:
  - int: Zero-based page index
  - error: apperr.NotFound when the comment is not in the thread
*/
func (service *Service) PageOf(ctx context.Context, commentID, topicID int) (int, error) {
	thread, err := service.repository.ListByTopic(ctx, topicID)
	if err != nil {
		return 0, fmt.Errorf("comment_service_page_of_failed: %w", err)
	}

	for rank, comment := range thread {
		if comment.ID == commentID {
			return pagination.PageOfRank(rank), nil
		}
	}

	return 0, apperr.NotFound("Comment")
}

/*
LatestPage resolves the page holding a thread's newest comment.

Description: This is where a visitor lands after posting. An empty thread
resolves to page zero.

Parameters:
  - ctx: context.Context
  - topicID: int

Returns:
  - int: Zero-based page index
  - error: Storage errors
*/
func (service *Service) LatestPage(ctx context.Context, topicID int) (int, error) {
	newestID, err := service.repository.NewestCommentID(ctx, topicID)
	if err != nil {
		return 0, fmt.Errorf("comment_service_latest_failed: %w", err)
	}
	if newestID == 0 {
		return 0, nil
	}

	return service.PageOf(ctx, newestID, topicID)
}

// Get retrieves a single comment.
func (service *Service) Get(ctx context.Context, id int) (*Comment, error) {
	return service.repository.GetComment(ctx, id)
}

/*
GetOwned retrieves a comment only if the given user wrote it.

Description: Backs the edit page, which only the author may open.

Parameters:
  - ctx: context.Context
  - userID: int (the requesting user)
  - commentID: int

Returns:
  - *Comment: The comment
  - error: NotFound or Forbidden
*/
func (service *Service) GetOwned(ctx context.Context, userID, commentID int) (*Comment, error) {
	comment, err := service.repository.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !comment.OwnedBy(userID) {
		return nil, apperr.Forbidden(msgEditDenied)
	}

	return comment, nil
}

// ListByUser returns every comment a member has written, newest first.
func (service *Service) ListByUser(ctx context.Context, userID int) ([]Comment, error) {
	return service.repository.ListByUser(ctx, userID)
}

// # Write Side

/*
Create validates and persists a new comment on a thread.

Parameters:
  - ctx: context.Context
  - userID: int (the author)
  - topicID: int
  - content: string

Returns:
  - *Comment: The created comment with its generated ID
  - error: Validation or storage errors
*/
func (service *Service) Create(ctx context.Context, userID, topicID int, content string) (*Comment, error) {
	validator := &validate.Validator{}
	if err := validator.WordContent(FieldContent, content).Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		UserID:  userID,
		TopicID: topicID,
		Content: strings.TrimSpace(content),
	}

	if err := service.repository.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	metrics.CommentsCreatedTotal.Inc()
	return comment, nil
}

/*
Update rewrites a comment's content, owner only.

Parameters:
  - ctx: context.Context
  - userID: int (the requesting user)
  - commentID: int
  - content: string

Returns:
  - error: NotFound, Validation, Forbidden, or storage errors
*/
func (service *Service) Update(ctx context.Context, userID, commentID int, content string) error {
	comment, err := service.repository.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	validator := &validate.Validator{}
	if err := validator.WordContent(FieldContent, content).Err(); err != nil {
		return err
	}

	if !comment.OwnedBy(userID) {
		return apperr.Forbidden(msgEditDenied)
	}

	if err := service.repository.UpdateComment(ctx, commentID, strings.TrimSpace(content)); err != nil {
		return fmt.Errorf("comment_service_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes a comment, owner only.

Parameters:
  - ctx: context.Context
  - userID: int (the requesting user)
  - commentID: int

Returns:
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) Delete(ctx context.Context, userID, commentID int) error {
	comment, err := service.repository.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if !comment.OwnedBy(userID) {
		return apperr.Forbidden(msgDeleteDenied)
	}

	if err := service.repository.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	return nil
}
