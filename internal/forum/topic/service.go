// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

// Package topic implements discussion threads: the paginated home page and
// the owner-gated add, edit, and delete flows.
package topic

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
	msgEditDenied   = "Sorry, you don't have permission to edit that topic!"
	msgDeleteDenied = "Sorry, you don't have permission to delete that topic!"
)

// Service implements the topic use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new topic [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Read Side

/*
HomePage returns one page of the topic list.

Description: Validates the zero-based page index against the live topic
count, then reads five topics in creation order. The last page is reachable
even when the count is an exact multiple of the page size, in which case it
is empty.

Parameters:
  - ctx: context.Context
  - page: int (zero-based)

Returns:
  - []Topic: The page of topics
  - pagination.Meta: Page metadata for navigation
  - error: apperr.NotFound when the page index is out of range
*/
func (service *Service) HomePage(ctx context.Context, page int) ([]Topic, pagination.Meta, error) {
	total, err := service.repository.CountTopics(ctx)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("topic_service_count_failed: %w", err)
	}

	if !pagination.InRange(total, page) {
		return nil, pagination.Meta{}, apperr.NotFound("Page")
	}

	topics, err := service.repository.ListPage(ctx, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("topic_service_list_failed: %w", err)
	}

	return topics, pagination.NewMeta(page, total), nil
}

// Get retrieves a single topic.
func (service *Service) Get(ctx context.Context, id int) (*Topic, error) {
	return service.repository.GetTopic(ctx, id)
}

// Exists reports whether a topic exists. The comment handlers use this to
// reject posts against deleted threads.
func (service *Service) Exists(ctx context.Context, id int) (bool, error) {
	return service.repository.Exists(ctx, id)
}

// ListByUser returns every topic a member has started, newest first.
func (service *Service) ListByUser(ctx context.Context, userID int) ([]Topic, error) {
	return service.repository.ListByUser(ctx, userID)
}

// # Write Side

/*
Create validates and persists a new topic.

Description: Title and content must each carry at least one word character;
both are stripped of surrounding whitespace before storage.

Parameters:
  - ctx: context.Context
  - userID: int (the author)
  - title: string
  - content: string

Returns:
  - *Topic: The created topic with its generated ID
  - error: Validation or storage errors
*/
func (service *Service) Create(ctx context.Context, userID int, title, content string) (*Topic, error) {
	validator := &validate.Validator{}
	err := validator.
		WordContent(FieldTitle, title).
		WordContent(FieldContent, content).
		Err()
	if err != nil {
		return nil, err
	}

	topic := &Topic{
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}

	if err := service.repository.CreateTopic(ctx, topic); err != nil {
		return nil, fmt.Errorf("topic_service_create_failed: %w", err)
	}

	metrics.TopicsCreatedTotal.Inc()
	return topic, nil
}

/*
Update rewrites a topic's title and content, owner only.

Description: The ownership check runs against the live row, not the session,
so a topic reassigned or deleted mid-flight is handled correctly.

Parameters:
  - ctx: context.Context
  - userID: int (the requesting user)
  - topicID: int
  - title: string
  - content: string

Returns:
  - error: NotFound, Validation, Forbidden, or storage errors
*/
func (service *Service) Update(ctx context.Context, userID, topicID int, title, content string) error {
	topic, err := service.repository.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}

	validator := &validate.Validator{}
	err = validator.
		WordContent(FieldTitle, title).
		WordContent(FieldContent, content).
		Err()
	if err != nil {
		return err
	}

	if !topic.OwnedBy(userID) {
		return apperr.Forbidden(msgEditDenied)
	}

	if err := service.repository.UpdateTopic(ctx, topicID, strings.TrimSpace(title), strings.TrimSpace(content)); err != nil {
		return fmt.Errorf("topic_service_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes a topic and all of its comments, owner only.

Parameters:
  - ctx: context.Context
  - userID: int (the requesting user)
  - topicID: int

Returns:
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) Delete(ctx context.Context, userID, topicID int) error {
	topic, err := service.repository.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}

	if !topic.OwnedBy(userID) {
		return apperr.Forbidden(msgDeleteDenied)
	}

	if err := service.repository.DeleteTopic(ctx, topicID); err != nil {
		return fmt.Errorf("topic_service_delete_failed: %w", err)
	}

	return nil
}
