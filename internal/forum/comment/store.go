// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package comment

import "context"

// Repository defines the persistence contract for comments.
type Repository interface {
	// GetComment retrieves a single comment.
	GetComment(ctx context.Context, id int) (*Comment, error)

	// ListByTopic retrieves every comment in a thread, oldest first with
	// the ID as tie-break. Page arithmetic depends on this exact order.
	ListByTopic(ctx context.Context, topicID int) ([]Comment, error)

	// ListPage retrieves one page of a thread in the same order.
	ListPage(ctx context.Context, topicID, limit, offset int) ([]Comment, error)

	// CountByTopic returns the number of comments in a thread.
	CountByTopic(ctx context.Context, topicID int) (int, error)

	// NewestCommentID returns the highest comment ID in a thread, or zero
	// when the thread has no comments.
	NewestCommentID(ctx context.Context, topicID int) (int, error)

	// ListByUser retrieves every comment a user has written, newest first.
	ListByUser(ctx context.Context, userID int) ([]Comment, error)

	// CreateComment persists a new comment and fills in ID and CreatedOn.
	CreateComment(ctx context.Context, comment *Comment) error

	// UpdateComment rewrites a comment's content.
	UpdateComment(ctx context.Context, id int, content string) error

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, id int) error
}
