// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package topic

import "context"

// Repository defines the persistence contract for topics.
type Repository interface {
	// GetTopic retrieves a single topic with author and comment count.
	GetTopic(ctx context.Context, id int) (*Topic, error)

	// ListPage retrieves one page of topics ordered oldest first.
	ListPage(ctx context.Context, limit, offset int) ([]Topic, error)

	// CountTopics returns the total number of topics.
	CountTopics(ctx context.Context) (int, error)

	// ListByUser retrieves every topic started by a user, newest first.
	ListByUser(ctx context.Context, userID int) ([]Topic, error)

	// Exists reports whether a topic row exists.
	Exists(ctx context.Context, id int) (bool, error)

	// CreateTopic persists a new topic and fills in ID and CreatedOn.
	CreateTopic(ctx context.Context, topic *Topic) error

	// UpdateTopic rewrites a topic's title and content.
	UpdateTopic(ctx context.Context, id int, title, content string) error

	// DeleteTopic removes a topic; its comments go with it via cascade.
	DeleteTopic(ctx context.Context, id int) error
}
