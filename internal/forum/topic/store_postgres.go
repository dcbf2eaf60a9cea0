// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package topic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleyhq/parley/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the topic Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Topics are read with a LEFT JOIN on comments so threads nobody has
// replied to yet still show up with a zero count.
const topicColumns = `
	t.id, t.user_id, u.username, t.title, t.content, t.created_on,
	count(c.id) AS comments_count`

/*
GetTopic retrieves a single topic with its author and comment count.

Parameters:
  - ctx: context.Context
  - id: int

Returns:
  - *Topic: Hydrated topic entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) GetTopic(ctx context.Context, id int) (*Topic, error) {
	const query = `
		SELECT` + topicColumns + `
		FROM topics t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN comments c ON c.topic_id = t.id
		WHERE t.id = $1
		GROUP BY t.id, u.username`

	row := repository.pool.QueryRow(ctx, query, id)
	topic, err := scanTopic(row)
	if err != nil {
		return nil, dberr.Wrap(err, "topic_get")
	}

	return topic, nil
}

/*
ListPage retrieves one page of topics, oldest first.

Description: Pages through the topic list in creation order, so page 0 holds
the forum's oldest threads and the last page receives new ones.

Parameters:
  - ctx: context.Context
  - limit: int (page size)
  - offset: int (rows to skip)

Returns:
  - []Topic: The page of topics, possibly empty
  - error: Database errors
*/
func (repository *PostgresRepository) ListPage(ctx context.Context, limit, offset int) ([]Topic, error) {
	const query = `
		SELECT` + topicColumns + `
		FROM topics t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN comments c ON c.topic_id = t.id
		GROUP BY t.id, u.username
		ORDER BY t.created_on ASC, t.id ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "topic_list_page")
	}
	defer rows.Close()

	return collectTopics(rows)
}

// CountTopics returns the total number of topics.
func (repository *PostgresRepository) CountTopics(ctx context.Context) (int, error) {
	var total int
	err := repository.pool.QueryRow(ctx, `SELECT count(*) FROM topics`).Scan(&total)
	if err != nil {
		return 0, dberr.Wrap(err, "topic_count")
	}
	return total, nil
}

/*
ListByUser retrieves every topic started by a user, newest first.

Parameters:
  - ctx: context.Context
  - userID: int

Returns:
  - []Topic: The user's topics
  - error: Database errors
*/
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Topic, error) {
	const query = `
		SELECT` + topicColumns + `
		FROM topics t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN comments c ON c.topic_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id, u.username
		ORDER BY t.created_on DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "topic_list_by_user")
	}
	defer rows.Close()

	return collectTopics(rows)
}

// Exists reports whether a topic row exists.
func (repository *PostgresRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repository.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM topics WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "topic_exists")
	}
	return exists, nil
}

/*
CreateTopic persists a new topic record.

Description: Inserts the row and backfills the generated primary key and
timestamp onto the entity, so the handler can redirect straight to the new
thread without a second query.

Parameters:
  - ctx: context.Context
  - topic: *Topic (Entity to persist)

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) CreateTopic(ctx context.Context, topic *Topic) error {
	const query = `
		INSERT INTO topics (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_on`

	err := repository.pool.QueryRow(ctx, query,
		topic.UserID,
		topic.Title,
		topic.Content,
	).Scan(&topic.ID, &topic.CreatedOn)
	if err != nil {
		return dberr.Wrap(err, "topic_create")
	}

	return nil
}

// UpdateTopic rewrites a topic's title and content.
func (repository *PostgresRepository) UpdateTopic(ctx context.Context, id int, title, content string) error {
	const query = `UPDATE topics SET title = $2, content = $3 WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id, title, content); err != nil {
		return dberr.Wrap(err, "topic_update")
	}
	return nil
}

// DeleteTopic removes a topic. The comments table cascades on topic deletion.
func (repository *PostgresRepository) DeleteTopic(ctx context.Context, id int) error {
	if _, err := repository.pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return dberr.Wrap(err, "topic_delete")
	}
	return nil
}

// # Row Scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*Topic, error) {
	topic := &Topic{}
	err := row.Scan(
		&topic.ID,
		&topic.UserID,
		&topic.Username,
		&topic.Title,
		&topic.Content,
		&topic.CreatedOn,
		&topic.CommentsCount,
	)
	if err != nil {
		return nil, err
	}
	return topic, nil
}

func collectTopics(rows pgx.Rows) ([]Topic, error) {
	topics := []Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "topic_scan")
		}
		topics = append(topics, *topic)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "topic_rows")
	}
	return topics, nil
}
