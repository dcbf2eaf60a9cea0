// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package comment

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

// NewRepository creates a new PostgreSQL implementation of the comment Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const commentColumns = `c.id, c.user_id, c.topic_id, u.username, c.content, c.created_on`

/*
GetComment retrieves a single comment.

Parameters:
  - ctx: context.Context
  - id: int

Returns:
  - *Comment: Hydrated comment entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) GetComment(ctx context.Context, id int) (*Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	row := repository.pool.QueryRow(ctx, query, id)
	comment, err := scanComment(row)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_get")
	}

	return comment, nil
}

/*
ListByTopic retrieves every comment in a thread in display order.

Description: Ordered by creation time with the ID as tie-break, this is the
sequence page arithmetic runs over. Two comments created in the same
instant still have a stable order.

Parameters:
  - ctx: context.Context
  - topicID: int

Returns:
  - []Comment: The full thread, possibly empty
  - error: Database errors
*/
func (repository *PostgresRepository) ListByTopic(ctx context.Context, topicID int) ([]Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.topic_id = $1
		ORDER BY c.created_on ASC, c.id ASC`

	rows, err := repository.pool.Query(ctx, query, topicID)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_list_by_topic")
	}
	defer rows.Close()

	return collectComments(rows)
}

// ListPage retrieves one page of a thread in display order.
func (repository *PostgresRepository) ListPage(ctx context.Context, topicID, limit, offset int) ([]Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.topic_id = $1
		ORDER BY c.created_on ASC, c.id ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, topicID, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_list_page")
	}
	defer rows.Close()

	return collectComments(rows)
}

// CountByTopic returns the number of comments in a thread.
func (repository *PostgresRepository) CountByTopic(ctx context.Context, topicID int) (int, error) {
	var total int
	err := repository.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE topic_id = $1`, topicID).Scan(&total)
	if err != nil {
		return 0, dberr.Wrap(err, "comment_count_by_topic")
	}
	return total, nil
}

// NewestCommentID returns the highest comment ID in a thread. COALESCE turns
// an empty thread into zero rather than a NULL scan error.
func (repository *PostgresRepository) NewestCommentID(ctx context.Context, topicID int) (int, error) {
	var newest int
	err := repository.pool.QueryRow(ctx,
		`SELECT COALESCE(max(id), 0) FROM comments WHERE topic_id = $1`, topicID).Scan(&newest)
	if err != nil {
		return 0, dberr.Wrap(err, "comment_newest_id")
	}
	return newest, nil
}

/*
ListByUser retrieves every comment a user has written, newest first.

Parameters:
  - ctx: context.Context
  - userID: int

Returns:
  - []Comment: The user's comments
  - error: Database errors
*/
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
		ORDER BY c.created_on DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_list_by_user")
	}
	defer rows.Close()

	return collectComments(rows)
}

/*
CreateComment persists a new comment record.

Parameters:
  - ctx: context.Context
  - comment: *Comment (Entity to persist)

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) CreateComment(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (user_id, topic_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_on`

	err := repository.pool.QueryRow(ctx, query,
		comment.UserID,
		comment.TopicID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedOn)
	if err != nil {
		return dberr.Wrap(err, "comment_create")
	}

	return nil
}

// UpdateComment rewrites a comment's content.
func (repository *PostgresRepository) UpdateComment(ctx context.Context, id int, content string) error {
	const query = `UPDATE comments SET content = $2 WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id, content); err != nil {
		return dberr.Wrap(err, "comment_update")
	}
	return nil
}

// DeleteComment removes a comment.
func (repository *PostgresRepository) DeleteComment(ctx context.Context, id int) error {
	if _, err := repository.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return dberr.Wrap(err, "comment_delete")
	}
	return nil
}

// # Row Scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.UserID,
		&comment.TopicID,
		&comment.Username,
		&comment.Content,
		&comment.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func collectComments(rows pgx.Rows) ([]Comment, error) {
	comments := []Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "comment_scan")
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "comment_rows")
	}
	return comments, nil
}
