// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package topic

import "time"

// Form field names for the add/edit topic flows.
const (
	FieldTitle   = "title"
	FieldContent = "content"
)

// Topic is a discussion thread started by a member.
//
// Username and CommentsCount are denormalized read-side fields filled in by
// the store's JOINs; they are not columns on the topics table.
type Topic struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Username      string    `json:"username"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedOn     time.Time `json:"created_on"`
	CommentsCount int       `json:"comments_count"`
}

// OwnedBy reports whether the given user started this topic.
func (t *Topic) OwnedBy(userID int) bool {
	return t.UserID == userID
}
