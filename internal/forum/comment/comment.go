// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package comment

import "time"

// FieldContent is the single form field on the comment flows.
const FieldContent = "content"

// Comment is a reply inside a topic thread.
//
// Username is a denormalized read-side field filled in by the store's JOIN.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TopicID   int       `json:"topic_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
}

// OwnedBy reports whether the given user wrote this comment.
func (c *Comment) OwnedBy(userID int) bool {
	return c.UserID == userID
}
