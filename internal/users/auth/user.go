// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package auth

import "time"

// Form field names shared by the login and signup flows.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// User is a registered forum member.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	CreatedOn      time.Time `json:"created_on"`
}
