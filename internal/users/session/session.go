// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

// Package session implements server-side browser sessions backed by Redis.
//
// A session is always an explicit value: handlers receive it through the
// request context and pass it around like any other argument. There is no
// process-global session state anywhere in the application.
package session

import (
	"github.com/google/uuid"
)

// Flash kinds shown to the user on the next page load.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification. It survives exactly one read.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session holds the per-browser state for one visitor.
//
// UserID zero means the visitor is anonymous. All fields are serialized to
// JSON and stored in Redis under the session ID; the client only ever holds
// a signed cookie naming that ID.
type Session struct {
	ID       string `json:"id"`
	UserID   int    `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`

	// RequestedPath remembers where an anonymous visitor was headed so the
	// login flow can send them back there afterwards.
	RequestedPath string `json:"requested_path,omitempty"`

	// Flash carries a one-shot notification across a redirect.
	Flash *Flash `json:"flash,omitempty"`

	// Form preserves submitted field values across a failed validation
	// redirect so the user does not retype everything.
	Form map[string]string `json:"form,omitempty"`

	// dirty marks sessions that need a Save before the response is written.
	dirty bool
}

// New creates a fresh anonymous session with a random ID.
func New() *Session {
	return &Session{
		ID:    uuid.NewString(),
		dirty: true,
	}
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// SetIdentity binds the session to a user account.
func (s *Session) SetIdentity(userID int, username string) {
	s.UserID = userID
	s.Username = username
	s.dirty = true
}

// ClearIdentity detaches the session from its user account.
func (s *Session) ClearIdentity() {
	s.UserID = 0
	s.Username = ""
	s.dirty = true
}

// SetSuccess queues a success flash for the next page load.
func (s *Session) SetSuccess(message string) {
	s.Flash = &Flash{Kind: FlashSuccess, Message: message}
	s.dirty = true
}

// SetError queues an error flash for the next page load.
func (s *Session) SetError(message string) {
	s.Flash = &Flash{Kind: FlashError, Message: message}
	s.dirty = true
}

// PopFlash returns the pending flash and clears it. The second return is
// false when no flash was queued.
func (s *Session) PopFlash() (Flash, bool) {
	if s.Flash == nil {
		return Flash{}, false
	}
	flash := *s.Flash
	s.Flash = nil
	s.dirty = true
	return flash, true
}

// StashForm preserves submitted form values across a redirect.
func (s *Session) StashForm(values map[string]string) {
	s.Form = values
	s.dirty = true
}

// PopForm returns the stashed form values and clears them. Returns nil when
// nothing was stashed.
func (s *Session) PopForm() map[string]string {
	values := s.Form
	if values == nil {
		return nil
	}
	s.Form = nil
	s.dirty = true
	return values
}

// SetRequestedPath remembers the path an anonymous visitor tried to reach.
func (s *Session) SetRequestedPath(path string) {
	s.RequestedPath = path
	s.dirty = true
}

// PopRequestedPath returns the remembered path, or fallback when none was
// set, clearing it either way.
func (s *Session) PopRequestedPath(fallback string) string {
	path := s.RequestedPath
	if path == "" {
		return fallback
	}
	s.RequestedPath = ""
	s.dirty = true
	return path
}

// Dirty reports whether the session has unsaved mutations.
func (s *Session) Dirty() bool {
	return s.dirty
}

// markClean resets the dirty flag after a successful Save.
func (s *Session) markClean() {
	s.dirty = false
}
