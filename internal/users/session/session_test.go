// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/users/session"
)

func TestNewSessionIsAnonymous(t *testing.T) {
	sess := session.New()

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.IsAuthenticated())
	assert.True(t, sess.Dirty())
}

func TestIdentityLifecycle(t *testing.T) {
	sess := session.New()

	sess.SetIdentity(42, "rosa")
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, 42, sess.UserID)
	assert.Equal(t, "rosa", sess.Username)

	sess.ClearIdentity()
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Username)
}

func TestFlashPopsExactlyOnce(t *testing.T) {
	sess := session.New()

	_, ok := sess.PopFlash()
	assert.False(t, ok, "fresh session has no flash")

	sess.SetSuccess("Topic has been added.")

	flash, ok := sess.PopFlash()
	require.True(t, ok)
	assert.Equal(t, session.FlashSuccess, flash.Kind)
	assert.Equal(t, "Topic has been added.", flash.Message)

	_, ok = sess.PopFlash()
	assert.False(t, ok, "flash must not survive a second read")
}

func TestFlashOverwrite(t *testing.T) {
	sess := session.New()

	sess.SetSuccess("first")
	sess.SetError("second")

	flash, ok := sess.PopFlash()
	require.True(t, ok)
	assert.Equal(t, session.FlashError, flash.Kind)
	assert.Equal(t, "second", flash.Message)
}

func TestFormStash(t *testing.T) {
	sess := session.New()

	assert.Nil(t, sess.PopForm(), "fresh session has no stashed form")

	sess.StashForm(map[string]string{"title": "Hello", "content": "world"})

	values := sess.PopForm()
	require.NotNil(t, values)
	assert.Equal(t, "Hello", values["title"])
	assert.Equal(t, "world", values["content"])

	assert.Nil(t, sess.PopForm(), "stash must not survive a second read")
}

func TestRequestedPathReplay(t *testing.T) {
	sess := session.New()

	assert.Equal(t, "/home/0", sess.PopRequestedPath("/home/0"),
		"no remembered path falls back to the default")

	sess.SetRequestedPath("/topics/add")
	assert.Equal(t, "/topics/add", sess.PopRequestedPath("/home/0"))

	assert.Equal(t, "/home/0", sess.PopRequestedPath("/home/0"),
		"remembered path is cleared after one use")
}
