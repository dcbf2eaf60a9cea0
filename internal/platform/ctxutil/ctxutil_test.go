// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/users/session"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx), "empty context yields empty ID")

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestLoggerRoundTrip(t *testing.T) {
	ctx := context.Background()

	// Missing logger falls back to the default, never nil.
	require.NotNil(t, ctxutil.GetLogger(ctx))

	custom := slog.Default().With(slog.String("component", "test"))
	ctx = ctxutil.WithLogger(ctx, custom)
	assert.Same(t, custom, ctxutil.GetLogger(ctx))
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, ctxutil.GetSession(ctx), "no middleware means no session")

	sess := session.New()
	ctx = ctxutil.WithSession(ctx, sess)
	assert.Same(t, sess, ctxutil.GetSession(ctx))
}
