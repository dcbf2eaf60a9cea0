// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/sec"
)

/*
Manager loads, saves, and destroys sessions.

Architecture:

  - Storage: session state is JSON in Redis under "session:<id>" with a TTL.
  - Transport: the client holds a cookie whose value is the session ID wrapped
    in an HMAC-signed token, so IDs cannot be forged or swapped.
  - Resilience: Load never fails. A missing, expired, or tampered cookie
    simply yields a fresh anonymous session.
*/
type Manager struct {
	client *redis.Client
	signer *sec.CookieSigner
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewManager creates a session Manager.
//
// # Parameters
//   - client: Redis client used as the backing store.
//   - signer: Signs and verifies the session cookie value.
//   - timeToLive: Sliding session lifetime, refreshed on every Save.
//   - secure: Marks cookies Secure (HTTPS-only); disable only in development.
//   - logger: Structured logger for storage failures.
func NewManager(client *redis.Client, signer *sec.CookieSigner, timeToLive time.Duration, secure bool, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		signer: signer,
		ttl:    timeToLive,
		secure: secure,
		logger: logger,
	}
}

// Load resolves the session for an incoming request.
//
// It never returns an error: any failure along the way (no cookie, bad
// signature, Redis miss, corrupt JSON) degrades to a fresh anonymous session.
func (m *Manager) Load(request *http.Request) *Session {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return New()
	}

	sessionID, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return New()
	}

	payload, err := m.client.Get(request.Context(), sessionKey(sessionID)).Bytes()
	if err != nil {
		// redis.Nil means the session expired; anything else is logged.
		if err != redis.Nil {
			m.logger.Error("session_load_failed", slog.Any("error", err))
		}
		return New()
	}

	var loaded Session
	if err := json.Unmarshal(payload, &loaded); err != nil {
		m.logger.Error("session_decode_failed", slog.Any("error", err))
		return New()
	}

	// The Redis key is authoritative for the ID.
	loaded.ID = sessionID
	return &loaded
}

// Save persists the session to Redis and refreshes the signed cookie.
func (m *Manager) Save(ctx context.Context, writer http.ResponseWriter, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if err := m.client.Set(ctx, sessionKey(sess.ID), payload, m.ttl).Err(); err != nil {
		return err
	}

	signedValue, err := m.signer.Sign(sess.ID, m.ttl)
	if err != nil {
		return err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    signedValue,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	sess.markClean()
	return nil
}

// Renew rotates the session ID in place, deleting the old Redis entry.
// Called on every privilege change (login) to prevent session fixation.
func (m *Manager) Renew(ctx context.Context, sess *Session) error {
	oldKey := sessionKey(sess.ID)
	sess.ID = uuid.NewString()
	sess.dirty = true

	if err := m.client.Del(ctx, oldKey).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// Destroy deletes the session from Redis and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, writer http.ResponseWriter, sess *Session) error {
	if err := m.client.Del(ctx, sessionKey(sess.ID)).Err(); err != nil && err != redis.Nil {
		return err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// sessionKey builds the Redis key for a session ID.
func sessionKey(id string) string {
	return constants.RedisPrefixSession + id
}
