// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/users/session"
)

// LoadSession resolves the browser session for every request and injects it
// into the context.
//
// # Flow
//  1. Read the signed session cookie, if any.
//  2. Fetch the session record from Redis.
//  3. Degrade to a fresh anonymous session on any failure.
//  4. Inject [*session.Session] into the request context.
//
// Handlers that mutate the session are responsible for calling Save before
// writing their response, so the cookie and Redis entry stay in sync with
// what the handler decided.
func LoadSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sess := manager.Load(request)
			ctx := ctxutil.WithSession(request.Context(), sess)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireUser blocks anonymous visitors from protected routes.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
//
// # Flow
//  1. Check the session in context for a logged-in user.
//  2. If anonymous, remember the requested path so login can replay it.
//  3. Queue a "must be logged in" flash, except for the bare root path.
//  4. Redirect to the login page with 303 See Other.
func RequireUser(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sess := ctxutil.GetSession(request.Context())
			if sess != nil && sess.IsAuthenticated() {
				next.ServeHTTP(writer, request)
				return
			}

			if sess == nil {
				sess = session.New()
			}

			sess.SetRequestedPath(request.URL.Path)
			if request.URL.Path != "/" {
				sess.SetError("You must be logged in to do that!")
			}

			if err := manager.Save(request.Context(), writer, sess); err != nil {
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"session_save_failed", slog.Any("error", err))
			}

			respond.SeeOther(writer, request, constants.PathLogin)
		})
	}
}
