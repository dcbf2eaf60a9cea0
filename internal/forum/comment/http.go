// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	requestutil "github.com/parleyhq/parley/internal/platform/request"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/users/session"
)

// TopicChecker verifies that a thread exists before comments are posted to
// it. Defined here so this package does not depend on the topic package.
type TopicChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// Handler exposes the comment routes. All of them require a logged-in user.
type Handler struct {
	service  *Service
	sessions *session.Manager
	topics   TopicChecker
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, sessions *session.Manager, topics TopicChecker) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		topics:   topics,
	}
}

// Register mounts the comment routes onto the root router.
//
// # Endpoints
//   - POST /topics/{topicID}/add                          : Posts a reply.
//   - GET  /topics/{topicID}/comments/{commentID}         : Edit page state.
//   - POST /topics/{topicID}/comments/{commentID}         : Rewrites a reply.
//   - POST /topics/{topicID}/comments/{commentID}/delete  : Removes a reply.
func (handler *Handler) Register(router chi.Router, requireUser func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/topics/{topicID}/add", handler.create)
		r.Get("/topics/{topicID}/comments/{commentID}", handler.editPage)
		r.Post("/topics/{topicID}/comments/{commentID}", handler.update)
		r.Post("/topics/{topicID}/comments/{commentID}/delete", handler.remove)
	})
}

// # Payloads

type contentRequest struct {
	Content string `json:"content"`
}

func decodeContent(request *http.Request) string {
	if strings.HasPrefix(request.Header.Get("Content-Type"), "application/json") {
		var payload contentRequest
		if err := requestutil.DecodeJSON(request, &payload); err == nil {
			return payload.Content
		}
		return ""
	}
	return requestutil.FormValue(request, FieldContent)
}

type editPageResponse struct {
	Comment *Comment          `json:"comment"`
	Flash   *session.Flash    `json:"flash,omitempty"`
	Form    map[string]string `json:"form,omitempty"`
}

// # Handlers

// create posts a reply and lands the author on the page that now holds it.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topicID, err := requestutil.NumericParam(request, "topicID")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return
	}
	if !handler.topicExists(writer, request, topicID) {
		return
	}

	content := decodeContent(request)
	threadPath := fmt.Sprintf("/topics/%d/page/0", topicID)

	if _, err := handler.service.Create(request.Context(), userID, topicID, content); err != nil {
		// Invalid content silently reloads the thread's first page.
		if appError := apperr.As(err); appError != nil && appError.Code == "VALIDATION_ERROR" {
			respond.SeeOther(writer, request, threadPath)
			return
		}
		respond.Error(writer, request, err)
		return
	}

	// Land on the page holding the thread's newest comment. The thread may
	// have grown concurrently; resolving against live state is the intended
	// behavior.
	page, err := handler.service.LatestPage(request.Context(), topicID)
	if err != nil {
		respond.SeeOther(writer, request, threadPath)
		return
	}

	respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/page/%d", topicID, page))
}

// editPage returns the comment for the author's edit form. Anyone else is
// bounced home with a denial flash.
func (handler *Handler) editPage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topicID, commentID, ok := handler.threadParams(writer, request)
	if !ok {
		return
	}
	if !handler.topicExists(writer, request, topicID) {
		return
	}

	comment, err := handler.service.GetOwned(request.Context(), userID, commentID)
	if err != nil {
		handler.redirectOnError(writer, request, err)
		return
	}

	sess := requestutil.Session(request)
	payload := editPageResponse{Comment: comment}
	if sess != nil {
		payload.Form = sess.PopForm()
		if flash, popped := sess.PopFlash(); popped {
			payload.Flash = &flash
		}
		handler.saveSession(writer, request, sess)
	}

	respond.OK(writer, payload)
}

// update rewrites a reply and returns to the page it sits on.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topicID, commentID, ok := handler.threadParams(writer, request)
	if !ok {
		return
	}
	if !handler.topicExists(writer, request, topicID) {
		return
	}

	content := decodeContent(request)

	if err := handler.service.Update(request.Context(), userID, commentID, content); err != nil {
		appError := apperr.As(err)
		if appError != nil && appError.Code == "VALIDATION_ERROR" {
			// Send the author back to the edit form with their input intact.
			sess := handler.sessionOrNew(request)
			sess.StashForm(map[string]string{FieldContent: content})
			handler.saveSession(writer, request, sess)
			respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/comments/%d", topicID, commentID))
			return
		}
		handler.redirectOnError(writer, request, err)
		return
	}

	// The comment's page is resolved after the write, against live state.
	page, err := handler.service.PageOf(request.Context(), commentID, topicID)
	if err != nil {
		page = 0
	}

	sess := handler.sessionOrNew(request)
	sess.SetSuccess("Comment has been edited.")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/page/%d", topicID, page))
}

// remove deletes a reply and returns to the thread's first page.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topicID, commentID, ok := handler.threadParams(writer, request)
	if !ok {
		return
	}
	if !handler.topicExists(writer, request, topicID) {
		return
	}

	sess := handler.sessionOrNew(request)
	threadPath := fmt.Sprintf("/topics/%d/page/0", topicID)

	if err := handler.service.Delete(request.Context(), userID, commentID); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "FORBIDDEN" {
			sess.SetError(appError.Message)
			handler.saveSession(writer, request, sess)
			respond.SeeOther(writer, request, threadPath)
			return
		}
		handler.redirectOnError(writer, request, err)
		return
	}

	sess.SetSuccess("Comment has been deleted.")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, threadPath)
}

// # Helpers

// threadParams extracts and validates both numeric path segments.
func (handler *Handler) threadParams(writer http.ResponseWriter, request *http.Request) (topicID, commentID int, ok bool) {
	topicID, err := requestutil.NumericParam(request, "topicID")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return 0, 0, false
	}
	commentID, err = requestutil.NumericParam(request, "commentID")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return 0, 0, false
	}
	return topicID, commentID, true
}

// topicExists bounces the visitor home when the thread is gone.
func (handler *Handler) topicExists(writer http.ResponseWriter, request *http.Request, topicID int) bool {
	exists, err := handler.topics.Exists(request.Context(), topicID)
	if err != nil {
		respond.Error(writer, request, err)
		return false
	}
	if !exists {
		handler.notFoundRedirect(writer, request)
		return false
	}
	return true
}

// redirectOnError translates domain errors into the browser flow: missing
// rows become the not-found bounce, denials become a flash on the home page.
func (handler *Handler) redirectOnError(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	switch {
	case appError != nil && appError.Code == "NOT_FOUND":
		handler.notFoundRedirect(writer, request)
	case appError != nil && appError.Code == "FORBIDDEN":
		sess := handler.sessionOrNew(request)
		sess.SetError(appError.Message)
		handler.saveSession(writer, request, sess)
		respond.SeeOther(writer, request, constants.PathHome)
	default:
		respond.Error(writer, request, err)
	}
}

// notFoundRedirect is the canonical destination for anything that does not
// exist: a flash on the home page rather than a bare 404.
func (handler *Handler) notFoundRedirect(writer http.ResponseWriter, request *http.Request) {
	sess := handler.sessionOrNew(request)
	sess.SetError("Page does not exist!")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, constants.PathHome)
}

func (handler *Handler) sessionOrNew(request *http.Request) *session.Session {
	if sess := requestutil.Session(request); sess != nil {
		return sess
	}
	return session.New()
}

func (handler *Handler) saveSession(writer http.ResponseWriter, request *http.Request, sess *session.Session) {
	if err := handler.sessions.Save(request.Context(), writer, sess); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
			"session_save_failed", slog.Any("error", err))
	}
}
