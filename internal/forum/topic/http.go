// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package topic

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/forum/comment"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	requestutil "github.com/parleyhq/parley/internal/platform/request"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/users/session"
)

// Handler exposes the topic routes: the home page, single-thread pages, and
// the add/edit/delete flows. All of them require a logged-in user.
type Handler struct {
	service  *Service
	comments *comment.Service
	sessions *session.Manager
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, comments *comment.Service, sessions *session.Manager) *Handler {
	return &Handler{
		service:  service,
		comments: comments,
		sessions: sessions,
	}
}

// Register mounts the topic routes onto the root router.
//
// # Endpoints
//   - GET  /home/{page}                  : One page of the topic list.
//   - GET  /topics/add                   : Add form state (flash + stash).
//   - POST /topics/add                   : Starts a new thread.
//   - GET  /topics/{topicID}/page/{page} : A thread with one page of replies.
//   - GET  /topics/{topicID}/edit        : Edit form state.
//   - POST /topics/{topicID}/edit        : Rewrites a thread.
//   - POST /topics/{topicID}/delete      : Removes a thread and its replies.
func (handler *Handler) Register(router chi.Router, requireUser func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/home/{page}", handler.home)
		r.Get("/topics/add", handler.addPage)
		r.Post("/topics/add", handler.create)
		r.Get("/topics/{topicID}/page/{page}", handler.show)
		r.Get("/topics/{topicID}/edit", handler.editPage)
		r.Post("/topics/{topicID}/edit", handler.update)
		r.Post("/topics/{topicID}/delete", handler.remove)
	})
}

// # Payloads

type topicRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func decodeTopic(request *http.Request) topicRequest {
	if strings.HasPrefix(request.Header.Get("Content-Type"), "application/json") {
		var payload topicRequest
		if err := requestutil.DecodeJSON(request, &payload); err == nil {
			return payload
		}
		return topicRequest{}
	}
	return topicRequest{
		Title:   requestutil.FormValue(request, FieldTitle),
		Content: requestutil.FormValue(request, FieldContent),
	}
}

type homeResponse struct {
	Topics []Topic        `json:"topics"`
	Flash  *session.Flash `json:"flash,omitempty"`
}

type showResponse struct {
	Topic    *Topic            `json:"topic"`
	Comments []comment.Comment `json:"comments"`
	Flash    *session.Flash    `json:"flash,omitempty"`
}

type formResponse struct {
	Topic *Topic            `json:"topic,omitempty"`
	Flash *session.Flash    `json:"flash,omitempty"`
	Form  map[string]string `json:"form,omitempty"`
}

// # Read Handlers

// home serves one page of the topic list along with any pending flash.
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.NumericParam(request, "page")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return
	}

	topics, meta, err := handler.service.HomePage(request.Context(), page)
	if err != nil {
		handler.redirectOnError(writer, request, err)
		return
	}

	payload := homeResponse{Topics: topics}
	if sess := requestutil.Session(request); sess != nil {
		if flash, popped := sess.PopFlash(); popped {
			payload.Flash = &flash
		}
		handler.saveSession(writer, request, sess)
	}

	respond.Paginated(writer, payload, meta)
}

// show serves a thread with one page of its replies.
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	topicID, err := requestutil.NumericParam(request, "topicID")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return
	}
	page, err := requestutil.NumericParam(request, "page")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return
	}

	topic, err := handler.service.Get(request.Context(), topicID)
	if err != nil {
		handler.redirectOnError(writer, request, err)
		return
	}

	comments, meta, err := handler.comments.TopicPage(request.Context(), topicID, page)
	if err != nil {
		handler.redirectOnError(writer, request, err)
		return
	}

	payload := showResponse{Topic: topic, Comments: comments}
	if sess := requestutil.Session(request); sess != nil {
		if flash, popped := sess.PopFlash(); popped {
			payload.Flash = &flash
		}
		handler.saveSession(writer, request, sess)
	}

	respond.Paginated(writer, payload, meta)
}

// addPage returns the add-topic form state.
func (handler *Handler) addPage(writer http.ResponseWriter, request *http.Request) {
	payload := formResponse{}
	if sess := requestutil.Session(request); sess != nil {
		payload.Form = sess.PopForm()
		if flash, popped := sess.PopFlash(); popped {
			payload.Flash = &flash
		}
		handler.saveSession(writer, request, sess)
	}
	respond.OK(writer, payload)
}

// editPage returns the edit-topic form state, prefilled with the live row.
func (handler *Handler) editPage(writer http.ResponseWriter, request *http.Request) {
	topicID, err := requestutil.NumericParam(request, "topicID")
	if err != nil {
		handler.notFoundRedirect(writer, request)
		return
	}

	topic, err := handler.service.Get(request.Context(), topicID)
	if err != nil {
		handler.redirectOnError(writer, request, err)
		return
	}

	payload := formResponse{Topic: topic}
	if sess := requestutil.Session(request); sess != nil {
		payload.Form = sess.PopForm()
		if flash, popped := sess.PopFlash(); popped {
			payload.Flash = &flash
		}
		handler.saveSession(writer, request, sess)
	}
	respond.OK(writer, payload)
}

// # Write Handlers

// create starts a new thread and redirects to its first page.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := decodeTopic(request)

	created, err := handler.service.Create(request.Context(), userID, input.Title, input.Content)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "VALIDATION_ERROR" {
			// Back to the form with the input intact.
			sess := handler.sessionOrNew(request)
			sess.StashForm(map[string]string{
				FieldTitle:   input.Title,
				FieldContent: input.Content,
			})
			handler.saveSession(writer, request, sess)
			respond.SeeOther(writer, request, "/topics/add")
			return
		}
		respond.Error(writer, request, err)
		return
	}

	sess := handler.sessionOrNew(request)
	sess.SetSuccess("Topic has been added!")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/page/0", created.ID))
}

// update rewrites a thread, owner only.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
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

	input := decodeTopic(request)

	if err := handler.service.Update(request.Context(), userID, topicID, input.Title, input.Content); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "VALIDATION_ERROR" {
			sess := handler.sessionOrNew(request)
			sess.StashForm(map[string]string{
				FieldTitle:   input.Title,
				FieldContent: input.Content,
			})
			handler.saveSession(writer, request, sess)
			respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/edit", topicID))
			return
		}
		handler.redirectOnError(writer, request, err)
		return
	}

	sess := handler.sessionOrNew(request)
	sess.SetSuccess("Topic has been updated!")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, fmt.Sprintf("/topics/%d/page/0", topicID))
}

// remove deletes a thread, owner only. Either way the visitor lands back on
// the home page.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
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

	sess := handler.sessionOrNew(request)

	if err := handler.service.Delete(request.Context(), userID, topicID); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "FORBIDDEN" {
			sess.SetError(appError.Message)
			handler.saveSession(writer, request, sess)
			respond.SeeOther(writer, request, constants.PathHome)
			return
		}
		handler.redirectOnError(writer, request, err)
		return
	}

	sess.SetSuccess("Topic has been deleted.")
	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, constants.PathHome)
}

// # Helpers

// redirectOnError translates domain errors into the browser flow.
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

// notFoundRedirect bounces the visitor home with the canonical flash.
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
