// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/forum/comment"
	"github.com/parleyhq/parley/internal/forum/topic"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	requestutil "github.com/parleyhq/parley/internal/platform/request"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/users/session"
)

// TopicLister supplies the topics shown on the profile page.
type TopicLister interface {
	ListByUser(ctx context.Context, userID int) ([]topic.Topic, error)
}

// CommentLister supplies the comments shown on the profile page.
type CommentLister interface {
	ListByUser(ctx context.Context, userID int) ([]comment.Comment, error)
}

// Handler exposes the account routes: login, signup, logout, and profile.
type Handler struct {
	service  *Service
	sessions *session.Manager
	topics   TopicLister
	comments CommentLister
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, sessions *session.Manager, topics TopicLister, comments CommentLister) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		topics:   topics,
		comments: comments,
	}
}

// Register mounts the account routes onto the root router.
//
// # Endpoints
//   - GET  /login       : Login page state (flash + stashed form).
//   - POST /login       : Authenticates and binds the session to a user.
//   - POST /signup      : Creates an account and logs straight in.
//   - GET  /user/logout : Destroys the session.
//   - GET  /profile     : The member's own topics and comments.
func (handler *Handler) Register(router chi.Router, requireUser func(http.Handler) http.Handler) {
	router.Get("/login", handler.loginPage)
	router.Post("/login", handler.login)
	router.Post("/signup", handler.signup)
	router.Get("/user/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/profile", handler.profile)
	})
}

// # Payloads

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// decodeCredentials accepts either a JSON body or a classic form post.
func decodeCredentials(request *http.Request) credentialsRequest {
	if strings.HasPrefix(request.Header.Get("Content-Type"), "application/json") {
		var payload credentialsRequest
		if err := requestutil.DecodeJSON(request, &payload); err == nil {
			return payload
		}
		return credentialsRequest{}
	}
	return credentialsRequest{
		Username: requestutil.FormValue(request, FieldUsername),
		Password: requestutil.FormValue(request, FieldPassword),
	}
}

type loginPageResponse struct {
	Flash *session.Flash    `json:"flash,omitempty"`
	Form  map[string]string `json:"form,omitempty"`
}

type profileResponse struct {
	User     *User             `json:"user"`
	Topics   []topic.Topic     `json:"topics"`
	Comments []comment.Comment `json:"comments"`
}

// # Handlers

// loginPage returns the pending flash and any stashed form values, consuming
// both so a refresh shows a clean page.
func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	sess := requestutil.Session(request)
	if sess == nil {
		sess = session.New()
	}

	payload := loginPageResponse{Form: sess.PopForm()}
	if flash, ok := sess.PopFlash(); ok {
		payload.Flash = &flash
	}

	handler.saveSession(writer, request, sess)
	respond.OK(writer, payload)
}

// login verifies credentials and establishes the authenticated session.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input := decodeCredentials(request)
	sess := requestutil.Session(request)
	if sess == nil {
		sess = session.New()
	}

	user, err := handler.service.Authenticate(request.Context(), input.Username, input.Password)
	if err != nil {
		sess.SetError("Invalid username or password.")
		sess.StashForm(map[string]string{FieldUsername: input.Username})
		handler.saveSession(writer, request, sess)
		respond.SeeOther(writer, request, constants.PathLogin)
		return
	}

	handler.establishSession(writer, request, sess, user)
}

// signup creates the account and logs the new member straight in.
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	input := decodeCredentials(request)
	sess := requestutil.Session(request)
	if sess == nil {
		sess = session.New()
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		message := "Username already taken!"
		if appError := apperr.As(err); appError != nil {
			message = appError.Message
		}
		sess.SetError(message)
		sess.StashForm(map[string]string{FieldUsername: input.Username})
		handler.saveSession(writer, request, sess)
		respond.SeeOther(writer, request, constants.PathLogin)
		return
	}

	handler.establishSession(writer, request, sess, user)
}

// logout destroys the server-side session and starts a fresh anonymous one
// carrying only the goodbye flash.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if sess := requestutil.Session(request); sess != nil {
		if err := handler.sessions.Destroy(request.Context(), writer, sess); err != nil {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
				"session_destroy_failed", slog.Any("error", err))
		}
	}

	fresh := session.New()
	fresh.SetSuccess("You have been logged out.")
	handler.saveSession(writer, request, fresh)
	respond.SeeOther(writer, request, constants.PathLogin)
}

// profile returns the member's account plus everything they have posted.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	topics, err := handler.topics.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.comments.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileResponse{
		User:     user,
		Topics:   topics,
		Comments: comments,
	})
}

// # Session Helpers

// establishSession rotates the session ID, binds the identity, and replays
// the page the visitor originally asked for.
func (handler *Handler) establishSession(writer http.ResponseWriter, request *http.Request, sess *session.Session, user *User) {
	// Rotate the ID on every privilege change to block session fixation.
	if err := handler.sessions.Renew(request.Context(), sess); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
			"session_renew_failed", slog.Any("error", err))
	}

	sess.SetIdentity(user.ID, user.Username)
	sess.SetSuccess("Welcome, " + user.Username + "!")
	destination := sess.PopRequestedPath(constants.PathHome)

	handler.saveSession(writer, request, sess)
	respond.SeeOther(writer, request, destination)
}

// saveSession persists the session, logging instead of failing the request.
func (handler *Handler) saveSession(writer http.ResponseWriter, request *http.Request, sess *session.Session) {
	if err := handler.sessions.Save(request.Context(), writer, sess); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
			"session_save_failed", slog.Any("error", err))
	}
}
