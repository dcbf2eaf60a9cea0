// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/platform/validate"
	"github.com/parleyhq/parley/internal/users/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
NumericParam retrieves a named URL parameter and parses it as a numeric ID.

Segments that are not pure decimal digits (including negative numbers) are
rejected before any lookup happens, so malformed URLs behave exactly like
URLs pointing at rows that do not exist.

Returns:
  - int: The parsed value
  - error: apperr.NotFound if the segment is not a numeric ID
*/
func NumericParam(request *http.Request, name string) (int, error) {
	raw := chi.URLParam(request, name)
	if !validate.IsNumericID(raw) {
		return 0, apperr.NotFound("Page")
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NotFound("Page")
	}

	return value, nil
}

/*
FormValue retrieves a named field from a POSTed form body.
*/
func FormValue(request *http.Request, name string) string {
	return request.PostFormValue(name)
}

/*
Session extracts the current session from the request context.

Returns nil if the session middleware did not run for this request.
*/
func Session(request *http.Request) *session.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredUserID returns the user ID of the currently logged-in user.

Returns:
  - int: User ID
  - error: apperr.Unauthorized if the session is anonymous
*/
func RequiredUserID(request *http.Request) (int, error) {

	// Get the current session
	currentSession := ctxutil.GetSession(request.Context())

	// An anonymous or missing session cannot own resources
	if currentSession == nil || !currentSession.IsAuthenticated() {
		return 0, apperr.Unauthorized("Authentication required")
	}

	return currentSession.UserID, nil
}
