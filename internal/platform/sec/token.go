// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

// Package sec provides cryptographic primitives for password storage and
// session cookie signing.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, HMAC signing) from
// the domain logic. The cookie payload carries nothing but an opaque session
// ID; all session state lives server-side in Redis.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cookieClaims is the payload embedded inside a signed session cookie.
//
// # Why only an ID?
//
// The signature stops clients from forging or swapping session IDs, but the
// session contents (user identity, flash messages, stashed forms) stay in
// Redis where the server can mutate and expire them. Rotating a session on
// login therefore never requires re-issuing user data to the client.
type cookieClaims struct {
	jwt.RegisteredClaims
}

// CookieSigner signs and verifies session cookie values using HS256.
type CookieSigner struct {
	secret []byte
	issuer string
}

// NewCookieSigner creates a CookieSigner keyed by the given shared secret.
func NewCookieSigner(secret, issuer string) *CookieSigner {
	return &CookieSigner{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Sign wraps a session ID in a signed token valid for timeToLive.
func (signer *CookieSigner) Sign(sessionID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session cookie: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a cookie value and returns the
// embedded session ID.
func (signer *CookieSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("sec: invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("sec: invalid session cookie claims")
	}

	return claims.Subject, nil
}
