package services

import "errors"

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike, so login failures never reveal which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedToken means the supplied refresh token is not even a
	// well-formed token value.
	ErrMalformedToken = errors.New("malformed refresh token")

	// ErrTokenRevoked means the refresh token is unknown, expired or
	// already revoked. Clients see the same 400 as for a malformed one.
	ErrTokenRevoked = errors.New("refresh token is invalid or already revoked")

	// ErrForbidden means the actor is authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")
)
