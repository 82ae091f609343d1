package auth

import "errors"

var (
	// ErrTokenInvalid is returned for a malformed, expired or wrongly signed token.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrNoSecret is returned when signing without a configured secret.
	ErrNoSecret = errors.New("auth: jwt secret not configured")

	// ErrForbidden is returned when a token's role does not allow the action.
	ErrForbidden = errors.New("auth: forbidden")
)
