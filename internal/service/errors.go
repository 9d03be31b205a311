package service

import "errors"

// Caller-facing error taxonomy. Every failure of the auth operations maps to
// one of these; storage and crypto faults never leak through as anything
// else. Handlers translate them to HTTP status codes.
var (
	// ErrDuplicateIdentity: email or username is already taken. Deliberately
	// one error for both so registration does not reveal which field clashed.
	ErrDuplicateIdentity = errors.New("email or username already registered")

	// ErrInvalidSecurityQuestion: unknown or inactive question id.
	ErrInvalidSecurityQuestion = errors.New("invalid security question")

	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// Collapsing the two is a contract: login must not reveal whether the
	// username exists.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUnauthorized: bad, expired or revoked token.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrTokenInvalid is the TokenService-level failure for tampered,
	// malformed, expired or spent tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrUserNotFound: password reset requested for an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrIncorrectAnswer: security answer did not verify.
	ErrIncorrectAnswer = errors.New("incorrect security answer")

	// ErrNoSecurityQuestion: the account exists but has no recovery question
	// configured.
	ErrNoSecurityQuestion = errors.New("no security question set for this account")
)
