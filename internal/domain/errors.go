package domain

import "errors"

var (
	// auth
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// input
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyMessage    = errors.New("request message is required")
	ErrEmptyResponse   = errors.New("response text is required when rejecting")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
	ErrSelfRequest     = errors.New("cannot send a contact request to yourself")
	ErrPhotoCount      = errors.New("between 1 and 3 photos are required")

	// contact requests
	ErrRequestNotFound       = errors.New("contact request not found")
	ErrRequestAlreadyPending = errors.New("a pending request for this user already exists")
	ErrRequestAlreadyDecided = errors.New("contact request has already been decided")
	ErrNotRequestTarget      = errors.New("only the target of a request may decide it")
	ErrNotRequestParty       = errors.New("not a party of this contact request")
)
