package core

import "errors"

// Timer errors
var (
	ErrTimerNotFound = errors.New("no active timer found")                  // 404 Not Found
	ErrTokenNotFound = errors.New("invalid or expired confirmation token")  // 404 Not Found
	ErrTimerExpired  = errors.New("timer already expired")                  // 409 Conflict
	ErrNotExpired    = errors.New("timer has not reached its deadline yet") // 409 Conflict
)

// Validation errors (client input)
var (
	ErrHandleRequired      = errors.New("owner handle is required")        // 400
	ErrImageKeyRequired    = errors.New("image key is required")           // 400
	ErrGoalRequired        = errors.New("goal description is required")    // 400
	ErrDeadlineRequired    = errors.New("deadline is required")            // 400
	ErrFriendEmailRequired = errors.New("friend email is required")        // 400
	ErrInvalidEmail        = errors.New("invalid email format")            // 400
	ErrDeadlineNotFuture   = errors.New("deadline must be in the future")  // 400
	ErrTokenRequired       = errors.New("confirmation token is required")  // 400
	ErrImageRequired       = errors.New("image is required")               // 400
	ErrCredentialRequired  = errors.New("publisher credential is required") // 400
)

// Session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid session token")        // 401
	ErrSessionNotFound   = errors.New("session not found")            // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
	ErrCacheNotFound     = errors.New("session not found in cache")
)

// Collaborator errors
var (
	ErrPublishFailed = errors.New("publish failed")            // 502 Bad Gateway
	ErrPaymentFailed = errors.New("payment failed")            // 502 Bad Gateway
	ErrImageNotFound = errors.New("image not available")       // 404
	ErrStoreFailed   = errors.New("record store unavailable")  // 503 Service Unavailable
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired   = errors.New("storage adapter is required")   // 500
	ErrHTTPRequired      = errors.New("http adapter is required")      // 500
	ErrPublisherRequired = errors.New("publisher adapter is required") // 500
	ErrSecretRequired    = errors.New("secret is required")                    // 500
	ErrSecretTooShort    = errors.New("secret must be at least 32 characters") // 500
)
