// Package nintendo implements the Nintendo account authorization flow: PKCE
// challenge generation, the browser authorization URL, redirect parsing, and
// the chained token exchanges that end in a web-API access token.
package nintendo

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthenticationError represents a failure in one step of the login pipeline.
type AuthenticationError struct {
	// Type identifies the pipeline step that failed.
	Type string `json:"type"`
	// Message is a human-readable message describing the error.
	Message string `json:"message"`
	// Code is the HTTP status code associated with the error, if any.
	Code int `json:"code"`
	// Cause is the underlying error that caused this failure.
	Cause error `json:"-"`
}

// Error returns a string representation of the authentication error.
func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// One sentinel per pipeline step. Every failure is terminal for that login
// attempt; the caller restarts the whole flow with a fresh challenge.
var (
	// ErrRandomness indicates the cryptographic random source failed.
	ErrRandomness = &AuthenticationError{
		Type:    "randomness_failed",
		Message: "Failed to read from the cryptographic random source",
		Code:    http.StatusInternalServerError,
	}

	// ErrRedirectParse indicates the pasted redirect URL could not be parsed.
	ErrRedirectParse = &AuthenticationError{
		Type:    "redirect_parse_failed",
		Message: "Redirect URL is missing the expected fragment values",
		Code:    http.StatusBadRequest,
	}

	// ErrSessionExchange indicates the session-token-code exchange failed.
	ErrSessionExchange = &AuthenticationError{
		Type:    "session_exchange_failed",
		Message: "Failed to exchange the session token code for a session token",
		Code:    http.StatusBadRequest,
	}

	// ErrServiceExchange indicates the session-token to service-token exchange failed.
	ErrServiceExchange = &AuthenticationError{
		Type:    "service_exchange_failed",
		Message: "Failed to exchange the session token for a service token",
		Code:    http.StatusBadRequest,
	}

	// ErrProfileFetch indicates the user profile could not be fetched.
	ErrProfileFetch = &AuthenticationError{
		Type:    "profile_fetch_failed",
		Message: "Failed to fetch the account profile",
		Code:    http.StatusBadRequest,
	}

	// ErrAttestation indicates the third-party attestation call failed.
	ErrAttestation = &AuthenticationError{
		Type:    "attestation_failed",
		Message: "Failed to obtain an attestation proof",
		Code:    http.StatusBadRequest,
	}

	// ErrAccessExchange indicates the final web-API login call failed.
	ErrAccessExchange = &AuthenticationError{
		Type:    "access_exchange_failed",
		Message: "Failed to exchange the service token for a web-API access token",
		Code:    http.StatusBadRequest,
	}
)

// NewAuthenticationError creates a new authentication error with a cause based
// on one of the step sentinels.
func NewAuthenticationError(baseErr *AuthenticationError, cause error) *AuthenticationError {
	return &AuthenticationError{
		Type:    baseErr.Type,
		Message: baseErr.Message,
		Code:    baseErr.Code,
		Cause:   cause,
	}
}

// IsAuthenticationError checks if an error is an authentication error.
func IsAuthenticationError(err error) bool {
	var authenticationError *AuthenticationError
	return errors.As(err, &authenticationError)
}

// IsStep reports whether err is an authentication error of the same type as
// the given sentinel.
func IsStep(err error, baseErr *AuthenticationError) bool {
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Type == baseErr.Type
}

// GetUserFriendlyMessage returns a message suitable for the human operator
// based on the failed step.
func GetUserFriendlyMessage(err error) string {
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		return "An unexpected error occurred. Please try again."
	}
	switch authErr.Type {
	case "randomness_failed":
		return "The system random source is unavailable. This is fatal; check your OS entropy configuration."
	case "redirect_parse_failed":
		return "The pasted link does not look like a Nintendo login redirect. Right-click \"Select this account\" and copy the link address."
	case "session_exchange_failed":
		return "The authorization code was rejected. Codes are single-use; restart the login to get a fresh one."
	case "service_exchange_failed":
		return "Your saved session token was rejected. Log in again to obtain a new one."
	case "profile_fetch_failed":
		return "Could not read your account profile. Please try again."
	case "attestation_failed":
		return "The attestation service is unavailable. Please try again later."
	case "access_exchange_failed":
		return "The game-server login was rejected. Please restart the login flow."
	default:
		return "Authentication failed. Please try again."
	}
}
