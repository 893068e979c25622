package nintendo

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// AuthParams holds the state value and PKCE-style proof pair for a single
// authorization attempt. Nintendo correlates challenge and verifier server
// side, so the struct must stay in memory for the lifetime of one login and
// is never persisted.
type AuthParams struct {
	// State is the CSRF state value carried through the authorization URL.
	State string
	// CodeVerifier is retained until the session-token-code exchange.
	CodeVerifier string
	// CodeChallenge is base64url(SHA-256(CodeVerifier)), sent in the
	// authorization URL with challenge method S256.
	CodeChallenge string
}

// GenerateAuthParams generates a state value and a PKCE verifier/challenge
// pair following RFC 7636. Each call yields an independent pair; a failure of
// the random source is fatal for the attempt.
func GenerateAuthParams() (*AuthParams, error) {
	state, err := randomURLSafe(36)
	if err != nil {
		return nil, NewAuthenticationError(ErrRandomness, err)
	}

	codeVerifier, err := randomURLSafe(32)
	if err != nil {
		return nil, NewAuthenticationError(ErrRandomness, err)
	}

	return &AuthParams{
		State:         state,
		CodeVerifier:  codeVerifier,
		CodeChallenge: generateCodeChallenge(codeVerifier),
	}, nil
}

// randomURLSafe returns n cryptographically random bytes encoded as URL-safe
// base64 without padding.
func randomURLSafe(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// generateCodeChallenge creates a code challenge from a given code verifier
// using the S256 method: the SHA-256 hash of the verifier, base64url-encoded
// without padding.
func generateCodeChallenge(codeVerifier string) string {
	hash := sha256.Sum256([]byte(codeVerifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
