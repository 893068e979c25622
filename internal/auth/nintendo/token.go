package nintendo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nsoview/nsoview/internal/misc"
)

// SessionTokenStorage persists the long-lived session token so later runs can
// skip the authorize/redirect steps. Only the session token is durable; the
// service and web-API tokens expire within hours and are re-derived on demand.
type SessionTokenStorage struct {
	// SessionToken is the long-lived user-level credential.
	SessionToken string `json:"session_token"`

	// Family records which account family the token was issued for. A token
	// is only valid for the client ID that obtained it.
	Family string `json:"family"`

	// LastLogin is the timestamp of the login that produced this token.
	LastLogin string `json:"last_login"`

	// Type identifies the credential kind, always "nintendo" for this storage.
	Type string `json:"type"`
}

// NewSessionTokenStorage builds a storage record from a completed login.
func NewSessionTokenStorage(family AccountFamily, sessionToken string) *SessionTokenStorage {
	return &SessionTokenStorage{
		SessionToken: sessionToken,
		Family:       string(family),
		LastLogin:    time.Now().Format(time.RFC3339),
		Type:         "nintendo",
	}
}

// SaveTokenToFile serializes the session token storage to a JSON file,
// creating the directory structure as needed. The file is written with
// owner-only permissions since it holds a reusable credential.
func (ts *SessionTokenStorage) SaveTokenToFile(authFilePath string) error {
	misc.LogCredentialSeparator()
	misc.LogSavingCredentials(authFilePath)
	ts.Type = "nintendo"

	if err := os.MkdirAll(filepath.Dir(authFilePath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token storage: %w", err)
	}
	if err = os.WriteFile(authFilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadTokenFromFile reads a previously saved session token storage.
func LoadTokenFromFile(authFilePath string) (*SessionTokenStorage, error) {
	data, err := os.ReadFile(authFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var ts SessionTokenStorage
	if err = json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if ts.SessionToken == "" {
		return nil, fmt.Errorf("token file %s has no session token", authFilePath)
	}
	return &ts, nil
}

// TokenFileName returns the auth-file name used for the given account family.
func TokenFileName(family AccountFamily) string {
	return fmt.Sprintf("nintendo-%s.json", family)
}
