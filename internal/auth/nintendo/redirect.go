package nintendo

import (
	"fmt"
	"net/url"
	"strings"
)

// RedirectResult carries the values Nintendo places in the fragment of the
// npf://auth redirect after the user approves the login. It is consumed
// exactly once, by the session-token-code exchange.
type RedirectResult struct {
	// SessionTokenCode is the single-use authorization code.
	SessionTokenCode string
	// State echoes the state value from the authorization URL.
	State string
	// SessionState is an opaque provider-side session identifier.
	SessionState string
}

// ParseRedirect extracts the session token code and state values from a pasted
// redirect URL. Nintendo returns them in the URL fragment rather than the
// query string, so the input is split on '#' before the remainder is parsed
// as key=value pairs; query parameters on the base URL are ignored.
func ParseRedirect(redirectURL string) (*RedirectResult, error) {
	idx := strings.Index(redirectURL, "#")
	if idx < 0 {
		return nil, NewAuthenticationError(ErrRedirectParse, fmt.Errorf("redirect URL has no fragment component"))
	}

	values, err := url.ParseQuery(redirectURL[idx+1:])
	if err != nil {
		return nil, NewAuthenticationError(ErrRedirectParse, fmt.Errorf("failed to parse fragment: %w", err))
	}

	code := values.Get("session_token_code")
	if code == "" {
		return nil, NewAuthenticationError(ErrRedirectParse, fmt.Errorf("fragment is missing session_token_code"))
	}

	return &RedirectResult{
		SessionTokenCode: code,
		State:            values.Get("state"),
		SessionState:     values.Get("session_state"),
	}, nil
}
