package nintendo

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildAuthorizationURL(t *testing.T) {
	authParams := &AuthParams{
		State:         "test-state",
		CodeVerifier:  "test-verifier",
		CodeChallenge: "test-challenge",
	}

	for _, family := range []AccountFamily{FamilyGameServer, FamilyMyAccount} {
		t.Run(string(family), func(t *testing.T) {
			authURL, state, err := BuildAuthorizationURL(family, authParams)
			if err != nil {
				t.Fatalf("BuildAuthorizationURL() error = %v", err)
			}
			if state != authParams.State {
				t.Errorf("returned state = %q, expected %q", state, authParams.State)
			}
			if !strings.HasPrefix(authURL, AuthorizeEndpoint+"?") {
				t.Fatalf("URL %q does not start with the authorize endpoint", authURL)
			}

			parsed, err := url.Parse(authURL)
			if err != nil {
				t.Fatalf("failed to parse built URL: %v", err)
			}
			query := parsed.Query()

			expected := map[string]string{
				"state":                               "test-state",
				"redirect_uri":                        "npf" + family.ClientID() + "://auth",
				"client_id":                           family.ClientID(),
				"scope":                               family.Scope(),
				"response_type":                       "session_token_code",
				"session_token_code_challenge":        "test-challenge",
				"session_token_code_challenge_method": "S256",
				"theme":                               "login_form",
			}
			for key, value := range expected {
				if got := query.Get(key); got != value {
					t.Errorf("query %s = %q, expected %q", key, got, value)
				}
			}
		})
	}
}

func TestBuildAuthorizationURLRequiresParams(t *testing.T) {
	if _, _, err := BuildAuthorizationURL(FamilyMyAccount, nil); err == nil {
		t.Error("BuildAuthorizationURL(nil) expected error")
	}
}

func TestAccountFamilyClientIDs(t *testing.T) {
	if got := FamilyGameServer.ClientID(); got != "71b963c1b7b6d119" {
		t.Errorf("game-server client ID = %q", got)
	}
	if got := FamilyMyAccount.ClientID(); got != "5c38e31cd085304b" {
		t.Errorf("my-account client ID = %q", got)
	}
}

func TestParseAccountFamily(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected AccountFamily
		wantErr  bool
	}{
		{"game-server", "game-server", FamilyGameServer, false},
		{"my-account", "my-account", FamilyMyAccount, false},
		{"empty defaults to my-account", "", FamilyMyAccount, false},
		{"unknown family", "e-shop", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, err := ParseAccountFamily(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAccountFamily(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAccountFamily(%q) error = %v", tt.input, err)
			}
			if family != tt.expected {
				t.Errorf("ParseAccountFamily(%q) = %q, expected %q", tt.input, family, tt.expected)
			}
		})
	}
}
