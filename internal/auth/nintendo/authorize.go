package nintendo

import (
	"fmt"
	"net/url"
)

// Nintendo account endpoints. The authorize endpoint is visited in a browser;
// the rest are called directly by the token exchange client.
const (
	AuthorizeEndpoint    = "https://accounts.nintendo.com/connect/1.0.0/authorize"
	SessionTokenEndpoint = "https://accounts.nintendo.com/connect/1.0.0/api/session_token"
	TokenEndpoint        = "https://accounts.nintendo.com/connect/1.0.0/api/token"
	UserInfoEndpoint     = "https://api.accounts.nintendo.com/2.0.0/users/me"
	AttestationEndpoint  = "https://api.imink.app/f"
	AccountLoginEndpoint = "https://api-lp1.znc.srv.nintendo.net/v1/Account/Login"
)

// AccountFamily selects which client application the login flow impersonates.
// Each family has its own client ID and scope set and unlocks a different
// downstream API family; the two are not interchangeable within one login
// attempt.
type AccountFamily string

const (
	// FamilyGameServer is the Nintendo Switch Online app. Its tokens are
	// accepted by the znc game-server APIs (ListWebServices).
	FamilyGameServer AccountFamily = "game-server"

	// FamilyMyAccount is the My Nintendo app. Its tokens are accepted by the
	// news/play-history APIs.
	FamilyMyAccount AccountFamily = "my-account"
)

// ClientID returns the OAuth client identifier registered for the family.
func (f AccountFamily) ClientID() string {
	if f == FamilyGameServer {
		return "71b963c1b7b6d119"
	}
	return "5c38e31cd085304b"
}

// Scope returns the space-separated scope set requested by the family's app.
func (f AccountFamily) Scope() string {
	if f == FamilyGameServer {
		return "openid user user.birthday user.mii user.screenName"
	}
	return "openid user user.mii user.email user.links[].id"
}

// RedirectURI returns the custom-scheme redirect the family's app registers.
// The browser cannot follow it, which is why the user pastes it back.
func (f AccountFamily) RedirectURI() string {
	return fmt.Sprintf("npf%s://auth", f.ClientID())
}

// ParseAccountFamily maps a configuration string to an AccountFamily.
func ParseAccountFamily(name string) (AccountFamily, error) {
	switch name {
	case string(FamilyGameServer):
		return FamilyGameServer, nil
	case string(FamilyMyAccount), "":
		return FamilyMyAccount, nil
	default:
		return "", fmt.Errorf("unknown account family %q (want %q or %q)", name, FamilyGameServer, FamilyMyAccount)
	}
}

// BuildAuthorizationURL assembles the browser-visited authorization URL for
// the given account family and challenge. Building never fails for well-formed
// input; the returned state must match the state in the pasted redirect.
func BuildAuthorizationURL(family AccountFamily, authParams *AuthParams) (string, string, error) {
	if authParams == nil {
		return "", "", fmt.Errorf("authorization params are required")
	}

	params := url.Values{
		"state":                               {authParams.State},
		"redirect_uri":                        {family.RedirectURI()},
		"client_id":                           {family.ClientID()},
		"scope":                               {family.Scope()},
		"response_type":                       {"session_token_code"},
		"session_token_code_challenge":        {authParams.CodeChallenge},
		"session_token_code_challenge_method": {"S256"},
		"theme":                               {"login_form"},
	}

	return fmt.Sprintf("%s?%s", AuthorizeEndpoint, params.Encode()), authParams.State, nil
}
