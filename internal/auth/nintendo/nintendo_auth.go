package nintendo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsoview/nsoview/internal/config"
	"github.com/nsoview/nsoview/internal/constant"
	"github.com/nsoview/nsoview/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

// requestTimeout bounds each individual exchange call. The upstream protocol
// defines no timeout at all; a hung call would otherwise block the pipeline
// indefinitely.
const requestTimeout = 30 * time.Second

// ServiceToken is the short-lived credential pair derived from a session
// token. The ID token authenticates against the attestation service and the
// znc login; the access token authenticates against the accounts profile API.
type ServiceToken struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

// UserProfile carries the account fields the znc login endpoint requires as
// literal inputs.
type UserProfile struct {
	Language string `json:"language"`
	Birthday string `json:"birthday"`
	Country  string `json:"country"`
}

// LoginResult is the terminal artifact of a completed pipeline run.
type LoginResult struct {
	// SessionToken is the long-lived credential; callers should persist it to
	// skip the authorize/redirect steps on later runs.
	SessionToken string
	// ServiceToken is the intermediate credential pair.
	ServiceToken *ServiceToken
	// Profile is the fetched account profile.
	Profile *UserProfile
	// AccessToken is the short-lived web-API bearer credential.
	AccessToken string
}

// endpoints collects the exchange URLs so tests can point the client at mock
// servers.
type endpoints struct {
	sessionToken string
	token        string
	userInfo     string
	attestation  string
	accountLogin string
}

func defaultEndpoints() endpoints {
	return endpoints{
		sessionToken: SessionTokenEndpoint,
		token:        TokenEndpoint,
		userInfo:     UserInfoEndpoint,
		attestation:  AttestationEndpoint,
		accountLogin: AccountLoginEndpoint,
	}
}

// NintendoAuth executes the ordered token exchanges for one login attempt.
// The embedded cookie jar holds the session-affinity cookies Nintendo issues
// during the exchange, so an instance must not be shared across concurrent,
// unrelated login attempts.
type NintendoAuth struct {
	family     AccountFamily
	httpClient *http.Client
	endpoints  endpoints
	logger     *log.Entry
}

// NewNintendoAuth creates a token exchange client for the given account
// family with a fresh cookie jar and a proxy-configured HTTP client.
func NewNintendoAuth(family AccountFamily, cfg *config.Config) (*NintendoAuth, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	httpClient := util.SetProxy(cfg, &http.Client{
		Jar:     jar,
		Timeout: requestTimeout,
	})
	return &NintendoAuth{
		family:     family,
		httpClient: httpClient,
		endpoints:  defaultEndpoints(),
		logger: log.WithFields(log.Fields{
			"attempt_id": strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
			"family":     string(family),
		}),
	}, nil
}

// Family returns the account family this client was built for.
func (na *NintendoAuth) Family() AccountFamily {
	return na.family
}

// ExchangeSessionTokenCode exchanges the authorization code from the redirect
// for a long-lived session token (pipeline step 1). The code verifier must be
// the one whose challenge was embedded in the authorization URL.
func (na *NintendoAuth) ExchangeSessionTokenCode(ctx context.Context, sessionTokenCode, codeVerifier string) (string, error) {
	data := url.Values{}
	data.Set("client_id", na.family.ClientID())
	data.Set("session_token_code", sessionTokenCode)
	data.Set("session_token_code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, na.endpoints.sessionToken, strings.NewReader(data.Encode()))
	if err != nil {
		return "", NewAuthenticationError(ErrSessionExchange, err)
	}
	na.setAccountHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := na.do(req)
	if err != nil {
		return "", NewAuthenticationError(ErrSessionExchange, err)
	}

	var result struct {
		SessionToken string `json:"session_token"`
	}
	if err = json.Unmarshal(body, &result); err != nil {
		return "", NewAuthenticationError(ErrSessionExchange, fmt.Errorf("failed to parse session token response: %w", err))
	}
	if result.SessionToken == "" {
		return "", NewAuthenticationError(ErrSessionExchange, fmt.Errorf("session_token not found in response"))
	}

	na.logger.WithField("step", 1).Debug("session token obtained")
	return result.SessionToken, nil
}

// ExchangeSessionToken exchanges a session token for a service token pair
// (pipeline step 2).
func (na *NintendoAuth) ExchangeSessionToken(ctx context.Context, sessionToken string) (*ServiceToken, error) {
	data := url.Values{}
	data.Set("client_id", na.family.ClientID())
	data.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer-session-token")
	data.Set("session_token", sessionToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, na.endpoints.token, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, NewAuthenticationError(ErrServiceExchange, err)
	}
	na.setAccountHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := na.do(req)
	if err != nil {
		return nil, NewAuthenticationError(ErrServiceExchange, err)
	}

	var result ServiceToken
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, NewAuthenticationError(ErrServiceExchange, fmt.Errorf("failed to parse token response: %w", err))
	}
	if result.IDToken == "" || result.AccessToken == "" {
		return nil, NewAuthenticationError(ErrServiceExchange, fmt.Errorf("id_token or access_token not found in response"))
	}

	na.logger.WithField("step", 2).Debug("service token obtained")
	return &result, nil
}

// FetchUserProfile fetches the language, birthday, and country fields for the
// logged-in account (pipeline step 3a).
func (na *NintendoAuth) FetchUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, na.endpoints.userInfo, nil)
	if err != nil {
		return nil, NewAuthenticationError(ErrProfileFetch, err)
	}
	na.setAccountHeaders(req)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := na.do(req)
	if err != nil {
		return nil, NewAuthenticationError(ErrProfileFetch, err)
	}

	var profile UserProfile
	if err = json.Unmarshal(body, &profile); err != nil {
		return nil, NewAuthenticationError(ErrProfileFetch, fmt.Errorf("failed to parse profile response: %w", err))
	}
	if profile.Language == "" || profile.Country == "" {
		return nil, NewAuthenticationError(ErrProfileFetch, fmt.Errorf("profile response is missing language or country"))
	}

	na.logger.WithField("step", "3a").Debug("account profile fetched")
	return &profile, nil
}

// ExchangeWebServiceToken performs the znc Account/Login call and extracts the
// web-API access token (pipeline step 4).
func (na *NintendoAuth) ExchangeWebServiceToken(ctx context.Context, profile *UserProfile, proof *AttestationProof, idToken string) (string, error) {
	reqBody, err := buildLoginBody(profile, proof, idToken)
	if err != nil {
		return "", NewAuthenticationError(ErrAccessExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, na.endpoints.accountLogin, strings.NewReader(reqBody))
	if err != nil {
		return "", NewAuthenticationError(ErrAccessExchange, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", profile.Language)
	req.Header.Set("Authorization", "Bearer")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", constant.UserAgentZnca)
	req.Header.Set("X-Platform", constant.PlatformAndroid)
	req.Header.Set("X-ProductVersion", constant.NSOAppVersion)

	body, err := na.do(req)
	if err != nil {
		return "", NewAuthenticationError(ErrAccessExchange, err)
	}

	if status := gjson.GetBytes(body, "status"); status.Exists() && status.Int() != 0 {
		return "", NewAuthenticationError(ErrAccessExchange, fmt.Errorf("login returned status %d: %s", status.Int(), gjson.GetBytes(body, "errorMessage").String()))
	}

	accessToken := gjson.GetBytes(body, "result.webApiServerCredential.accessToken")
	if !accessToken.Exists() || accessToken.String() == "" {
		return "", NewAuthenticationError(ErrAccessExchange, fmt.Errorf("result.webApiServerCredential.accessToken not found in response"))
	}

	na.logger.WithField("step", 4).Debug("web-API access token obtained")
	return accessToken.String(), nil
}

// buildLoginBody assembles the nested parameter body the znc login expects.
func buildLoginBody(profile *UserProfile, proof *AttestationProof, idToken string) (string, error) {
	body := ""
	for _, field := range []struct {
		path  string
		value interface{}
	}{
		{"parameter.language", profile.Language},
		{"parameter.naBirthday", profile.Birthday},
		{"parameter.naCountry", profile.Country},
		{"parameter.naIdToken", idToken},
		{"parameter.requestId", proof.RequestID},
		{"parameter.timestamp", proof.Timestamp},
		{"parameter.f", proof.Proof},
	} {
		var err error
		if body, err = sjson.Set(body, field.path, field.value); err != nil {
			return "", fmt.Errorf("failed to build login body: %w", err)
		}
	}
	return body, nil
}

// Login runs the full pipeline from a parsed redirect: authorization code →
// session token → service token → (profile + attestation, concurrently) →
// web-API access token. The first failing step aborts the run; nothing is
// retried.
func (na *NintendoAuth) Login(ctx context.Context, redirect *RedirectResult, authParams *AuthParams) (*LoginResult, error) {
	if redirect == nil || authParams == nil {
		return nil, fmt.Errorf("redirect result and authorization params are required")
	}

	sessionToken, err := na.ExchangeSessionTokenCode(ctx, redirect.SessionTokenCode, authParams.CodeVerifier)
	if err != nil {
		return nil, err
	}

	result, err := na.LoginWithSessionToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoginWithSessionToken runs the pipeline from step 2 onward using a cached
// session token, skipping the authorize/redirect steps.
func (na *NintendoAuth) LoginWithSessionToken(ctx context.Context, sessionToken string) (*LoginResult, error) {
	serviceToken, err := na.ExchangeSessionToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	// Steps 3a and 3b have no mutual ordering constraint. If either fails the
	// other's result is discarded and the pipeline aborts.
	var (
		profile *UserProfile
		proof   *AttestationProof
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var errFetch error
		profile, errFetch = na.FetchUserProfile(groupCtx, serviceToken.AccessToken)
		return errFetch
	})
	group.Go(func() error {
		var errProof error
		proof, errProof = na.FetchAttestationProof(groupCtx, serviceToken.IDToken)
		return errProof
	})
	if err = group.Wait(); err != nil {
		return nil, err
	}

	accessToken, err := na.ExchangeWebServiceToken(ctx, profile, proof, serviceToken.IDToken)
	if err != nil {
		return nil, err
	}

	na.logger.Info("login pipeline completed")
	return &LoginResult{
		SessionToken: sessionToken,
		ServiceToken: serviceToken,
		Profile:      profile,
		AccessToken:  accessToken,
	}, nil
}

// setAccountHeaders applies the header set the accounts.nintendo.com APIs
// expect. Host, Connection, and Accept-Encoding are left to the transport so
// gzip responses are decompressed transparently.
func (na *NintendoAuth) setAccountHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("User-Agent", constant.UserAgentNSO)
	req.Header.Set("X-Platform", constant.PlatformAndroid)
	req.Header.Set("X-ProductVersion", constant.NSOAppVersion)
}

// do executes the request and returns the response body, treating any non-2xx
// status as an error.
func (na *NintendoAuth) do(req *http.Request) ([]byte, error) {
	resp, err := na.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
