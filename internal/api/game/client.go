// Package game fetches and reshapes the Nintendo play-history and web-service
// listings using tokens produced by the auth pipeline.
package game

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/nsoview/nsoview/internal/config"
	"github.com/nsoview/nsoview/internal/constant"
	"github.com/nsoview/nsoview/internal/util"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

// Endpoints for the two listing flows. The play-history endpoint accepts
// my-account service ID tokens; ListWebServices accepts game-server web-API
// access tokens.
const (
	PlayHistoriesEndpoint   = "https://news-api.entry.nintendo.co.jp/api/v1.1/users/me/play_histories"
	ListWebServicesEndpoint = "https://api-lp1.znc.srv.nintendo.net/v1/Game/ListWebServices"
)

// WebService is one entry of the znc ListWebServices response.
type WebService struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URI      string `json:"uri"`
	ImageURI string `json:"imageUri"`
}

// Client calls the game-library endpoints. It holds its own cookie jar,
// separate from the auth pipeline's.
type Client struct {
	httpClient         *http.Client
	playHistoriesURL   string
	listWebServicesURL string
}

// NewClient creates a game-library client with a proxy-aware HTTP transport.
func NewClient(cfg *config.Config) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	httpClient := util.SetProxy(cfg, &http.Client{Jar: jar, Timeout: 30 * time.Second})
	return &Client{
		httpClient:         httpClient,
		playHistoriesURL:   PlayHistoriesEndpoint,
		listWebServicesURL: ListWebServicesEndpoint,
	}, nil
}

// FetchPlayHistories fetches the raw play-history payload for the account.
// The bearer credential is a my-account service ID token. The payload is
// returned unreshaped; see ParseGameList.
func (c *Client) FetchPlayHistories(ctx context.Context, serviceIDToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.playHistoriesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create play-history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Authorization", "Bearer "+serviceIDToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constant.UserAgentZnej)

	return c.do(req)
}

// ListWebServices fetches the znc web-service listing. The bearer credential
// is a game-server web-API access token.
func (c *Client) ListWebServices(ctx context.Context, accessToken string) ([]WebService, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.listWebServicesURL, strings.NewReader(`{"parameter":{}}`))
	if err != nil {
		return nil, fmt.Errorf("failed to create web-service request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", constant.UserAgentZnca)
	req.Header.Set("X-Platform", constant.PlatformAndroid)
	req.Header.Set("X-ProductVersion", constant.NSOAppVersion)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if status := gjson.GetBytes(body, "status"); status.Exists() && status.Int() != 0 {
		return nil, fmt.Errorf("web-service listing returned status %d", status.Int())
	}

	var services []WebService
	gjson.GetBytes(body, "result").ForEach(func(_, value gjson.Result) bool {
		services = append(services, WebService{
			ID:       value.Get("id").Int(),
			Name:     value.Get("name").String(),
			URI:      value.Get("uri").String(),
			ImageURI: value.Get("imageUri").String(),
		})
		return true
	})
	return services, nil
}

// do executes the request, treating any non-2xx status as an error.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
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
