// Package slack is a thin adapter over the Slack OAuth v2 token endpoint and the
// users.* Web API methods. It holds no state beyond configuration.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://slack.com"

	authorizePath = "/oauth/v2/authorize"
	apiPath       = "/api/"

	maxResponseBytes = 1 << 20
)

// UserScopes are the user-token scopes requested at authorization time.
var UserScopes = []string{"users:read", "users.profile:read", "users.profile:write"}

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// BaseURL overrides https://slack.com, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls Slack on behalf of the application and its signed-in users.
type Client struct {
	oauth   *oauth2.Config
	baseURL string
	http    *http.Client
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + authorizePath,
				TokenURL:  base + apiPath + "oauth.v2.access",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		baseURL: base,
		http:    hc,
	}
}

// AuthCodeURL returns the Slack authorization URL asking for a user token with UserScopes.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("user_scope", strings.Join(UserScopes, ",")))
}

// APIError is a Slack response with "ok": false.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Method, e.Code)
}

// AuthedUser is the user half of an oauth.v2.access response.
type AuthedUser struct {
	ID          string `json:"id"`
	Scope       string `json:"scope"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Exchange trades an authorization code for a user access token.
// Slack's v2 user-token response carries no top-level access_token, so this does not
// go through oauth2.Config.Exchange.
func (c *Client) Exchange(ctx context.Context, code string) (*AuthedUser, error) {
	form := url.Values{
		"client_id":     {c.oauth.ClientID},
		"client_secret": {c.oauth.ClientSecret},
		"code":          {code},
		"redirect_uri":  {c.oauth.RedirectURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauth.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AuthedUser AuthedUser `json:"authed_user"`
	}
	if err := c.do(c.http, req, "oauth.v2.access", &out); err != nil {
		return nil, err
	}
	if out.AuthedUser.AccessToken == "" || out.AuthedUser.ID == "" {
		return nil, &APIError{Method: "oauth.v2.access", Code: "missing_authed_user"}
	}
	return &out.AuthedUser, nil
}

// userClient returns an HTTP client that sends token as a bearer credential.
func (c *Client) userClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

func (c *Client) get(ctx context.Context, token, method string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+apiPath+method+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(c.userClient(ctx, token), req, method, out)
}

func (c *Client) post(ctx context.Context, token, method string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+apiPath+method, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.do(c.userClient(ctx, token), req, method, out)
}

// do sends req and decodes the Slack envelope. A response with "ok": false yields *APIError.
func (c *Client) do(hc *http.Client, req *http.Request, method string, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("slack %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack %s returned status %d", method, resp.StatusCode)
	}

	var env struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !env.OK {
		return &APIError{Method: method, Code: env.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
