package cognito

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// Client gọi các endpoint OAuth2 của hosted UI và API cognito-idp.
type Client struct {
	cfg  Config
	http *HTTPClient
	idp  *cip.Client
}

func NewClient(cfg Config, httpClient *HTTPClient) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.timeout())
	}
	return &Client{cfg: cfg, http: httpClient, idp: newIdentityClient(cfg)}
}

// TokenSet là phản hồi của /oauth2/token.
type TokenSet struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthorizeURL là trang đăng nhập hosted UI mà trình duyệt được chuyển tới.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(c.cfg.scopes(), " "))
	q.Set("redirect_uri", c.cfg.RedirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return c.cfg.HostedUIURL() + "/login?" + q.Encode()
}

func (c *Client) LogoutURL() string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("logout_uri", c.cfg.LogoutURI)
	return c.cfg.HostedUIURL() + "/logout?" + q.Encode()
}

// ExchangeCode đổi authorization code lấy token. Không retry.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenSet, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	}
	if c.cfg.ClientSecret != "" {
		creds := c.cfg.ClientID + ":" + c.cfg.ClientSecret
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}

	resp, err := c.http.do(ctx, request{
		method:  http.MethodPost,
		url:     c.cfg.HostedUIURL() + "/oauth2/token",
		headers: headers,
		body:    []byte(form.Encode()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}
	if resp.status == http.StatusBadRequest {
		// invalid_grant: code sai, đã dùng hoặc hết hạn.
		return nil, fmt.Errorf("%w: %w: %s", ErrTokenExchangeFailed, ErrInvalidCode, resp.snippet())
	}
	if !resp.ok() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenExchangeFailed, resp.status, resp.snippet())
	}

	var tokens TokenSet
	if err := json.Unmarshal(resp.body, &tokens); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTokenExchangeFailed, err)
	}
	if tokens.AccessToken == "" || tokens.IDToken == "" {
		return nil, fmt.Errorf("%w: response is missing tokens", ErrTokenExchangeFailed)
	}
	return &tokens, nil
}
