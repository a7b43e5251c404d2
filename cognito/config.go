// Package cognito nói chuyện với Amazon Cognito: JWKS, xác thực token,
// đổi authorization code, userInfo và SignUp.
package cognito

import (
	"fmt"
	"strings"
	"time"
)

// Config chứa thông tin user pool và app client.
// Các trường *URL chỉ dùng để ghi đè endpoint (test, custom domain).
type Config struct {
	Region       string
	UserPoolID   string
	ClientID     string
	ClientSecret string
	Domain       string
	RedirectURI  string
	LogoutURI    string
	Scopes       []string

	DomainURL   string
	IssuerURL   string
	JWKSURL     string
	IdentityURL string

	Timeout time.Duration
}

// Issuer là giá trị claim iss mà Cognito ký vào token.
func (c Config) Issuer() string {
	if c.IssuerURL != "" {
		return strings.TrimRight(c.IssuerURL, "/")
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

func (c Config) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return c.Issuer() + "/.well-known/jwks.json"
}

// HostedUIURL là gốc của hosted UI. COGNITO_DOMAIN có thể là prefix hoặc domain đầy đủ.
func (c Config) HostedUIURL() string {
	if c.DomainURL != "" {
		return strings.TrimRight(c.DomainURL, "/")
	}
	if strings.Contains(c.Domain, ".") {
		return "https://" + strings.TrimPrefix(strings.TrimRight(c.Domain, "/"), "https://")
	}
	return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com", c.Domain, c.Region)
}

func (c Config) scopes() []string {
	if len(c.Scopes) == 0 {
		return []string{"openid", "email", "profile"}
	}
	return c.Scopes
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}
