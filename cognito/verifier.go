package cognito

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// Claims là phần thông tin người dùng lấy ra từ token.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	TokenUse  string
	ExpiresAt time.Time
}

type cognitoClaims struct {
	jwt.RegisteredClaims
	TokenUse        string `json:"token_use"`
	ClientID        string `json:"client_id"`
	CognitoUsername string `json:"cognito:username"`
	Username        string `json:"username"`
	Email           string `json:"email"`
}

func (c *cognitoClaims) toClaims() *Claims {
	out := &Claims{
		Subject:  c.Subject,
		Username: firstNonEmpty(c.CognitoUsername, c.Username),
		Email:    c.Email,
		TokenUse: c.TokenUse,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}

// Verifier kiểm tra token do user pool ký cho app client này.
type Verifier struct {
	keys     *KeySet
	issuer   string
	clientID string
	// refresh khác nil khi bật tải lại JWKS lúc gặp kid lạ.
	refresh *rate.Limiter
	now     func() time.Time
}

type VerifierOption func(*Verifier)

// WithRefreshOnMiss cho phép tải lại JWKS khi gặp kid lạ, tối đa một lần mỗi minInterval.
func WithRefreshOnMiss(minInterval time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.refresh = rate.NewLimiter(rate.Every(minInterval), 1)
		// KeySet vừa được tải lúc khởi động nên lượt đầu tiên coi như đã dùng.
		v.refresh.Allow()
	}
}

func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

func NewVerifier(keys *KeySet, issuer, clientID string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keys:     keys,
		issuer:   issuer,
		clientID: clientID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify trả về claims nếu token hợp lệ; lỗi là ErrKeyNotFound hoặc ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(token, &cognitoClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if err := v.ensureKey(ctx, kid); err != nil {
		return nil, err
	}

	var parsed cognitoClaims
	_, err = jwt.ParseWithClaims(token, &parsed, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := v.checkAudience(&parsed); err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return parsed.toClaims(), nil
}

// ensureKey kiểm tra kid có trong KeySet, tải lại JWKS một lần nếu được phép.
func (v *Verifier) ensureKey(ctx context.Context, kid string) error {
	if kid == "" {
		return fmt.Errorf("%w: token has no kid", ErrKeyNotFound)
	}
	if _, ok := v.keys.Key(kid); ok {
		return nil
	}
	if v.refresh != nil && v.refresh.Allow() {
		if err := v.keys.Refresh(ctx); err != nil {
			return fmt.Errorf("%w: kid %s: %v", ErrKeyNotFound, kid, err)
		}
		if _, ok := v.keys.Key(kid); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: kid %s", ErrKeyNotFound, kid)
}

// ID token có aud = client id; access token của Cognito không có aud mà dùng client_id.
func (v *Verifier) checkAudience(c *cognitoClaims) error {
	if c.TokenUse == "access" {
		if c.ClientID != v.clientID {
			return fmt.Errorf("%w: client_id mismatch", ErrInvalidToken)
		}
		return nil
	}
	if !slices.Contains([]string(c.Audience), v.clientID) {
		return fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
