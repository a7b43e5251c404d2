package cognito

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// KeySet giữ public key của user pool theo kid. Được tạo một lần khi khởi động
// và truyền vào Verifier; Refresh thay toàn bộ tập key.
type KeySet struct {
	url    string
	client *HTTPClient

	mu      sync.RWMutex
	current keyfunc.Keyfunc
}

// FetchKeySet tải JWKS lần đầu. Lỗi ở đây là ErrKeyFetch và nên dừng khởi động.
func FetchKeySet(ctx context.Context, client *HTTPClient, url string) (*KeySet, error) {
	ks := &KeySet{url: url, client: client}
	if err := ks.Refresh(ctx); err != nil {
		return nil, err
	}
	return ks, nil
}

// ParseKeySet tạo KeySet cố định từ một tài liệu JWKS, không có URL để tải lại.
func ParseKeySet(doc []byte) (*KeySet, error) {
	kf, err := buildKeyfunc(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	return &KeySet{current: kf}, nil
}

func (ks *KeySet) load() keyfunc.Keyfunc {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.current
}

// Keyfunc chọn public key theo header kid, dùng cho jwt.ParseWithClaims.
func (ks *KeySet) Keyfunc(token *jwt.Token) (any, error) {
	return ks.load().Keyfunc(token)
}

func (ks *KeySet) Key(kid string) (*rsa.PublicKey, bool) {
	jwk, err := ks.load().Storage().KeyRead(context.Background(), kid)
	if err != nil {
		return nil, false
	}
	pub, ok := jwk.Key().(*rsa.PublicKey)
	return pub, ok
}

func (ks *KeySet) Len() int {
	all, err := ks.load().Storage().KeyReadAll(context.Background())
	if err != nil {
		return 0
	}
	return len(all)
}

// Refresh tải lại JWKS. Khi lỗi, tập key cũ được giữ nguyên.
func (ks *KeySet) Refresh(ctx context.Context) error {
	if ks.url == "" || ks.client == nil {
		return fmt.Errorf("%w: key set has no source", ErrKeyFetch)
	}
	resp, err := ks.client.do(ctx, request{
		method:  http.MethodGet,
		url:     ks.url,
		headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	if !resp.ok() {
		return fmt.Errorf("%w: status %d: %s", ErrKeyFetch, resp.status, resp.snippet())
	}
	kf, err := buildKeyfunc(resp.body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	ks.mu.Lock()
	ks.current = kf
	ks.mu.Unlock()
	return nil
}

// buildKeyfunc đọc JWKS và đòi ít nhất một khoá RSA.
func buildKeyfunc(doc []byte) (keyfunc.Keyfunc, error) {
	kf, err := keyfunc.NewJWKSetJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	all, err := kf.Storage().KeyReadAll(context.Background())
	if err != nil {
		return nil, fmt.Errorf("read jwks: %w", err)
	}
	for _, jwk := range all {
		if _, ok := jwk.Key().(*rsa.PublicKey); ok {
			return kf, nil
		}
	}
	return nil, errors.New("jwks contains no RSA signing keys")
}
