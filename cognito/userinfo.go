package cognito

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type UserInfo struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserInfo lấy hồ sơ người dùng bằng access token; dùng khi token thiếu username hoặc email.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	resp, err := c.http.do(ctx, request{
		method: http.MethodGet,
		url:    c.cfg.HostedUIURL() + "/oauth2/userInfo",
		headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
			"Accept":        "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	if !resp.ok() {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfo, resp.status)
	}
	var info UserInfo
	if err := json.Unmarshal(resp.body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return &info, nil
}

// CompleteClaims điền username/email còn thiếu từ userInfo.
func (c *Client) CompleteClaims(ctx context.Context, claims *Claims, accessToken string) error {
	if claims.Username != "" && claims.Email != "" {
		return nil
	}
	info, err := c.UserInfo(ctx, accessToken)
	if err != nil {
		return err
	}
	claims.Username = firstNonEmpty(claims.Username, info.Username)
	claims.Email = firstNonEmpty(claims.Email, info.Email)
	return nil
}
