package middleware

import (
	"context"
	"strings"

	"github.com/biosecret/go-todo/cognito"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	// AccessTokenCookie là cookie do /auth/callback đặt.
	AccessTokenCookie = "access_token"

	localUserID = "user_id"
)

// TokenVerifier được *cognito.Verifier cài đặt.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*cognito.Claims, error)
}

// Auth xác thực token Cognito: cookie access_token trước, sau đó tới header Authorization.
// Token hợp lệ đầu tiên thắng; user_id (sub) được lưu vào c.Locals.
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokens, err := ExtractTokens(c)
		if err != nil {
			return err
		}

		for _, token := range tokens {
			claims, err := verifier.Verify(c.UserContext(), token)
			if err != nil {
				log.Debugf("token rejected for %s %s: %v", c.Method(), c.Path(), err)
				continue
			}
			c.Locals(localUserID, claims.Subject)
			return c.Next()
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
}

// ExtractTokens trả về các token ứng viên theo thứ tự: cookie rồi "Authorization: Bearer <token>".
// Header sai định dạng chỉ là lỗi khi không có cookie.
func ExtractTokens(c *fiber.Ctx) ([]string, error) {
	var tokens []string
	if token := strings.TrimSpace(c.Cookies(AccessTokenCookie)); token != "" {
		tokens = append(tokens, token)
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		if len(tokens) == 0 {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}
		return tokens, nil
	}
	bearer, err := BearerToken(header)
	if err != nil {
		if len(tokens) == 0 {
			return nil, err
		}
		return tokens, nil
	}
	if len(tokens) == 0 || tokens[0] != bearer {
		tokens = append(tokens, bearer)
	}
	return tokens, nil
}

// BearerToken tách token khỏi giá trị header Authorization.
func BearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid Authorization header format")
	}
	return token, nil
}

// UserID trả về sub của người gọi, rỗng nếu route không đi qua Auth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
