package handlers

import (
	"strings"
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	stateCookie = "oauth_state"
	stateMaxAge = 10 * 60
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	Message       string `json:"message"`
	UserSub       string `json:"user_sub"`
	UserConfirmed bool   `json:"user_confirmed"`
}

type LoginUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}

// HandleRegister godoc
// @Summary Register a user in the Cognito user pool
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Router /register [post]
func (h *Handlers) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username, password and email are required")
	}

	result, err := h.cognito.SignUp(c.UserContext(), req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	log.Infof("registered user %s", req.Username)
	return c.JSON(RegisterResponse{
		Message:       "User registered successfully",
		UserSub:       result.UserSub,
		UserConfirmed: result.UserConfirmed,
	})
}

// HandleLoginRedirect chuyển trình duyệt tới trang đăng nhập hosted UI.
// @Summary Redirect to the Cognito hosted login page
// @Tags auth
// @Success 307
// @Router /login [get]
func (h *Handlers) HandleLoginRedirect(c *fiber.Ctx) error {
	state, err := utils.RandomState()
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateMaxAge,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.cognito.AuthorizeURL(state), fiber.StatusTemporaryRedirect)
}

// HandleCallback đổi code lấy token, đặt cookie access_token rồi về frontend.
// @Summary OAuth callback; sets the access_token cookie
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string false "OAuth state"
// @Success 307
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/callback [get]
func (h *Handlers) HandleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return cognito.ErrMissingCode
	}
	if expected := c.Cookies(stateCookie); expected != "" && c.Query("state") != expected {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OAuth state")
	}
	h.clearCookie(c, stateCookie)

	tokens, _, err := h.loginWithCode(c, code)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, tokens)
	return c.Redirect(h.frontendURL, fiber.StatusTemporaryRedirect)
}

// HandleLogin godoc
// @Summary Log in with an authorization code or a bearer ID token
// @Tags auth
// @Produce json
// @Param code query string false "Authorization code"
// @Param Authorization header string false "Bearer ID token"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /login [post]
func (h *Handlers) HandleLogin(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		code = c.FormValue("code")
	}

	if code != "" {
		tokens, user, err := h.loginWithCode(c, code)
		if err != nil {
			return err
		}
		h.setSessionCookie(c, tokens)
		return c.JSON(loginResponse(user.Username, user.Email))
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return cognito.ErrMissingCode
	}
	token, err := middleware.BearerToken(header)
	if err != nil {
		return err
	}
	claims, err := h.verifier.Verify(c.UserContext(), token)
	if err != nil {
		log.Debugf("login token rejected: %v", err)
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if err := h.cognito.CompleteClaims(c.UserContext(), claims, token); err != nil {
		return err
	}
	user, err := h.auth.Login(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse(user.Username, user.Email))
}

// HandleLogout xoá cookie phiên và chuyển tới trang logout của Cognito.
// @Summary Clear the session cookie and redirect to the Cognito logout page
// @Description POST requires a valid session; GET works with an expired cookie.
// @Tags auth
// @Success 307
// @Router /logout [get]
// @Router /logout [post]
func (h *Handlers) HandleLogout(c *fiber.Ctx) error {
	h.clearCookie(c, middleware.AccessTokenCookie)
	return c.Redirect(h.cognito.LogoutURL(), fiber.StatusTemporaryRedirect)
}

// HandleMe godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /me [get]
func (h *Handlers) HandleMe(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// loginWithCode đổi code, xác thực ID token rồi tạo user nếu cần.
func (h *Handlers) loginWithCode(c *fiber.Ctx, code string) (*cognito.TokenSet, *models.User, error) {
	ctx := c.UserContext()
	tokens, err := h.cognito.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	claims, err := h.verifier.Verify(ctx, tokens.IDToken)
	if err != nil {
		return nil, nil, err
	}
	if err := h.cognito.CompleteClaims(ctx, claims, tokens.AccessToken); err != nil {
		return nil, nil, err
	}
	user, err := h.auth.Login(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (h *Handlers) setSessionCookie(c *fiber.Ctx, tokens *cognito.TokenSet) {
	cookie := &fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if tokens.ExpiresIn > 0 {
		cookie.MaxAge = tokens.ExpiresIn
		cookie.Expires = time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	}
	c.Cookie(cookie)
}

func (h *Handlers) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func loginResponse(username, email string) LoginResponse {
	return LoginResponse{
		Message: "Login successful",
		User:    LoginUser{Username: username, Email: email},
	}
}
