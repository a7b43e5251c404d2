// Package handlers chứa các HTTP handler của Fiber.
package handlers

import (
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/services"
	"github.com/gofiber/fiber/v2"
)

// Handlers gom các phụ thuộc mà route cần.
type Handlers struct {
	tasks    *services.TaskService
	auth     *services.AuthService
	cognito  *cognito.Client
	verifier *cognito.Verifier
	broker   *events.Broker

	frontendURL  string
	cookieSecure bool
	keepAlive    time.Duration
}

type Options struct {
	Tasks    *services.TaskService
	Auth     *services.AuthService
	Cognito  *cognito.Client
	Verifier *cognito.Verifier
	Broker   *events.Broker

	FrontendURL  string
	CookieSecure bool
	// Chu kỳ gửi comment keepalive trên SSE, mặc định 15s.
	KeepAlive time.Duration
}

func New(opts Options) *Handlers {
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &Handlers{
		tasks:        opts.Tasks,
		auth:         opts.Auth,
		cognito:      opts.Cognito,
		verifier:     opts.Verifier,
		broker:       opts.Broker,
		frontendURL:  opts.FrontendURL,
		cookieSecure: opts.CookieSecure,
		keepAlive:    keepAlive,
	}
}

// HandleHealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handlers) HandleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
