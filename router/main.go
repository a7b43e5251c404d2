package router

import (
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, verifier middleware.TokenVerifier) {
	app.Get("/health", h.HandleHealthCheck)

	app.Post("/register", h.HandleRegister)
	app.Get("/login", h.HandleLoginRedirect)
	app.Post("/login", h.HandleLogin)
	app.Get("/auth/callback", h.HandleCallback)
	// GET /logout là link trên trình duyệt, phải chạy được cả khi cookie đã hết hạn.
	app.Get("/logout", h.HandleLogout)

	auth := middleware.Auth(verifier)
	app.Post("/logout", auth, h.HandleLogout)
	app.Get("/me", auth, h.HandleMe)

	tasks := app.Group("/tasks", auth)
	tasks.Get("/", h.HandleAllTasks)
	tasks.Post("/", h.HandleCreateTask)
	// /events phải đăng ký trước /:id.
	tasks.Get("/events", h.HandleTaskEvents)
	tasks.Get("/:id", h.HandleGetOneTask)
	tasks.Put("/:id", h.HandleUpdateTask)
	tasks.Put("/:id/complete", h.HandleCompleteTask)
	tasks.Delete("/:id", h.HandleDeleteTask)
}
