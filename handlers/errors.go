package handlers

import (
	"errors"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// ErrorResponse là dạng JSON của mọi lỗi trả về cho client.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler dùng cho fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	fe := toFiberError(err)
	if fe.Code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(fe.Code).JSON(ErrorResponse{Detail: fe.Message})
}

func toFiberError(err error) *fiber.Error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrInvalidDeadline):
		return fiber.NewError(fiber.StatusBadRequest, "Deadline must be today or a future date")
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrIncompleteProfile):
		return fiber.NewError(fiber.StatusInternalServerError, "Required user fields are missing")

	case errors.Is(err, cognito.ErrMissingCode):
		return fiber.NewError(fiber.StatusBadRequest, "Authorization code not provided")
	case errors.Is(err, cognito.ErrInvalidCode):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid authorization code")
	case errors.Is(err, cognito.ErrTokenExchangeFailed):
		return fiber.NewError(fiber.StatusBadGateway, "Failed to exchange authorization code")
	case errors.Is(err, cognito.ErrUserInfo):
		return fiber.NewError(fiber.StatusBadGateway, "Unable to fetch user info from Cognito")
	case errors.Is(err, cognito.ErrKeyFetch):
		return fiber.NewError(fiber.StatusBadGateway, "Unable to fetch signing keys")
	case errors.Is(err, cognito.ErrInvalidToken), errors.Is(err, cognito.ErrKeyNotFound):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	case errors.Is(err, cognito.ErrUsernameExists):
		return fiber.NewError(fiber.StatusBadRequest, "Username already exists")
	case errors.Is(err, cognito.ErrSignUpRejected):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, cognito.ErrSignUpFailed):
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to register user")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
}
