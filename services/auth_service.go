package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/repository"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// AuthService ánh xạ danh tính Cognito sang bản ghi users.
type AuthService struct {
	users *repository.UserRepository
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login tạo user ở lần đăng nhập đầu tiên, các lần sau dùng lại bản ghi cũ.
func (s *AuthService) Login(ctx context.Context, claims *cognito.Claims) (*models.User, error) {
	if claims == nil || strings.TrimSpace(claims.Subject) == "" ||
		strings.TrimSpace(claims.Username) == "" || strings.TrimSpace(claims.Email) == "" {
		return nil, ErrIncompleteProfile
	}
	v := newValidator()
	v.checkEmail(claims.Email)
	if err := v.err(); err != nil {
		return nil, err
	}

	user, created, err := s.users.FindOrCreate(ctx, models.User{
		CognitoID: claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Infof("created user %s (%s)", user.CognitoID, user.Username)
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, cognitoID string) (*models.User, error) {
	user, err := s.users.FindByCognitoID(ctx, cognitoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
