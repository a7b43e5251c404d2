package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/biosecret/go-todo/models"
	"gorm.io/gorm"
)

// UserRepository đọc/ghi bảng users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByCognitoID(ctx context.Context, cognitoID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("cognito_id = ?", cognitoID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreate trả về user đã có với cùng cognito_id, hoặc tạo mới.
// Giá trị bool cho biết user vừa được tạo hay chưa.
func (r *UserRepository) FindOrCreate(ctx context.Context, user models.User) (*models.User, bool, error) {
	existing, err := r.FindByCognitoID(ctx, user.CognitoID)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Hai lần đăng nhập đồng thời: bản ghi kia đã thắng.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := r.FindByCognitoID(ctx, user.CognitoID)
			if ferr != nil {
				return nil, false, fmt.Errorf("find user after conflict: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return &user, true, nil
}
