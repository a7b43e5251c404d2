package repository

import (
	"context"
	"fmt"

	"github.com/biosecret/go-todo/models"
	"gorm.io/gorm"
)

// TaskRepository handles CRUD for tasks. Mọi truy vấn đều lọc theo user_id.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID trả về gorm.ErrRecordNotFound nếu task không tồn tại hoặc thuộc user khác.
func (r *TaskRepository) FindByID(ctx context.Context, userID string, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete xoá task của user và trả về bản ghi đã xoá.
func (r *TaskRepository) Delete(ctx context.Context, userID string, taskID uint) (*models.Task, error) {
	var deleted models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND id = ?", userID, taskID).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, taskID).Delete(&models.Task{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
