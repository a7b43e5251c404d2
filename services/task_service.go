package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/repository"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 1024
	maxCategoryLen    = 255
)

// TaskService chứa nghiệp vụ task. userID luôn lấy từ token đã xác thực.
type TaskService struct {
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewTaskService(tasks *repository.TaskRepository, users *repository.UserRepository, publisher events.Publisher, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, users: users, publisher: publisher, now: now}
}

func (s *TaskService) Create(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error) {
	v := newValidator()
	v.checkCond(strings.TrimSpace(in.Title) != "", "title", "must be provided")
	v.checkMaxLen(in.Title, maxTitleLen, "title")
	v.checkMaxLen(in.Description, maxDescriptionLen, "description")
	v.checkMaxLen(in.Category, maxCategoryLen, "category")
	if err := v.err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var deadline *time.Time
	if in.Deadline != nil {
		if deadlineBeforeToday(in.Deadline.Time, now) {
			return nil, ErrInvalidDeadline
		}
		d := in.Deadline.Time.UTC()
		deadline = &d
	}

	if _, err := s.users.FindByCognitoID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	task := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Deadline:    deadline,
		Priority:    in.Priority,
		Status:      models.StatusTodo,
		CreatedAt:   now,
		UserID:      userID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TaskCreated, task)
	return &task, nil
}

// List trả về ErrNotFound khi user chưa có task nào (giữ hành vi 404 của API cũ).
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID string, taskID uint) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// Update chỉ áp dụng các trường có mặt và khác null.
func (s *TaskService) Update(ctx context.Context, userID string, taskID uint, in models.TaskUpdate) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}

	v := newValidator()
	if in.Title != nil {
		v.checkCond(strings.TrimSpace(*in.Title) != "", "title", "must not be empty")
		v.checkMaxLen(*in.Title, maxTitleLen, "title")
	}
	if in.Description != nil {
		v.checkMaxLen(*in.Description, maxDescriptionLen, "description")
	}
	if in.Category != nil {
		v.checkMaxLen(*in.Category, maxCategoryLen, "category")
	}
	if in.Status != nil {
		v.checkCond(in.Status.Valid(), "status", "must be one of TODO, IN_PROGRESS, DONE")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if in.Deadline != nil {
		if deadlineBeforeToday(in.Deadline.Time, now) {
			return nil, ErrInvalidDeadline
		}
		d := in.Deadline.Time.UTC()
		task.Deadline = &d
	}
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	if in.Priority != nil {
		p := *in.Priority
		task.Priority = &p
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	task.LastUpdated = &now

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TaskUpdated, *task)
	return task, nil
}

// Complete đánh dấu task là DONE.
func (s *TaskService) Complete(ctx context.Context, userID string, taskID uint) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	now := s.now().UTC()
	task.Status = models.StatusDone
	task.LastUpdated = &now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TaskCompleted, *task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, taskID uint) (*models.Task, error) {
	task, err := s.tasks.Delete(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	s.publish(ctx, events.TaskDeleted, *task)
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task models.Task) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewTaskEvent(eventType, task, s.now())); err != nil {
		log.Warnf("publish %s for task %d: %v", eventType, task.ID, err)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// deadlineBeforeToday so sánh theo ngày lịch UTC; cùng ngày vẫn hợp lệ.
func deadlineBeforeToday(deadline, now time.Time) bool {
	dy, dm, dd := deadline.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}
