// Package events phát các thay đổi của task tới client SSE và broker MQTT.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/biosecret/go-todo/models"
	"github.com/google/uuid"
)

type EventType string

const (
	TaskCreated   EventType = "task.created"
	TaskUpdated   EventType = "task.updated"
	TaskCompleted EventType = "task.completed"
	TaskDeleted   EventType = "task.deleted"
)

// TaskEvent mô tả một thay đổi đã được ghi xuống DB.
type TaskEvent struct {
	ID         string       `json:"id"`
	Type       EventType    `json:"type"`
	TaskID     uint         `json:"task_id"`
	UserID     string       `json:"user_id"`
	Task       *models.Task `json:"task,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func NewTaskEvent(eventType EventType, task models.Task, now time.Time) TaskEvent {
	return TaskEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		TaskID:     task.ID,
		UserID:     task.UserID,
		Task:       &task,
		OccurredAt: now.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev TaskEvent) error
}

// Multi gửi event tới mọi publisher, gom lỗi lại.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev TaskEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
