package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task là một công việc thuộc về đúng một User.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null;index" json:"title"`
	Description string     `gorm:"size:1024" json:"description"`
	Category    string     `gorm:"size:255" json:"category"`
	Deadline    *time.Time `json:"deadline"`
	Priority    *Priority  `gorm:"type:smallint" json:"priority"`
	Status      Status     `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated *time.Time `json:"last_updated"`
	UserID      string     `gorm:"size:255;not null;index" json:"user_id"`
}

// TaskCreate là body của POST /tasks.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Deadline    *Timestamp `json:"deadline"`
	Priority    *Priority  `json:"priority"`
}

// TaskUpdate là body của PUT /tasks/:id. Trường nil (vắng mặt hoặc null) thì giữ nguyên.
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Deadline    *Timestamp `json:"deadline"`
	Priority    *Priority  `json:"priority"`
	Status      *Status    `json:"status"`
}

// Timestamp chấp nhận RFC 3339 và các dạng không có múi giờ (coi là UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseTimestamp(raw string) (Timestamp, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", raw)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
