package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Status là trạng thái của một task.
type Status int

const (
	StatusTodo Status = iota + 1
	StatusInProgress
	StatusDone
)

// Tên dùng trong JSON.
var statusNames = map[Status]string{
	StatusTodo:       "TODO",
	StatusInProgress: "IN_PROGRESS",
	StatusDone:       "DONE",
}

// Giá trị lưu trong cột tasks.status (phiên bản 1, giữ nguyên từ schema cũ).
var statusStoredV1 = map[Status]string{
	StatusTodo:       "to-do",
	StatusInProgress: "in progress",
	StatusDone:       "done",
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus nhận tên JSON ("IN_PROGRESS") hoặc giá trị đã lưu ("in progress").
func ParseStatus(raw string) (Status, error) {
	v := strings.TrimSpace(raw)
	for s, name := range statusNames {
		if strings.EqualFold(v, name) {
			return s, nil
		}
	}
	for s, stored := range statusStoredV1 {
		if v == stored {
			return s, nil
		}
	}
	return 0, fmt.Errorf("invalid status %q", raw)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return json.Marshal(statusNames[s])
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	stored, ok := statusStoredV1[s]
	if !ok {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return stored, nil
}

// Scan implements sql.Scanner. Giá trị lạ trong DB là lỗi, không âm thầm bỏ qua.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	for status, stored := range statusStoredV1 {
		if raw == stored {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown stored status %q", raw)
}
