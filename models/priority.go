package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Priority được lưu dưới dạng số nhỏ: 1 = HIGH, 2 = MEDIUM, 3 = LOW.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

var priorityNames = map[Priority]string{
	PriorityHigh:   "HIGH",
	PriorityMedium: "MEDIUM",
	PriorityLow:    "LOW",
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return json.Marshal(priorityNames[p])
}

// UnmarshalJSON nhận "LOW"/"MEDIUM"/"HIGH" hoặc số 1..3 như client cũ gửi.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !Priority(n).Valid() {
			return fmt.Errorf("invalid priority %d", n)
		}
		*p = Priority(n)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("priority must be a string or number: %w", err)
	}
	for pr, name := range priorityNames {
		if strings.EqualFold(strings.TrimSpace(raw), name) {
			*p = pr
			return nil
		}
	}
	return fmt.Errorf("invalid priority %q", raw)
}

func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return int64(p), nil
}

func (p *Priority) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case int16:
		n = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into Priority", src)
	}
	if !Priority(n).Valid() {
		return fmt.Errorf("unknown stored priority %d", n)
	}
	*p = Priority(n)
	return nil
}
