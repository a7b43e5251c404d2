package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{`"TODO"`, StatusTodo, false},
		{`"in_progress"`, StatusInProgress, false},
		{`"DONE"`, StatusDone, false},
		{`"in progress"`, StatusInProgress, false},
		{`"ARCHIVED"`, 0, true},
		{`2`, 0, true},
	}
	for _, tc := range tests {
		var s Status
		err := json.Unmarshal([]byte(tc.in), &s)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Unmarshal(%s) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if err == nil && s != tc.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tc.in, s, tc.want)
		}
	}

	out, err := json.Marshal(StatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"IN_PROGRESS"` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestStatusStorage(t *testing.T) {
	v, err := StatusInProgress.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "in progress" {
		t.Errorf("Value = %v, want %q", v, "in progress")
	}

	var s Status
	if err := s.Scan([]byte("to-do")); err != nil || s != StatusTodo {
		t.Errorf("Scan(to-do) = %v, %v", s, err)
	}
	if err := s.Scan("done"); err != nil || s != StatusDone {
		t.Errorf("Scan(done) = %v, %v", s, err)
	}
	if err := s.Scan("DONE"); err == nil {
		t.Error("Scan should reject JSON names in storage")
	}
	if _, err := Status(9).Value(); err == nil {
		t.Error("Value should reject unknown status")
	}
}

func TestPriorityJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{`"HIGH"`, PriorityHigh, false},
		{`"medium"`, PriorityMedium, false},
		{`3`, PriorityLow, false},
		{`1`, PriorityHigh, false},
		{`0`, 0, true},
		{`4`, 0, true},
		{`"URGENT"`, 0, true},
	}
	for _, tc := range tests {
		var p Priority
		err := json.Unmarshal([]byte(tc.in), &p)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Unmarshal(%s) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if err == nil && p != tc.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tc.in, p, tc.want)
		}
	}

	out, err := json.Marshal(PriorityLow)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"LOW"` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestPriorityStorage(t *testing.T) {
	v, err := PriorityMedium.Value()
	if err != nil || v != int64(2) {
		t.Errorf("Value = %v, %v", v, err)
	}
	var p Priority
	if err := p.Scan(int64(1)); err != nil || p != PriorityHigh {
		t.Errorf("Scan(1) = %v, %v", p, err)
	}
	if err := p.Scan(int64(7)); err == nil {
		t.Error("Scan should reject unknown priority")
	}
	if err := p.Scan("HIGH"); err == nil {
		t.Error("Scan should reject strings")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-10T08:30:00Z", time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-03-10T08:30:00+07:00", time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)},
		{"2025-03-10T08:30:00.250", time.Date(2025, 3, 10, 8, 30, 0, 250000000, time.UTC)},
		{"2025-03-10T08:30:00", time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-03-10T08:30", time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got.Time, tc.want)
		}
	}
	if _, err := ParseTimestamp("10/03/2025"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestTaskUpdateNullFields(t *testing.T) {
	var in TaskUpdate
	if err := json.Unmarshal([]byte(`{"title":"x","description":null,"priority":"LOW"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Title == nil || *in.Title != "x" {
		t.Errorf("title = %v", in.Title)
	}
	if in.Description != nil || in.Status != nil || in.Deadline != nil {
		t.Errorf("absent or null fields must stay nil: %+v", in)
	}
	if in.Priority == nil || *in.Priority != PriorityLow {
		t.Errorf("priority = %v", in.Priority)
	}
}

func TestTaskJSONShape(t *testing.T) {
	p := PriorityHigh
	task := Task{ID: 7, Title: "t", Status: StatusDone, Priority: &p, UserID: "u1"}
	out, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatal(err)
	}
	if m["status"] != "DONE" || m["priority"] != "HIGH" || m["user_id"] != "u1" {
		t.Errorf("unexpected JSON %s", out)
	}
	if m["deadline"] != nil || m["last_updated"] != nil {
		t.Errorf("nil times must encode as null: %s", out)
	}
}
