package utils

import (
	"encoding/base64"
	"sync/atomic"
	"testing"
	"time"
)

func TestRandomState(t *testing.T) {
	a, err := RandomState()
	if err != nil {
		t.Fatal(err)
	}
	b, err := RandomState()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("states must differ")
	}
	raw, err := base64.RawURLEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("state is not base64url: %v", err)
	}
	if len(raw) != stateBytes {
		t.Errorf("decoded length = %d, want %d", len(raw), stateBytes)
	}
}

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler()
	if _, err := s.Every(0, func() {}); err == nil {
		t.Fatal("expected error for zero interval")
	}

	var runs atomic.Int32
	if _, err := s.Every(500*time.Millisecond, func() { runs.Add(1) }); err != nil {
		t.Fatalf("Every: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if runs.Load() == 0 {
		t.Fatal("job never ran")
	}
}
