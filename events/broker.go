package events

import (
	"context"
	"slices"
	"sync"
)

type subscription struct {
	userID string
	ch     chan TaskEvent
}

// Broker phân phối event trong tiến trình cho các phiên SSE đang mở.
// Mỗi phiên chỉ nhận event của chính user đó.
type Broker struct {
	mu     sync.Mutex
	subs   []*subscription
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{buffer: buffer}
}

// Subscribe đăng ký một phiên cho userID. Hàm trả về dùng để huỷ đăng ký, gọi nhiều lần vẫn an toàn.
func (b *Broker) Subscribe(userID string) (<-chan TaskEvent, func()) {
	s := &subscription{userID: userID, ch: make(chan TaskEvent, b.buffer)}

	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() { b.remove(s) })
	}
}

func (b *Broker) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := slices.Index(b.subs, s)
	if idx != -1 {
		b.subs[idx] = nil
		b.subs = slices.Delete(b.subs, idx, idx+1)
	}
	close(s.ch)
}

// Publish không bao giờ chặn: phiên nào đầy buffer thì bị bỏ event.
func (b *Broker) Publish(_ context.Context, ev TaskEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.userID != ev.UserID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

// Len trả về số phiên đang đăng ký.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
