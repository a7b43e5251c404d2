package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/biosecret/go-todo/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func TestBrokerFiltersByUser(t *testing.T) {
	b := NewBroker(4)
	mine, unsubMine := b.Subscribe("u1")
	defer unsubMine()
	other, unsubOther := b.Subscribe("u2")
	defer unsubOther()

	ev := NewTaskEvent(TaskCreated, models.Task{ID: 1, UserID: "u1"}, time.Now())
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-mine:
		if got.ID != ev.ID {
			t.Errorf("got event %s, want %s", got.ID, ev.ID)
		}
	default:
		t.Fatal("u1 should receive its event")
	}
	select {
	case got := <-other:
		t.Fatalf("u2 received foreign event %+v", got)
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(1)
	ch, unsubscribe := b.Subscribe("u1")
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	unsubscribe()
	unsubscribe()
	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	// Không còn ai đăng ký: publish vẫn không lỗi.
	if err := b.Publish(context.Background(), TaskEvent{UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker(1)
	ch, unsubscribe := b.Subscribe("u1")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			_ = b.Publish(context.Background(), TaskEvent{ID: string(rune('a' + i)), UserID: "u1"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if got := <-ch; got.ID != "a" {
		t.Errorf("first event = %q, want a", got.ID)
	}
}

func TestNewTaskEvent(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	ev := NewTaskEvent(TaskDeleted, models.Task{ID: 3, UserID: "u9", Title: "t"}, now)
	if ev.ID == "" || ev.Type != TaskDeleted || ev.TaskID != 3 || ev.UserID != "u9" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.OccurredAt.Location() != time.UTC || !ev.OccurredAt.Equal(now) {
		t.Errorf("occurred_at = %v", ev.OccurredAt)
	}
	if ev.Task == nil || ev.Task.Title != "t" {
		t.Errorf("task snapshot missing: %+v", ev.Task)
	}
	if other := NewTaskEvent(TaskDeleted, models.Task{ID: 3}, now); other.ID == ev.ID {
		t.Error("event ids must be unique")
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, TaskEvent) error { return f.err }

func TestMultiPublish(t *testing.T) {
	b := NewBroker(1)
	ch, unsubscribe := b.Subscribe("u1")
	defer unsubscribe()

	boom := errors.New("boom")
	m := Multi{failingPublisher{err: boom}, nil, b}
	err := m.Publish(context.Background(), TaskEvent{UserID: "u1"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	select {
	case <-ch:
	default:
		t.Fatal("later publishers must still run after an error")
	}
}

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient chỉ cài đặt Publish và Disconnect; các method khác panic nếu bị gọi.
type fakeClient struct {
	mqtt.Client
	err          error
	messages     []published
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newFakeToken(c.err)
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestMQTTPublisher(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "/todo/tasks/")
	if got := p.Topic("u1"); got != "todo/tasks/u1" {
		t.Fatalf("Topic = %q", got)
	}

	ev := NewTaskEvent(TaskCreated, models.Task{ID: 5, UserID: "u1", Title: "t", Status: models.StatusTodo}, time.Now())
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(client.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(client.messages))
	}
	msg := client.messages[0]
	if msg.topic != "todo/tasks/u1" || msg.qos != 0 {
		t.Errorf("unexpected message %+v", msg)
	}
	var decoded TaskEvent
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.ID != ev.ID || decoded.Type != TaskCreated || decoded.TaskID != 5 {
		t.Errorf("decoded = %+v", decoded)
	}

	p.Close()
	if !client.disconnected {
		t.Error("Close should disconnect")
	}
}

func TestMQTTPublisherDefaultsAndErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := NewMQTTPublisher(client, "  ")
	if got := p.Topic("u2"); got != "todo/tasks/u2" {
		t.Errorf("Topic = %q", got)
	}
	if err := p.Publish(context.Background(), TaskEvent{UserID: "u2"}); err == nil {
		t.Error("expected token error to surface")
	}
}

func TestCreateClientOptions(t *testing.T) {
	tests := []struct {
		raw        string
		wantBroker string
		wantUser   string
	}{
		{"mqtt://localhost:1883/todo", "tcp://localhost:1883", ""},
		{"mqtts://bob:pw@broker.example.com:8883", "ssl://broker.example.com:8883", "bob"},
		{"wss://broker.example.com/mqtt", "wss://broker.example.com", ""},
	}
	for _, tc := range tests {
		uri, err := url.Parse(tc.raw)
		if err != nil {
			t.Fatal(err)
		}
		opts := createClientOptions("todo-test", uri)
		if len(opts.Servers) != 1 || opts.Servers[0].String() != tc.wantBroker {
			t.Errorf("%s: servers = %v, want %s", tc.raw, opts.Servers, tc.wantBroker)
		}
		if opts.Username != tc.wantUser {
			t.Errorf("%s: username = %q, want %q", tc.raw, opts.Username, tc.wantUser)
		}
		if opts.ClientID != "todo-test" || !opts.AutoReconnect {
			t.Errorf("%s: unexpected options %+v", tc.raw, opts)
		}
	}
}
