package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
)

// MockTransport implements Transport for testing.
type MockTransport struct {
	mu         sync.Mutex
	published  []mockPublish
	handlers   map[string]mqtt.MessageHandler
	publishErr error
}

type mockPublish struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

func NewMockTransport() *MockTransport {
	return &MockTransport{handlers: make(map[string]mqtt.MessageHandler)}
}

func (m *MockTransport) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, mockPublish{Topic: topic, Payload: payload, QoS: qos, Retained: retained})
	return nil
}

func (m *MockTransport) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	return nil
}

// SimulateMessage invokes the handler registered for topic.
func (m *MockTransport) SimulateMessage(topic string, payload []byte) error {
	m.mu.Lock()
	handler := m.handlers[topic]
	m.mu.Unlock()
	if handler == nil {
		return nil
	}
	return handler(topic, payload)
}

func TestNew_RequiresTransport(t *testing.T) {
	if _, err := New(nil, 4); !errors.Is(err, ErrNoTransport) {
		t.Errorf("New(nil) error = %v, want ErrNoTransport", err)
	}
}

func TestAdapter_PublishArgumentOrder(t *testing.T) {
	transport := NewMockTransport()
	adapter, err := New(transport, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := adapter.Publish("a/b", []byte("ON"), true, 1); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(transport.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(transport.published))
	}
	got := transport.published[0]
	if got.Topic != "a/b" || string(got.Payload) != "ON" || got.QoS != 1 || !got.Retained {
		t.Errorf("published %+v", got)
	}
}

func TestAdapter_PublishError(t *testing.T) {
	transport := NewMockTransport()
	transport.publishErr = mqtt.ErrNotConnected
	adapter, _ := New(transport, 4)

	if err := adapter.Publish("a/b", nil, false, 1); !errors.Is(err, mqtt.ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestAdapter_PollOrderAndEmpty(t *testing.T) {
	transport := NewMockTransport()
	adapter, _ := New(transport, 4)

	if _, ok := adapter.Poll(); ok {
		t.Fatal("Poll() on empty inbox returned a message")
	}

	if err := adapter.Subscribe("dev/#", 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	_ = transport.SimulateMessage("dev/#", []byte("first"))
	_ = transport.SimulateMessage("dev/#", []byte("second"))

	if adapter.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", adapter.Pending())
	}

	for _, want := range []string{"first", "second"} {
		msg, ok := adapter.Poll()
		if !ok {
			t.Fatalf("Poll() returned nothing, want %q", want)
		}
		if string(msg.Payload) != want {
			t.Errorf("Poll() payload = %q, want %q", msg.Payload, want)
		}
	}

	if _, ok := adapter.Poll(); ok {
		t.Error("Poll() after drain returned a message")
	}
}

func TestAdapter_PayloadIsCopied(t *testing.T) {
	transport := NewMockTransport()
	adapter, _ := New(transport, 4)
	_ = adapter.Subscribe("t", 1)

	buf := []byte("ON")
	_ = transport.SimulateMessage("t", buf)
	buf[0] = 'X'

	msg, _ := adapter.Poll()
	if string(msg.Payload) != "ON" {
		t.Errorf("payload = %q, want ON", msg.Payload)
	}
}

func TestAdapter_DropsWhenFull(t *testing.T) {
	transport := NewMockTransport()
	adapter, _ := New(transport, 1)
	_ = adapter.Subscribe("t", 1)

	if err := transport.SimulateMessage("t", []byte("1")); err != nil {
		t.Fatalf("first enqueue error = %v", err)
	}
	if err := transport.SimulateMessage("t", []byte("2")); !errors.Is(err, ErrInboxFull) {
		t.Errorf("second enqueue error = %v, want ErrInboxFull", err)
	}

	if adapter.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", adapter.Dropped())
	}

	msg, _ := adapter.Poll()
	if string(msg.Payload) != "1" {
		t.Errorf("kept payload = %q, want oldest message", msg.Payload)
	}
}

func TestNew_DefaultInboxSize(t *testing.T) {
	adapter, _ := New(NewMockTransport(), 0)
	if cap(adapter.inbox) != defaultInboxSize {
		t.Errorf("inbox capacity = %d, want %d", cap(adapter.inbox), defaultInboxSize)
	}
}
