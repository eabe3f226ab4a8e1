package bus

import (
	"sync/atomic"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
)

// defaultInboxSize is used when the configured size is not positive.
const defaultInboxSize = 64

// Message is one inbound bus message.
type Message struct {
	Topic   string
	Payload []byte
}

// Bus is the publish/subscribe/poll contract the run-time depends on.
type Bus interface {
	Publish(topic string, payload []byte, retain bool, qos byte) error
	Subscribe(topic string, qos byte) error
	Poll() (Message, bool)
}

// Transport is the subset of *mqtt.Client the Adapter uses.
type Transport interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger defines the logging interface used by the Adapter.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Adapter implements Bus on top of a Transport.
//
// Publish and Subscribe are safe for concurrent use. Poll is meant to be
// called from a single goroutine.
type Adapter struct {
	transport Transport
	inbox     chan Message
	dropped   atomic.Uint64
	logger    Logger
}

// New creates an Adapter with an inbox of inboxSize messages.
func New(transport Transport, inboxSize int) (*Adapter, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}
	return &Adapter{
		transport: transport,
		inbox:     make(chan Message, inboxSize),
		logger:    noopLogger{},
	}, nil
}

// SetLogger sets the logger for the adapter.
func (a *Adapter) SetLogger(logger Logger) {
	a.logger = logger
}

// Publish sends payload to topic through the transport.
func (a *Adapter) Publish(topic string, payload []byte, retain bool, qos byte) error {
	return a.transport.Publish(topic, payload, qos, retain)
}

// Subscribe subscribes to topic; matching messages are queued for Poll.
func (a *Adapter) Subscribe(topic string, qos byte) error {
	return a.transport.Subscribe(topic, qos, a.enqueue)
}

// enqueue is the transport handler. It never blocks.
func (a *Adapter) enqueue(topic string, payload []byte) error {
	msg := Message{Topic: topic, Payload: append([]byte(nil), payload...)}
	select {
	case a.inbox <- msg:
		return nil
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("bus inbox full, dropping message", "topic", topic, "dropped_total", n)
		return ErrInboxFull
	}
}

// Poll returns the oldest queued message without blocking.
func (a *Adapter) Poll() (Message, bool) {
	select {
	case msg := <-a.inbox:
		return msg, true
	default:
		return Message{}, false
	}
}

// Pending returns the number of queued messages.
func (a *Adapter) Pending() int {
	return len(a.inbox)
}

// Dropped returns the number of messages lost to a full inbox.
func (a *Adapter) Dropped() uint64 {
	return a.dropped.Load()
}
