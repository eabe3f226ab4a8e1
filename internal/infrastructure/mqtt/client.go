package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
)

// Client is the broker connection of one display device.
//
// On every (re)connect it republishes the device as online and restores
// its subscriptions; the broker's LWT marks it offline if the process dies.
// All methods are safe for concurrent use.
type Client struct {
	paho   pahomqtt.Client
	cfg    config.MQTTConfig
	topics Topics

	online atomic.Bool

	mu         sync.RWMutex
	subs       map[string]subscription
	onConnect  func()
	onConnLost func(err error)
	log        Logger
}

// Logger is satisfied by *logging.Logger and *slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// MessageHandler receives one inbound message. It runs on a paho goroutine
// and must not block. A returned error is logged and the message dropped.
type MessageHandler func(topic string, payload []byte) error

// Connect dials the broker and waits for the first connection.
// Auto-reconnect stays on afterwards.
func Connect(cfg config.MQTTConfig, topics Topics) (*Client, error) {
	c := &Client{cfg: cfg, topics: topics}

	opts := buildClientOptions(cfg)
	configureLWT(opts, topics)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.connected() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.connectionLost(err) })

	c.paho = pahomqtt.NewClient(opts)
	if err := await(c.paho.Connect(), defaultConnectTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, brokerURL(cfg), err)
	}

	// The connect handler is asynchronous and may still be pending.
	c.online.Store(true)
	return c, nil
}

// Topics returns the topic layout of this device.
func (c *Client) Topics() Topics {
	return c.topics
}

func (c *Client) connected() {
	c.online.Store(true)

	c.mu.RLock()
	for topic, sub := range c.subs {
		c.paho.Subscribe(topic, sub.qos, c.wrapHandler(sub.handler))
	}
	hook := c.onConnect
	c.mu.RUnlock()

	c.announce("online", "")

	if hook != nil {
		hook()
	}
}

func (c *Client) connectionLost(err error) {
	c.online.Store(false)

	c.mu.RLock()
	hook, log := c.onConnLost, c.log
	c.mu.RUnlock()

	if log != nil {
		log.Warn("MQTT connection lost", "error", err)
	}
	if hook != nil {
		hook(err)
	}
}

// announce publishes the retained availability of the device.
func (c *Client) announce(status, reason string) {
	payload := buildStatusPayload(c.topics.Device, status, reason)
	c.paho.Publish(c.topics.Status(), 1, true, payload).WaitTimeout(defaultPublishTimeout)
}

// Close marks the device offline and disconnects. It never fails.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}
	if c.IsConnected() {
		c.announce("offline", "graceful_shutdown")
	}
	c.paho.Disconnect(defaultDisconnectQuiesce)
	c.online.Store(false)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker is unreachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	return c.online.Load() && c.paho != nil && c.paho.IsConnected()
}

// SetOnConnect registers a hook run after every (re)connect.
func (c *Client) SetOnConnect(hook func()) {
	c.mu.Lock()
	c.onConnect = hook
	c.mu.Unlock()
}

// SetOnDisconnect registers a hook run when the connection drops.
func (c *Client) SetOnDisconnect(hook func(err error)) {
	c.mu.Lock()
	c.onConnLost = hook
	c.mu.Unlock()
}

// SetLogger enables logging of handler failures and connection loss.
func (c *Client) SetLogger(log Logger) {
	c.mu.Lock()
	c.log = log
	c.mu.Unlock()
}

func (c *Client) logger() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log
}

// wrapHandler adapts a MessageHandler to paho, recovering panics so a bad
// payload can never take down the network goroutine.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if log := c.logger(); log != nil {
					log.Error("MQTT handler panic recovered", "topic", msg.Topic(), "panic", r)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if log := c.logger(); log != nil {
				log.Warn("MQTT handler returned error", "topic", msg.Topic(), "error", err)
			}
		}
	}
}
