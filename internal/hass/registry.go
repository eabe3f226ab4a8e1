package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
)

// qosReliable is used for all config, state and command traffic.
const qosReliable byte = 1

// State history source values.
const (
	SourceBoot    = "boot"
	SourceCommand = "command"
	SourceLocal   = "local"
)

// Publisher is the bus surface the Registry needs.
type Publisher interface {
	Publish(topic string, payload []byte, retain bool, qos byte) error
	Subscribe(topic string, qos byte) error
}

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeFunc is called after every state write with the merged state.
type ChangeFunc func(name string, state State)

// Registry maps entity names to entities and runs the discovery protocol.
//
// All public methods are thread-safe. The run-time additionally serialises
// writes behind its own lock.
type Registry struct {
	bus     Publisher
	topics  mqtt.Topics
	history HistoryStore

	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string

	onChange ChangeFunc
	logger   Logger
}

// NewRegistry creates a registry publishing through bus.
func NewRegistry(bus Publisher, topics mqtt.Topics) *Registry {
	return &Registry{
		bus:      bus,
		topics:   topics,
		entities: make(map[string]*Entity),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetHistory enables state persistence.
func (r *Registry) SetHistory(store HistoryStore) {
	r.history = store
}

// SetOnChange registers a callback for every state write.
func (r *Registry) SetOnChange(fn ChangeFunc) {
	r.onChange = fn
}

// Register creates an entity and announces it on the bus.
//
// It publishes one retained discovery config, subscribes the command topic,
// then applies initial through Update. When a history store is set, the last
// persisted state is merged over initial first.
//
// Parameters:
//   - ctx: Context for the history lookup
//   - name: Device-scoped entity name (e.g. "power")
//   - class: Entity class (switch, light, ...)
//   - options: Extra discovery fields merged over the skeleton
//   - initial: Initial state
//
// Returns:
//   - *Entity: The registered entity
//   - error: ErrEntityExists, ErrInvalidEntity, or a bus error
func (r *Registry) Register(ctx context.Context, name string, class Class, options map[string]any, initial State) (*Entity, error) {
	if name == "" || class == "" {
		return nil, fmt.Errorf("%w: name and class are required", ErrInvalidEntity)
	}

	r.mu.Lock()
	if _, exists := r.entities[name]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrEntityExists, name)
	}
	entity := &Entity{
		Name:         name,
		Class:        class,
		UniqueID:     r.topics.EntityID(name),
		ConfigTopic:  r.topics.EntityConfig(string(class), name),
		CommandTopic: r.topics.EntitySet(string(class), name),
		StateTopic:   r.topics.EntityState(string(class), name),
		options:      maps.Clone(options),
		state:        State{},
	}
	r.entities[name] = entity
	r.order = append(r.order, name)
	r.mu.Unlock()

	payload, err := json.Marshal(entity.discoveryConfig())
	if err != nil {
		return nil, fmt.Errorf("marshalling config for %s: %w", name, err)
	}
	if err := r.bus.Publish(entity.ConfigTopic, payload, true, qosReliable); err != nil {
		r.forget(name)
		return nil, fmt.Errorf("publishing config for %s: %w", name, err)
	}
	if err := r.bus.Subscribe(entity.CommandTopic, qosReliable); err != nil {
		r.forget(name)
		return nil, fmt.Errorf("subscribing %s: %w", entity.CommandTopic, err)
	}

	r.logger.Info("entity registered", "name", name, "class", class, "command_topic", entity.CommandTopic)

	state := maps.Clone(initial)
	if state == nil {
		state = State{}
	}
	source := SourceLocal
	if restored := r.restore(ctx, entity.UniqueID); restored != nil {
		maps.Copy(state, restored)
		source = SourceBoot
	}

	if err := r.update(ctx, entity, state, source); err != nil {
		return nil, err
	}
	return entity, nil
}

// forget drops a half-registered entity.
func (r *Registry) forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entities, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
}

// restore returns the last persisted state, or nil.
func (r *Registry) restore(ctx context.Context, id string) State {
	if r.history == nil {
		return nil
	}
	state, err := r.history.LatestState(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNoHistory) {
			r.logger.Warn("failed to restore entity state", "entity", id, "error", err)
		}
		return nil
	}
	return state
}

// Update merges partial into the entity's state and republishes it.
//
// Keys absent from partial are preserved; present keys overwrite. Every call
// publishes, even when nothing changed.
func (r *Registry) Update(ctx context.Context, name string, partial State) error {
	entity, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	return r.update(ctx, entity, partial, SourceLocal)
}

func (r *Registry) update(ctx context.Context, entity *Entity, partial State, source string) error {
	return r.Publish(ctx, &Change{entity: entity, state: entity.merge(partial), source: source})
}

// Change is a merged entity state that has not been published yet.
type Change struct {
	entity *Entity
	state  State
	source string
}

// Name returns the changed entity's name.
func (c *Change) Name() string { return c.entity.Name }

// Publish sends a merged state to the entity's state topic, records it in
// history and fires the change hook. It may block on the broker, so callers
// must not hold locks the display depends on.
func (r *Registry) Publish(ctx context.Context, c *Change) error {
	if c == nil {
		return nil
	}
	entity := c.entity

	payload, err := entity.statePayload(c.state)
	if err != nil {
		return fmt.Errorf("encoding state for %s: %w", entity.Name, err)
	}
	if err := r.bus.Publish(entity.StateTopic, payload, true, qosReliable); err != nil {
		return fmt.Errorf("publishing state for %s: %w", entity.Name, err)
	}

	r.logger.Debug("entity updated", "name", entity.Name, "state", c.state)

	if r.history != nil {
		if err := r.history.RecordState(ctx, entity.UniqueID, c.state, c.source); err != nil {
			r.logger.Warn("failed to record entity state", "name", entity.Name, "error", err)
		}
	}
	if r.onChange != nil {
		r.onChange(entity.Name, c.state)
	}
	return nil
}

// Dispatch routes an inbound message to the entity whose command topic
// equals topic, then publishes the merged state.
//
// Returns:
//   - bool: true if an entity matched
//   - error: ErrInvalidPayload, or a publish error from the update
func (r *Registry) Dispatch(ctx context.Context, topic string, payload []byte) (bool, error) {
	change, err := r.Apply(topic, payload)
	if change == nil && err == nil {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, r.Publish(ctx, change)
}

// Apply decodes a command and merges it into the matching entity without
// publishing. It returns a nil Change and nil error when no entity's command
// topic equals topic.
//
// Switches take the raw payload as their "state"; every other class decodes
// a JSON object.
func (r *Registry) Apply(topic string, payload []byte) (*Change, error) {
	entity := r.byCommandTopic(topic)
	if entity == nil {
		return nil, nil
	}

	var partial State
	if entity.Class == ClassSwitch {
		partial = State{KeyState: string(payload)}
	} else {
		if err := json.Unmarshal(payload, &partial); err != nil || partial == nil {
			return nil, fmt.Errorf("%w: %s: %q", ErrInvalidPayload, entity.Name, payload)
		}
	}

	return &Change{entity: entity, state: entity.merge(partial), source: SourceCommand}, nil
}

func (r *Registry) byCommandTopic(topic string) *Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if e := r.entities[name]; e.CommandTopic == topic {
			return e
		}
	}
	return nil
}

// Get looks an entity up by name.
func (r *Registry) Get(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

// Names returns entity names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// discoveryConfig merges the skeleton with the caller's options.
func (e *Entity) discoveryConfig() map[string]any {
	cfg := map[string]any{
		"name":          e.UniqueID,
		"unique_id":     e.UniqueID,
		"device_class":  string(e.Class),
		"schema":        "json",
		"command_topic": e.CommandTopic,
		"state_topic":   e.StateTopic,
	}
	maps.Copy(cfg, e.options)
	return cfg
}

func marshalState(state State) ([]byte, error) {
	if state == nil {
		state = State{}
	}
	return json.Marshal(state)
}
