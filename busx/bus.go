package busx

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/Abraxas-365/dispatchable/asyncx"
	"github.com/Abraxas-365/dispatchable/logx"
)

// Bus is the dispatcher facade. All methods are safe for concurrent use
// without external locking; posts, registrations, removals and activation
// toggles may interleave freely.
type Bus struct {
	registry *registry
	resolver *resolver
	disp     *dispatcher
	log      *logx.Logger

	mu     sync.RWMutex
	stages []Interceptor
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger the bus reports through. Defaults to the
// global logx logger.
func WithLogger(l *logx.Logger) Option {
	return func(b *Bus) {
		b.log = l
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		registry: newRegistry(),
		resolver: &resolver{},
		log:      logx.GetLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.disp = &dispatcher{registry: b.registry, resolver: b.resolver, log: b.log}
	return b
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	once bool
	id   SubscriberID
}

// Once removes the binding automatically after its first invocation. The
// handler fires exactly once, even under concurrent posts.
func Once() RegisterOption {
	return func(c *registerConfig) {
		c.once = true
	}
}

// As groups the binding under an existing SubscriberID instead of issuing a
// fresh one, so several bindings can be unregistered or toggled as a unit.
func As(id SubscriberID) RegisterOption {
	return func(c *registerConfig) {
		c.id = id
	}
}

// Register binds a handler to an event type and returns the subscriber
// identity for later Unregister, Subscribe and Unsubscribe calls. Pointer
// types are keyed by their element type. Registration never fails; a nil
// type or handler is logged and ignored.
func (b *Bus) Register(eventType reflect.Type, fn Handler, priority Priority, opts ...RegisterOption) SubscriberID {
	cfg := registerConfig{id: newSubscriberID()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if eventType == nil || fn == nil {
		b.log.Warn("ignoring registration with nil event type or handler")
		return cfg.id
	}
	b.registry.add(baseType(eventType), newBinding(cfg.id, fn, priority, cfg.once))
	return cfg.id
}

// On registers a typed handler for T, which may be a struct, pointer or
// interface type. Events arriving as *T are dereferenced.
func On[T any](b *Bus, fn func(T) error, priority Priority, opts ...RegisterOption) SubscriberID {
	return b.Register(TypeOf[T](), func(event any) error {
		if v, ok := event.(T); ok {
			return fn(v)
		}
		if p, ok := event.(*T); ok {
			return fn(*p)
		}
		return ErrorRegistry.New(ErrEventTypeMismatch).
			WithDetail("registered", TypeOf[T]().String()).
			WithDetail("received", fmt.Sprintf("%T", event))
	}, priority, opts...)
}

// Unregister removes every binding with the given identity, across all
// event types. Idempotent.
func (b *Bus) Unregister(id SubscriberID) {
	if b.registry.removeAll(id) == 0 {
		b.log.Debug("unregister: no bindings for subscriber %s", id)
	}
}

// Subscribe resumes delivery for a previously unsubscribed identity. The
// bindings were kept, so no re-registration happens.
func (b *Bus) Subscribe(id SubscriberID) {
	b.registry.setActive(id, true)
}

// Unsubscribe stops delivery for the identity without removing its
// bindings.
func (b *Bus) Unsubscribe(id SubscriberID) {
	b.registry.setActive(id, false)
}

// HasSubscribers reports whether the type has any active binding.
func (b *Bus) HasSubscribers(eventType reflect.Type) bool {
	return b.registry.has(baseType(eventType))
}

// CountSubscribers returns the number of active bindings for the type.
// Unsubscribed bindings remain registered but are not counted.
func (b *Bus) CountSubscribers(eventType reflect.Type) int {
	return b.registry.count(baseType(eventType))
}

// Subscribers lists the identities of the type's active bindings, one entry
// per binding, in registration order.
func (b *Bus) Subscribers(eventType reflect.Type) []SubscriberID {
	return b.registry.activeSubscribers(baseType(eventType))
}

// AddInterceptor appends a stage to the pipeline wrapping dispatch.
func (b *Bus) AddInterceptor(i Interceptor) {
	if i == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stages = append(b.stages, i)
}

// RemoveInterceptor removes a stage by identity.
func (b *Bus) RemoveInterceptor(i Interceptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.stages[:0]
	for _, s := range b.stages {
		if s != i {
			kept = append(kept, s)
		}
	}
	b.stages = kept
}

// Post delivers the event synchronously on the calling goroutine, running
// the interceptor pipeline around the dispatch. With no interceptors
// installed a handler failure is returned to the caller; with interceptors
// installed the failure is broadcast to every installed interceptor's
// OnError hook instead and Post returns nil. Posting with zero registered
// handlers is a silent no-op.
func (b *Bus) Post(event any) error {
	if event == nil {
		return nil
	}
	stages := b.snapshotStages()
	if len(stages) == 0 {
		return b.disp.dispatch(event)
	}
	link := &chainLink{stages: stages, terminal: b.disp.dispatch}
	if err := proceed(link, event); err != nil {
		b.broadcastError(stages, event, err)
	}
	return nil
}

// PostAsync delivers the event on a separate goroutine and returns a handle
// the caller may wait on or drop. Fire and forget: no ordering guarantee
// relative to other posts.
func (b *Bus) PostAsync(event any) *asyncx.Future[struct{}] {
	return asyncx.Do(context.Background(), func(context.Context) error {
		return b.Post(event)
	})
}

// Schedule posts the event after the delay. The returned timer can stop a
// pending delivery.
func (b *Bus) Schedule(event any, delay time.Duration) *asyncx.Timer {
	return asyncx.Schedule(delay, func() {
		if err := b.Post(event); err != nil {
			b.log.Error("scheduled post failed: %v", err)
		}
	})
}

func (b *Bus) snapshotStages() []Interceptor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.stages) == 0 {
		return nil
	}
	out := make([]Interceptor, len(b.stages))
	copy(out, b.stages)
	return out
}

// proceed starts the pipeline traversal, converting a stage panic into an
// error so it reaches the broadcast path like any other failure.
func proceed(c Chain, event any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ErrorRegistry.New(ErrInterceptorPanic).
				WithDetail("panic", fmt.Sprint(rec))
		}
	}()
	return c.Proceed(event)
}

// broadcastError feeds the failure to each installed interceptor's error
// hook in installation order. A hook's own panic is logged and never stops
// the remaining hooks.
func (b *Bus) broadcastError(stages []Interceptor, event any, err error) {
	for _, s := range stages {
		hook, ok := s.(ErrorHook)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					b.log.Error("interceptor error hook panicked: %v", rec)
				}
			}()
			hook.OnError(event, err)
		}()
	}
}
