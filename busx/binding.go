package busx

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler processes a posted event. The value it receives is the event as
// posted for the event's own type, or the ancestor-shaped view of it when
// the handler was registered for an embedded type.
type Handler func(event any) error

// SubscriberID is the opaque token returned by registration. It is the
// identity used by Unregister, Subscribe and Unsubscribe; several bindings
// may share one ID (a host object registered through RegisterSubscriber).
type SubscriberID string

func newSubscriberID() SubscriberID {
	return SubscriberID(uuid.NewString())
}

// binding is one registered handler. Removal and activation match by
// SubscriberID; exactly-once semantics for once-bindings ride on the
// consumed flag, claimed by compare-and-swap before invocation.
type binding struct {
	id       SubscriberID
	fn       Handler
	priority Priority
	once     bool
	seq      uint64
	active   atomic.Bool
	consumed atomic.Bool
}

func newBinding(id SubscriberID, fn Handler, priority Priority, once bool) *binding {
	b := &binding{
		id:       id,
		fn:       fn,
		priority: priority,
		once:     once,
	}
	b.active.Store(true)
	return b
}
