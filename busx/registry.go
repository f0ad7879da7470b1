package busx

import (
	"reflect"
	"sync"
)

// registry is the concurrency-safe store behind the bus: event type to the
// bindings registered for it, in registration order. Per-type entries are
// created lazily and never compacted away; an empty slice is a valid entry.
type registry struct {
	mu     sync.RWMutex
	seq    uint64
	byType map[reflect.Type][]*binding
}

func newRegistry() *registry {
	return &registry{
		byType: make(map[reflect.Type][]*binding),
	}
}

// add inserts a binding and stamps it with the registration sequence used
// for equal-priority tie breaking. It never fails.
func (r *registry) add(t reflect.Type, b *binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.seq = r.seq
	r.byType[t] = append(r.byType[t], b)
}

// remove deletes exactly the given binding from the type's entry, matched by
// identity. Returns false when another dispatch already removed it.
func (r *registry) remove(t reflect.Type, target *binding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byType[t]
	for i, b := range list {
		if b == target {
			next := make([]*binding, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			r.byType[t] = next
			return true
		}
	}
	return false
}

// removeAll drops every binding with the given subscriber identity across
// all types. Idempotent; returns the number of bindings removed.
func (r *registry) removeAll(id SubscriberID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for t, list := range r.byType {
		kept := make([]*binding, 0, len(list))
		for _, b := range list {
			if b.id == id {
				removed++
				continue
			}
			kept = append(kept, b)
		}
		r.byType[t] = kept
	}
	return removed
}

// setActive toggles the active flag on every binding with the given
// subscriber identity, without removing anything. Returns how many matched.
func (r *registry) setActive(id SubscriberID, active bool) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := 0
	for _, list := range r.byType {
		for _, b := range list {
			if b.id == id {
				b.active.Store(active)
				matched++
			}
		}
	}
	return matched
}

// snapshot returns a point-in-time copy of the type's bindings, sufficient
// for one dispatch pass. Safe under concurrent structural modification.
func (r *registry) snapshot(t reflect.Type) []*binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byType[t]
	if len(list) == 0 {
		return nil
	}
	out := make([]*binding, len(list))
	copy(out, list)
	return out
}

// has reports whether any active binding exists for the type.
func (r *registry) has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.byType[t] {
		if b.active.Load() {
			return true
		}
	}
	return false
}

// count returns the number of active bindings for the type. Inactive
// bindings stay registered but are not reported.
func (r *registry) count(t reflect.Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, b := range r.byType[t] {
		if b.active.Load() {
			n++
		}
	}
	return n
}

// activeSubscribers lists the subscriber identities of the type's active
// bindings, one entry per binding, in registration order.
func (r *registry) activeSubscribers(t reflect.Type) []SubscriberID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []SubscriberID
	for _, b := range r.byType[t] {
		if b.active.Load() {
			ids = append(ids, b.id)
		}
	}
	return ids
}
