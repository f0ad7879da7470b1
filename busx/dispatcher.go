package busx

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"

	"github.com/Abraxas-365/dispatchable/logx"
)

// dispatcher runs the core delivery algorithm: resolve the event's ancestor
// closure, then walk it tier by tier invoking the active bindings in
// priority order, honoring cancellation and one-shot removal.
type dispatcher struct {
	registry *registry
	resolver *resolver
	log      *logx.Logger
}

func (d *dispatcher) dispatch(event any) error {
	t := reflect.TypeOf(event)
	if t == nil {
		return nil
	}
	closure := d.resolver.resolve(baseType(t))

	cancellable, checkCancel := event.(Cancellable)

	for _, tr := range closure {
		snap := d.registry.snapshot(tr.typ)
		if len(snap) == 0 {
			continue
		}
		ordered := orderActive(snap)
		if len(ordered) == 0 {
			continue
		}
		view := tr.view(event)

		for _, b := range ordered {
			if !b.active.Load() {
				// deactivated since the snapshot was taken
				continue
			}
			if b.once && !b.consumed.CompareAndSwap(false, true) {
				// a concurrent dispatch claimed this once-binding first
				continue
			}
			err := invoke(b, view)
			if b.once {
				d.registry.remove(tr.typ, b)
			}
			if err != nil {
				return err
			}
			if checkCancel && cancellable.IsCancelled() {
				d.log.Trace("event %s cancelled, skipping remaining handlers", t)
				return nil
			}
		}
	}
	return nil
}

// orderActive filters the snapshot down to active bindings and orders them:
// descending priority, registration order on ties.
func orderActive(snap []*binding) []*binding {
	var ordered []*binding
	for _, b := range snap {
		if b.active.Load() {
			ordered = append(ordered, b)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority > ordered[j].priority
		}
		return ordered[i].seq < ordered[j].seq
	})
	return ordered
}

// invoke runs a single binding. A handler error is returned as is; a panic
// escaping the handler is converted to a handler-panic error so the failure
// follows the same path upward.
func invoke(b *binding, event any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ErrorRegistry.New(ErrHandlerPanic).
				WithDetail("panic", fmt.Sprint(rec)).
				WithDetail("stack", string(debug.Stack()))
		}
	}()
	return b.fn(event)
}
