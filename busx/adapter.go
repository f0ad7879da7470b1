package busx

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/Abraxas-365/dispatchable/errx"
)

// Subscription declares one binding contributed by a host object.
type Subscription struct {
	EventType reflect.Type
	Fn        Handler
	Priority  Priority
	Once      bool
}

// SubscriptionProvider lets a host object declare its bindings explicitly,
// with full control over priority and once semantics.
type SubscriptionProvider interface {
	Subscriptions() []Subscription
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterSubscriber registers every handler a host object exposes and
// groups them under a single SubscriberID, so Unregister, Subscribe and
// Unsubscribe act on the host as a unit.
//
// Hosts implementing SubscriptionProvider contribute their declared tuples.
// Any other host is introspected: exported methods named On* that take
// exactly one parameter and return nothing or error become handlers for the
// parameter's type at Normal priority. A method matching the naming
// convention but not the shape is logged and skipped, never fatal.
func (b *Bus) RegisterSubscriber(host any) SubscriberID {
	id := newSubscriberID()
	if host == nil {
		b.log.Warn("ignoring nil subscriber")
		return id
	}

	if provider, ok := host.(SubscriptionProvider); ok {
		for _, s := range provider.Subscriptions() {
			if s.EventType == nil || s.Fn == nil {
				b.log.Warn("skipping subscription with nil event type or handler from %T", host)
				continue
			}
			opts := []RegisterOption{As(id)}
			if s.Once {
				opts = append(opts, Once())
			}
			b.Register(s.EventType, s.Fn, s.Priority, opts...)
		}
		return id
	}

	hv := reflect.ValueOf(host)
	ht := hv.Type()
	registered := 0
	for i := 0; i < ht.NumMethod(); i++ {
		name := ht.Method(i).Name
		if !isHandlerName(name) {
			continue
		}
		mv := hv.Method(i)
		mt := mv.Type()
		if mt.NumIn() != 1 || mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0) != errType) {
			err := ErrorRegistry.New(ErrInvalidHandler).
				WithDetail("method", name).
				WithDetail("subscriber", ht.String())
			b.log.Warn("%s", errx.Print(err))
			continue
		}
		b.Register(mt.In(0), methodHandler(mv, mt.In(0)), Normal, As(id))
		registered++
	}
	b.log.Debug("registered %d handlers for subscriber %T", registered, host)
	return id
}

// isHandlerName matches the On* convention: "OnFoo", not "On" or "Once".
func isHandlerName(name string) bool {
	return strings.HasPrefix(name, "On") &&
		len(name) > 2 &&
		unicode.IsUpper(rune(name[2]))
}

// methodHandler adapts a bound host method into a Handler. Pointer events
// are dereferenced when the method takes a value parameter.
func methodHandler(m reflect.Value, param reflect.Type) Handler {
	return func(event any) error {
		ev := reflect.ValueOf(event)
		if !ev.Type().AssignableTo(param) {
			if ev.Kind() == reflect.Pointer && !ev.IsNil() && ev.Elem().Type().AssignableTo(param) {
				ev = ev.Elem()
			} else {
				return ErrorRegistry.New(ErrEventTypeMismatch).
					WithDetail("expected", param.String()).
					WithDetail("received", ev.Type().String())
			}
		}
		out := m.Call([]reflect.Value{ev})
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}
}
