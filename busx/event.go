package busx

import "reflect"

// Cancellable is implemented by events whose delivery can be cut short.
// The bus checks the flag after every handler invocation: once it reads
// true, no further handler runs for that post, in the current tier or any
// ancestor tier.
type Cancellable interface {
	SetCancelled(cancelled bool)
	Cancel()
	IsCancelled() bool
}

// CancelState is an embeddable Cancellable implementation.
//
//	type ClickEvent struct {
//		busx.CancelState
//		X, Y int
//	}
//
// Methods use a pointer receiver, so cancellable events must be posted as
// pointers. The flag is only read between handler invocations on the posting
// goroutine; it is not meant to be shared across goroutines.
type CancelState struct {
	cancelled bool
}

func (c *CancelState) SetCancelled(cancelled bool) { c.cancelled = cancelled }
func (c *CancelState) Cancel()                     { c.cancelled = true }
func (c *CancelState) IsCancelled() bool           { return c.cancelled }

// TypeOf returns the registration key for T. Unlike reflect.TypeOf it also
// works for interface types:
//
//	bus.Register(busx.TypeOf[AuditEvent](), fn, busx.Normal)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// baseType normalizes a posted value's type to the registry key: pointer
// events are keyed by their element type.
func baseType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
