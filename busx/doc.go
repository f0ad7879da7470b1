// Package busx provides a typed in-process publish/subscribe dispatcher.
//
// Producers post event values, consumers register handlers for an event's
// type or any of its ancestor types, and the bus delivers each event to the
// matching active handlers in priority order. Delivery is synchronous on the
// posting goroutine and honors cancellation and one-shot semantics.
//
// Ancestry is declared through embedding: an event struct that embeds
// another struct or an interface is delivered to handlers registered for
// those embedded types as well.
//
// Basic usage:
//
//	bus := busx.New()
//
//	// Subscribe with a typed handler
//	id := busx.On(bus, func(e UserCreated) error {
//		fmt.Println("welcome,", e.Name)
//		return nil
//	}, busx.Normal)
//
//	// Post events
//	if err := bus.Post(UserCreated{Name: "John"}); err != nil {
//		log.Printf("Error: %v", err)
//	}
//
//	// Stop delivery without losing the registration
//	bus.Unsubscribe(id)
package busx
