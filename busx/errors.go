package busx

import "github.com/Abraxas-365/dispatchable/errx"

// ErrorRegistry holds the error definitions for the bus.
var ErrorRegistry = errx.NewRegistry("BUS")

var (
	// ErrInvalidHandler flags a host object method that looked like a
	// handler but has the wrong shape. Registration logs and skips it.
	ErrInvalidHandler = ErrorRegistry.Register(
		"INVALID_HANDLER",
		errx.TypeValidation,
		"Handler has an invalid signature",
	)

	// ErrEventTypeMismatch is returned by a typed handler that received an
	// event it cannot represent as its registered type.
	ErrEventTypeMismatch = ErrorRegistry.Register(
		"EVENT_TYPE_MISMATCH",
		errx.TypeValidation,
		"Event does not match the registered type",
	)

	// ErrHandlerPanic wraps a panic escaping a handler during dispatch.
	ErrHandlerPanic = ErrorRegistry.Register(
		"HANDLER_PANIC",
		errx.TypeInternal,
		"Event handler panicked",
	)

	// ErrInterceptorPanic wraps a panic escaping an interceptor stage.
	ErrInterceptorPanic = ErrorRegistry.Register(
		"INTERCEPTOR_PANIC",
		errx.TypeInternal,
		"Interceptor stage panicked",
	)
)
