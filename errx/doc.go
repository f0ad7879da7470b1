/*
Package errx provides structured error handling for the dispatchable
libraries. It supports errors with types, codes, details and cause chains.

# Basic Usage

Create simple errors with the New function:

	err := errx.New("subscriber not found", errx.TypeNotFound)

	// Check error type
	if errx.IsType(err, errx.TypeNotFound) {
		// Handle not found case
	}

# Error Registry

For domain-specific errors, create a registry with prefixed error codes:

	// Create a registry for bus-related errors
	busErrors := errx.NewRegistry("BUS")

	// Register common errors
	ErrHandlerPanic := busErrors.Register("HANDLER_PANIC", errx.TypeInternal, "Event handler panicked")
	ErrInvalidHandler := busErrors.Register("INVALID_HANDLER", errx.TypeValidation, "Handler has an invalid signature")

	// Create instances of registered errors
	err := busErrors.New(ErrHandlerPanic)

	// Create with custom message
	err := busErrors.NewWithMessage(ErrInvalidHandler, "OnClick takes two parameters")

# Adding Details

Provide additional context with details:

	err := busErrors.New(ErrInvalidHandler).
		WithDetail("method", "OnClick").
		WithDetail("subscriber", "*plugin.Toolbar")

	// Or with a map
	err := busErrors.New(ErrHandlerPanic).
		WithDetails(map[string]any{
			"event": "ui.click",
			"panic": "index out of range",
		})

# Error Wrapping

Wrap standard errors to add context while preserving the original cause:

	err := errx.Wrap(originalErr, "Failed to deliver event", errx.TypeInternal)

	// Or when using a registry
	err := busErrors.NewWithCause(ErrHandlerPanic, originalErr)

# Error Checking

Check for specific error conditions:

	if errx.IsCode(err, ErrHandlerPanic) {
		// Handle specific error code
	}

	if errx.IsType(err, errx.TypeValidation) {
		// Handle validation errors
	}
*/
package errx
