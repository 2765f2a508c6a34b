// Package recovery provides panic recovery for Flight RPC handlers.
// Keeps user-provided scan functions and predicate evaluation over
// user-provided tables from crashing the server.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PanicError is returned by RecoverToValue when fn panicked.
type PanicError struct {
	Operation string
	Value     any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Operation, e.Value)
}

// RecoverToError wraps a function call with panic recovery.
// If the function panics, converts the panic to a gRPC Internal error.
//
// Example:
//
//	err := recovery.RecoverToError(logger, "Scan", func() error {
//	    reader, err = table.Scan(ctx)
//	    return err
//	})
func RecoverToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

// RecoverToValue wraps a function that returns a value and error.
// If the function panics, returns zero value and a *PanicError.
//
// Example:
//
//	p, err := recovery.RecoverToValue(logger, "BuildPredicate", func() (selection.Predicate, error) {
//	    return filter.Build(view, expr)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)

			var zero T
			result = zero
			err = &PanicError{Operation: operation, Value: r}
		}
	}()

	return fn()
}

func logPanic(logger *slog.Logger, operation string, r any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
