package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/capwire-dev/capwire/capability"
)

// InputValidator checks an input payload against the schema bound to a tag.
// Tags without a schema must pass.
type InputValidator interface {
	ValidateInput(tag capability.Tag, input any) error
}

// PanicRecoveryMiddleware returns a middleware that converts a panicking
// provider into a capability.ProviderFailureError instead of crashing the
// caller. Registry state is unaffected by the recovered panic.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, tag capability.Tag, input any) (out any, err error) {
			defer func() {
				if r := recover(); r != nil {
					out = nil
					err = &capability.ProviderFailureError{
						Tag: tag,
						Err: fmt.Errorf("provider panicked: %v", r),
					}
				}
			}()
			return next(ctx, tag, input)
		}
	}
}

// LoggingMiddleware returns a middleware that logs dispatches through a
// structured logger. A nil logger disables logging.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, tag capability.Tag, input any) (any, error) {
			if logger == nil {
				return next(ctx, tag, input)
			}

			id, _ := InvocationIDFromContext(ctx)
			start := time.Now()

			out, err := next(ctx, tag, input)
			if err != nil {
				logger.ErrorContext(ctx, "dispatch failed",
					"tag", tag.String(),
					"invocation_id", id,
					"duration", time.Since(start),
					"error", err,
				)
				return out, err
			}

			logger.DebugContext(ctx, "dispatch completed",
				"tag", tag.String(),
				"invocation_id", id,
				"duration", time.Since(start),
			)
			return out, nil
		}
	}
}

// ValidationMiddleware returns a middleware that validates input payloads
// before they reach the provider. A validation failure short-circuits the
// dispatch with the validator's error.
func ValidationMiddleware(validator InputValidator) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, tag capability.Tag, input any) (any, error) {
			if err := validator.ValidateInput(tag, input); err != nil {
				return nil, err
			}
			return next(ctx, tag, input)
		}
	}
}
