package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/aerosim/pkg/domain"
)

// LoggingHooks returns hooks that log each session event on logger.
// Rejections are logged at Info since they are expected user mistakes.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition",
				"session_id", e.SessionID,
				"variant", e.Variant,
				"from", e.From,
				"to", e.To,
				"symbol", e.Symbol,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "rejected",
				"session_id", e.SessionID,
				"variant", e.Variant,
				"state", e.From,
				"symbol", e.Symbol,
				"reason", e.Failure,
			)
		},
		OnReset: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "reset",
				"session_id", e.SessionID,
				"variant", e.Variant,
				"from", e.From,
			)
		},
	}
}
