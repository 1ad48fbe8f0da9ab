package application

import (
	"errors"
	"log/slog"

	domainerrors "securevote/contexts/governance/governance-token/domain/errors"
)

// ResolveLogger guarantees a non-nil logger for application code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

var rejections = []error{
	domainerrors.ErrInsufficientBalance,
	domainerrors.ErrInsufficientAllowance,
	domainerrors.ErrZeroPayment,
	domainerrors.ErrSupplyOverflow,
	domainerrors.ErrInvalidReceiver,
	domainerrors.ErrInvalidSpender,
}

// logFailure logs caller-correctable rejections at Warn and everything else at Error.
func logFailure(logger *slog.Logger, msg string, event string, err error, attrs ...any) {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/governance-token",
		"layer", "application",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			logger.Warn(msg, fields...)
			return
		}
	}
	logger.Error(msg, fields...)
}
