package runner

import (
	"context"
	"log/slog"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// LogIndicator reports status changes to logger.
func LogIndicator(logger *slog.Logger) ports.StatusIndicator {
	return ports.StatusFunc(func(ctx context.Context, status domain.RunnerStatus) {
		logger.InfoContext(ctx, "Runner status changed", "status", status)
	})
}
