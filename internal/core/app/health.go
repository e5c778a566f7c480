package app

import (
	"context"
	"fmt"
	"time"

	"eosindex/internal/shared/observability"
)

// Health reports the state of the last run and the history store.
func (a *App) Health(ctx context.Context) observability.HealthStatus {
	status := observability.HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	last, lastErr := a.Last()
	switch {
	case lastErr != nil:
		status.Status = "degraded"
		status.Components["index"] = "last run failed: " + lastErr.Error()
	case last == nil:
		status.Components["index"] = "pending"
	default:
		status.Components["index"] = fmt.Sprintf("ok (%d headers, %d declarations)", last.Run.FileCount, last.Run.Total())
	}

	if a.history != nil {
		status.Components["history"] = "ok"
	} else if a.Config().History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
