package analysis

import (
	"context"
	"log/slog"
	"time"
)

// Probe checks that the analysis service is reachable and logs the outcome.
// The result never gates any feature.
func Probe(ctx context.Context, c *Client, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.Health(probeCtx); err != nil {
		logger.Warn("analysis service connection failed", "base_url", c.BaseURL(), "error", err)
		return false
	}
	logger.Info("analysis service connection successful", "base_url", c.BaseURL())
	return true
}
