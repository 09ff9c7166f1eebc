package app

import (
	"context"
	"fmt"
)

// Run executes the instance: load every available extension, start the
// healthcheck server, then hand control to the shard group manager until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = a.loggerContext(ctx)
	a.logger.Debug("App.Run method started.")

	defer func() {
		a.reporter.Wait()
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close store connection.", "error", err)
		}
	}()

	if err := a.loader.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load extensions: %w", err)
	}

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer()
	}

	if err := a.manager.Run(ctx); err != nil {
		return fmt.Errorf("shard group failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
