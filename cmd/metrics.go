package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

// MetricsSend records a single telemetry event and waits for the backend to accept it.
func (r *Runner) MetricsSend(ctx context.Context, cmd *cli.Command) error {
	event, err := models.ParseEventType(cmd.String("event"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if !r.metrics.Enabled() {
		return r.writePlain("metrics disabled\n")
	}

	md := models.Metadata{TriggerID: cmd.String("trigger"), Screen: cmd.String("screen")}
	if err := r.metrics.Save(ctx, event, md); err != nil {
		return err
	}

	return r.writePlain("✓ Recorded %s (%s on %s)\n", event, md.TriggerID, md.Screen)
}
