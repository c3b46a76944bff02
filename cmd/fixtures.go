package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/atlas/internal/formatter"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Fixtures lists upcoming fixtures, optionally limited to one league, in the requested format.
func (r *Runner) Fixtures(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("refresh") {
		r.fixtures.Invalidate()
	}

	resp, err := r.fixtures.Upcoming(ctx)
	if err != nil {
		return err
	}

	fixtures := resp.Fixtures
	if league := int64(cmd.Int("league")); league != 0 {
		fixtures = models.FilterLeague(fixtures, league)
		r.logger.Debug("filtered fixtures", "league", league, "count", len(fixtures))
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(fixtures, format, path, time.Local); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d fixtures to %s\n", len(fixtures), path)
	}

	data, err := formatter.Render(fixtures, format, time.Local)
	if err != nil {
		return fmt.Errorf("failed to render fixtures: %w", err)
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// FixturesExport writes each league's fixtures to its own file using the export worker pool.
func (r *Runner) FixturesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("refresh") {
		r.fixtures.Invalidate()
	}

	var leagues []int64
	for _, id := range cmd.IntSlice("league") {
		leagues = append(leagues, int64(id))
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchFixtures:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportLeague:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		Leagues:    leagues,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported %d/%d leagues to %s", result.SuccessfulExports, result.TotalLeagues, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("⚠ %d leagues failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}
