package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/atlas/internal/models"
)

// FixtureSource supplies upcoming fixtures, typically [services.FixturesService].
type FixtureSource interface {
	Upcoming(ctx context.Context) (*models.FixtureResponse, error)
}

// ExportEngine writes fixtures to disk league by league.
type ExportEngine struct {
	source FixtureSource
	loc    *time.Location
}

// NewExportEngine creates an engine reading from source and rendering kickoff times in loc.
//
// A nil loc renders in [time.Local].
func NewExportEngine(source FixtureSource, loc *time.Location) *ExportEngine {
	if loc == nil {
		loc = time.Local
	}
	return &ExportEngine{source: source, loc: loc}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
