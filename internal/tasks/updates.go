package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFixtures Phase = iota
	ExportLeague
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchFixtures:
		return "fetch_fixtures"
	case ExportLeague:
		return "export_league"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingFixturesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFixtures,
		Step:    1,
		Total:   1,
		Message: "Fetching upcoming fixtures...",
	}
}

func foundLeaguesUpdate(leagues, fixtures int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFixtures,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d fixtures across %d leagues", fixtures, leagues),
	}
}

func exportCompletedUpdate(step, total int, res LeagueExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportLeague,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d fixtures)", step, total, res.LeagueName, res.FixtureCount),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res LeagueExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportLeague,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.LeagueName, res.Error),
		Data:    res,
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s...", path),
	}
}
