package tasks

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/desertthunder/atlas/internal/formatter"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk fixture exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format for every league file
	OutputDir  string           // Base output directory (default: fixtures_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4)
	Leagues    []int64          // Only export these leagues when non-empty
}

// LeagueExportResult is the outcome of exporting one league.
type LeagueExportResult struct {
	LeagueID     int64  `json:"leagueId"`
	LeagueName   string `json:"leagueName"`
	Country      string `json:"country"`
	FixtureCount int    `json:"fixtureCount"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
	Error        error  `json:"-"`
}

// BulkExportResult summarizes a bulk export and doubles as the manifest written next to the files.
type BulkExportResult struct {
	Format            formatter.Format     `json:"format"`
	ExportedAt        time.Time            `json:"exportedAt"`
	OutputDirectory   string               `json:"outputDirectory"`
	TotalLeagues      int                  `json:"totalLeagues"`
	SuccessfulExports int                  `json:"successfulExports"`
	FailedExports     int                  `json:"failedExports"`
	Results           []LeagueExportResult `json:"results"`
	ManifestPath      string               `json:"-"`
}

type leagueJob struct {
	group models.LeagueFixtures
}

// BulkExport writes one file per league using a pool of workers, then a manifest.
//
// Failures are per league: a league that cannot be written is reported in the result and the manifest while the
// others continue.
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: fixtures source not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("fixtures_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	e.sendProgress(prog, fetchingFixturesUpdate())
	resp, err := e.source.Upcoming(ctx)
	if err != nil {
		return nil, err
	}

	groups := models.GroupByLeague(resp.Fixtures)
	if len(opts.Leagues) > 0 {
		groups = slices.DeleteFunc(groups, func(g models.LeagueFixtures) bool {
			return !slices.Contains(opts.Leagues, g.League.ID)
		})
	}
	e.sendProgress(prog, foundLeaguesUpdate(len(groups), len(resp.Fixtures)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		OutputDirectory: opts.OutputDir,
		TotalLeagues:    len(groups),
		Results:         make([]LeagueExportResult, 0, len(groups)),
	}

	jobs := make(chan leagueJob, len(groups))
	results := make(chan LeagueExportResult, len(groups))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for _, g := range groups {
			select {
			case <-ctx.Done():
				return
			case jobs <- leagueJob{group: g}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(groups), res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(groups), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	slices.SortFunc(result.Results, func(a, b LeagueExportResult) int { return cmp.Compare(a.LeagueID, b.LeagueID) })

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	e.sendProgress(prog, writingManifestUpdate(manifestPath))
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports leagues from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan leagueJob,
	results chan<- LeagueExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportLeague(job, opts)
	}
}

// exportLeague renders a single league to its own file.
func (e *ExportEngine) exportLeague(j leagueJob, opts BulkExportOpts) LeagueExportResult {
	league := j.group.League
	result := LeagueExportResult{
		LeagueID:     league.ID,
		LeagueName:   league.Name,
		Country:      league.Country,
		FixtureCount: len(j.group.Fixtures),
	}

	path := filepath.Join(opts.OutputDir, LeagueFilename(league, opts.Format))
	if err := formatter.WriteExport(j.group.Fixtures, opts.Format, path, e.loc); err != nil {
		result.Error = err
		result.ErrorMessage = err.Error()
		return result
	}

	result.File = path
	result.Success = true
	return result
}

// LeagueFilename names a league's export file, e.g. "39-premier-league.md".
func LeagueFilename(league models.League, format formatter.Format) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(league.Name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("%d.%s", league.ID, format.Extension())
	}
	return fmt.Sprintf("%d-%s.%s", league.ID, slug, format.Extension())
}
