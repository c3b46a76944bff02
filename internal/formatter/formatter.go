// package formatter renders fixtures in various output formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
)

// Format names an output format accepted by [Render].
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

const (
	dateLayout = "Jan 2"
	timeLayout = "3:04 PM"
)

// ParseFormat validates a --format flag value. "markdown" is accepted as an alias of "md".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case "markdown":
		return FormatMarkdown, nil
	case FormatText, FormatCSV, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension is the file extension used when writing format to disk.
func (f Format) Extension() string {
	if f == FormatText || f == "" {
		return "txt"
	}
	return string(f)
}

// FormatKickoff renders a kickoff time as "Jan 2 • 3:04 PM" in loc.
//
// Unparsable dates are returned as-is.
func FormatKickoff(f models.Fixture, loc *time.Location) string {
	t, err := f.Kickoff()
	if err != nil {
		return f.Fixture.Date
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout) + " • " + t.Format(timeLayout)
}

// StatusLabel returns the short status, or "NS" when none was reported.
func StatusLabel(f models.Fixture) string {
	if f.Fixture.Status == nil || f.Fixture.Status.Short == "" {
		return models.StatusNotStarted
	}
	return f.Fixture.Status.Short
}

// ScoreLine renders "2 - 1" once both goal counts are known and "vs" before that.
func ScoreLine(f models.Fixture) string {
	if !f.HasScore() {
		return "vs"
	}
	return fmt.Sprintf("%d - %d", *f.Goals.Home, *f.Goals.Away)
}

// Matchup renders "Home 2 - 1 Away" or "Home vs Away".
func Matchup(f models.Fixture) string {
	return fmt.Sprintf("%s %s %s", f.Teams.Home.Name, ScoreLine(f), f.Teams.Away.Name)
}

// VenueLine renders "Name, City", omitting missing parts.
func VenueLine(f models.Fixture) string {
	if f.Fixture.Venue == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{f.Fixture.Venue.Name, f.Fixture.Venue.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func goalString(g *int) string {
	if g == nil {
		return ""
	}
	return strconv.Itoa(*g)
}

// FixturesToCSV converts fixtures to CSV with columns: ID, Date, League, Home, Away, HomeGoals, AwayGoals, Status, Venue
func FixturesToCSV(fixtures []models.Fixture) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Date", "League", "Home", "Away", "HomeGoals", "AwayGoals", "Status", "Venue"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range fixtures {
		var home, away string
		if f.Goals != nil {
			home, away = goalString(f.Goals.Home), goalString(f.Goals.Away)
		}
		record := []string{
			strconv.FormatInt(f.Fixture.ID, 10),
			f.Fixture.Date,
			f.League.Name,
			f.Teams.Home.Name,
			f.Teams.Away.Name,
			home,
			away,
			StatusLabel(f),
			VenueLine(f),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// FixturesToMarkdown renders fixtures grouped by league, one section per league.
func FixturesToMarkdown(fixtures []models.Fixture, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Upcoming Fixtures\n\n")
	if len(fixtures) == 0 {
		buf.WriteString("No upcoming fixtures available.\n")
		return buf.Bytes(), nil
	}

	for _, group := range models.GroupByLeague(fixtures) {
		fmt.Fprintf(&buf, "## %s", group.League.Name)
		if group.League.Country != "" {
			fmt.Fprintf(&buf, " (%s)", group.League.Country)
		}
		buf.WriteString("\n\n")

		buf.WriteString("| Date | Match | Status | Venue |\n")
		buf.WriteString("|---|---|---|---|\n")
		for _, f := range group.Fixtures {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				FormatKickoff(f, loc), escapeCell(Matchup(f)), StatusLabel(f), escapeCell(VenueLine(f)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// FixturesToText renders fixtures grouped by league as indented plain text.
func FixturesToText(fixtures []models.Fixture, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer

	if len(fixtures) == 0 {
		buf.WriteString("No upcoming fixtures available.\n")
		return buf.Bytes(), nil
	}

	for i, group := range models.GroupByLeague(fixtures) {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%s (%d)\n", group.League.Name, len(group.Fixtures))
		for _, f := range group.Fixtures {
			fmt.Fprintf(&buf, "  %s  [%s]  %s\n", FormatKickoff(f, loc), StatusLabel(f), Matchup(f))
		}
	}

	return buf.Bytes(), nil
}

// Render dispatches to the renderer for format. JSON output is the raw fixtures array.
func Render(fixtures []models.Fixture, format Format, loc *time.Location) ([]byte, error) {
	switch format {
	case FormatCSV:
		return FixturesToCSV(fixtures)
	case FormatMarkdown:
		return FixturesToMarkdown(fixtures, loc)
	case FormatJSON:
		if fixtures == nil {
			fixtures = []models.Fixture{}
		}
		return shared.MarshalJSON(fixtures, true)
	case FormatText, "":
		return FixturesToText(fixtures, loc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders fixtures and writes them to path.
func WriteExport(fixtures []models.Fixture, format Format, path string, loc *time.Location) error {
	data, err := Render(fixtures, format, loc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
