package models

import (
	"cmp"
	"slices"
	"time"
)

// Short status codes reported by the fixtures provider.
const (
	StatusNotStarted = "NS"
	StatusLive       = "LIVE"
	StatusFinished   = "FT"
)

// FixtureResponse is the envelope returned by GET /api/fixtures/upcoming.
type FixtureResponse struct {
	Results  int       `json:"results"`
	Fixtures []Fixture `json:"fixtures"`
	Status   string    `json:"status"`
	Message  string    `json:"message"`
}

// Fixture is a single scheduled, live or finished match.
type Fixture struct {
	Fixture FixtureDetails `json:"fixture"`
	League  League         `json:"league"`
	Teams   Teams          `json:"teams"`
	Goals   *Goals         `json:"goals,omitempty"`
	Score   *Score         `json:"score,omitempty"`
}

type FixtureDetails struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Timezone string  `json:"timezone"`
	Venue    *Venue  `json:"venue,omitempty"`
	Status   *Status `json:"status,omitempty"`
}

type Venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type Status struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed,omitempty"`
}

type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

type Team struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner,omitempty"`
}

// Goals holds a home/away tally. Either side is nil before kickoff.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Halftime  *Goals `json:"halftime,omitempty"`
	Fulltime  *Goals `json:"fulltime,omitempty"`
	Extratime *Goals `json:"extratime,omitempty"`
	Penalty   *Goals `json:"penalty,omitempty"`
}

// LeagueFixtures is one league and its fixtures in response order.
type LeagueFixtures struct {
	League   League
	Fixtures []Fixture
}

// Kickoff parses the fixture date (RFC 3339).
func (f Fixture) Kickoff() (time.Time, error) {
	return time.Parse(time.RFC3339, f.Fixture.Date)
}

func (f Fixture) statusShort() string {
	if f.Fixture.Status == nil {
		return ""
	}
	return f.Fixture.Status.Short
}

// IsLive reports whether the match is in progress.
func (f Fixture) IsLive() bool { return f.statusShort() == StatusLive }

// IsFinished reports whether the match has reached full time.
func (f Fixture) IsFinished() bool { return f.statusShort() == StatusFinished }

// HasScore reports whether both sides of the goal tally are known.
func (f Fixture) HasScore() bool {
	return f.Goals != nil && f.Goals.Home != nil && f.Goals.Away != nil
}

// GroupByLeague buckets fixtures by league id, ordered by ascending id.
//
// Fixture order within a league is preserved.
func GroupByLeague(fixtures []Fixture) []LeagueFixtures {
	index := make(map[int64]int)
	var groups []LeagueFixtures

	for _, f := range fixtures {
		i, ok := index[f.League.ID]
		if !ok {
			i = len(groups)
			index[f.League.ID] = i
			groups = append(groups, LeagueFixtures{League: f.League})
		}
		groups[i].Fixtures = append(groups[i].Fixtures, f)
	}

	slices.SortStableFunc(groups, func(a, b LeagueFixtures) int { return cmp.Compare(a.League.ID, b.League.ID) })
	return groups
}

// FilterLeague returns the fixtures of a single league.
func FilterLeague(fixtures []Fixture, leagueID int64) []Fixture {
	var out []Fixture
	for _, f := range fixtures {
		if f.League.ID == leagueID {
			out = append(out, f)
		}
	}
	return out
}
