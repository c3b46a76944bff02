package testing

import "github.com/desertthunder/atlas/internal/models"

// League ids used by the backend's fixtures provider.
const (
	PremierLeague = 39
	Bundesliga    = 78
	SerieA        = 135
	LaLiga        = 140
)

var leagueNames = map[int64]string{
	PremierLeague: "Premier League",
	Bundesliga:    "Bundesliga",
	SerieA:        "Serie A",
	LaLiga:        "La Liga",
}

// NewFixture builds a not-started fixture in league between home and away.
func NewFixture(id, league int64, home, away string) models.Fixture {
	name, ok := leagueNames[league]
	if !ok {
		name = "League"
	}
	return models.Fixture{
		Fixture: models.FixtureDetails{
			ID:       id,
			Date:     "2025-08-16T14:00:00Z",
			Timezone: "UTC",
			Venue:    &models.Venue{ID: id, Name: home + " Stadium", City: "City"},
			Status:   &models.Status{Long: "Not Started", Short: models.StatusNotStarted},
		},
		League: models.League{ID: league, Name: name, Country: "Country", Season: 2025},
		Teams: models.Teams{
			Home: models.Team{ID: id * 10, Name: home},
			Away: models.Team{ID: id*10 + 1, Name: away},
		},
		Goals: &models.Goals{},
	}
}

// WithScore sets the goal tally and status of f.
func WithScore(f models.Fixture, home, away int, status string) models.Fixture {
	f.Goals = &models.Goals{Home: &home, Away: &away}
	f.Fixture.Status = &models.Status{Long: status, Short: status}
	return f
}
