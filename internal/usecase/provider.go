package usecase

import (
	"context"
	"time"
)

// PlayerMatchProvider is the per-player events source (SofaScore).
type PlayerMatchProvider interface {
	FetchPlayerRecentMatches(ctx context.Context, playerID int64) ([]ExternalMatch, error)
	FetchMatchIncidents(ctx context.Context, matchID int64) ([]ExternalIncident, error)
}

// FixtureProvider is the fixture-listing events source (API-Football).
type FixtureProvider interface {
	FetchLiveFixtures(ctx context.Context) ([]ExternalMatch, error)
	FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]ExternalMatch, error)
	FetchFixtureIncidents(ctx context.Context, fixtureID int64) ([]ExternalIncident, error)
}

// SeasonStatsProvider lists a player's competition seasons and their statistics blocks.
type SeasonStatsProvider interface {
	FetchPlayerTournamentSeasons(ctx context.Context, playerID int64) ([]ExternalTournamentSeason, error)
	FetchCompetitionStatistics(ctx context.Context, playerID, tournamentID, seasonID int64) (ExternalCompetitionStatistics, error)
}

type MatchStatus string

const (
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusLive      MatchStatus = "inprogress"
	MatchStatusScheduled MatchStatus = "notstarted"
	MatchStatusUnknown   MatchStatus = ""
)

// ExternalMatch is a fixture decoded at the provider boundary. Missing numeric fields
// decode to zero and a missing start time decodes to the zero instant.
type ExternalMatch struct {
	ID          int64
	StartAt     time.Time
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Competition string
	Status      MatchStatus
}

// ExternalIncident is one raw happening inside a match. Player ids are 0 when absent.
// PlayerInID is set only on substitutions and names the player entering the pitch.
type ExternalIncident struct {
	PlayerID       int64
	AssistPlayerID int64
	PlayerInID     int64
	Type           string
	Detail         string
	Minute         int
	IsHome         *bool
	TeamName       string
}

type ExternalTournamentSeason struct {
	TournamentID   int64
	TournamentName string
	Seasons        []ExternalSeason
}

type ExternalSeason struct {
	ID       int64
	Name     string
	TeamName string
}

type ExternalCompetitionStatistics struct {
	Appearances   int
	MinutesPlayed int
	Goals         int
	Assists       int
	Rating        float64
}
