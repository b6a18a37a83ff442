package seasonstat

import "math"

const unknownTeam = "Unknown"

// Accumulator sums one player's competition lines. It is not safe for concurrent use;
// each player gets its own.
type Accumulator struct {
	team    string
	matches int
	minutes int
	goals   int
	assists int
	ratings []float64
}

// ObserveTeam records the team of a season entry. The first non-empty name wins.
func (a *Accumulator) ObserveTeam(name string) {
	if a.team == "" && name != "" {
		a.team = name
	}
}

// Add folds a competition line into the totals. Lines from international competitions
// or with no appearances are ignored and reported as false.
func (a *Accumulator) Add(line CompetitionLine) bool {
	if !CountsTowardSeason(line.Competition) || line.Appearances <= 0 {
		return false
	}
	a.matches += line.Appearances
	a.minutes += line.Minutes
	a.goals += line.Goals
	a.assists += line.Assists
	if line.Rating > 0 {
		a.ratings = append(a.ratings, line.Rating)
	}
	return true
}

// Result builds the season line. It reports false when no qualifying competition had
// an appearance, in which case the player must be left out of the result set.
func (a *Accumulator) Result(player, season string) (SeasonStat, bool) {
	if a.matches <= 0 {
		return SeasonStat{}, false
	}

	team := a.team
	if team == "" {
		team = unknownTeam
	}
	avg := AverageRating(a.ratings)

	return SeasonStat{
		Player:     player,
		Team:       team,
		League:     AllCompetitionsLabel,
		Season:     season,
		Matches:    a.matches,
		Minutes:    a.minutes,
		Goals:      a.goals,
		Assists:    a.assists,
		Rating:     RoundRating(avg),
		FormRating: FormScore(avg),
	}, true
}

// AverageRating is the unweighted mean of the per-competition ratings, 0 when empty.
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

// RoundRating keeps two decimals. Ties go to the even digit.
func RoundRating(avgRating float64) float64 {
	return math.RoundToEven(avgRating*100) / 100
}

// FormScore rescales a 0-10 rating to 0-100, ties to even. Ratings above 10 are not clamped.
func FormScore(avgRating float64) int {
	return int(math.RoundToEven(avgRating * 10))
}
