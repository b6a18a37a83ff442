package seasonstat

// AllCompetitionsLabel is the league label on an aggregated season line.
const AllCompetitionsLabel = "All Competitions"

// SeasonStat is one player's current-season total across qualifying club competitions.
type SeasonStat struct {
	Player     string  `json:"player"`
	Team       string  `json:"team"`
	League     string  `json:"league"`
	Season     string  `json:"season"`
	Matches    int     `json:"matches"`
	Minutes    int     `json:"minutes"`
	Goals      int     `json:"goals"`
	Assists    int     `json:"assists"`
	Rating     float64 `json:"rating"`
	FormRating int     `json:"form_rating"`
}

// CompetitionLine is a provider's per-competition statistics block for one season.
type CompetitionLine struct {
	Competition string
	Appearances int
	Minutes     int
	Goals       int
	Assists     int
	Rating      float64
}
