package seasonstat

// internationalCompetitions is matched literally; no case folding or pattern matching.
var internationalCompetitions = map[string]struct{}{
	"CONCACAF Gold Cup":          {},
	"FIFA World Cup":             {},
	"Copa America":               {},
	"UEFA European Championship": {},
	"Africa Cup of Nations":      {},
	"AFC Asian Cup":              {},
	"CONCACAF Nations League":    {},
	"UEFA Nations League":        {},
	"International Friendlies":   {},
	"World Cup Qualification":    {},
	"Olympic Games":              {},
}

// CountsTowardSeason reports whether a competition is a club competition.
func CountsTowardSeason(competition string) bool {
	_, international := internationalCompetitions[competition]
	return !international
}
