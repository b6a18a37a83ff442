package seasonstat

import "testing"

func TestAccumulator_ExcludesInternationalCompetitions(t *testing.T) {
	t.Parallel()

	var acc Accumulator
	acc.ObserveTeam("LOSC Lille")
	acc.Add(CompetitionLine{Competition: "Ligue 1", Appearances: 5, Minutes: 420, Goals: 3, Assists: 1, Rating: 7.0})
	acc.Add(CompetitionLine{Competition: "UEFA Champions League", Appearances: 3, Minutes: 250, Goals: 1, Assists: 0, Rating: 6.0})
	if acc.Add(CompetitionLine{Competition: "CONCACAF Gold Cup", Appearances: 10, Minutes: 900, Goals: 5, Rating: 8.0}) {
		t.Fatalf("expected international competition to be ignored")
	}

	stat, ok := acc.Result("Jonathan David", "2025/26")
	if !ok {
		t.Fatalf("expected a season line")
	}
	if stat.Matches != 8 {
		t.Fatalf("expected matches=8, got=%d", stat.Matches)
	}
	if stat.Goals != 4 {
		t.Fatalf("expected goals=4, got=%d", stat.Goals)
	}
	if stat.Minutes != 670 || stat.Assists != 1 {
		t.Fatalf("unexpected minutes/assists: %+v", stat)
	}
	if stat.Rating != 6.5 {
		t.Fatalf("expected rating=6.5, got=%v", stat.Rating)
	}
	if stat.FormRating != 65 {
		t.Fatalf("expected form_rating=65, got=%d", stat.FormRating)
	}
	if stat.Team != "LOSC Lille" || stat.League != AllCompetitionsLabel || stat.Season != "2025/26" {
		t.Fatalf("unexpected labels: %+v", stat)
	}
}

func TestAccumulator_NoAppearancesYieldsNothing(t *testing.T) {
	t.Parallel()

	var acc Accumulator
	acc.Add(CompetitionLine{Competition: "MLS", Appearances: 0, Rating: 7.2})
	acc.Add(CompetitionLine{Competition: "FIFA World Cup", Appearances: 3})

	if _, ok := acc.Result("Richie Laryea", "2025/26"); ok {
		t.Fatalf("expected player without qualifying appearances to be omitted")
	}
}

func TestAccumulator_UnratedAppearancesGiveZeroRating(t *testing.T) {
	t.Parallel()

	var acc Accumulator
	acc.Add(CompetitionLine{Competition: "Eredivisie", Appearances: 2, Minutes: 30})

	stat, ok := acc.Result("Ismaël Koné", "2025/26")
	if !ok {
		t.Fatalf("expected a season line")
	}
	if stat.Rating != 0 || stat.FormRating != 0 {
		t.Fatalf("expected zero rating and form, got %+v", stat)
	}
	if stat.Team != "Unknown" {
		t.Fatalf("expected Unknown team, got %q", stat.Team)
	}
}

func TestAccumulator_FirstTeamWins(t *testing.T) {
	t.Parallel()

	var acc Accumulator
	acc.ObserveTeam("")
	acc.ObserveTeam("Celtic")
	acc.ObserveTeam("Canada")
	acc.Add(CompetitionLine{Competition: "Premiership", Appearances: 1})

	stat, _ := acc.Result("Alistair Johnston", "2025/26")
	if stat.Team != "Celtic" {
		t.Fatalf("expected first team to win, got %q", stat.Team)
	}
}

func TestFormScore_NotClamped(t *testing.T) {
	t.Parallel()

	if got := FormScore(10.46); got != 105 {
		t.Fatalf("expected 105, got %d", got)
	}
	if got := FormScore(7.26); got != 73 {
		t.Fatalf("expected 73, got %d", got)
	}
}

func TestCountsTowardSeason_LiteralMatch(t *testing.T) {
	t.Parallel()

	if CountsTowardSeason("FIFA World Cup") {
		t.Fatalf("expected FIFA World Cup to be excluded")
	}
	if !CountsTowardSeason("fifa world cup") {
		t.Fatalf("expected denylist to be case-sensitive")
	}
	if !CountsTowardSeason("Bundesliga") {
		t.Fatalf("expected club competition to count")
	}
}

func TestAccumulator_HalfwayRatingsRoundToEven(t *testing.T) {
	t.Parallel()

	var acc Accumulator
	acc.Add(CompetitionLine{Competition: "Ligue 1", Appearances: 4, Rating: 7.2})
	acc.Add(CompetitionLine{Competition: "Coupe de France", Appearances: 1, Rating: 7.3})

	stat, ok := acc.Result("Jonathan David", "2025/26")
	if !ok {
		t.Fatalf("expected a season line")
	}
	if stat.Rating != 7.25 {
		t.Fatalf("expected rating=7.25, got=%v", stat.Rating)
	}
	if stat.FormRating != 72 {
		t.Fatalf("expected form_rating=72, got=%d", stat.FormRating)
	}
}

func TestRoundingTiesToEven(t *testing.T) {
	t.Parallel()

	formCases := map[float64]int{
		7.25:  72,
		6.85:  68,
		7.125: 71,
		6.5:   65,
	}
	for in, want := range formCases {
		if got := FormScore(in); got != want {
			t.Fatalf("FormScore(%v)=%d want %d", in, got, want)
		}
	}

	ratingCases := map[float64]float64{
		7.125: 7.12,
		7.375: 7.38,
		6.5:   6.5,
	}
	for in, want := range ratingCases {
		if got := RoundRating(in); got != want {
			t.Fatalf("RoundRating(%v)=%v want %v", in, got, want)
		}
	}
}
