package memory

import (
	"time"

	"github.com/riskibarqy/canmnt-live/internal/domain/matchevent"
)

type demoEvent struct {
	player  string
	kind    matchevent.Kind
	label   string
	context string
	minute  string
	age     time.Duration
	league  string
	team    string
}

var demoEvents = []demoEvent{
	{"Alphonso Davies", matchevent.KindGoal, "Goal", "Bayern Munich 3-1 Borussia Dortmund", "67'", 2 * time.Minute, "Bundesliga", "Bayern Munich"},
	{"Jonathan David", matchevent.KindAssist, "Assist", "Lille 2-0 Lyon", "54'", 18 * time.Minute, "Ligue 1", "LOSC Lille"},
	{"Tajon Buchanan", matchevent.KindGoal, "Goal", "Inter Milan 1-0 Napoli", "23'", time.Hour, "Serie A", "Inter Milan"},
	{"Stephen Eustáquio", matchevent.KindCard, "Yellow Card", "Porto 1-1 Benfica", "78'", 3 * time.Hour, "Primeira Liga", "FC Porto"},
	{"Cyle Larin", matchevent.KindGoal, "Goal", "Real Valladolid 2-1 Real Betis", "89'", 5 * time.Hour, "La Liga", "Real Valladolid"},
	{"Alphonso Davies", matchevent.KindAssist, "Assist", "Bayern Munich 2-0 RB Leipzig", "34'", 8 * time.Hour, "Bundesliga", "Bayern Munich"},
	{"Kamal Miller", matchevent.KindCard, "Yellow Card", "CF Montréal 1-1 Atlanta United", "82'", 12 * time.Hour, "MLS", "CF Montréal"},
	{"Jonathan David", matchevent.KindGoal, "Goal", "Lille 3-2 Marseille", "90+2'", 24 * time.Hour, "Ligue 1", "LOSC Lille"},
}

// DemoEvents is the placeholder feed shown when the live pulse is empty and the demo
// fallback is switched on. Ages are relative to now so the labels stay plausible.
func DemoEvents(now time.Time) []matchevent.PlayerEvent {
	out := make([]matchevent.PlayerEvent, 0, len(demoEvents))
	for i, d := range demoEvents {
		at := now.Add(-d.age)
		out = append(out, matchevent.PlayerEvent{
			ID:         i + 1,
			Player:     d.player,
			Event:      d.label,
			Type:       d.kind,
			Context:    d.context,
			Minute:     d.minute,
			Timestamp:  matchevent.FormatRelative(at, now),
			League:     d.league,
			Team:       d.team,
			OccurredAt: at,
		})
	}
	return out
}
