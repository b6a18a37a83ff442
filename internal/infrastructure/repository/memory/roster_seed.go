package memory

import "github.com/riskibarqy/canmnt-live/internal/domain/roster"

func ids(sofascore, apifootball int64) map[roster.Source]int64 {
	out := make(map[roster.Source]int64, 2)
	if sofascore > 0 {
		out[roster.SourceSofaScore] = sofascore
	}
	if apifootball > 0 {
		out[roster.SourceAPIFootball] = apifootball
	}
	return out
}

// SeedRoster is the built-in Canadian men's national team tracking list.
func SeedRoster() []roster.TrackedPlayer {
	return []roster.TrackedPlayer{
		{Name: "Alphonso Davies", Club: "Bayern Munich", Position: roster.PositionDefender, IDs: ids(829035, 162757)},
		{Name: "Jonathan David", Club: "LOSC Lille", Position: roster.PositionForward, IDs: ids(935564, 163474)},
		{Name: "Tajon Buchanan", Club: "Inter Milan", Position: roster.PositionMidfielder, IDs: ids(896768, 149033)},
		{Name: "Stephen Eustáquio", Club: "FC Porto", Position: roster.PositionMidfielder, IDs: ids(356740, 35697)},
		{Name: "Cyle Larin", Club: "Real Valladolid", Position: roster.PositionForward, IDs: ids(174659, 37029)},
		{Name: "Alistair Johnston", Club: "Celtic", Position: roster.PositionDefender, IDs: ids(922858, 279068)},
		{Name: "Ismaël Koné", Club: "Watford", Position: roster.PositionMidfielder, IDs: ids(1273270, 306721)},
		{Name: "Maxime Crépeau", Club: "Portland Timbers", Position: roster.PositionGoalkeeper, IDs: ids(104669, 0)},
		{Name: "Kamal Miller", Club: "CF Montréal", Position: roster.PositionDefender, IDs: ids(848436, 164025)},
		{Name: "Richie Laryea", Club: "Toronto FC", Position: roster.PositionDefender, IDs: ids(297229, 67126)},
		{Name: "Jonathan Osorio", Club: "Toronto FC", Position: roster.PositionMidfielder, IDs: ids(0, 2928)},
	}
}
