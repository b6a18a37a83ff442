package matchevent

import "strings"

// Classify maps a provider's free-text incident type and qualifier onto a canonical kind
// and display label. Matching is case-insensitive and order-sensitive: a goal whose
// detail mentions an assist is still a goal for the scorer.
func Classify(incidentType, qualifier string) (Kind, string) {
	typ := strings.ToLower(incidentType)
	detail := strings.ToLower(qualifier)

	switch {
	case strings.Contains(typ, "goal"):
		return KindGoal, "Goal"
	case strings.Contains(typ, "card"):
		switch {
		case strings.Contains(detail, "yellow"):
			return KindCard, "Yellow Card"
		case strings.Contains(detail, "red"):
			return KindCard, "Red Card"
		default:
			return KindCard, "Card"
		}
	case strings.Contains(typ, "subst"):
		return KindSubstitution, "Substitution"
	case strings.Contains(detail, "assist"):
		return KindAssist, "Assist"
	default:
		return KindOther, incidentType
	}
}

// Assist is the fixed classification for incidents credited through a secondary
// assist-provider field rather than through text.
func Assist() (Kind, string) {
	return KindAssist, "Assist"
}
