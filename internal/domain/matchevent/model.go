package matchevent

import (
	"fmt"
	"time"
)

// Kind is the canonical event category shared by every provider.
type Kind string

const (
	KindGoal         Kind = "goal"
	KindAssist       Kind = "assist"
	KindCard         Kind = "card"
	KindSubstitution Kind = "substitution"

	// KindOther is a classifier outcome only. It never reaches a PlayerEvent.
	KindOther Kind = "other"
)

// Canonical reports whether k may appear on a PlayerEvent.
func (k Kind) Canonical() bool {
	switch k {
	case KindGoal, KindAssist, KindCard, KindSubstitution:
		return true
	default:
		return false
	}
}

// PlayerEvent is a normalized match happening attributed to a tracked player.
type PlayerEvent struct {
	ID        int    `json:"id"`
	Player    string `json:"player"`
	Event     string `json:"event"`
	Type      Kind   `json:"type"`
	Context   string `json:"context"`
	Minute    string `json:"minute"`
	Timestamp string `json:"timestamp"`
	League    string `json:"league"`
	Team      string `json:"team,omitempty"`

	// OccurredAt orders events chronologically; the display Timestamp is not sortable.
	OccurredAt time.Time `json:"-"`
}

// Match is the context an event is reported in.
type Match struct {
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Competition string
}

// Label renders "{home} {homeScore}-{awayScore} {away}".
func (m Match) Label() string {
	return fmt.Sprintf("%s %d-%d %s", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam)
}

// Draft carries everything needed to build a PlayerEvent except its sequence id.
type Draft struct {
	Player     string
	Kind       Kind
	Label      string
	Match      Match
	Minute     int
	Team       string
	OccurredAt time.Time
}

// Build turns a draft into a PlayerEvent. Non-canonical kinds are refused.
func (d Draft) Build(id int, now time.Time) (PlayerEvent, bool) {
	if !d.Kind.Canonical() {
		return PlayerEvent{}, false
	}
	return PlayerEvent{
		ID:         id,
		Player:     d.Player,
		Event:      d.Label,
		Type:       d.Kind,
		Context:    d.Match.Label(),
		Minute:     FormatMinute(d.Minute),
		Timestamp:  FormatRelative(d.OccurredAt, now),
		League:     d.Match.Competition,
		Team:       d.Team,
		OccurredAt: d.OccurredAt,
	}, true
}

func FormatMinute(minute int) string {
	return fmt.Sprintf("%d'", minute)
}
