package roster

import "fmt"

// Source identifies a match-data provider whose numeric ids we track.
type Source string

const (
	SourceSofaScore   Source = "sofascore"
	SourceAPIFootball Source = "apifootball"
)

// Position is informational only; nothing in aggregation depends on it.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
)

// TrackedPlayer is one roster entry. Loaded once at startup and never mutated.
type TrackedPlayer struct {
	Name     string
	Club     string
	Position Position
	IDs      map[Source]int64
}

// ProviderID returns the player's id for source, or false when the roster has none.
func (p TrackedPlayer) ProviderID(source Source) (int64, bool) {
	id, ok := p.IDs[source]
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func (p TrackedPlayer) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("tracked player name is required")
	}
	if len(p.IDs) == 0 {
		return fmt.Errorf("tracked player %q needs at least one provider id", p.Name)
	}
	for source, id := range p.IDs {
		if id <= 0 {
			return fmt.Errorf("tracked player %q has invalid %s id %d", p.Name, source, id)
		}
	}
	return nil
}
