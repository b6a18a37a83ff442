package memory

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
)

type rosterFile struct {
	Players []rosterFileEntry `koanf:"players"`
}

type rosterFileEntry struct {
	Name     string           `koanf:"name"`
	Club     string           `koanf:"club"`
	Position string           `koanf:"position"`
	IDs      map[string]int64 `koanf:"ids"`
}

// LoadRosterFile reads a YAML roster:
//
//	players:
//	  - name: Alphonso Davies
//	    club: Bayern Munich
//	    position: Defender
//	    ids: {sofascore: 829035, apifootball: 162757}
func LoadRosterFile(path string) ([]roster.TrackedPlayer, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load roster file %s: %w", path, err)
	}

	var parsed rosterFile
	if err := k.UnmarshalWithConf("", &parsed, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", path, err)
	}
	if len(parsed.Players) == 0 {
		return nil, fmt.Errorf("roster file %s lists no players", path)
	}

	out := make([]roster.TrackedPlayer, 0, len(parsed.Players))
	seen := make(map[string]struct{}, len(parsed.Players))
	for i, entry := range parsed.Players {
		p := roster.TrackedPlayer{
			Name:     strings.TrimSpace(entry.Name),
			Club:     strings.TrimSpace(entry.Club),
			Position: roster.Position(strings.TrimSpace(entry.Position)),
			IDs:      make(map[roster.Source]int64, len(entry.IDs)),
		}
		for source, id := range entry.IDs {
			src := roster.Source(strings.ToLower(strings.TrimSpace(source)))
			if src != roster.SourceSofaScore && src != roster.SourceAPIFootball {
				return nil, fmt.Errorf("roster entry %d (%s): unknown source %q", i, p.Name, source)
			}
			p.IDs[src] = id
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("roster entry %d: %w", i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("roster entry %d: duplicate player %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
