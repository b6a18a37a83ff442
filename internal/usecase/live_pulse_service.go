package usecase

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/riskibarqy/canmnt-live/internal/domain/matchevent"
	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/platform/metrics"
	"github.com/sourcegraph/conc"
)

type LivePulseConfig struct {
	// Source picks the events pipeline: roster.SourceSofaScore or roster.SourceAPIFootball.
	Source roster.Source
	// MaxEvents caps the returned list. Zero means the source default (8 or 10).
	MaxEvents int
	// MatchesPerPlayer bounds how many of a player's latest matches are inspected.
	MatchesPerPlayer int
	// MatchWindow drops per-player matches that started before now-MatchWindow.
	MatchWindow time.Duration
	// FixtureWindow is the trailing window for the fixture-listing query.
	FixtureWindow time.Duration
	Workers       int
}

func DefaultLivePulseConfig() LivePulseConfig {
	return LivePulseConfig{
		Source:           roster.SourceSofaScore,
		MatchesPerPlayer: 3,
		MatchWindow:      48 * time.Hour,
		FixtureWindow:    24 * time.Hour,
		Workers:          1,
	}
}

const (
	defaultMaxEventsSofaScore   = 8
	defaultMaxEventsAPIFootball = 10
)

// LivePulseService extracts recent canonical events for the tracked roster.
type LivePulseService struct {
	roster        roster.Repository
	playerMatches PlayerMatchProvider
	fixtures      FixtureProvider
	cfg           LivePulseConfig
	orchestrator  fetchOrchestrator
	logger        *logging.Logger
	metrics       *metrics.Recorder
	now           func() time.Time
}

func NewLivePulseService(
	rosterRepo roster.Repository,
	playerMatches PlayerMatchProvider,
	fixtures FixtureProvider,
	cfg LivePulseConfig,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *LivePulseService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultLivePulseConfig()
	if cfg.Source == "" {
		cfg.Source = defaults.Source
	}
	if cfg.MatchesPerPlayer <= 0 {
		cfg.MatchesPerPlayer = defaults.MatchesPerPlayer
	}
	if cfg.MatchWindow <= 0 {
		cfg.MatchWindow = defaults.MatchWindow
	}
	if cfg.FixtureWindow <= 0 {
		cfg.FixtureWindow = defaults.FixtureWindow
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = defaultMaxEventsSofaScore
		if cfg.Source == roster.SourceAPIFootball {
			cfg.MaxEvents = defaultMaxEventsAPIFootball
		}
	}
	logger = logger.Named("usecase.livepulse")

	return &LivePulseService{
		roster:        rosterRepo,
		playerMatches: playerMatches,
		fixtures:      fixtures,
		cfg:           cfg,
		orchestrator:  fetchOrchestrator{workers: cfg.Workers, logger: logger, metrics: recorder},
		logger:        logger,
		metrics:       recorder,
		now:           time.Now,
	}
}

// RecentEvents returns at most MaxEvents events, most recent first. Upstream failures
// shrink the result; they are never returned to the caller.
func (s *LivePulseService) RecentEvents(ctx context.Context) []matchevent.PlayerEvent {
	ctx, span := startUsecaseSpan(ctx, "usecase.LivePulseService.RecentEvents")
	defer span.End()

	// Upstream calls carry their own timeouts; a caller hanging up does not abort the run.
	ctx = context.WithoutCancel(ctx)

	players, err := s.roster.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "list roster failed", "error", err)
		return []matchevent.PlayerEvent{}
	}

	var drafts []matchevent.Draft
	switch s.cfg.Source {
	case roster.SourceAPIFootball:
		drafts = s.fixtureDrafts(ctx, players)
	default:
		drafts = s.playerMatchDrafts(ctx, players)
	}

	events := s.buildEvents(drafts)
	s.logger.InfoContext(ctx, "live pulse computed",
		"source", string(s.cfg.Source),
		"candidates", len(drafts),
		"returned", len(events),
	)
	return events
}

func (s *LivePulseService) playerMatchDrafts(ctx context.Context, players []roster.TrackedPlayer) []matchevent.Draft {
	if s.playerMatches == nil {
		s.logger.WarnContext(ctx, "player match provider not configured")
		return nil
	}

	now := s.now().UTC()
	cutoff := now.Add(-s.cfg.MatchWindow)

	results := fanOut(ctx, s.orchestrator, "player", players, playerLabel,
		func(ctx context.Context, p roster.TrackedPlayer) ([]matchevent.Draft, error) {
			playerID, ok := p.ProviderID(roster.SourceSofaScore)
			if !ok {
				s.metrics.Skipped("player", "no_provider_id")
				return nil, nil
			}

			matches, err := s.playerMatches.FetchPlayerRecentMatches(ctx, playerID)
			if err != nil {
				return nil, err
			}
			if len(matches) > s.cfg.MatchesPerPlayer {
				matches = matches[:s.cfg.MatchesPerPlayer]
			}

			var out []matchevent.Draft
			for _, m := range matches {
				if m.ID <= 0 {
					continue
				}
				if m.StartAt.IsZero() || m.StartAt.Before(cutoff) {
					s.metrics.Skipped("match", "outside_window")
					continue
				}
				if m.Status != MatchStatusFinished {
					s.metrics.Skipped("match", "not_finished")
					continue
				}

				incidents, err := s.playerMatches.FetchMatchIncidents(ctx, m.ID)
				if err != nil {
					s.logger.WarnContext(ctx, "fetch match incidents failed, skipping match",
						"player", p.Name, "match_id", m.ID, "error", err)
					s.metrics.Skipped("match", "fetch_failed")
					continue
				}
				if len(incidents) == 0 {
					s.metrics.Skipped("match", "no_incidents")
					continue
				}

				for _, inc := range incidents {
					kind, label, ok := attributeIncident(playerID, inc)
					if !ok {
						continue
					}
					out = append(out, matchevent.Draft{
						Player:     p.Name,
						Kind:       kind,
						Label:      label,
						Match:      matchContext(m),
						Minute:     inc.Minute,
						Team:       incidentTeam(m, inc),
						OccurredAt: m.StartAt,
					})
				}
			}
			return out, nil
		},
	)

	return flatten(results)
}

func (s *LivePulseService) fixtureDrafts(ctx context.Context, players []roster.TrackedPlayer) []matchevent.Draft {
	if s.fixtures == nil {
		s.logger.WarnContext(ctx, "fixture provider not configured")
		return nil
	}

	byProviderID := make(map[int64]roster.TrackedPlayer, len(players))
	for _, p := range players {
		if id, ok := p.ProviderID(roster.SourceAPIFootball); ok {
			byProviderID[id] = p
		}
	}
	if len(byProviderID) == 0 {
		return nil
	}

	now := s.now().UTC()
	var live, recent []ExternalMatch
	var wg conc.WaitGroup
	wg.Go(func() {
		items, err := s.fixtures.FetchLiveFixtures(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch live fixtures failed", "error", err)
			return
		}
		live = items
	})
	wg.Go(func() {
		items, err := s.fixtures.FetchFixturesBetween(ctx, now.Add(-s.cfg.FixtureWindow), now)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch recent fixtures failed", "error", err)
			return
		}
		recent = items
	})
	if rec := wg.WaitAndRecover(); rec != nil {
		s.logger.ErrorContext(ctx, "fixture listing panicked", "panic", rec.Value)
	}

	fixtures := dedupeMatches(live, recent)

	results := fanOut(ctx, s.orchestrator, "match", fixtures, matchLabel,
		func(ctx context.Context, m ExternalMatch) ([]matchevent.Draft, error) {
			incidents, err := s.fixtures.FetchFixtureIncidents(ctx, m.ID)
			if err != nil {
				return nil, err
			}

			var out []matchevent.Draft
			for _, inc := range incidents {
				for _, candidate := range incidentCandidates(inc) {
					p, tracked := byProviderID[candidate]
					if !tracked {
						continue
					}
					kind, label, ok := attributeIncident(candidate, inc)
					if !ok {
						continue
					}
					occurredAt := m.StartAt
					if !occurredAt.IsZero() {
						occurredAt = occurredAt.Add(time.Duration(inc.Minute) * time.Minute)
					}
					out = append(out, matchevent.Draft{
						Player:     p.Name,
						Kind:       kind,
						Label:      label,
						Match:      matchContext(m),
						Minute:     inc.Minute,
						Team:       incidentTeam(m, inc),
						OccurredAt: occurredAt,
					})
				}
			}
			return out, nil
		},
	)

	return flatten(results)
}

// buildEvents assigns sequence ids in collection order, then orders by instant (most
// recent first, later sequence first on ties) and truncates to the cap.
func (s *LivePulseService) buildEvents(drafts []matchevent.Draft) []matchevent.PlayerEvent {
	now := s.now().UTC()
	events := make([]matchevent.PlayerEvent, 0, len(drafts))
	seq := 1
	for _, d := range drafts {
		event, ok := d.Build(seq, now)
		if !ok {
			continue
		}
		events = append(events, event)
		s.metrics.EventEmitted(string(event.Type))
		seq++
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].OccurredAt.Equal(events[j].OccurredAt) {
			return events[i].OccurredAt.After(events[j].OccurredAt)
		}
		return events[i].ID > events[j].ID
	})

	if len(events) > s.cfg.MaxEvents {
		events = events[:s.cfg.MaxEvents]
	}
	return events
}

// attributeIncident decides whether inc belongs to the player with trackedID and how it
// classifies. Substitutions count only for the player coming on. A tracked player named
// in the assist slot of someone else's incident is credited with an assist.
func attributeIncident(trackedID int64, inc ExternalIncident) (matchevent.Kind, string, bool) {
	if trackedID <= 0 {
		return "", "", false
	}

	kind, label := matchevent.Classify(inc.Type, inc.Detail)
	if kind == matchevent.KindSubstitution {
		return kind, label, inc.PlayerInID == trackedID
	}
	if inc.PlayerID == trackedID {
		return kind, label, kind.Canonical()
	}
	if inc.AssistPlayerID == trackedID {
		kind, label = matchevent.Assist()
		return kind, label, true
	}
	return "", "", false
}

// incidentCandidates lists the distinct player ids an incident could be attributed to.
func incidentCandidates(inc ExternalIncident) []int64 {
	out := make([]int64, 0, 3)
	for _, id := range []int64{inc.PlayerID, inc.AssistPlayerID, inc.PlayerInID} {
		if id <= 0 {
			continue
		}
		duplicate := false
		for _, seen := range out {
			if seen == id {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, id)
		}
	}
	return out
}

// dedupeMatches merges match lists by id, keeping the first occurrence.
func dedupeMatches(lists ...[]ExternalMatch) []ExternalMatch {
	seen := make(map[int64]struct{})
	var out []ExternalMatch
	for _, list := range lists {
		for _, m := range list {
			if m.ID <= 0 {
				continue
			}
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func matchContext(m ExternalMatch) matchevent.Match {
	return matchevent.Match{
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Competition: m.Competition,
	}
}

func incidentTeam(m ExternalMatch, inc ExternalIncident) string {
	if inc.TeamName != "" {
		return inc.TeamName
	}
	if inc.IsHome == nil {
		return ""
	}
	if *inc.IsHome {
		return m.HomeTeam
	}
	return m.AwayTeam
}

func flatten[T any](results []unitResult[[]T]) []T {
	var out []T
	for _, r := range results {
		if r.ok {
			out = append(out, r.value...)
		}
	}
	return out
}

func playerLabel(p roster.TrackedPlayer) string { return p.Name }

func matchLabel(m ExternalMatch) string { return strconv.FormatInt(m.ID, 10) }
