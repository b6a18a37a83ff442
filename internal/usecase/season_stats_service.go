package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
	"github.com/riskibarqy/canmnt-live/internal/domain/seasonstat"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/platform/metrics"
)

type SeasonStatsConfig struct {
	// Label is the season string put on every SeasonStat, e.g. "2025/26".
	Label string
	// Markers selects season entries whose name contains any of them.
	Markers []string
	Workers int
}

func DefaultSeasonStatsConfig() SeasonStatsConfig {
	return SeasonStatsConfig{
		Label:   "2025/26",
		Markers: []string{"25/26", "2025"},
		Workers: 1,
	}
}

// SeasonStatsService aggregates club-competition totals for the tracked roster.
type SeasonStatsService struct {
	roster       roster.Repository
	provider     SeasonStatsProvider
	cfg          SeasonStatsConfig
	orchestrator fetchOrchestrator
	logger       *logging.Logger
	metrics      *metrics.Recorder
}

func NewSeasonStatsService(
	rosterRepo roster.Repository,
	provider SeasonStatsProvider,
	cfg SeasonStatsConfig,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *SeasonStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultSeasonStatsConfig()
	if strings.TrimSpace(cfg.Label) == "" {
		cfg.Label = defaults.Label
	}
	markers := make([]string, 0, len(cfg.Markers))
	for _, m := range cfg.Markers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	if len(markers) == 0 {
		markers = defaults.Markers
	}
	cfg.Markers = markers
	logger = logger.Named("usecase.seasonstats")

	return &SeasonStatsService{
		roster:       rosterRepo,
		provider:     provider,
		cfg:          cfg,
		orchestrator: fetchOrchestrator{workers: cfg.Workers, logger: logger, metrics: recorder},
		logger:       logger,
		metrics:      recorder,
	}
}

func (s *SeasonStatsService) SeasonLabel() string {
	return s.cfg.Label
}

// PlayerSeasonStats returns season lines keyed by player name. An empty playerName means
// the whole roster; a name not on the roster yields an empty map. Players without a
// qualifying appearance are absent.
func (s *SeasonStatsService) PlayerSeasonStats(ctx context.Context, playerName string) map[string]seasonstat.SeasonStat {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonStatsService.PlayerSeasonStats")
	defer span.End()

	ctx = context.WithoutCancel(ctx)
	out := make(map[string]seasonstat.SeasonStat)

	players, err := s.playersFor(ctx, strings.TrimSpace(playerName))
	if err != nil {
		s.logger.WarnContext(ctx, "resolve roster failed", "player", playerName, "error", err)
		return out
	}
	if len(players) == 0 || s.provider == nil {
		return out
	}

	results := fanOut(ctx, s.orchestrator, "player", players, playerLabel,
		func(ctx context.Context, p roster.TrackedPlayer) (*seasonstat.SeasonStat, error) {
			return s.aggregatePlayer(ctx, p)
		},
	)

	for _, r := range results {
		if !r.ok || r.value == nil {
			continue
		}
		out[r.value.Player] = *r.value
	}

	s.metrics.SeasonPlayers(len(out))
	s.logger.InfoContext(ctx, "season stats computed",
		"season", s.cfg.Label,
		"requested", len(players),
		"returned", len(out),
	)
	return out
}

func (s *SeasonStatsService) playersFor(ctx context.Context, name string) ([]roster.TrackedPlayer, error) {
	if name == "" {
		return s.roster.List(ctx)
	}
	p, found, err := s.roster.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.InfoContext(ctx, "player not on roster", "player", name)
		return nil, nil
	}
	return []roster.TrackedPlayer{p}, nil
}

// aggregatePlayer returns nil with no error when the player has nothing to report.
func (s *SeasonStatsService) aggregatePlayer(ctx context.Context, p roster.TrackedPlayer) (*seasonstat.SeasonStat, error) {
	playerID, ok := p.ProviderID(roster.SourceSofaScore)
	if !ok {
		s.metrics.Skipped("player", "no_provider_id")
		return nil, nil
	}

	tournaments, err := s.provider.FetchPlayerTournamentSeasons(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var acc seasonstat.Accumulator
	for _, tournament := range tournaments {
		for _, season := range tournament.Seasons {
			if !s.matchesSeason(season.Name) {
				continue
			}
			acc.ObserveTeam(season.TeamName)

			if !seasonstat.CountsTowardSeason(tournament.TournamentName) {
				s.logger.DebugContext(ctx, "skipping international competition",
					"player", p.Name, "competition", tournament.TournamentName)
				s.metrics.Skipped("competition", "international")
				continue
			}

			stats, err := s.provider.FetchCompetitionStatistics(ctx, playerID, tournament.TournamentID, season.ID)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch competition statistics failed, skipping competition",
					"player", p.Name,
					"tournament_id", tournament.TournamentID,
					"season_id", season.ID,
					"error", err,
				)
				s.metrics.Skipped("competition", "fetch_failed")
				continue
			}

			acc.Add(seasonstat.CompetitionLine{
				Competition: tournament.TournamentName,
				Appearances: stats.Appearances,
				Minutes:     stats.MinutesPlayed,
				Goals:       stats.Goals,
				Assists:     stats.Assists,
				Rating:      stats.Rating,
			})
		}
	}

	stat, ok := acc.Result(p.Name, s.cfg.Label)
	if !ok {
		s.logger.InfoContext(ctx, "no qualifying season appearances", "player", p.Name, "season", s.cfg.Label)
		return nil, nil
	}
	return &stat, nil
}

func (s *SeasonStatsService) matchesSeason(name string) bool {
	for _, marker := range s.cfg.Markers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
