package sofascore

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/canmnt-live/internal/domain/matchevent"
	"github.com/riskibarqy/canmnt-live/internal/platform/httpfetch"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/platform/metrics"
	"github.com/riskibarqy/canmnt-live/internal/platform/resilience"
	"github.com/riskibarqy/canmnt-live/internal/usecase"
	"golang.org/x/sync/singleflight"
)

const (
	providerName        = "sofascore"
	defaultBaseURL      = "https://api.sofascore.com/api/v1"
	defaultTimeout      = 10 * time.Second
	defaultPace         = 500 * time.Millisecond
	defaultRetryBackoff = time.Second
	unknownLeague       = "Unknown League"
)

var errSofaScoreTransient = errors.New("sofascore transient failure")

type ClientConfig struct {
	Fetcher        httpfetch.Fetcher
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Pace           time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads player match lists, match incidents and season statistics from
// SofaScore. Every call shares one pacer so all callers respect the same spacing.
type Client struct {
	fetcher      httpfetch.Fetcher
	baseURL      string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	pacer        *resilience.Pacer
	breaker      *resilience.Breaker
	flight       singleflight.Group
	logger       *logging.Logger
	metrics      *metrics.Recorder
}

var (
	_ usecase.PlayerMatchProvider = (*Client)(nil)
	_ usecase.SeasonStatsProvider = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = httpfetch.NewNetHTTP(timeout)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pace := cfg.Pace
	if pace < 0 {
		pace = 0
	} else if pace == 0 {
		pace = defaultPace
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		fetcher:      fetcher,
		baseURL:      baseURL,
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		pacer:        resilience.NewPacer(pace),
		breaker:      resilience.NewBreaker(providerName, cfg.CircuitBreaker, isSofaScoreCircuitFailure),
		logger:       logger.Named(providerName),
		metrics:      cfg.Metrics,
	}
}

// FetchPlayerRecentMatches returns the player's last matches, most recent first.
func (c *Client) FetchPlayerRecentMatches(ctx context.Context, playerID int64) ([]usecase.ExternalMatch, error) {
	if playerID <= 0 {
		return nil, errors.Wrapf(usecase.ErrInvalidInput, "player id must be greater than zero")
	}

	var payload lastEventsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/player/%d/events/last/0", playerID), &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch last events player_id=%d", playerID)
	}

	out := make([]usecase.ExternalMatch, 0, len(payload.Events))
	for _, item := range payload.Events {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapEvent(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (c *Client) FetchMatchIncidents(ctx context.Context, matchID int64) ([]usecase.ExternalIncident, error) {
	if matchID <= 0 {
		return nil, errors.Wrapf(usecase.ErrInvalidInput, "match id must be greater than zero")
	}

	var payload incidentsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/event/%d/incidents", matchID), &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch incidents match_id=%d", matchID)
	}

	out := make([]usecase.ExternalIncident, 0, len(payload.Incidents))
	for _, item := range payload.Incidents {
		out = append(out, mapIncident(item))
	}
	return out, nil
}

func (c *Client) FetchPlayerTournamentSeasons(ctx context.Context, playerID int64) ([]usecase.ExternalTournamentSeason, error) {
	if playerID <= 0 {
		return nil, errors.Wrapf(usecase.ErrInvalidInput, "player id must be greater than zero")
	}

	var payload seasonsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/player/%d/statistics/seasons", playerID), &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch statistics seasons player_id=%d", playerID)
	}

	out := make([]usecase.ExternalTournamentSeason, 0, len(payload.UniqueTournamentSeasons))
	for _, item := range payload.UniqueTournamentSeasons {
		if item.UniqueTournament == nil {
			continue
		}
		row := usecase.ExternalTournamentSeason{
			TournamentID:   item.UniqueTournament.ID,
			TournamentName: strings.TrimSpace(item.UniqueTournament.Name),
			Seasons:        make([]usecase.ExternalSeason, 0, len(item.Seasons)),
		}
		for _, season := range item.Seasons {
			teamName := ""
			if season.Team != nil {
				teamName = strings.TrimSpace(season.Team.Name)
			}
			row.Seasons = append(row.Seasons, usecase.ExternalSeason{
				ID:       season.ID,
				Name:     season.Name,
				TeamName: teamName,
			})
		}
		out = append(out, row)
	}
	return out, nil
}

func (c *Client) FetchCompetitionStatistics(ctx context.Context, playerID, tournamentID, seasonID int64) (usecase.ExternalCompetitionStatistics, error) {
	if playerID <= 0 || tournamentID <= 0 || seasonID <= 0 {
		return usecase.ExternalCompetitionStatistics{}, errors.Wrapf(usecase.ErrInvalidInput,
			"player, tournament and season ids must be greater than zero")
	}

	path := fmt.Sprintf("/player/%d/unique-tournament/%d/season/%d/statistics/overall", playerID, tournamentID, seasonID)
	var payload statisticsEnvelope
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return usecase.ExternalCompetitionStatistics{}, errors.Wrapf(err,
			"fetch statistics player_id=%d tournament_id=%d season_id=%d", playerID, tournamentID, seasonID)
	}

	stats := payload.Statistics
	return usecase.ExternalCompetitionStatistics{
		Appearances:   stats.Appearances,
		MinutesPlayed: stats.MinutesPlayed,
		Goals:         stats.Goals,
		Assists:       stats.Assists,
		Rating:        stats.Rating,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return c.breaker.Do(func() ([]byte, error) {
			return c.executeRequest(ctx, fullURL)
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.metrics.UpstreamRequest(providerName, "circuit_open")
			c.logger.WarnContext(ctx, "sofascore circuit breaker rejected request", "state", c.breaker.State())
			return errors.Wrapf(usecase.ErrDependencyUnavailable, "sofascore is temporarily unavailable")
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return errors.Newf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		c.metrics.UpstreamRequest(providerName, "decode_error")
		return errors.Wrap(err, "decode sofascore payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.fetcher.Get(callCtx, httpfetch.Request{URL: fullURL})
		cancel()

		switch {
		case err != nil:
			c.metrics.UpstreamRequest(providerName, "transport_error")
			lastErr = errors.Mark(errors.Wrap(err, "send request"), errSofaScoreTransient)
		case resp.OK():
			c.metrics.UpstreamRequest(providerName, "ok")
			return resp.Body, nil
		default:
			c.metrics.UpstreamRequest(providerName, statusOutcome(resp.Status))
			if !isRetryableStatus(resp.Status) {
				return nil, errors.Newf("provider status=%d body=%s", resp.Status, abbreviateBody(resp.Body))
			}
			lastErr = errors.Mark(
				errors.Newf("provider status=%d body=%s", resp.Status, abbreviateBody(resp.Body)),
				errSofaScoreTransient,
			)
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = errors.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "sofascore request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapEvent(item eventItem) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		ID:          item.ID,
		StartAt:     matchevent.UnixInstant(item.StartTimestamp),
		HomeScore:   item.HomeScore.value(),
		AwayScore:   item.AwayScore.value(),
		Competition: item.Tournament.name(),
	}
	if item.HomeTeam != nil {
		out.HomeTeam = item.HomeTeam.Name
	}
	if item.AwayTeam != nil {
		out.AwayTeam = item.AwayTeam.Name
	}
	if out.Competition == "" {
		out.Competition = unknownLeague
	}
	if item.Status != nil {
		out.Status = usecase.MatchStatus(strings.ToLower(strings.TrimSpace(item.Status.Type)))
	}
	return out
}

// mapIncident keeps the incident class as detail ("yellow", "regular", ...), falling
// back to the type so camel-case types like "yellowCard" still classify.
func mapIncident(item incidentItem) usecase.ExternalIncident {
	detail := strings.TrimSpace(item.IncidentClass)
	if detail == "" {
		detail = item.IncidentType
	}

	playerID := item.Player.id()
	if playerID == 0 {
		playerID = item.PlayerOut.id()
	}

	return usecase.ExternalIncident{
		PlayerID:       playerID,
		AssistPlayerID: item.Assist1.id(),
		PlayerInID:     item.PlayerIn.id(),
		Type:           item.IncidentType,
		Detail:         detail,
		Minute:         item.Time,
		IsHome:         item.IsHome,
	}
}

func isSofaScoreCircuitFailure(err error) bool {
	return errors.Is(err, errSofaScoreTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func statusOutcome(code int) string {
	return fmt.Sprintf("status_%dxx", code/100)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
