package apifootball

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
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
	providerName        = "apifootball"
	defaultHost         = "api-football-v1.p.rapidapi.com"
	defaultTimeout      = 10 * time.Second
	defaultPace         = 300 * time.Millisecond
	defaultRetryBackoff = time.Second
	dateLayout          = "2006-01-02"
)

var errAPIFootballTransient = errors.New("api-football transient failure")

type ClientConfig struct {
	Fetcher httpfetch.Fetcher
	// BaseURL defaults to https://{Host}.
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Pace           time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixtures and fixture events from API-Football through RapidAPI.
type Client struct {
	fetcher      httpfetch.Fetcher
	baseURL      string
	host         string
	apiKey       string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	pacer        *resilience.Pacer
	breaker      *resilience.Breaker
	flight       singleflight.Group
	logger       *logging.Logger
	metrics      *metrics.Recorder
}

var _ usecase.FixtureProvider = (*Client)(nil)

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

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://" + host
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
		host:         host,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		pacer:        resilience.NewPacer(pace),
		breaker:      resilience.NewBreaker(providerName, cfg.CircuitBreaker, isAPIFootballCircuitFailure),
		logger:       logger.Named(providerName),
		metrics:      cfg.Metrics,
	}
}

func (c *Client) FetchLiveFixtures(ctx context.Context) ([]usecase.ExternalMatch, error) {
	var payload envelope[fixtureItem]
	if err := c.doJSON(ctx, "/v3/fixtures", url.Values{"live": {"all"}}, &payload); err != nil {
		return nil, errors.Wrap(err, "fetch live fixtures")
	}
	return mapFixtures(payload.Response), nil
}

// FetchFixturesBetween queries by calendar date, so the result covers whole UTC days
// from from's date through to's date.
func (c *Client) FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]usecase.ExternalMatch, error) {
	if to.Before(from) {
		return nil, errors.Wrapf(usecase.ErrInvalidInput, "fixture window end precedes start")
	}

	query := url.Values{
		"from": {from.UTC().Format(dateLayout)},
		"to":   {to.UTC().Format(dateLayout)},
	}
	var payload envelope[fixtureItem]
	if err := c.doJSON(ctx, "/v3/fixtures", query, &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch fixtures from=%s to=%s", query.Get("from"), query.Get("to"))
	}
	return mapFixtures(payload.Response), nil
}

func (c *Client) FetchFixtureIncidents(ctx context.Context, fixtureID int64) ([]usecase.ExternalIncident, error) {
	if fixtureID <= 0 {
		return nil, errors.Wrapf(usecase.ErrInvalidInput, "fixture id must be greater than zero")
	}

	query := url.Values{"fixture": {strconv.FormatInt(fixtureID, 10)}}
	var payload envelope[eventItem]
	if err := c.doJSON(ctx, "/v3/fixtures/events", query, &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch fixture events fixture_id=%d", fixtureID)
	}

	out := make([]usecase.ExternalIncident, 0, len(payload.Response))
	for _, item := range payload.Response {
		out = append(out, mapEvent(item))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	req := httpfetch.Request{
		URL:   c.baseURL + path,
		Query: query,
		Header: map[string]string{
			"X-RapidAPI-Key":  c.apiKey,
			"X-RapidAPI-Host": c.host,
		},
	}
	key := req.FullURL()

	out, err, _ := c.flight.Do(key, func() (any, error) {
		return c.breaker.Do(func() ([]byte, error) {
			return c.executeRequest(ctx, req)
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.metrics.UpstreamRequest(providerName, "circuit_open")
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return errors.Wrapf(usecase.ErrDependencyUnavailable, "api-football is temporarily unavailable")
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return errors.Newf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		c.metrics.UpstreamRequest(providerName, "decode_error")
		return errors.Wrap(err, "decode api-football payload")
	}
	if reporter, ok := target.(interface{ errorText() string }); ok {
		if text := reporter.errorText(); text != "" {
			c.metrics.UpstreamRequest(providerName, "api_error")
			return errors.Newf("provider reported error: %s", c.sanitize(text))
		}
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, req httpfetch.Request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.fetcher.Get(callCtx, req)
		cancel()

		switch {
		case err != nil:
			c.metrics.UpstreamRequest(providerName, "transport_error")
			lastErr = errors.Mark(errors.Newf("send request: %s", c.sanitize(err.Error())), errAPIFootballTransient)
		case resp.OK():
			c.metrics.UpstreamRequest(providerName, "ok")
			return resp.Body, nil
		default:
			c.metrics.UpstreamRequest(providerName, fmt.Sprintf("status_%dxx", resp.Status/100))
			statusErr := errors.Newf("provider status=%d body=%s", resp.Status, c.sanitize(abbreviateBody(resp.Body)))
			if !isRetryableStatus(resp.Status) {
				return nil, statusErr
			}
			lastErr = errors.Mark(statusErr, errAPIFootballTransient)
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
	c.logger.WarnContext(ctx, "api-football request failed", "url", req.FullURL(), "error", lastErr)
	return nil, lastErr
}

// sanitize strips the RapidAPI key from text that may echo request headers.
func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return value
}

func mapFixtures(items []fixtureItem) []usecase.ExternalMatch {
	out := make([]usecase.ExternalMatch, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		startAt := matchevent.ParseISOInstant(item.Fixture.Date)
		if startAt.IsZero() {
			startAt = matchevent.UnixInstant(item.Fixture.Timestamp)
		}
		out = append(out, usecase.ExternalMatch{
			ID:          item.Fixture.ID,
			StartAt:     startAt,
			HomeTeam:    item.Teams.Home.Name,
			AwayTeam:    item.Teams.Away.Name,
			HomeScore:   intOrZero(item.Goals.Home),
			AwayScore:   intOrZero(item.Goals.Away),
			Competition: item.League.Name,
			Status:      mapStatus(item.Fixture.Status.Short),
		})
	}
	return out
}

// mapEvent applies the provider's attribution layout: on "subst" rows the player field
// is the one coming on and the assist field the one going off; on "Goal" rows assist is
// the assist provider.
func mapEvent(item eventItem) usecase.ExternalIncident {
	out := usecase.ExternalIncident{
		Type:     item.Type,
		Detail:   item.Detail,
		Minute:   intOrZero(item.Time.Elapsed),
		TeamName: item.Team.Name,
	}

	switch strings.ToLower(item.Type) {
	case "subst":
		out.PlayerInID = item.Player.id()
		out.PlayerID = item.Assist.id()
	case "goal":
		out.PlayerID = item.Player.id()
		out.AssistPlayerID = item.Assist.id()
	default:
		out.PlayerID = item.Player.id()
	}
	return out
}

func mapStatus(short string) usecase.MatchStatus {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "FT", "AET", "PEN":
		return usecase.MatchStatusFinished
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE", "INT", "SUSP":
		return usecase.MatchStatusLive
	case "NS", "TBD":
		return usecase.MatchStatusScheduled
	default:
		return usecase.MatchStatusUnknown
	}
}

func isAPIFootballCircuitFailure(err error) bool {
	return errors.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
