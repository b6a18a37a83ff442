package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/canmnt-live/internal/domain/matchevent"
	"github.com/riskibarqy/canmnt-live/internal/domain/seasonstat"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/usecase"
)

const serviceTitle = "CanMNT 26 Live API"

// LivePulseReader is the live pulse engine as seen by the HTTP layer.
type LivePulseReader interface {
	RecentEvents(ctx context.Context) []matchevent.PlayerEvent
}

// SeasonStatsReader is the season aggregator as seen by the HTTP layer.
type SeasonStatsReader interface {
	PlayerSeasonStats(ctx context.Context, playerName string) map[string]seasonstat.SeasonStat
	SeasonLabel() string
}

type HandlerConfig struct {
	Environment string
	// DemoEvents, when set, fills an empty live pulse so the frontend has something to show.
	DemoEvents func(now time.Time) []matchevent.PlayerEvent
}

type Handler struct {
	livePulse   LivePulseReader
	seasonStats SeasonStatsReader
	cfg         HandlerConfig
	now         func() time.Time
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	livePulse LivePulseReader,
	seasonStats SeasonStatsReader,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		livePulse:   livePulse,
		seasonStats: seasonStats,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger.Named("httpapi"),
		validator:   validator.New(),
	}
}

type seasonStatsQuery struct {
	Player string `validate:"omitempty,max=100"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Index")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, indexDTO{
		Message: serviceTitle,
		Status:  "running",
		Endpoints: map[string]string{
			"/api/live-pulse":                         "Get live player events",
			"/api/season-stats":                       "Get current season statistics for all players",
			"/api/season-stats?player=Jonathan David": "Get stats for specific player",
			"/health":                                 "Health check",
		},
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, healthDTO{
		Status:      "healthy",
		Timestamp:   h.now().UTC().Format(time.RFC3339Nano),
		Environment: h.cfg.Environment,
	})
}

func (h *Handler) GetLivePulse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLivePulse")
	defer span.End()

	var events []matchevent.PlayerEvent
	if h.livePulse != nil {
		events = h.livePulse.RecentEvents(ctx)
	}
	now := h.now()
	if len(events) == 0 && h.cfg.DemoEvents != nil {
		h.logger.InfoContext(ctx, "no live events found, serving demo events")
		events = h.cfg.DemoEvents(now)
	}
	if events == nil {
		events = []matchevent.PlayerEvent{}
	}

	writeJSON(ctx, w, http.StatusOK, livePulseDTO{
		Events:      events,
		LastUpdated: now.UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStats")
	defer span.End()

	query := seasonStatsQuery{Player: strings.TrimSpace(r.URL.Query().Get("player"))}
	if err := h.validateRequest(ctx, query); err != nil {
		h.logger.WarnContext(ctx, "invalid season stats request", "error", err)
		writeError(ctx, w, err)
		return
	}
	if h.seasonStats == nil {
		writeError(ctx, w, fmt.Errorf("%w: season stats are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	players := h.seasonStats.PlayerSeasonStats(ctx, query.Player)
	if players == nil {
		players = map[string]seasonstat.SeasonStat{}
	}

	writeJSON(ctx, w, http.StatusOK, seasonStatsDTO{
		Season:      h.seasonStats.SeasonLabel(),
		Players:     players,
		Count:       len(players),
		LastUpdated: h.now().UTC().Format(time.RFC3339Nano),
	})
}

type indexDTO struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthDTO struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

type livePulseDTO struct {
	Events      []matchevent.PlayerEvent `json:"events"`
	LastUpdated string                   `json:"last_updated"`
}

type seasonStatsDTO struct {
	Season      string                           `json:"season"`
	Players     map[string]seasonstat.SeasonStat `json:"players"`
	Count       int                              `json:"count"`
	LastUpdated string                           `json:"last_updated"`
}
