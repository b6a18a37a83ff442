package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/canmnt-live/external/apifootball"
	"github.com/riskibarqy/canmnt-live/external/sofascore"
	"github.com/riskibarqy/canmnt-live/internal/config"
	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
	"github.com/riskibarqy/canmnt-live/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/canmnt-live/internal/interfaces/httpapi"
	"github.com/riskibarqy/canmnt-live/internal/platform/httpfetch"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/platform/metrics"
	"github.com/riskibarqy/canmnt-live/internal/platform/resilience"
	"github.com/riskibarqy/canmnt-live/internal/usecase"
)

// Components is the wired engine shared by the API server and the CLI driver.
type Components struct {
	Roster      *memory.RosterRepository
	LivePulse   *usecase.LivePulseService
	SeasonStats *usecase.SeasonStatsService
	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
}

func NewComponents(cfg config.Config, logger *logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.Default()
	}

	players := memory.SeedRoster()
	if cfg.RosterFile != "" {
		loaded, err := memory.LoadRosterFile(cfg.RosterFile)
		if err != nil {
			return nil, fmt.Errorf("load roster file: %w", err)
		}
		players = loaded
		logger.Info("roster loaded from file", "path", cfg.RosterFile, "players", len(players))
	}
	rosterRepo := memory.NewRosterRepository(players)

	var (
		registry *prometheus.Registry
		recorder *metrics.Recorder
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		var err error
		recorder, err = metrics.NewRecorder(registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	sofaClient := sofascore.NewClient(sofascore.ClientConfig{
		Fetcher:        newFetcher(cfg.HTTPFetchTransport, cfg.SofaScoreTimeout),
		BaseURL:        cfg.SofaScoreBaseURL,
		Timeout:        cfg.SofaScoreTimeout,
		MaxRetries:     cfg.SofaScoreMaxRetries,
		Pace:           paceOrNone(cfg.SofaScorePace),
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig(cfg.SofaScoreCircuit),
	})

	var fixtures usecase.FixtureProvider
	if cfg.LivePulseSource == config.SourceAPIFootball {
		fixtures = apifootball.NewClient(apifootball.ClientConfig{
			Fetcher:        newFetcher(cfg.HTTPFetchTransport, cfg.APIFootballTimeout),
			BaseURL:        cfg.APIFootballBaseURL,
			Host:           cfg.APIFootballHost,
			APIKey:         cfg.APIFootballKey,
			Timeout:        cfg.APIFootballTimeout,
			MaxRetries:     cfg.APIFootballMaxRetries,
			Pace:           paceOrNone(cfg.APIFootballPace),
			Logger:         logger,
			Metrics:        recorder,
			CircuitBreaker: resilience.CircuitBreakerConfig(cfg.APIFootballCircuit),
		})
	}

	liveCfg := usecase.DefaultLivePulseConfig()
	liveCfg.Source = roster.Source(cfg.LivePulseSource)
	liveCfg.Workers = cfg.LivePulseWorkers

	seasonCfg := usecase.SeasonStatsConfig{
		Label:   cfg.SeasonLabel,
		Markers: cfg.SeasonMarkers,
		Workers: cfg.StatsWorkers,
	}

	return &Components{
		Roster:      rosterRepo,
		LivePulse:   usecase.NewLivePulseService(rosterRepo, sofaClient, fixtures, liveCfg, logger, recorder),
		SeasonStats: usecase.NewSeasonStatsService(rosterRepo, sofaClient, seasonCfg, logger, recorder),
		Registry:    registry,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	components, err := NewComponents(cfg, logger)
	if err != nil {
		return nil, err
	}

	handlerCfg := httpapi.HandlerConfig{Environment: cfg.AppEnv}
	if cfg.LivePulseMockFallback {
		handlerCfg.DemoEvents = memory.DemoEvents
	}
	handler := httpapi.NewHandler(components.LivePulse, components.SeasonStats, handlerCfg, logger)

	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if components.Registry != nil {
		routerCfg.MetricsHandler = promhttp.HandlerFor(components.Registry, promhttp.HandlerOpts{})
	}
	router := httpapi.NewRouter(handler, logger, routerCfg)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newFetcher(transport string, timeout time.Duration) httpfetch.Fetcher {
	if transport == config.TransportFastHTTP {
		return httpfetch.NewFastHTTP(timeout)
	}
	return httpfetch.NewNetHTTP(timeout)
}

// paceOrNone maps a configured zero pause onto the clients' "no pacing" value.
func paceOrNone(pace time.Duration) time.Duration {
	if pace == 0 {
		return -1
	}
	return pace
}
