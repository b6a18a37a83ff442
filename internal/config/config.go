package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
)

const (
	SourceSofaScore   = "sofascore"
	SourceAPIFootball = "apifootball"

	TransportNetHTTP  = "nethttp"
	TransportFastHTTP = "fasthttp"
)

// CircuitConfig mirrors resilience.CircuitBreakerConfig so config stays free of platform imports.
type CircuitConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level

	LivePulseSource       string
	LivePulseMockFallback bool
	LivePulseWorkers      int

	SofaScoreBaseURL    string
	SofaScoreTimeout    time.Duration
	SofaScoreMaxRetries int
	SofaScorePace       time.Duration
	SofaScoreCircuit    CircuitConfig

	APIFootballBaseURL    string
	APIFootballHost       string
	APIFootballKey        string
	APIFootballTimeout    time.Duration
	APIFootballMaxRetries int
	APIFootballPace       time.Duration
	APIFootballCircuit    CircuitConfig

	HTTPFetchTransport string

	SeasonLabel   string
	SeasonMarkers []string
	StatsWorkers  int
	RosterFile    string

	SwaggerEnabled bool
	MetricsEnabled bool
	PprofEnabled   bool
	PprofAddr      string

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeBasicAuthUser string
	PyroscopePassword      string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("APP_SERVICE_NAME", "canmnt-live-api")),
		ServiceVersion: strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:       strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8000")),
		CORSAllowedOrigins: splitCSV(getEnv(
			"CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000",
		)),
		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	source := strings.ToLower(strings.TrimSpace(getEnv("LIVE_PULSE_SOURCE", SourceSofaScore)))
	if source != SourceSofaScore && source != SourceAPIFootball {
		return Config{}, fmt.Errorf("invalid LIVE_PULSE_SOURCE %q: valid values are %s, %s", source, SourceSofaScore, SourceAPIFootball)
	}
	cfg.LivePulseSource = source

	mockFallbackDefault := "true"
	if appEnv == EnvProd {
		mockFallbackDefault = "false"
	}
	mockFallback, err := strconv.ParseBool(getEnv("LIVE_PULSE_MOCK_FALLBACK", mockFallbackDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_PULSE_MOCK_FALLBACK: %w", err)
	}
	cfg.LivePulseMockFallback = mockFallback

	livePulseWorkers, err := getEnvAsInt("LIVE_PULSE_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_PULSE_WORKERS: %w", err)
	}
	if livePulseWorkers < 1 {
		return Config{}, fmt.Errorf("LIVE_PULSE_WORKERS must be >= 1")
	}
	cfg.LivePulseWorkers = livePulseWorkers

	cfg.SofaScoreBaseURL = strings.TrimSpace(getEnv("SOFASCORE_BASE_URL", "https://api.sofascore.com/api/v1"))
	sofaTimeout, err := time.ParseDuration(getEnv("SOFASCORE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_TIMEOUT: %w", err)
	}
	if sofaTimeout <= 0 {
		return Config{}, fmt.Errorf("SOFASCORE_TIMEOUT must be > 0")
	}
	cfg.SofaScoreTimeout = sofaTimeout

	sofaRetries, err := getEnvAsInt("SOFASCORE_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_MAX_RETRIES: %w", err)
	}
	if sofaRetries < 0 {
		return Config{}, fmt.Errorf("SOFASCORE_MAX_RETRIES must be >= 0")
	}
	cfg.SofaScoreMaxRetries = sofaRetries

	sofaPace, err := time.ParseDuration(getEnv("SOFASCORE_PACE", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOFASCORE_PACE: %w", err)
	}
	if sofaPace < 0 {
		return Config{}, fmt.Errorf("SOFASCORE_PACE must be >= 0")
	}
	cfg.SofaScorePace = sofaPace

	cfg.SofaScoreCircuit, err = loadCircuit("SOFASCORE")
	if err != nil {
		return Config{}, err
	}

	cfg.APIFootballHost = strings.TrimSpace(getEnv("APIFOOTBALL_HOST", "api-football-v1.p.rapidapi.com"))
	cfg.APIFootballBaseURL = strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", ""))
	cfg.APIFootballKey = strings.TrimSpace(getEnv("APIFOOTBALL_KEY", ""))
	if source == SourceAPIFootball && cfg.APIFootballKey == "" {
		return Config{}, fmt.Errorf("APIFOOTBALL_KEY is required when LIVE_PULSE_SOURCE=%s", SourceAPIFootball)
	}

	afTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEOUT: %w", err)
	}
	if afTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_TIMEOUT must be > 0")
	}
	cfg.APIFootballTimeout = afTimeout

	afRetries, err := getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_MAX_RETRIES: %w", err)
	}
	if afRetries < 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_MAX_RETRIES must be >= 0")
	}
	cfg.APIFootballMaxRetries = afRetries

	afPace, err := time.ParseDuration(getEnv("APIFOOTBALL_PACE", "300ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_PACE: %w", err)
	}
	if afPace < 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_PACE must be >= 0")
	}
	cfg.APIFootballPace = afPace

	cfg.APIFootballCircuit, err = loadCircuit("APIFOOTBALL")
	if err != nil {
		return Config{}, err
	}

	transport := strings.ToLower(strings.TrimSpace(getEnv("HTTP_FETCH_TRANSPORT", TransportNetHTTP)))
	if transport != TransportNetHTTP && transport != TransportFastHTTP {
		return Config{}, fmt.Errorf("invalid HTTP_FETCH_TRANSPORT %q: valid values are %s, %s", transport, TransportNetHTTP, TransportFastHTTP)
	}
	cfg.HTTPFetchTransport = transport

	cfg.SeasonLabel = strings.TrimSpace(getEnv("SEASON_LABEL", "2025/26"))
	cfg.SeasonMarkers = splitCSV(getEnv("SEASON_MARKERS", "25/26,2025"))
	if len(cfg.SeasonMarkers) == 0 {
		return Config{}, fmt.Errorf("SEASON_MARKERS must contain at least one marker")
	}

	statsWorkers, err := getEnvAsInt("STATS_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_WORKERS: %w", err)
	}
	if statsWorkers < 1 {
		return Config{}, fmt.Errorf("STATS_WORKERS must be >= 1")
	}
	cfg.StatsWorkers = statsWorkers
	cfg.RosterFile = strings.TrimSpace(getEnv("ROSTER_FILE", ""))

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	cfg.SwaggerEnabled = swaggerEnabled

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	cfg.MetricsEnabled = metricsEnabled

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = pprofAddr

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopePassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	return cfg, nil
}

// loadCircuit reads {PREFIX}_CIRCUIT_ENABLED, _FAILURE_COUNT, _OPEN_TIMEOUT and _HALF_OPEN_MAX_REQ.
func loadCircuit(prefix string) (CircuitConfig, error) {
	enabledKey := prefix + "_CIRCUIT_ENABLED"
	enabled, err := strconv.ParseBool(getEnv(enabledKey, "true"))
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s: %w", enabledKey, err)
	}

	failureKey := prefix + "_CIRCUIT_FAILURE_COUNT"
	failureCount, err := getEnvAsInt(failureKey, 5)
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s: %w", failureKey, err)
	}
	if failureCount < 1 {
		return CircuitConfig{}, fmt.Errorf("%s must be >= 1", failureKey)
	}

	openKey := prefix + "_CIRCUIT_OPEN_TIMEOUT"
	openTimeout, err := time.ParseDuration(getEnv(openKey, "30s"))
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s: %w", openKey, err)
	}
	if openTimeout <= 0 {
		return CircuitConfig{}, fmt.Errorf("%s must be > 0", openKey)
	}

	halfOpenKey := prefix + "_CIRCUIT_HALF_OPEN_MAX_REQ"
	halfOpen, err := getEnvAsInt(halfOpenKey, 1)
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s: %w", halfOpenKey, err)
	}
	if halfOpen < 1 {
		return CircuitConfig{}, fmt.Errorf("%s must be >= 1", halfOpenKey)
	}

	return CircuitConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
