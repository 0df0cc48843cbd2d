package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/qpfl/league-core/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config stores runtime configuration for the process.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	StoreBackend               string
	DBURL                      string
	DBDisablePreparedBinary    bool
	DocumentsTable             string
	RedisURL                   string
	RedisKeyPrefix             string
	LeagueConfigPath           string
	StatsSnapshotDir           string
	StatsFeedURL               string
	StatsFeedToken             string
	StatsFeedTimeout           time.Duration
	StatsFeedMaxAttempts       int
	CommitMaxAttempts          int
	CommitBackoffStep          time.Duration
	ScoringWorkers             int
	StatsCacheTTL              time.Duration
	StatsCircuitEnabled        bool
	StatsCircuitFailureCount   int
	StatsCircuitOpenTimeout    time.Duration
	StatsCircuitHalfOpenMaxReq int
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("SERVICE_NAME", "qpfl"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "dev"),
		LogLevel:         logLevel,
		DBURL:            strings.TrimSpace(getEnv("DB_URL", "")),
		DocumentsTable:   strings.TrimSpace(getEnv("DB_DOCUMENTS_TABLE", "documents")),
		RedisURL:         strings.TrimSpace(getEnv("REDIS_URL", "")),
		RedisKeyPrefix:   getEnv("REDIS_KEY_PREFIX", "qpfl:"),
		LeagueConfigPath: strings.TrimSpace(getEnv("LEAGUE_CONFIG_PATH", "")),
		StatsSnapshotDir: strings.TrimSpace(getEnv("STATS_SNAPSHOT_DIR", "data/stats")),
		StatsFeedURL:     strings.TrimSpace(getEnv("STATS_FEED_URL", "")),
		StatsFeedToken:   strings.TrimSpace(getEnv("STATS_FEED_TOKEN", "")),
	}

	cfg.StoreBackend, err = parseStoreBackend(getEnv("STORE_BACKEND", StoreMemory))
	if err != nil {
		return Config{}, err
	}
	switch {
	case cfg.StoreBackend == StorePostgres && cfg.DBURL == "":
		return Config{}, fmt.Errorf("DB_URL is required when STORE_BACKEND=postgres")
	case cfg.StoreBackend == StoreRedis && cfg.RedisURL == "":
		return Config{}, fmt.Errorf("REDIS_URL is required when STORE_BACKEND=redis")
	}

	cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg.CommitMaxAttempts, err = getEnvAsInt("COMMIT_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse COMMIT_MAX_ATTEMPTS: %w", err)
	}
	if cfg.CommitMaxAttempts < 1 {
		return Config{}, fmt.Errorf("COMMIT_MAX_ATTEMPTS must be >= 1")
	}

	cfg.CommitBackoffStep, err = time.ParseDuration(getEnv("COMMIT_BACKOFF_STEP", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COMMIT_BACKOFF_STEP: %w", err)
	}
	if cfg.CommitBackoffStep <= 0 {
		return Config{}, fmt.Errorf("COMMIT_BACKOFF_STEP must be > 0")
	}

	cfg.ScoringWorkers, err = getEnvAsInt("SCORING_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_WORKERS: %w", err)
	}
	if cfg.ScoringWorkers < 1 {
		return Config{}, fmt.Errorf("SCORING_WORKERS must be >= 1")
	}

	cfg.StatsCacheTTL, err = time.ParseDuration(getEnv("STATS_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CACHE_TTL: %w", err)
	}
	if cfg.StatsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("STATS_CACHE_TTL must be > 0")
	}

	cfg.StatsFeedTimeout, err = time.ParseDuration(getEnv("STATS_FEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_TIMEOUT: %w", err)
	}

	cfg.StatsFeedMaxAttempts, err = getEnvAsInt("STATS_FEED_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_FEED_MAX_ATTEMPTS: %w", err)
	}
	if cfg.StatsFeedMaxAttempts < 1 {
		return Config{}, fmt.Errorf("STATS_FEED_MAX_ATTEMPTS must be >= 1")
	}

	cfg.StatsCircuitEnabled, err = strconv.ParseBool(getEnv("STATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CIRCUIT_ENABLED: %w", err)
	}

	cfg.StatsCircuitFailureCount, err = getEnvAsInt("STATS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.StatsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	cfg.StatsCircuitOpenTimeout, err = time.ParseDuration(getEnv("STATS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.StatsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	cfg.StatsCircuitHalfOpenMaxReq, err = getEnvAsInt("STATS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.StatsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	return cfg, nil
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

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreMemory, StorePostgres, StoreRedis:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s, %s", v, StoreMemory, StorePostgres, StoreRedis)
	}
}
