package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string

	// DBURL empty means the in-memory store, useful for local development.
	DBURL    string
	TimeZone string `validate:"required"`

	NCAAGraphQLURL           string `validate:"required,url"`
	NCAAScoreboardPageURL    string `validate:"required,url"`
	NCAATimeout              time.Duration
	NCAACircuitEnabled       bool
	NCAACircuitFailureCount  int
	NCAACircuitOpenTimeout   time.Duration
	NCAACircuitHalfOpenMax   int
	StatBroadcastPrimary     string `validate:"required,url"`
	StatBroadcastSecondary   string `validate:"required,url"`
	StatBroadcastTimeout     time.Duration
	StatBroadcastRatePerSec  float64
	SchedulerBaseInterval    time.Duration
	SchedulerLiveInterval    time.Duration
	SchedulerActiveInterval  time.Duration
	SchedulerIdleInterval    time.Duration
	SchedulerBoxScoreWorkers int `validate:"min=1"`

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	ncaaTimeout, err := getEnvAsDuration("NCAA_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_TIMEOUT: %w", err)
	}
	ncaaCircuitEnabled, err := strconv.ParseBool(getEnv("NCAA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_ENABLED: %w", err)
	}
	ncaaCircuitFailures, err := getEnvAsInt("NCAA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	ncaaCircuitOpenTimeout, err := getEnvAsDuration("NCAA_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	ncaaCircuitHalfOpenMax, err := getEnvAsInt("NCAA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NCAA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	sbTimeout, err := getEnvAsDuration("STATBROADCAST_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBROADCAST_TIMEOUT: %w", err)
	}
	sbRate, err := getEnvAsFloat("STATBROADCAST_RATE_PER_SEC", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATBROADCAST_RATE_PER_SEC: %w", err)
	}

	baseInterval, err := getEnvAsDuration("SCHEDULER_BASE_INTERVAL", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_BASE_INTERVAL: %w", err)
	}
	liveInterval, err := getEnvAsDuration("SCHEDULER_LIVE_INTERVAL", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_LIVE_INTERVAL: %w", err)
	}
	activeInterval, err := getEnvAsDuration("SCHEDULER_ACTIVE_INTERVAL", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ACTIVE_INTERVAL: %w", err)
	}
	idleInterval, err := getEnvAsDuration("SCHEDULER_IDLE_INTERVAL", 30*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_IDLE_INTERVAL: %w", err)
	}
	boxScoreWorkers, err := getEnvAsInt("SCHEDULER_BOX_SCORE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_BOX_SCORE_WORKERS: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "lacrosse-tracker"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		DBURL:    strings.TrimSpace(getEnv("DB_URL", "")),
		TimeZone: getEnv("TIME_ZONE", "America/New_York"),

		NCAAGraphQLURL:           getEnv("NCAA_GRAPHQL_URL", "https://sdataprod.ncaa.com"),
		NCAAScoreboardPageURL:    getEnv("NCAA_SCOREBOARD_PAGE_URL", "https://www.ncaa.com/scoreboard/lacrosse-men/d1"),
		NCAATimeout:              ncaaTimeout,
		NCAACircuitEnabled:       ncaaCircuitEnabled,
		NCAACircuitFailureCount:  ncaaCircuitFailures,
		NCAACircuitOpenTimeout:   ncaaCircuitOpenTimeout,
		NCAACircuitHalfOpenMax:   ncaaCircuitHalfOpenMax,
		StatBroadcastPrimary:     getEnv("STATBROADCAST_PRIMARY_HOST", "https://www.statbroadcast.com"),
		StatBroadcastSecondary:   getEnv("STATBROADCAST_SECONDARY_HOST", "https://stats.statbroadcast.com"),
		StatBroadcastTimeout:     sbTimeout,
		StatBroadcastRatePerSec:  sbRate,
		SchedulerBaseInterval:    baseInterval,
		SchedulerLiveInterval:    liveInterval,
		SchedulerActiveInterval:  activeInterval,
		SchedulerIdleInterval:    idleInterval,
		SchedulerBoxScoreWorkers: boxScoreWorkers,

		LogLevel: logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
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

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}
