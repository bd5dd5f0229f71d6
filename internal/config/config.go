package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Graph    GraphConfig
	Logging  LoggingConfig
	Features FeatureConfig
	Params   ParamsConfig
	Model    ModelConfig
	History  HistoryConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j card-history graph. An empty
// URI disables persistence.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

// FeatureConfig tunes the feature pipeline.
type FeatureConfig struct {
	CountCurrentGap bool
	MissingPolicy   string // zero|mean|reject
	StrictSchema    bool
}

// ParamsConfig locates the fitted scaler and name vocabulary.
type ParamsConfig struct {
	Source        string // file|redis
	Path          string
	RedisAddrs    []string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// ModelConfig locates the classifier artifact.
type ModelConfig struct {
	Path string
}

// HistoryConfig selects where the historical context is loaded from at startup.
type HistoryConfig struct {
	Source string // file|graph|none
	Path   string
}

// Parameter and history sources.
const (
	ParamsSourceFile   = "file"
	ParamsSourceRedis  = "redis"
	HistorySourceFile  = "file"
	HistorySourceGraph = "graph"
	HistorySourceNone  = "none"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultParamsPath       = "artifacts/params.json"
	defaultModelPath        = "artifacts/model.json"
	defaultRedisAddr        = "localhost:6379"
	defaultRedisPrefix      = "fraudscore"
)

// Load reads configuration from environment variables, applying defaults. A
// .env file in the working directory is read first; it never overrides
// variables that are already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", false),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Features: FeatureConfig{
			CountCurrentGap: parseBoolWithDefault("FEATURE_COUNT_CURRENT_GAP", true),
			MissingPolicy:   strings.ToLower(valueOrDefault("FEATURE_MISSING_POLICY", "zero")),
			StrictSchema:    parseBoolWithDefault("FEATURE_STRICT_SCHEMA", false),
		},
		Params: ParamsConfig{
			Source:        strings.ToLower(valueOrDefault("PARAMS_SOURCE", ParamsSourceFile)),
			Path:          valueOrDefault("PARAMS_PATH", defaultParamsPath),
			RedisAddrs:    splitCSV(valueOrDefault("PARAMS_REDIS_ADDRS", defaultRedisAddr)),
			RedisPassword: os.Getenv("PARAMS_REDIS_PASSWORD"),
			RedisDB:       parseIntWithDefault("PARAMS_REDIS_DB", 0),
			RedisPrefix:   valueOrDefault("PARAMS_REDIS_PREFIX", defaultRedisPrefix),
		},
		Model: ModelConfig{
			Path: valueOrDefault("MODEL_PATH", defaultModelPath),
		},
		History: HistoryConfig{
			Source: strings.ToLower(valueOrDefault("HISTORY_SOURCE", HistorySourceFile)),
			Path:   os.Getenv("HISTORY_PATH"),
		},
	}

	switch cfg.Features.MissingPolicy {
	case "zero", "mean", "reject":
	default:
		return Config{}, fmt.Errorf("invalid FEATURE_MISSING_POLICY %q", cfg.Features.MissingPolicy)
	}

	switch cfg.Params.Source {
	case ParamsSourceFile, ParamsSourceRedis:
	default:
		return Config{}, fmt.Errorf("invalid PARAMS_SOURCE %q", cfg.Params.Source)
	}

	switch cfg.History.Source {
	case HistorySourceFile, HistorySourceNone:
	case HistorySourceGraph:
		if cfg.Graph.URI == "" {
			return Config{}, fmt.Errorf("HISTORY_SOURCE=graph requires GRAPH_URI")
		}
	default:
		return Config{}, fmt.Errorf("invalid HISTORY_SOURCE %q", cfg.History.Source)
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if v := os.Getenv("SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.IdleTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_IDLE_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownTimeout = d
		} else {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", false)
	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

// AllowedOrigins splits AllowedOriginsCSV.
func (c HTTPConfig) AllowedOrigins() []string {
	return splitCSV(c.AllowedOriginsCSV)
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
