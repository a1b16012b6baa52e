// Package config provides configuration management for inkmatch.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/inkmatch/internal/images"
)

// Default values.
const (
	DefaultHTTPAddr        = ":3001"
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultMatchCount      = 15
	DefaultMatchThreshold  = 0.01
	DefaultMatchFunction   = "match_sketches"
	DefaultImageBucket     = images.DefaultBucket
	DefaultSQLitePath      = "inkmatch.db"
	DefaultSessionLogQueue = "session_log"
	DefaultRedisAddr       = "127.0.0.1:6379"
)

// Session store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreNone     = "none"
)

// Session log delivery modes.
const (
	SessionLogInline = "inline"
	SessionLogQueue  = "queue"
)

// EnvConfigPath names the environment variable holding the YAML config path.
const EnvConfigPath = "INKMATCH_CONFIG"

// Config holds inkmatch runtime settings.
type Config struct {
	HTTPAddr  string `yaml:"http_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "console" or "json"

	OpenAIAPIKey      string  `yaml:"openai_api_key"`
	OpenAIBaseURL     string  `yaml:"openai_base_url"`
	EmbeddingModel    string  `yaml:"embedding_model"`
	EmbeddingRPS      float64 `yaml:"embedding_rps"`
	EmbeddingTimeout  int     `yaml:"embedding_timeout_seconds"`
	EmbeddingMaxToken int     `yaml:"embedding_max_tokens"`

	DatabaseURL    string  `yaml:"database_url"`
	SimpleProtocol bool    `yaml:"simple_protocol"`
	MaxConns       int     `yaml:"max_conns"`
	MatchFunction  string  `yaml:"match_function"`
	MatchCount     int     `yaml:"match_count"`
	MatchThreshold float64 `yaml:"match_threshold"`

	SupabaseURL  string `yaml:"supabase_url"`
	ImageBucket  string `yaml:"image_bucket"`
	ImageBaseURL string `yaml:"image_base_url"` // Overrides the URL derived from SupabaseURL

	SessionStore      string `yaml:"session_store"` // postgres, sqlite or none
	SQLitePath        string `yaml:"sqlite_path"`
	SessionLogMode    string `yaml:"session_log_mode"` // inline or queue
	SessionLogTimeout int    `yaml:"session_log_timeout_seconds"`
	SessionLogMax     int    `yaml:"session_log_max_in_flight"`

	RedisAddr        string `yaml:"redis_addr"`
	RedisPassword    string `yaml:"redis_password"`
	RedisDB          int    `yaml:"redis_db"`
	QueueName        string `yaml:"queue_name"`
	QueueConcurrency int    `yaml:"queue_concurrency"`

	RequestTimeoutSeconds  int  `yaml:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int  `yaml:"shutdown_timeout_seconds"`
	WatchConfig            bool `yaml:"watch_config"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HTTPAddr:               DefaultHTTPAddr,
		LogLevel:               "info",
		LogFormat:              "console",
		OpenAIBaseURL:          DefaultOpenAIBaseURL,
		EmbeddingModel:         DefaultEmbeddingModel,
		EmbeddingTimeout:       30,
		EmbeddingMaxToken:      8191,
		MaxConns:               4,
		MatchFunction:          DefaultMatchFunction,
		MatchCount:             DefaultMatchCount,
		MatchThreshold:         DefaultMatchThreshold,
		ImageBucket:            DefaultImageBucket,
		SessionStore:           StorePostgres,
		SQLitePath:             DefaultSQLitePath,
		SessionLogMode:         SessionLogInline,
		SessionLogTimeout:      10,
		SessionLogMax:          64,
		RedisAddr:              DefaultRedisAddr,
		QueueName:              DefaultSessionLogQueue,
		QueueConcurrency:       4,
		RequestTimeoutSeconds:  60,
		ShutdownTimeoutSeconds: 15,
	}
}

// ConfigPath returns the YAML config path, or "" when none is set.
func ConfigPath() string {
	return os.Getenv(EnvConfigPath)
}

// Load reads defaults, then the YAML file named by INKMATCH_CONFIG, then
// environment overrides. A missing or malformed file is logged and ignored.
func Load() (*Config, error) {
	cfg := Default()

	if path := ConfigPath(); path != "" {
		if err := cfg.loadFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Ignoring config file, using defaults")
			cfg = Default()
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.SupabaseURL, "SUPABASE_URL")
	setString(&c.DatabaseURL, "DATABASE_URL")

	setString(&c.HTTPAddr, "INKMATCH_HTTP_ADDR")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INKMATCH_HTTP_ADDR") == "" {
		c.HTTPAddr = ":" + port
	}
	setString(&c.LogLevel, "INKMATCH_LOG_LEVEL")
	setString(&c.LogFormat, "INKMATCH_LOG_FORMAT")
	setString(&c.OpenAIAPIKey, "INKMATCH_OPENAI_API_KEY")
	setString(&c.OpenAIBaseURL, "INKMATCH_OPENAI_BASE_URL")
	setString(&c.EmbeddingModel, "INKMATCH_EMBEDDING_MODEL")
	setFloat(&c.EmbeddingRPS, "INKMATCH_EMBEDDING_RPS")
	setString(&c.DatabaseURL, "INKMATCH_DATABASE_URL")
	setBool(&c.SimpleProtocol, "INKMATCH_SIMPLE_PROTOCOL")
	setInt(&c.MaxConns, "INKMATCH_MAX_CONNS")
	setString(&c.MatchFunction, "INKMATCH_MATCH_FUNCTION")
	setInt(&c.MatchCount, "INKMATCH_MATCH_COUNT")
	setFloat(&c.MatchThreshold, "INKMATCH_MATCH_THRESHOLD")
	setString(&c.SupabaseURL, "INKMATCH_SUPABASE_URL")
	setString(&c.ImageBucket, "INKMATCH_IMAGE_BUCKET")
	setString(&c.ImageBaseURL, "INKMATCH_IMAGE_BASE_URL")
	setString(&c.SessionStore, "INKMATCH_SESSION_STORE")
	setString(&c.SQLitePath, "INKMATCH_SQLITE_PATH")
	setString(&c.SessionLogMode, "INKMATCH_SESSION_LOG_MODE")
	setString(&c.RedisAddr, "INKMATCH_REDIS_ADDR")
	setString(&c.RedisPassword, "INKMATCH_REDIS_PASSWORD")
	setInt(&c.RedisDB, "INKMATCH_REDIS_DB")
	setString(&c.QueueName, "INKMATCH_QUEUE_NAME")
	setInt(&c.RequestTimeoutSeconds, "INKMATCH_REQUEST_TIMEOUT_SECONDS")
	setBool(&c.WatchConfig, "INKMATCH_WATCH_CONFIG")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-integer environment value")
		return
	}
	*dst = n
}

func setFloat(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-numeric environment value")
		return
	}
	*dst = f
}

func setBool(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-boolean environment value")
		return
	}
	*dst = b
}

// ImageBase returns the public base URL sketch image filenames are joined to.
func (c *Config) ImageBase() string {
	if c.ImageBaseURL != "" {
		return strings.TrimRight(c.ImageBaseURL, "/")
	}
	return images.StorageBase(c.SupabaseURL, c.ImageBucket)
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.SupabaseURL == "" && c.ImageBaseURL == "" {
		errs = append(errs, errors.New("SUPABASE_URL or image_base_url is required"))
	}
	if c.MatchCount <= 0 {
		errs = append(errs, fmt.Errorf("match_count must be positive, got %d", c.MatchCount))
	}
	if c.MatchThreshold < -1 || c.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("match_threshold must be within [-1, 1], got %g", c.MatchThreshold))
	}
	switch c.SessionStore {
	case StorePostgres, StoreSQLite, StoreNone:
	default:
		errs = append(errs, fmt.Errorf("unknown session_store %q", c.SessionStore))
	}
	switch c.SessionLogMode {
	case SessionLogInline, SessionLogQueue:
	default:
		errs = append(errs, fmt.Errorf("unknown session_log_mode %q", c.SessionLogMode))
	}
	return errors.Join(errs...)
}
