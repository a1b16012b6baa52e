// Package main provides the HTTP server entry point for inkmatch.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
	"gorm.io/gorm/logger"

	"github.com/thebtf/inkmatch/internal/config"
	"github.com/thebtf/inkmatch/internal/db/gorm"
	"github.com/thebtf/inkmatch/internal/db/sqlite"
	"github.com/thebtf/inkmatch/internal/embedding"
	"github.com/thebtf/inkmatch/internal/images"
	"github.com/thebtf/inkmatch/internal/search"
	"github.com/thebtf/inkmatch/internal/sessionlog"
	"github.com/thebtf/inkmatch/internal/telemetry"
	"github.com/thebtf/inkmatch/internal/vector/pgvector"
	"github.com/thebtf/inkmatch/internal/watcher"
	"github.com/thebtf/inkmatch/internal/worker"
)

// Version is set at build time via ldflags.
var Version = "dev"

// sessionBackend is what the configured session store offers the rest of
// the process.
type sessionBackend interface {
	search.SessionStore
	sessionlog.SessionCreator
	Ping() error
	Close() error
}

type gormBackend struct {
	*gorm.SessionStore
	store *gorm.Store
}

func (b gormBackend) Ping() error  { return b.store.Ping() }
func (b gormBackend) Close() error { return b.store.Close() }

type sqliteBackend struct {
	*sqlite.SessionStore
	store *sqlite.Store
}

func (b sqliteBackend) Ping() error  { return b.store.Ping() }
func (b sqliteBackend) Close() error { return b.store.Close() }

func main() {
	configPath := flag.String("config", "", "YAML config file (overrides $"+config.EnvConfigPath+")")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *configPath != "" {
		_ = os.Setenv(config.EnvConfigPath, *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	setupLogging(cfg, *debug)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	})); err != nil {
		log.Warn().Err(err).Msg("Failed to set GOMAXPROCS")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Metrics unavailable")
	}

	embedder, err := embedding.NewOpenAIClient(embedding.Config{
		BaseURL:           cfg.OpenAIBaseURL,
		APIKey:            cfg.OpenAIAPIKey,
		Model:             cfg.EmbeddingModel,
		MaxTokens:         cfg.EmbeddingMaxToken,
		Timeout:           time.Duration(cfg.EmbeddingTimeout) * time.Second,
		RequestsPerSecond: cfg.EmbeddingRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create embedding client")
	}

	vectorClient, err := pgvector.NewClient(ctx, pgvector.Config{
		DSN:            cfg.DatabaseURL,
		Function:       cfg.MatchFunction,
		MaxConns:       int32(cfg.MaxConns), // #nosec G115 -- small pool size from config
		SimpleProtocol: cfg.SimpleProtocol,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect vector search")
	}
	defer vectorClient.Close()

	sessions, err := openSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("Failed to open session store")
	}
	if sessions != nil {
		defer sessions.Close()
	}

	var (
		dispatcher  *sessionlog.Dispatcher
		queueServer *asynq.Server
		queueClient *asynq.Client
	)
	if sessions != nil {
		var sink sessionlog.Sink = sessionlog.NewStoreSink(sessions)
		if cfg.SessionLogMode == config.SessionLogQueue {
			redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

			srv, mux := sessionlog.NewServer(redisOpt, cfg.QueueName, cfg.QueueConcurrency, sink)
			if err := srv.Start(mux); err != nil {
				log.Fatal().Err(err).Msg("Failed to start session log queue worker")
			}
			queueServer = srv

			queueClient = asynq.NewClient(redisOpt)
			sink = sessionlog.NewQueueSink(queueClient, cfg.QueueName, time.Duration(cfg.SessionLogTimeout)*time.Second)
			log.Info().Str("redis", cfg.RedisAddr).Str("queue", cfg.QueueName).Msg("Session logs routed through queue")
		}
		dispatcher = sessionlog.NewDispatcher(sink, sessionlog.Options{
			MaxInFlight: int64(cfg.SessionLogMax),
			Timeout:     time.Duration(cfg.SessionLogTimeout) * time.Second,
			Metrics:     metrics,
		})
	}

	resolver := images.NewPublicURLResolver(cfg.ImageBase())
	manager := search.NewManager(
		embedder,
		vectorClient,
		resolver,
		sessionLogger(dispatcher),
		sessions,
		metrics,
		search.Options{MatchCount: cfg.MatchCount, MatchThreshold: cfg.MatchThreshold},
	)

	var pinger worker.Pinger
	if sessions != nil {
		pinger = sessions
	}
	svc := worker.NewService(Version, cfg, manager, pinger)

	if cfg.WatchConfig {
		startConfigWatcher(stop)
	}

	log.Info().
		Str("version", Version).
		Str("model", embedder.Model()).
		Int("match_count", manager.Options().MatchCount).
		Float64("match_threshold", manager.Options().MatchThreshold).
		Str("session_store", cfg.SessionStore).
		Str("session_log_mode", cfg.SessionLogMode).
		Msg("Starting inkmatch")

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Session log drain incomplete")
		}
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if queueServer != nil {
		queueServer.Shutdown()
	}
	log.Info().Msg("Stopped")
}

func setupLogging(cfg *config.Config, debug bool) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func openSessionStore(cfg *config.Config) (sessionBackend, error) {
	switch cfg.SessionStore {
	case config.StoreNone:
		log.Warn().Msg("Session store disabled; searches will not be logged")
		return nil, nil
	case config.StoreSQLite:
		store, err := sqlite.NewStore(sqlite.Config{Path: cfg.SQLitePath, MaxConns: 1})
		if err != nil {
			return nil, err
		}
		return sqliteBackend{SessionStore: sqlite.NewSessionStore(store), store: store}, nil
	case config.StorePostgres:
		store, err := gorm.NewStore(gorm.Config{
			DSN:            cfg.DatabaseURL,
			MaxConns:       cfg.MaxConns,
			LogLevel:       logger.Silent,
			SimpleProtocol: cfg.SimpleProtocol,
		})
		if err != nil {
			return nil, err
		}
		return gormBackend{SessionStore: gorm.NewSessionStore(store), store: store}, nil
	default:
		return nil, errors.New("unknown session store " + cfg.SessionStore)
	}
}

// sessionLogger keeps a nil dispatcher from becoming a non-nil interface.
func sessionLogger(d *sessionlog.Dispatcher) search.SessionLogger {
	if d == nil {
		return nil
	}
	return d
}

// startConfigWatcher stops the process when the config file changes so the
// supervisor restarts it with the new settings.
func startConfigWatcher(stop context.CancelFunc) {
	path := config.ConfigPath()
	if path == "" {
		log.Warn().Msg("watch_config set but no config file in use")
		return
	}
	w, err := watcher.New(path, func() {
		log.Warn().Str("path", path).Msg("Config file changed, shutting down for restart")
		stop()
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher")
		return
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start config watcher")
	}
}
