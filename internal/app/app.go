package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"geolookup/internal/app/server"
	"geolookup/internal/app/version"
	"geolookup/internal/config"
	"geolookup/internal/database"
	"geolookup/internal/lookup"
	"geolookup/internal/metrics"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	portFlag := flag.Int("port", config.DefaultPort, "Port for the lookup API")
	flag.Parse()

	cfg := config.Load()
	cfg.Port = resolvePort("GEOIP_PORT", "PORT", *portFlag)
	config.SetConfig(cfg)

	configureLogging(cfg.LogLevel)

	info := version.Get()
	metrics.SetBuildInfo(info.BuildVersion, info.BuiltAt)
	log.Info("Starting geolookup", "version", info.BuildVersion, "built_at", info.BuiltAt)

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("error closing range store", "error", err)
		}
	}()

	resolver := lookup.NewResolver(store, cfg.Locale)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.OpenRoutes(gctx, cfg.Port, resolver, cfg.ShutdownTimeout)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return server.ServeMetrics(gctx, cfg.MetricsAddr, cfg.ShutdownTimeout)
		})
	}

	return g.Wait()
}

func newStore(cfg config.Config) (*database.Store, error) {
	opts := []database.Option{}
	if log.GetLevel() <= log.DebugLevel {
		opts = append(opts, database.WithLogger(database.DebugLogger()))
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("GEOIP_DB_DSN is required for the postgres driver")
		}
		opts = append(opts, database.WithPostgresDSN(cfg.DBDSN))
		log.Info("Using postgres range store")
	default:
		opts = append(opts, database.WithSQLitePath(cfg.DBPath))
		log.Info("Using sqlite range store", "path", cfg.DBPath, "locale", cfg.Locale)
	}

	return database.NewStore(opts...), nil
}

func configureLogging(raw string) {
	level, err := log.ParseLevel(raw)
	if err != nil {
		log.Warn("invalid log level, using info", "value", raw)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
