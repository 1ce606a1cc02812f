package config

import (
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"geolookup/internal/support"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultLocale = "en"
	DefaultPort   = 5022

	defaultDBFile = "WhatTimeIsIn-geoip.db"
)

type Config struct {
	Port            int
	DBDriver        string
	DBPath          string
	DBDSN           string
	Locale          string
	MetricsAddr     string
	LogLevel        string
	ShutdownTimeout time.Duration
}

var configValue atomic.Value

func init() {
	configValue.Store(Config{})
}

// Load reads the process environment, stores the result for GetConfig and
// returns it. The port is left at DefaultPort; callers resolve overrides.
func Load() Config {
	cfg := Config{
		Port:            DefaultPort,
		DBDriver:        normalizeDriver(support.GetEnv("GEOIP_DB_DRIVER", DriverSQLite)),
		DBPath:          support.GetEnv("GEOIP_DB_PATH", DefaultDBPath()),
		DBDSN:           support.GetEnv("GEOIP_DB_DSN", ""),
		Locale:          strings.TrimSpace(support.GetEnv("GEOIP_LOCALE", DefaultLocale)),
		MetricsAddr:     support.GetEnv("GEOIP_METRICS_ADDR", ""),
		LogLevel:        support.GetEnv("GEOIP_LOG_LEVEL", "info"),
		ShutdownTimeout: support.GetEnvDuration("GEOIP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	configValue.Store(cfg)
	return cfg
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetConfig(cfg Config) {
	configValue.Store(cfg)
}

// DefaultDBPath points at config/database next to the install root, i.e. one
// level above the directory holding the binary.
func DefaultDBPath() string {
	return filepath.Clean(filepath.Join(support.ExecutableDir(), "..", "config", "database", defaultDBFile))
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DriverPostgres, "postgresql", "pg":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}
