package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"geolookup/internal/domain"
	"geolookup/internal/support"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrStoreMissing means the database file does not exist. No query is
	// attempted in that case.
	ErrStoreMissing = errors.New("database: file not found")
	ErrStoreOpen    = errors.New("database: open failed")
)

type Config struct {
	Driver     string
	Path       string
	DSN        string
	Logger     logger.Interface
	ExistingDB *gorm.DB
}

type Option func(*Config)

// Store hands out read sessions over the range tables. SQLite sessions own
// their own handle; Postgres and existing connections share one pool.
type Store struct {
	cfg Config

	mu     sync.Mutex
	shared *gorm.DB
}

// Session is one read session. It must be closed when the lookup is done.
type Session struct {
	db      *gorm.DB
	release func() error
}

func NewStore(opts ...Option) *Store {
	cfg := Config{
		Driver: DriverSQLite,
		Logger: silentLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store{cfg: cfg, shared: cfg.ExistingDB}
}

func WithSQLitePath(path string) Option {
	return func(cfg *Config) {
		cfg.Driver = DriverSQLite
		cfg.Path = path
	}
}

func WithPostgresDSN(dsn string) Option {
	return func(cfg *Config) {
		cfg.Driver = DriverPostgres
		cfg.DSN = dsn
	}
}

func WithExistingDB(db *gorm.DB) Option {
	return func(cfg *Config) {
		cfg.ExistingDB = db
	}
}

func WithLogger(l logger.Interface) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

func (s *Store) Open(ctx context.Context) (*Session, error) {
	if s.cfg.ExistingDB != nil {
		return &Session{db: s.cfg.ExistingDB, release: noRelease}, nil
	}

	switch s.cfg.Driver {
	case DriverPostgres:
		return s.openPostgres()
	default:
		return s.openSQLite(ctx)
	}
}

// Close releases the shared pool, if any. Connections passed in with
// WithExistingDB belong to the caller and stay open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shared == nil || s.cfg.ExistingDB != nil {
		return nil
	}

	sqlDB, err := s.shared.DB()
	s.shared = nil
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) openSQLite(ctx context.Context) (*Session, error) {
	info, err := os.Stat(s.cfg.Path)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrStoreMissing, s.cfg.Path)
	case err != nil:
		return nil, fmt.Errorf("%w: stat %s: %v", ErrStoreOpen, s.cfg.Path, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", ErrStoreOpen, s.cfg.Path)
	}

	db, err := gorm.Open(sqlite.Open(readOnlyDSN(s.cfg.Path)), s.gormConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreOpen, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: get sql.DB: %v", ErrStoreOpen, err)
	}

	// Opening is lazy; reading the header catches files that are not SQLite.
	var schemaVersion int64
	if err := db.WithContext(ctx).Raw("PRAGMA schema_version").Row().Scan(&schemaVersion); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreOpen, err)
	}

	return &Session{db: db, release: sqlDB.Close}, nil
}

func (s *Store) openPostgres() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shared == nil {
		if s.cfg.DSN == "" {
			return nil, fmt.Errorf("%w: no postgres dsn configured", ErrStoreOpen)
		}
		db, err := gorm.Open(postgres.Open(s.cfg.DSN), s.gormConfig())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreOpen, err)
		}
		configureConnectionPool(db)
		s.shared = db
		log.Info("Postgres range store connected")
	}

	return &Session{db: s.shared, release: noRelease}, nil
}

func (s *Store) gormConfig() *gorm.Config {
	cfg := &gorm.Config{}
	if s.cfg.Logger != nil {
		cfg.Logger = s.cfg.Logger
	}
	return cfg
}

func (s *Session) Close() error {
	if s == nil || s.release == nil {
		return nil
	}
	err := s.release()
	s.release = nil
	return err
}

func readOnlyDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
}

func noRelease() error {
	return nil
}

func silentLogger() logger.Interface {
	return logger.New(
		log.Default(),
		logger.Config{LogLevel: logger.Silent},
	)
}

// DebugLogger routes gorm's SQL trace through the application logger.
func DebugLogger() logger.Interface {
	return logger.New(
		log.Default(),
		logger.Config{
			LogLevel:                  logger.Info,
			SlowThreshold:             200 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// RangeModels lists the tables a range store is made of, in creation order.
func RangeModels() []any {
	return []any{
		&domain.ASNBlock{},
		&domain.CityBlock{},
		&domain.CityLocation{},
		&domain.CountryBlock{},
		&domain.CountryLocation{},
	}
}

func configureConnectionPool(db *gorm.DB) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("database: get sql.DB", "error", err)
		return
	}

	maxOpen := support.GetEnvInt("GEOIP_DB_MAX_OPEN_CONNS", 32)
	maxIdle := support.GetEnvInt("GEOIP_DB_MAX_IDLE_CONNS", maxOpen)
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}

	connLifetimeSeconds := support.GetEnvInt("GEOIP_DB_CONN_MAX_LIFETIME", 300)
	connIdleSeconds := support.GetEnvInt("GEOIP_DB_CONN_MAX_IDLE_TIME", 60)

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if connLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(connLifetimeSeconds) * time.Second)
	}
	if connIdleSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(connIdleSeconds) * time.Second)
	}
}
