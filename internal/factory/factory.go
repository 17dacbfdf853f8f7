package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/wordgrid-go/internal/dependencies/clock"
	"github.com/mcoot/wordgrid-go/internal/dependencies/random"
	"github.com/mcoot/wordgrid-go/internal/services/auth"
	"github.com/mcoot/wordgrid-go/internal/services/dictionary"
	"github.com/mcoot/wordgrid-go/internal/services/game"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
	"github.com/mcoot/wordgrid-go/internal/services/rack"
	"github.com/mcoot/wordgrid-go/internal/services/scoring"
	"github.com/mcoot/wordgrid-go/internal/storage"
	"github.com/mcoot/wordgrid-go/internal/storage/memory"
	redisstorage "github.com/mcoot/wordgrid-go/internal/storage/redis"
	sqlitestorage "github.com/mcoot/wordgrid-go/internal/storage/sqlite"
	"github.com/mcoot/wordgrid-go/internal/stream"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

var _ game.Notifier = (*stream.Broadcaster)(nil)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService  *dictionary.Service
	ScoringService     *scoring.Service
	RackGenerator      *rack.Generator
	Engine             *game.Engine
	LeaderboardService *leaderboard.Service
	GameController     *game.Controller
	AuthService        *auth.Service

	// Live updates
	HubManager  *stream.HubManager
	Broadcaster *stream.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the path to a word list file (optional)
	// If empty, the built-in word list is loaded
	DictionaryPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds SQLite settings (optional, defaults apply if nil)
	SQLiteConfig *sqlitestorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, authCfg, logger)

	if cfg.DictionaryPath != "" {
		err = app.DictionaryService.LoadFromFile(context.Background(), cfg.DictionaryPath)
	} else {
		err = app.DictionaryService.LoadDefault()
	}
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}
	logger.Info("dictionary loaded", slog.Int("words", app.DictionaryService.WordCount()))

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		return sqlitestorage.New(sqliteCfg)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	dictService := dictionary.New(store)
	scoringService := scoring.New(dictService)
	rackGenerator := rack.NewGenerator(rnd)
	engine := game.NewEngine(scoringService, rackGenerator)
	leaderboardService := leaderboard.New(store, clk, logger)
	hubManager := stream.NewHubManager(logger)
	broadcaster := stream.NewBroadcaster(hubManager, logger)
	gameController := game.NewController(store, engine, leaderboardService, broadcaster, clk, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		DictionaryService:  dictService,
		ScoringService:     scoringService,
		RackGenerator:      rackGenerator,
		Engine:             engine,
		LeaderboardService: leaderboardService,
		GameController:     gameController,
		AuthService:        authService,
		HubManager:         hubManager,
		Broadcaster:        broadcaster,
	}
}

// Close stops live update hubs and releases the storage backend
func (a *App) Close() error {
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
