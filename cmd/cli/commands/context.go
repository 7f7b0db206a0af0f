package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/internal/config"
	"github.com/jakechorley/group-allocation/pkg/clients/sheetsclient"
	"github.com/jakechorley/group-allocation/pkg/db"
	"github.com/jakechorley/group-allocation/pkg/postgres"
	"github.com/jakechorley/group-allocation/pkg/sqlite"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env    string
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context

	storeOnce  sync.Once
	store      db.RunStore
	storeErr   error
	closeStore func() error

	sheetsOnce   sync.Once
	sheetsClient *sheetsclient.Client
	sheetsErr    error
}

// SheetsClient connects to Google Sheets on first use. Commands that never
// touch a sheet never load OAuth credentials.
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	app.sheetsOnce.Do(func() {
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
		if err != nil {
			app.sheetsErr = fmt.Errorf("failed to load OAuth client config: %w", err)
			return
		}

		app.Logger.Info("Initializing sheets client")
		app.sheetsClient, app.sheetsErr = sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
		if app.sheetsErr != nil {
			app.sheetsErr = fmt.Errorf("failed to create sheets client: %w", app.sheetsErr)
		}
	})
	return app.sheetsClient, app.sheetsErr
}

// RunStore opens the configured run store on first use. Commands that never
// read or record runs never connect to a database.
func (app *AppContext) RunStore() (db.RunStore, error) {
	app.storeOnce.Do(func() {
		app.store, app.closeStore, app.storeErr = OpenRunStore(app.Ctx, app.Cfg.Database, app.Logger)
		if app.storeErr == nil {
			app.Logger.Debug("Run store ready")
		}
	})
	return app.store, app.storeErr
}

// Close releases the run store if one was opened
func (app *AppContext) Close() error {
	if app.closeStore == nil {
		return nil
	}
	return app.closeStore()
}

// OpenRunStore picks Postgres when a URL is configured, then SQLite when a
// path is configured, and otherwise an in-memory store
func OpenRunStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.RunStore, func() error, error) {
	switch {
	case cfg.URL != "":
		logger.Info("Connecting to postgres run store")
		store, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres run store: %w", err)
		}
		return store, func() error { store.Close(); return nil }, nil

	case cfg.SQLitePath != "":
		logger.Info("Opening sqlite run store", zap.String("path", cfg.SQLitePath))
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite run store: %w", err)
		}
		return store, store.Close, nil

	default:
		logger.Debug("No database configured, run history is kept in memory")
		return db.NewMemoryStore(), func() error { return nil }, nil
	}
}

// LogChangedFlags records the flags given on the command line
func LogChangedFlags(logger *zap.Logger, flags *pflag.FlagSet) {
	flags.Visit(func(flag *pflag.Flag) {
		logger.Debug("Flag set", zap.String("flag", flag.Name), zap.String("value", flag.Value.String()))
	})
}
