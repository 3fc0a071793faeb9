// Package app builds the collaborators shared by the dashboard server and
// the CLI from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/archive"
	"github.com/me/shipdesk/internal/auth"
	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/csvimport"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/internal/store"
	"github.com/me/shipdesk/pkg/model"
)

// DBFile is the SQLite database name inside the data directory.
const DBFile = "shipdesk.db"

// App holds the long-lived collaborators. Notifier-bound services are built
// per front end with Auth, Importer and Scanner.
type App struct {
	Config     config.Config
	APIBaseURL string
	DataDir    string
	Store      *store.SQLiteStore
	Sessions   *session.Manager
	Services   *api.Services
	Savers     *forms.Savers
	Manifest   *model.NavigationManifest
	Archiver   archive.Archiver

	logger *slog.Logger
}

// Open resolves the data directory, opens and migrates the local database,
// restores the persisted session and builds the API client. A persisted
// session that cannot be read is logged and ignored.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(ctx, cfg, dir, filepath.Join(dir, DBFile), logger)
}

// OpenAt is Open with an explicit data directory and database path.
// dbPath may be ":memory:".
func OpenAt(ctx context.Context, cfg config.Config, dir, dbPath string, logger *slog.Logger) (*App, error) {
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var persister session.Persister
	switch cfg.SessionBackend {
	case config.SessionBackendSQLite:
		persister = st
	case config.SessionBackendMemory:
		persister = session.NewMemoryStore()
	default:
		persister = session.NewFileStore(dir)
	}
	sessions := session.NewManager(persister, logger)
	if err := sessions.Load(ctx); err != nil {
		logger.Warn("ignoring persisted session", "backend", cfg.SessionBackend, "error", err)
	}

	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = config.ResolveAPIBaseURL(APIHost(cfg))
	}
	svc := api.NewServices(api.NewClient(baseURL, sessions, logger))
	manifest := nav.Default()

	a := &App{
		Config:     cfg,
		APIBaseURL: baseURL,
		DataDir:    dir,
		Store:      st,
		Sessions:   sessions,
		Services:   svc,
		Savers:     forms.NewSavers(svc, manifest),
		Manifest:   manifest,
		logger:     logger,
	}

	if cfg.Archive.Enabled() {
		arch, err := archive.New(ctx, cfg.Archive, logger)
		if err != nil {
			logger.Warn("csv archive disabled", "bucket", cfg.Archive.Bucket, "error", err)
		} else {
			a.Archiver = arch
		}
	}

	logger.Debug("app ready", "data_dir", dir, "api", baseURL, "session_backend", cfg.SessionBackend)
	return a, nil
}

// APIHost returns the hostname used to pick the API base URL: the
// configured host, else the host part of the listen address.
func APIHost(cfg config.Config) string {
	if cfg.Host != "" {
		return cfg.Host
	}
	if host, _, err := net.SplitHostPort(cfg.Addr); err == nil && host != "" {
		return host
	}
	return "localhost"
}

// Auth returns a login service reporting through n.
func (a *App) Auth(n notify.Notifier) *auth.Service {
	return auth.NewService(a.Services.Auth, a.Sessions, n, a.logger)
}

// Importer returns a CSV importer reporting through n.
func (a *App) Importer(n notify.Notifier) *csvimport.Importer {
	return csvimport.NewImporter(a.Services, a.Sessions, csvimport.Options{
		Archiver: a.Archiver,
		Log:      a.Store,
		Notifier: n,
		MaxBytes: a.Config.MaxImportBytes,
	}, a.logger)
}

// Scanner returns a checkpoint scanner reporting through n.
func (a *App) Scanner(n notify.Notifier) *scan.Scanner {
	return scan.NewScanner(a.Services.Checkpoints, a.Sessions, a.Store, n, a.logger)
}

// Close releases the database.
func (a *App) Close() error {
	return a.Store.Close()
}
