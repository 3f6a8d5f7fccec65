package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"photo-triage/capture"
	"photo-triage/export"
	"photo-triage/review"
	"photo-triage/storage"
)

// App is the composition root, constructed once at process start. Every
// screen works against the same Store, Gate and Importer instances; nothing
// else holds collection state beyond per-screen snapshots.
type App struct {
	Config   Config
	Log      *zap.Logger
	Provider storage.Provider
	Store    *storage.Store
	Gate     *export.Gate
	Importer *capture.Importer
}

// New builds the app with a production logger. The platform camera is not
// constructible here; assign App.Importer.Device before using Capture.
func New(cfg Config) (*App, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return NewWithLogger(cfg, log)
}

// NewWithLogger builds the app around an existing logger: storage backend
// (with the memory fallback), store, export gate and importer, then
// hydrates the collection.
func NewWithLogger(cfg Config, log *zap.Logger) (*App, error) {
	provider := openProvider(cfg, log)

	store := storage.NewStore(provider, storage.WithLogger(log))
	store.Load(context.Background())

	gate := export.NewGate(
		&export.DirPermissionGate{Dir: cfg.LibraryDir},
		&export.DirLibrary{Directory: cfg.LibraryDir},
		export.WithLogger(log),
	)

	importer := &capture.Importer{
		Store:  store,
		Thumbs: &capture.Thumbnailer{Dir: cfg.ThumbDir, Size: cfg.ThumbSize},
		Log:    log,
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Provider: provider,
		Store:    store,
		Gate:     gate,
		Importer: importer,
	}, nil
}

// openProvider builds the configured backend. A backend that cannot be
// opened degrades to the in-memory provider so the app still runs; the
// selection happens once, never per call.
func openProvider(cfg Config, log *zap.Logger) storage.Provider {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryProvider()
	case "sqlite":
		p, err := storage.NewSQLiteProvider(cfg.SQLitePath)
		if err != nil {
			log.Warn("sqlite backend unavailable, falling back to memory",
				zap.Error(err),
				zap.String("path", cfg.SQLitePath),
			)
			return storage.NewMemoryProvider()
		}
		return p
	case "mongo":
		p := &storage.MongoProvider{Log: log}
		if err := p.Connect(cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection); err != nil {
			log.Warn("mongo backend unavailable, falling back to memory", zap.Error(err))
			return storage.NewMemoryProvider()
		}
		return p
	default:
		p, err := storage.NewFileProvider(cfg.DataDir)
		if err != nil {
			log.Warn("file backend unavailable, falling back to memory",
				zap.Error(err),
				zap.String("dir", cfg.DataDir),
			)
			return storage.NewMemoryProvider()
		}
		return p
	}
}

// NewSession opens a review session over the app's store and export gate.
func (a *App) NewSession() *review.Session {
	return review.NewSession(a.Store, a.Gate, review.WithSessionLogger(a.Log))
}

// Close drains pending writes and releases the storage backend.
func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return err
	}
	if err := a.Provider.Close(); err != nil {
		return fmt.Errorf("close storage provider: %w", err)
	}
	_ = a.Log.Sync()
	return nil
}
