// Package app wires the client together.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/outagetracker/internal/api/rest"
	"github.com/dtroode/outagetracker/internal/config"
	"github.com/dtroode/outagetracker/internal/gate"
	"github.com/dtroode/outagetracker/internal/geocode"
	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
	"github.com/dtroode/outagetracker/internal/service"
	"github.com/dtroode/outagetracker/internal/storage"
	boltstore "github.com/dtroode/outagetracker/internal/storage/bolt"
	miniostore "github.com/dtroode/outagetracker/internal/storage/minio"
	pgstore "github.com/dtroode/outagetracker/internal/storage/postgres"
	redisstore "github.com/dtroode/outagetracker/internal/storage/redis"
	"github.com/dtroode/outagetracker/internal/token"
	"github.com/dtroode/outagetracker/internal/transport"
)

// App holds the state containers and their collaborators.
type App struct {
	Store      *storage.Adapter
	Client     *rest.Client
	Session    *service.Session
	Onboarding *service.Onboarding
	Locations  *service.Locations
	Gate       *gate.Watcher
	Geocoder   geocode.Geocoder

	backend model.KeyValueBackend
	logger  *logger.Logger
}

// New opens the configured store and builds the application.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := NewWithBackend(cfg, backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return a, nil
}

// OpenBackend opens the key-value backend selected by cfg.Store.Driver.
func OpenBackend(ctx context.Context, cfg *config.Config) (model.KeyValueBackend, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		s, err := redisstore.NewStore(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := pgstore.NewStore(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return s, nil
	case config.DriverMinio:
		s, err := miniostore.NewStore(ctx, miniostore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			Prefix:    cfg.Minio.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open minio store: %w", err)
		}
		return s, nil
	case config.DriverBolt, "":
		s, err := boltstore.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewWithBackend builds the application on an already opened backend.
// The App takes ownership of backend.
func NewWithBackend(cfg *config.Config, backend model.KeyValueBackend, logger *logger.Logger) (*App, error) {
	store := storage.NewAdapter(backend, logger)

	base, err := transport.FromConfig(cfg.API.EnableTLS, cfg.API.CAFile).Transport()
	if err != nil {
		return nil, fmt.Errorf("failed to build transport: %w", err)
	}

	client, err := rest.New(cfg.API.URL, store, base, cfg.API.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	session := service.NewSession(client, store, token.NewJWT(), logger)
	client.OnUnauthorized(session.Invalidate)

	onboarding := service.NewOnboarding(store, logger)
	locations := service.NewLocations(client, session, logger)

	return &App{
		Store:      store,
		Client:     client,
		Session:    session,
		Onboarding: onboarding,
		Locations:  locations,
		Gate:       gate.NewWatcher(onboarding, session, locations, logger),
		Geocoder:   geocode.NewGoogle(cfg.Geocoder.URL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout, nil, logger),
		backend:    backend,
		logger:     logger,
	}, nil
}

// Start loads persisted state. Onboarding and session restore run
// concurrently; the location collection follows the session.
func (a *App) Start(ctx context.Context) error {
	a.Locations.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Onboarding.Load(gctx)
		return nil
	})
	g.Go(func() error {
		return a.Session.Restore(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	a.Locations.Wait()

	a.logger.Info("App: started",
		"session", a.Session.Snapshot().State.String(),
		"gate", a.Gate.Current().String())

	return nil
}

// Close releases the store and stops background work.
func (a *App) Close() error {
	a.Gate.Close()
	a.Locations.Stop()

	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
