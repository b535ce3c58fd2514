package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"burgerexpress/internal/config"
	"burgerexpress/internal/db"
	"burgerexpress/internal/db/mock"
	"burgerexpress/internal/images"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/server"
	"burgerexpress/internal/store"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	setLogFormatFunc    = applog.SetFormat
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newFileBackendFunc  = func(dir string) (store.Backend, error) { return store.NewFileBackend(dir) }
	seedFunc            = store.Seed
	newS3StoreFunc      = func(ctx context.Context, cfg config.ImagesConfig) (images.Store, error) {
		return images.NewS3Store(ctx, cfg)
	}
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}
	if cfg.Logging.Format != "" {
		if err := setLogFormatFunc(cfg.Logging.Format); err != nil {
			applog.Error(ctx, "invalid log format", "format", cfg.Logging.Format, "error", err)
			return 1
		}
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		applog.Error(ctx, "failed to open record store", "driver", cfg.Storage.Driver, "error", err)
		return 1
	}
	if err := seedFunc(ctx, backend); err != nil {
		applog.Error(ctx, "failed to seed record store", "error", err)
		return 1
	}

	imageStore, imageDir, err := openImageStore(ctx, cfg.Images)
	if err != nil {
		applog.Error(ctx, "failed to prepare image store", "driver", cfg.Images.Driver, "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Records:       store.New(backend),
		Images:        imageStore,
		ImageDir:      imageDir,
		AdminPassword: cfg.Auth.AdminPassword,
	})
	if err != nil {
		applog.Error(ctx, "failed to create server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "context cancelled, shutting down http server")
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	applog.Info(ctx, "http server stopped")
	return 0
}

// openBackend selects the record store: the demo sqlite database when mocking,
// the configured database for the database driver, and JSON files otherwise.
func openBackend(ctx context.Context, cfg config.Config) (store.Backend, error) {
	var database *gorm.DB
	var err error
	switch {
	case cfg.Database.UseMock:
		applog.Info(ctx, "using mock database")
		database, err = newMockDatabaseFunc(ctx)
	case cfg.Storage.Driver == config.StorageDriverDatabase:
		applog.Info(ctx, "using database record store")
		database, err = configureDatabase(cfg.Database)
	default:
		applog.Info(ctx, "using file record store", "dir", cfg.Storage.DataDir)
		return newFileBackendFunc(cfg.Storage.DataDir)
	}
	if err != nil {
		return nil, err
	}
	return store.NewGormBackend(database)
}

func openImageStore(ctx context.Context, cfg config.ImagesConfig) (images.Store, string, error) {
	switch cfg.Driver {
	case config.ImageDriverS3:
		applog.Info(ctx, "using s3 image store", "bucket", cfg.Bucket)
		imageStore, err := newS3StoreFunc(ctx, cfg)
		return imageStore, "", err
	case config.ImageDriverLocal, "":
		localStore, err := images.NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, "", err
		}
		applog.Info(ctx, "using local image store", "dir", cfg.Dir)
		return localStore, cfg.Dir, nil
	default:
		return nil, "", fmt.Errorf("unknown image driver: %s", cfg.Driver)
	}
}
