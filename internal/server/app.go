// Package server wires the knowledgehub process together: configuration,
// logging, the PostgreSQL pool and migrations, the object store gateway and
// the HTTP server, and runs it until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/knowledgehub/internal/logging"
	"github.com/dmitrijs2005/knowledgehub/internal/server/auth"
	"github.com/dmitrijs2005/knowledgehub/internal/server/config"
	"github.com/dmitrijs2005/knowledgehub/internal/server/httpserver"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/knowledgehub/internal/server/services"
	"github.com/dmitrijs2005/knowledgehub/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.Server
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// NewApp connects to the database, applies migrations and builds the HTTP
// server. Object storage is optional: without it the catalog still serves,
// and file operations answer "storage not available".
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Params{Level: c.LogLevel, File: c.LogFile})

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("db ping error: %w", err), db.Close())
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrations error: %w", err), db.Close())
	}

	store, err := newObjectStore(ctx, c, logger)
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	codec, err := auth.NewTokenCodec([]byte(c.SessionSecret))
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpserver.NewMetrics("knowledgehub", "http", reg)

	srv := httpserver.New(httpserver.Params{
		Addr:          c.HTTPAddr,
		Logger:        logger,
		Auth:          services.NewAuthService(db, rm, codec),
		Sessions:      codec,
		Catalog:       services.NewCatalogService(db, rm),
		Notes:         services.NewNoteService(db, rm, store, logger),
		DB:            db,
		Metrics:       metrics,
		Gatherer:      reg,
		MaxUploadSize: c.MaxUploadSize,
		LoginLimiter:  httpserver.NewRateLimiter(c.LoginRatePerMinute, c.LoginBurst, metrics),
	})

	return &App{config: c, logger: logger, db: db, http: srv}, nil
}

// newObjectStore returns a nil interface, not a nil *storage.Gateway, when
// storage is not configured.
func newObjectStore(ctx context.Context, c *config.Config, l logging.Logger) (services.ObjectStore, error) {
	if !c.StorageConfigured() {
		l.Warn(ctx, "object storage is not configured; uploads and downloads are disabled")
		return nil, nil
	}
	g, err := storage.New(ctx, storage.Params{
		Endpoint:        c.S3Endpoint(),
		Region:          c.S3Region,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		Bucket:          c.S3Bucket,
		CustomDomain:    c.S3CustomDomain,
		UsePathStyle:    c.S3BaseEndpoint != "",
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	return g, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then shuts the HTTP
// server down and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.http.Run(ctx, app.config.ShutdownTimeout)
	err = multierr.Append(err, app.db.Close())

	app.logger.Info(context.Background(), "App stopped")
	return err
}
