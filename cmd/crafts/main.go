package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/crafts/internal/api"
	"github.com/erazemk/crafts/internal/config"
	"github.com/erazemk/crafts/internal/db"
	"github.com/erazemk/crafts/internal/metrics"
	"github.com/erazemk/crafts/internal/store"
	"github.com/erazemk/crafts/internal/upload"
	"github.com/erazemk/crafts/internal/web"
)

func main() {
	fs := flag.NewFlagSet("crafts", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: crafts [flags]

Flags:
  -c, -config <path>      YAML config file (default: $CRAFTS_CONFIG)
  -a, -addr <host:port>   listen address, overrides config (default: :3005)
  -l, -log <path>         log file path, overrides config
  -h, -help               show this help and exit

Every setting can also be given as a CRAFTS_* environment variable or in .env.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	closeLog, err := setupLogger(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	crafts, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	uploads, err := upload.New(cfg.UploadDir,
		upload.WithNaming(cfg.UploadNaming),
		upload.WithMaxDimension(cfg.UploadMaxDimension),
		upload.WithRequireImage(cfg.UploadRequireImage),
	)
	if err != nil {
		return fmt.Errorf("setting up uploads: %w", err)
	}
	slog.Info("uploads ready", "dir", uploads.Dir(), "naming", cfg.UploadNaming)

	// Set up routers.
	apiRouter := api.NewRouter(crafts, uploads, cfg.UploadMaxBytes)
	webRouter, err := web.NewRouter(crafts, uploads.Dir())
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /healthz", &api.HealthHandler{Store: crafts})
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(api.CORSMiddleware(cfg.CORSAllowedOrigin)(mux))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing store")
	return nil
}

// openStore connects the configured storage backend. The returned function
// releases it.
func openStore(cfg *config.Config) (store.Crafts, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()

		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("database ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)

		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.Client().Disconnect(ctx); err != nil {
				slog.Error("failed to disconnect from mongo", "error", err)
			}
		}
		return store.NewMongo(database, cfg.MongoCollection), closeFn, nil

	case config.DriverSQLite:
		database, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("ensuring database schema: %w", err)
		}
		slog.Info("database ready", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)

		return store.NewSQLite(database), func() { database.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, cfg.StoreDriver)
	}
}
