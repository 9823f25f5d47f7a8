package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/diewo77/go-parcelles/internal/assets"
	"github.com/diewo77/go-parcelles/internal/config"
	"github.com/diewo77/go-parcelles/internal/export"
	"github.com/diewo77/go-parcelles/internal/logging"
	"github.com/diewo77/go-parcelles/internal/services"
	"github.com/diewo77/go-parcelles/internal/store"
	"github.com/diewo77/go-parcelles/internal/store/kv"
	"github.com/diewo77/go-parcelles/internal/store/sqlite"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Env)

	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed")
		return
	}

	manager := assets.NewManager(
		cfg.PhotosDir(),
		cfg.CacheDir(),
		assets.SaveMode(cfg.PhotoSaveMode),
		assets.StaticPermissions{Granted: cfg.GalleryGranted},
		assets.NewDirLibrary(cfg.GalleryDir()),
		log,
	)
	exporter := export.NewExporter(cfg.ExportsDir(), nil, log)
	svc := services.NewParcelleService(st, manager, exporter, log)

	app := NewApp(svc)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      withLogging(app, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped gracefully")
}

// openStore selects the persistence backend from config. The sqlite
// backend migrates on startup; the kv backend needs no preparation.
func openStore(cfg config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			return nil, err
		}
		return sqlite.New(db), nil
	default:
		return kv.New(cfg.StorePath, log), nil
	}
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
