package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/afiliados/afiliados-go/internal/config"
	"github.com/afiliados/afiliados-go/internal/crypto"
	"github.com/afiliados/afiliados-go/internal/handler"
	"github.com/afiliados/afiliados-go/internal/repository"
	"github.com/afiliados/afiliados-go/internal/routes"
	"github.com/afiliados/afiliados-go/internal/service"
	"github.com/afiliados/afiliados-go/internal/session"
	"github.com/afiliados/afiliados-go/internal/storage"
	"github.com/afiliados/afiliados-go/internal/view"
)

// photoStore is what the affiliate workflow and the templates need from a
// photo backend.
type photoStore interface {
	service.PhotoStore
	URL(name string) string
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	credentials, affiliates, db := openStores(ctx, cfg)
	if db != nil {
		defer db.Close()
	}

	photos, uploadDir := openPhotoStore(ctx, cfg)

	renderer, err := view.New(photos.URL)
	if err != nil {
		slog.Error("parsing templates", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(credentials, crypto.NewPasswordHasher(crypto.DefaultParams()))
	affiliateService := service.NewAffiliateService(affiliates, photos)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Env == "production")

	r := routes.New(ctx, routes.Options{
		RequireAuth:    cfg.RequireAuth,
		TrustProxy:     cfg.TrustProxy,
		LoginRateRPS:   cfg.LoginRateRPS,
		LoginRateBurst: cfg.LoginRateBurst,
		UploadDir:      uploadDir,
	}, sessions, authService, routes.Handlers{
		Home:       handler.NewHomeHandler(renderer),
		Auth:       handler.NewAuthHandler(authService, sessions, renderer),
		Affiliates: handler.NewAffiliateHandler(affiliateService, cfg.MaxUploadBytes, renderer),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage,
			"photo_backend", cfg.PhotoBackend, "require_auth", cfg.RequireAuth)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openStores returns the credential and affiliate stores for cfg.Storage.
// The *sql.DB is nil for in-memory storage.
func openStores(ctx context.Context, cfg config.Config) (service.CredentialStore, service.AffiliateStore, *sql.DB) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemoryCredentialRepository(), repository.NewMemoryAffiliateRepository(), nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if cfg.Migrate {
		if err := repository.Migrate(ctx, db); err != nil {
			slog.Error("running migrations", "error", err)
			os.Exit(1)
		}
	}

	return repository.NewCredentialRepository(db), repository.NewAffiliateRepository(db), db
}

// openPhotoStore returns the configured photo backend and, for the disk
// backend, the directory to serve.
func openPhotoStore(ctx context.Context, cfg config.Config) (photoStore, string) {
	if cfg.PhotoBackend == config.PhotoBackendS3 {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			slog.Error("configuring s3 photo store", "error", err)
			os.Exit(1)
		}
		return s3Store, ""
	}

	disk, err := storage.NewDiskStore(cfg.UploadDir, routes.UploadsPath)
	if err != nil {
		slog.Error("creating upload directory", "error", err)
		os.Exit(1)
	}
	return disk, disk.Dir()
}
