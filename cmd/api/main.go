//	@title			Guest Drop API
//	@version		1.0
//	@description	Issues short-lived upload URLs for event photos and videos.
//
//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/guestdrop/service/internal/config"
	"github.com/guestdrop/service/internal/logger"
	appMiddleware "github.com/guestdrop/service/internal/middleware"
	"github.com/guestdrop/service/internal/response"
	"github.com/guestdrop/service/internal/storage"
	"github.com/guestdrop/service/internal/upload"

	_ "github.com/guestdrop/service/docs/swagger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	// The storage client is built lazily on the first issued URL.
	store := storage.NewMinioStorage(storage.ClientOptions{
		Endpoint:  cfg.Endpoint(),
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Region:    cfg.StorageRegion,
		UseSSL:    cfg.StorageUseSSL,
	}, cfg.StorageBucket)

	// Wire dependencies: storage → service → handler
	uploadSvc := upload.NewService(store, cfg, log)
	uploadHandler := upload.NewHandler(uploadSvc)

	r := newRouter(cfg, log, uploadHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}

func newRouter(cfg *config.Config, log *logger.Logger, uploadHandler *upload.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(appMiddleware.NewIPRateLimiter(cfg.RateLimitPerMinute, log).Limit)
		}
		r.Post("/upload-url", uploadHandler.IssueURL)
	})

	return r
}
