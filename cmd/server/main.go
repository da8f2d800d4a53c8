package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"content-hub/internal/config"
	"content-hub/internal/db"
	"content-hub/internal/handlers"
	"content-hub/internal/logger"
	"content-hub/internal/middleware"
	"content-hub/internal/page"
	"content-hub/internal/videos"
	"content-hub/web"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New("content-server", cfg.LogLevel, cfg.LogFormat)
	log.WithField("commit", CommitSHA).Info("Starting content server")

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	videoClient, err := videos.NewClient(cfg.VideoServiceURL, cfg.VideoServiceTimeout, log)
	if err != nil {
		return fmt.Errorf("failed to initialize video client: %w", err)
	}

	templates, err := web.ParseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	sessions := page.NewRegistry(cfg.SessionTTL, cfg.SessionMax, log)
	defer sessions.Close()

	h := handlers.New(templates, asynqClient, db.NewEpisodeRepository(database), videoClient, sessions, handlers.Config{
		Render: page.Options{
			Location:       cfg.DisplayTimezone,
			PlayerEmbedURL: cfg.PlayerEmbedURL,
		},
		BaseURL: cfg.BaseURL,
	}, log)

	leadLimiter := middleware.NewRateLimiterMiddleware(rate.Limit(cfg.LeadRateLimit), cfg.LeadRateBurst, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(h, leadLimiter, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("Received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Error during server shutdown")
		}
	}

	log.Info("Content server stopped")
	return nil
}

func newRouter(h *handlers.Handlers, leadLimiter *middleware.RateLimiterMiddleware, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	r.Handle("/", http.RedirectHandler("/episodes", http.StatusFound)).Methods(http.MethodGet)
	r.HandleFunc("/episodes", h.ServeEpisodes).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{session}", h.ServeSession).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{session}/tab", h.SelectTab).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/episodes/{session}", h.GetSessionView).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{session}", h.CloseSession).Methods(http.MethodDelete)
	api.Handle("/videos/{videoID}/leads", leadLimiter.Middleware(http.HandlerFunc(h.CaptureLead))).Methods(http.MethodPost)

	r.HandleFunc("/feed.xml", h.GetRSSFeed).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
