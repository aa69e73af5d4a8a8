// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/oblog-go/internal/config"
	"github.com/olegiv/oblog-go/internal/content"
	"github.com/olegiv/oblog-go/internal/handler"
	"github.com/olegiv/oblog-go/internal/logging"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/oauth"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/version"
	"github.com/olegiv/oblog-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   string
	appGitCommit string
	appBuildTime string
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oBlog - multi-user blogging service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_REDIS_URL             Redis URL, the system of record (default: redis://localhost:6379/0)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_SERVER_PORT           Server port (default: 9000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_LOG_LEVEL             Log level: debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_GITHUB_CLIENT_ID      GitHub OAuth client ID (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBLOG_GITHUB_CLIENT_SECRET  GitHub OAuth client secret (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("oblog %s\n", version.New(appVersion, appGitCommit, appBuildTime))
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})

	// Connect to Redis: the sole shared mutable resource, injected into
	// every component rather than held as a singleton.
	slog.Info("connecting to redis", "url", cfg.RedisURL)
	kv, err := store.NewRedisKV(store.RedisOptions{
		URL:            cfg.RedisURL,
		Prefix:         cfg.KeyPrefix,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("error closing redis connection", "error", err)
		}
	}()

	// Audit event log shares the pool; WARN+ slog records feed into it.
	events := service.NewEventService(kv.Client())
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, events)))

	// Stores
	users := store.NewUserStore(kv)
	contentStore := content.NewStore(kv)

	// Sessions: redis-backed, 30-minute sliding expiry.
	sessionManager := session.New(kv.Client(), cfg.IsDevelopment())

	// Renderer over embedded templates
	renderer, err := render.New(web.Templates)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Federated login client (disabled without credentials)
	var oauthClient *oauth.Client
	if cfg.GitHubEnabled() {
		oauthClient = oauth.NewClient(oauth.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
		})
	} else {
		slog.Info("federated login disabled: no GitHub OAuth credentials configured")
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Handlers
	authHandler := handler.NewAuthHandler(users, sessionManager, events, loginProtection)
	postHandler := handler.NewPostHandler(contentStore, users, renderer, sessionManager, events)
	frontendHandler := handler.NewFrontendHandler(renderer, sessionManager, cfg.GitHubEnabled())

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.RequestPath)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	// Public routes
	r.Get(handler.RouteRoot, frontendHandler.Index)
	r.Post(handler.RouteRegister, authHandler.Register)
	r.Post(handler.RouteLogin, authHandler.Login)

	if oauthClient != nil {
		oauthHandler := handler.NewOAuthHandler(oauthClient, users, sessionManager, events)
		r.Get(handler.RouteAuthGitHub, oauthHandler.GitHubRedirect)
		r.Get(handler.RouteAuthGitHubCallback, oauthHandler.GitHubCallback)
	}

	// Authenticated routes. CSRF verification wraps create and comment
	// only; listing is read-only and delete relies on the ownership
	// check alone, matching the original contract.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(sessionManager))

		r.Get(handler.RouteMain, postHandler.Main)
		r.Post(handler.RouteMainDelete, postHandler.DeletePost)
		r.Post(handler.RouteLogout, authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.VerifyCSRF(sessionManager))
			r.Post(handler.RouteMainCreate, postHandler.CreatePost)
			r.Post(handler.RouteMainComment, postHandler.CreateComment)
		})
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("preparing static assets: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Hourly audit log trim
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := events.Trim(ctx, int64(cfg.EventRetention)); err != nil {
			slog.Error("trimming event log failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("registering trim job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", version.New(appVersion, appGitCommit, appBuildTime),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
