package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/handler"
	"github.com/trailerseerr/internal/scheduler"
	"github.com/trailerseerr/internal/version"
	"github.com/trailerseerr/pkg/logger"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the availability tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(ctx, runOnStart)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Poll tracked titles immediately on startup")
	return cmd
}

func serve(ctx *commandContext, runOnStart bool) error {
	isDev := os.Getenv("ENV") != "production"
	version.PrintBanner(nil)

	cfg := ctx.current()
	a := ctx.buildApp()

	s := a.settings.GetAll()
	if s.OverseerrURL == "" || s.APIKey == "" {
		logger.Warn("⚠️  Overseerr not configured - set overseerr.url and overseerr.api_key")
	} else {
		logger.Infof("🔗 Overseerr: %s", s.OverseerrURL)
	}

	if cfg.Apprise.BaseURL != "" {
		logger.Infof("🔔 Notifications: apprise (key=%s, tag=%s)", cfg.Apprise.Key, cfg.Apprise.Tag)
	} else {
		logger.Info("🔔 Notifications: log only")
	}

	if ctx.manager != nil {
		ctx.manager.OnChange(func(old, cur *config.Config) {
			if !isDev && old.Debug != cur.Debug {
				logger.SetDebug(cur.Debug)
			}
		})
	}

	// Initialize scheduler
	var sched *scheduler.Scheduler
	if a.tracker != nil {
		sched = scheduler.New(a.tracker)
		if err := sched.Start(cfg.Tracker.Cron); err != nil {
			return fmt.Errorf("scheduler error: %w", err)
		}
		logger.Infof("👁️  Tracker: enabled (cron=%s)", cfg.Tracker.Cron)
	} else {
		logger.Info("👁️  Tracker: disabled")
	}

	// Initialize HTTP server
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestID())
	router.Use(handler.RequestLogger())

	h := handler.New(handler.Deps{
		Settings:   a.settings,
		Overseerr:  a.overseerr,
		Requester:  a.requester,
		Dispatcher: a.dispatcher,
		Fetcher:    a.fetcher,
		Tracker:    a.tracker,
		Scheduler:  sched,
	})
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Infof("🌐 API server: http://localhost:%d", cfg.Server.Port)
	logger.Info("")
	logger.Info("────────────────────────────────────────────────────────────────")
	logger.Info("✅  Ready!")
	logger.Info("────────────────────────────────────────────────────────────────")

	if runOnStart && sched != nil {
		logger.Info("")
		logger.Info("🚀 Running initial poll (--run-on-start)...")
		sched.RunNow()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if sched != nil {
			sched.Stop()
		}
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("")
	logger.Info("🛑 Shutting down...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("❌ Shutdown error: %v", err)
	}

	logger.Info("👋 Goodbye!")
	return nil
}
