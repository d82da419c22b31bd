package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/trailerseerr/internal/client/apprise"
	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/message"
	"github.com/trailerseerr/internal/scrape"
	"github.com/trailerseerr/internal/service/requester"
	"github.com/trailerseerr/internal/service/tracker"
	"github.com/trailerseerr/pkg/logger"
)

const defaultConfigPath = "config/config.yaml"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	manager    *config.Manager // nil when running on defaults
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// configPath returns the config file to load and whether the user named it.
func (c *commandContext) configPath() (string, bool) {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path, true
		}
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path, true
	}
	return defaultConfigPath, false
}

// ensureConfig loads the config once. A missing default config file falls
// back to defaults plus environment; a missing explicit one is an error.
func (c *commandContext) ensureConfig() error {
	c.configOnce.Do(func() {
		path, explicit := c.configPath()

		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
			logger.Warnf("⚠️  No config at %s, using defaults and environment", path)
			c.config = config.Default()
			return
		}

		logger.Infof("📁 Loading config: %s", path)
		mgr, err := config.NewManager(path)
		if err != nil {
			c.configErr = fmt.Errorf("config error: %w", err)
			return
		}
		c.manager = mgr
		c.config = mgr.Get()
	})

	if c.configErr == nil && c.config != nil && os.Getenv("ENV") == "production" {
		logger.SetDebug(c.config.Debug)
	}
	return c.configErr
}

// settings is the live Provider: the hot-reloading manager when a file was
// loaded, otherwise a snapshot of the defaults.
func (c *commandContext) settings() config.Provider {
	if c.manager != nil {
		return c.manager
	}
	return config.Static(c.config.Settings())
}

// current returns the latest config.
func (c *commandContext) current() *config.Config {
	if c.manager != nil {
		return c.manager.Get()
	}
	return c.config
}

// app is the wired service graph shared by the commands.
type app struct {
	settings   config.Provider
	overseerr  *overseerr.Client
	notifier   *apprise.Client
	requester  *requester.Service
	tracker    *tracker.Service
	dispatcher *message.Dispatcher
	fetcher    *scrape.Fetcher
}

func (c *commandContext) buildApp() *app {
	cfg := c.current()
	settings := c.settings()

	client := overseerr.NewClient(settings)
	notifier := apprise.NewClient(cfg.Apprise, settings)
	req := requester.NewService(client, notifier, cfg.Search)

	a := &app{
		settings:   settings,
		overseerr:  client,
		notifier:   notifier,
		requester:  req,
		dispatcher: message.NewDispatcher(req, client, notifier),
		fetcher:    scrape.NewFetcher(cfg.Scrape),
	}

	if cfg.Tracker.Enabled {
		a.tracker = tracker.NewService(client, notifier)
		req.SetObserver(a.tracker)
	}

	return a
}
