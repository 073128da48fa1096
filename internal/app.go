// Package internal contains core application wiring
package internal

import (
	"fmt"

	"github.com/karloscodes/cartridge"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/geo"
	"portfolio/internal/jobs"
)

// Application wraps cartridge.Application with app-specific components
type Application struct {
	*cartridge.Application
	DBManager *database.DBManager
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	return NewAppWithConfig(config.GetConfig())
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	return newApp(cfg, MountAppRoutes)
}

// NewAppWithRoutes creates a new application with a custom route mounting
// function; tests use this to mount a subset of routes.
func NewAppWithRoutes(cfg *config.Config, routeMount func(*cartridge.Server)) (*Application, error) {
	return newApp(cfg, routeMount)
}

func newApp(cfg *config.Config, routeMount func(*cartridge.Server)) (*Application, error) {
	logger := cartridge.NewLogger(cfg, nil)

	geo.InitLogger(logger)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scheduler, err := jobs.NewScheduler(dbManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jobs: %w", err)
	}

	// The tracker posts cross-site from tracked pages, so the default
	// Sec-Fetch-Site allowed values would reject every ingestion request.
	serverCfg := cartridge.DefaultServerConfig()
	serverCfg.Config = cfg
	serverCfg.Logger = logger
	serverCfg.DBManager = dbManager
	serverCfg.SecFetchSiteAllowedValues = []string{"cross-site", "same-site", "same-origin"}

	app, err := cartridge.NewApplication(cartridge.ApplicationOptions{
		Config:            cfg,
		Logger:            logger,
		DBManager:         dbManager,
		ServerConfig:      serverCfg,
		RouteMountFunc:    routeMount,
		BackgroundWorkers: []cartridge.BackgroundWorker{scheduler},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return &Application{
		Application: app,
		DBManager:   dbManager,
	}, nil
}
