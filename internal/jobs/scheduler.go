// Package jobs runs the periodic maintenance work: WAL checkpoints so the
// sqlite file stays compact, and GeoLite2 database reloads so a freshly
// downloaded file is picked up without a restart.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/geo"
)

const geoReloadInterval = 24 * time.Hour

// Scheduler runs the background jobs. Implements cartridge.BackgroundWorker.
type Scheduler struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.Config
	isRunning bool

	// Mutex to prevent concurrent job executions
	processingMutex sync.Mutex
	isProcessing    bool

	maintenanceTicker *time.Ticker
	geoTicker         *time.Ticker
}

func NewScheduler(dbManager *database.DBManager, logger *slog.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		dbManager: dbManager,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		cfg:       config.GetConfig(),
	}, nil
}

// executeJobSafely runs a job only if no other job is currently executing
func (s *Scheduler) executeJobSafely(jobName string, jobFunc func() error) {
	s.processingMutex.Lock()
	if s.isProcessing {
		s.logger.Debug("Skipping job execution - previous job still running", slog.String("job", jobName))
		s.processingMutex.Unlock()
		return
	}
	s.isProcessing = true
	s.processingMutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic recovered in background job",
				slog.String("job", jobName),
				slog.Any("panic", r))
		}

		s.processingMutex.Lock()
		s.isProcessing = false
		s.processingMutex.Unlock()
	}()

	if err := jobFunc(); err != nil {
		s.logger.Error("Error executing job", slog.String("job", jobName), slog.Any("error", err))
	}
}

// Start begins all background jobs
func (s *Scheduler) Start() error {
	if s.isRunning {
		s.logger.Info("Background jobs already running.")
		return nil
	}

	s.logger.Info("Starting background jobs...")
	s.isRunning = true

	s.startMaintenanceJob()
	s.startGeoReloadJob()

	return nil
}

func (s *Scheduler) startMaintenanceJob() {
	interval := time.Duration(s.cfg.JobIntervalSeconds) * time.Second
	s.logger.Info("Starting maintenance job", slog.Duration("interval", interval))
	s.maintenanceTicker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-s.maintenanceTicker.C:
				s.executeJobSafely("maintenance", s.runMaintenance)
			case <-s.ctx.Done():
				s.logger.Info("Maintenance job stopped")
				return
			}
		}
	}()
}

func (s *Scheduler) startGeoReloadJob() {
	s.logger.Info("Starting GeoLite2 reload job", slog.Duration("interval", geoReloadInterval))
	s.geoTicker = time.NewTicker(geoReloadInterval)

	go func() {
		for {
			select {
			case <-s.geoTicker.C:
				s.executeJobSafely("geo_reload", s.runGeoReload)
			case <-s.ctx.Done():
				s.logger.Info("GeoLite2 reload job stopped")
				return
			}
		}
	}()
}

// runMaintenance checkpoints the WAL so the main database file absorbs
// accumulated writes.
func (s *Scheduler) runMaintenance() error {
	if err := s.dbManager.CheckpointWAL("PASSIVE"); err != nil {
		return err
	}
	s.logger.Debug("WAL checkpoint completed")
	return nil
}

func (s *Scheduler) runGeoReload() error {
	geo.Reload()
	return nil
}

// Stop halts all background jobs.
// Implements cartridge.BackgroundWorker interface.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background jobs...")

	if s.maintenanceTicker != nil {
		s.maintenanceTicker.Stop()
	}
	if s.geoTicker != nil {
		s.geoTicker.Stop()
	}

	s.cancel()
	s.isRunning = false
	s.logger.Info("Background jobs stopped")
}

// IsRunning returns whether jobs are currently running
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}
