package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-proxy/internal/observability"
	"github.com/i474232898/weather-proxy/internal/store"
)

// Backupper copies the vote ledger to another backend.
type Backupper interface {
	Backup(dst store.Backend) (int, error)
}

// Scheduler periodically backs up the vote ledger.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ledger    Backupper
	target    store.Backend
	interval  time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a new Scheduler. A nil target disables the backup job.
func New(ledger Backupper, target store.Backend, interval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		ledger:    ledger,
		target:    target,
		interval:  interval,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start schedules the backup job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.target == nil {
		s.logger.Info("scheduler: no backup target configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(s.RunBackup)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: ledger backup scheduled", "interval", interval)
	return nil
}

// RunBackup performs one backup immediately.
func (s *Scheduler) RunBackup() {
	n, err := s.ledger.Backup(s.target)
	if err != nil {
		s.metrics.LedgerBackups.WithLabelValues("error").Inc()
		s.logger.Error("scheduler: ledger backup failed", "error", err)
		return
	}
	s.metrics.LedgerBackups.WithLabelValues("success").Inc()
	s.logger.Info("scheduler: ledger backup completed", "locations", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
