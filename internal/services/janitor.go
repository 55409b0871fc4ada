package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/config"
	"tmc/cv-tailor/internal/repositories"
)

// Janitor periodically drops expired match records and temp directories left
// behind by crashed runs.
type Janitor interface {
	Start()
	Stop()
}

type janitor struct {
	matchRepo repositories.MatchRepository
	storage   StorageService
	interval  time.Duration
	matchTTL  time.Duration
	log       *logrus.Logger
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

func NewJanitor(matchRepo repositories.MatchRepository, storage StorageService, cfg config.JanitorConfig, log *logrus.Logger) Janitor {
	return &janitor{
		matchRepo: matchRepo,
		storage:   storage,
		interval:  cfg.Interval,
		matchTTL:  cfg.MatchTTL,
		log:       log,
		stopChan:  make(chan struct{}),
	}
}

// Start implements Janitor.
func (j *janitor) Start() {
	j.log.WithField("interval", j.interval.String()).Info("🚀 Starting janitor")
	j.wg.Add(1)
	go j.run()
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	j.log.Info("🛑 Stopping janitor...")
	close(j.stopChan)
	j.wg.Wait()
	j.log.Info("✅ Janitor stopped")
}

func (j *janitor) run() {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *janitor) sweep() {
	expired := j.matchRepo.DeleteExpired(j.matchTTL)

	stale, err := j.storage.SweepStale(j.matchTTL)
	if err != nil {
		j.log.WithField("error", err.Error()).Warn("⚠️ Temp sweep failed")
	}

	if expired > 0 || stale > 0 {
		j.log.WithFields(logrus.Fields{
			"expired_matches": expired,
			"stale_run_dirs":  stale,
		}).Info("🧹 Janitor sweep complete")
	}
}
