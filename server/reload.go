package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reloader re-runs the store's loader on a cron schedule.
type Reloader struct {
	Cron  *cron.Cron
	store *Store
	log   logrus.FieldLogger
	ctx   context.Context
}

// NewReloader creates a Reloader. Specs have a leading seconds field, as in
// "0 */15 * * * *". A tick that fires while the previous reload is still
// running is skipped.
func NewReloader(ctx context.Context, store *Store, log logrus.FieldLogger) *Reloader {
	return &Reloader{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		store: store,
		log:   log,
		ctx:   ctx,
	}
}

// Schedule registers a reload on a cron expression with a seconds field.
func (r *Reloader) Schedule(spec string) error {
	if _, err := r.Cron.AddFunc(spec, r.RunNow); err != nil {
		return fmt.Errorf("register reload %q: %w", spec, err)
	}
	return nil
}

// RunNow reloads immediately and logs the outcome.
func (r *Reloader) RunNow() {
	start := time.Now()
	if err := r.store.Reload(r.ctx); err != nil {
		r.log.WithError(err).Error("dataset reload failed, keeping previous data")
		return
	}
	ds, _ := r.store.Dataset()
	r.log.WithFields(logrus.Fields{
		"series":   ds.SeriesCount(),
		"points":   ds.Len(),
		"duration": time.Since(start).String(),
	}).Info("dataset reloaded")
}

// Start starts the cron scheduler.
func (r *Reloader) Start() {
	r.Cron.Start()
	r.log.Info("reload scheduler started")
}

// Stop stops the scheduler and waits for a running reload to finish.
func (r *Reloader) Stop() {
	<-r.Cron.Stop().Done()
	r.log.Info("reload scheduler stopped")
}
