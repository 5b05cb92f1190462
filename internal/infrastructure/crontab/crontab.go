// Package crontab schedules periodic maintenance jobs.
package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

const (
	DefaultSweepSchedule = "*/15 * * * *"
	JobTimeout           = 2 * time.Minute
)

// CartAbandoner marks idle carts as abandoned.
type CartAbandoner interface {
	AbandonStale(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// Config controls the cart sweep.
type Config struct {
	Schedule string
	MaxIdle  time.Duration
	Disabled bool
}

type Crontab struct {
	ctab  *crontab.Crontab
	carts CartAbandoner
	cfg   Config
	log   zerolog.Logger
}

func NewCrontab(carts CartAbandoner, cfg Config, log zerolog.Logger) *Crontab {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSweepSchedule
	}
	return &Crontab{
		ctab:  crontab.New(),
		carts: carts,
		cfg:   cfg,
		log:   log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the jobs and blocks until ctx is done.
func (c *Crontab) Run(ctx context.Context) error {
	if c.cfg.Disabled || c.cfg.MaxIdle <= 0 {
		c.log.Info().Msg("cart sweep disabled")
		<-ctx.Done()
		return nil
	}

	if err := c.ctab.AddJob(c.cfg.Schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), JobTimeout)
		defer cancel()
		c.SweepCarts(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add cart sweep job")
	}
	c.log.Info().Str("schedule", c.cfg.Schedule).Dur("max_idle", c.cfg.MaxIdle).Msg("cart sweep scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// SweepCarts abandons carts idle for longer than the configured window.
func (c *Crontab) SweepCarts(ctx context.Context) int64 {
	start := time.Now()
	n, err := c.carts.AbandonStale(ctx, c.cfg.MaxIdle)
	if err != nil {
		c.log.Error().Err(err).Msg("cart sweep failed")
		return 0
	}
	c.log.Info().Int64("abandoned", n).Dur("took", time.Since(start)).Msg("cart sweep finished")
	return n
}
