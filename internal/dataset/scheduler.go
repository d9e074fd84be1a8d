package dataset

import (
	"fmt"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// Scheduler reloads on a cron schedule, for data directories where file
// events are unreliable (network mounts). Specs take a seconds field or a
// descriptor such as "@every 10m".
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(spec string, reload func() error, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()
	err := c.AddFunc(spec, func() {
		if err := reload(); err != nil {
			logger.Warn("scheduled reload failed", zap.String("schedule", spec), zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reload schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
}

func (scheduler *Scheduler) Stop() {
	scheduler.cron.Stop()
}
