package dataset

import (
	"context"
	"time"

	"github.com/datastax/data-views/log"
)

// Updater reloads the datasets of a registry at a fixed interval
type Updater struct {
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	updateInterval time.Duration
	registry       *Registry
	logger         log.Logger
}

func NewUpdater(registry *Registry, updateInterval time.Duration, logger log.Logger) *Updater {
	ctx, cancel := context.WithCancel(context.Background())
	return &Updater{
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		updateInterval: updateInterval,
		registry:       registry,
		logger:         logger,
	}
}

// Start blocks, reloading until Stop is called
func (u *Updater) Start() {
	defer close(u.done)
	for {
		if !u.sleep() {
			return
		}
		u.update()
	}
}

// Stop cancels the loop, Done is closed once the current reload finishes
func (u *Updater) Stop() {
	u.cancel()
}

// Done is closed once Start returns
func (u *Updater) Done() <-chan struct{} {
	return u.done
}

func (u *Updater) update() {
	ctx, cancel := context.WithTimeout(u.ctx, u.updateInterval)
	defer cancel()

	if err := u.registry.ReloadAll(ctx); err != nil {
		u.logger.Warn("dataset refresh completed with errors", "error", err)
	}
}

func (u *Updater) sleep() bool {
	select {
	case <-time.After(u.updateInterval):
		return true
	case <-u.ctx.Done():
		return false
	}
}
