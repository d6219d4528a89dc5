// Package scheduler runs one-shot deferred tasks for scheduled message
// delivery and standup expiry. Tasks survive neither a restart nor a clear;
// callbacks are responsible for re-checking state when they fire.
package scheduler

import (
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// After runs fn once d from now on its own goroutine. A non-positive delay
// fires immediately. The callback must take whatever locks it needs and
// tolerate the world having changed underneath it.
func (s *Scheduler) After(d time.Duration, name string, fn func()) {
	if d < 0 {
		d = 0
	}
	s.logger.Debug("task scheduled",
		zap.String("task", name),
		zap.Duration("delay", d),
	)
	time.AfterFunc(d, func() {
		s.logger.Debug("task firing", zap.String("task", name))
		fn()
	})
}
