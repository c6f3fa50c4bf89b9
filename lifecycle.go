package main

import (
	"context"

	"creator-os/infrastructure/logger"
)

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

// shutdownHooks releases resources in reverse registration order.
type shutdownHooks struct {
	hooks []shutdownHook
}

func (s *shutdownHooks) add(name string, fn func(ctx context.Context) error) {
	s.hooks = append(s.hooks, shutdownHook{name: name, fn: fn})
}

// run calls every hook once, even when an earlier one fails.
func (s *shutdownHooks) run(ctx context.Context) {
	for i := len(s.hooks) - 1; i >= 0; i-- {
		h := s.hooks[i]
		if err := h.fn(ctx); err != nil {
			logger.GetLogger().WithField("resource", h.name).WithField("error", err).Warn("shutdown step failed")
		}
	}
	s.hooks = nil
}
