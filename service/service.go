// Package service wires the long-running components of the start mode:
// head tracking, store-filling polling, gap checking and the gRPC stream
// server.
package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is one long-running component.
type Service interface {
	Name() string
	Run(ctx context.Context) error
}

// Head is the shared last-irreversible height, written by the tracking
// service and read by every other one.
type Head struct {
	v atomic.Uint64
}

// Latest returns the last irreversible height.
func (h *Head) Latest() uint64 {
	return h.v.Load()
}

func (h *Head) set(v uint64) {
	h.v.Store(v)
}

// Start runs all services until the first one fails or ctx is cancelled.
func Start(ctx context.Context, services ...Service) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range services {
		g.Go(func() error {
			zap.S().Infow("starting service", "name", s.Name())
			return s.Run(ctx)
		})
	}
	return g.Wait()
}
