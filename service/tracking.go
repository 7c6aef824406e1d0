package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/client"
)

// Tracking refreshes the shared irreversible head on the block cadence.
type Tracking struct {
	client   *client.Client
	head     *Head
	confirms uint64
	interval time.Duration
	log      *zap.SugaredLogger
}

// NewTracking builds the tracking service.
func NewTracking(c *client.Client, head *Head, confirms uint64, interval time.Duration) *Tracking {
	return &Tracking{
		client:   c,
		head:     head,
		confirms: confirms,
		interval: interval,
		log:      zap.S().Named("tracking"),
	}
}

// Name implements Service.
func (t *Tracking) Name() string { return "tracking" }

// Run implements Service.
func (t *Tracking) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.interval):
		}

		head, err := t.client.GetCurrentBlock(ctx)
		if err != nil {
			return err
		}
		if head.Height < t.confirms {
			continue
		}
		latest := head.Height - t.confirms
		t.head.set(latest)
		t.log.Infow("updated latest block ptr", "height", latest)
	}
}
