package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/client"
	"github.com/chainsafe/thegarii/store"
)

// Checking periodically scans the store for gaps the polling service may
// have left behind and re-polls them.
type Checking struct {
	client   *client.Client
	store    *store.Store
	batch    int
	interval time.Duration
	log      *zap.SugaredLogger
}

// NewChecking builds the gap-checking service.
func NewChecking(c *client.Client, st *store.Store, batch int, interval time.Duration) *Checking {
	return &Checking{
		client:   c,
		store:    st,
		batch:    batch,
		interval: interval,
		log:      zap.S().Named("checking"),
	}
}

// Name implements Service.
func (c *Checking) Name() string { return "checking" }

// Run implements Service.
func (c *Checking) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.interval):
		}
		if err := c.check(ctx); err != nil {
			return err
		}
	}
}

func (c *Checking) check(ctx context.Context) error {
	missing, err := c.store.Continuous()
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	c.log.Infow("re-polling missing blocks", "count", len(missing))

	blocks, err := c.client.Poll(ctx, c.batch, missing...)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err := c.store.Put(b); err != nil {
			return err
		}
	}
	return nil
}
