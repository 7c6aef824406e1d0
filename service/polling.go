package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/client"
	"github.com/chainsafe/thegarii/poller"
	"github.com/chainsafe/thegarii/store"
)

// Polling drains blocks from the durable cursor up to the shared head into
// the block store.
type Polling struct {
	client *client.Client
	store  *store.Store
	head   *Head
	cursor *poller.Cursor
	batch  int
	idle   time.Duration
	log    *zap.SugaredLogger
}

// NewPolling builds the store-filling polling service. idle paces the loop
// while the cursor is caught up with the head.
func NewPolling(c *client.Client, st *store.Store, head *Head, cursorPath string, batch int, idle time.Duration) *Polling {
	return &Polling{
		client: c,
		store:  st,
		head:   head,
		cursor: poller.NewCursor(cursorPath),
		batch:  batch,
		idle:   idle,
		log:    zap.S().Named("polling"),
	}
}

// Name implements Service.
func (p *Polling) Name() string { return "polling" }

// Run implements Service.
func (p *Polling) Run(ctx context.Context) error {
	for {
		if err := p.poll(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.idle):
		}
	}
}

// poll fetches and stores every height between the cursor and the shared
// head, at most batch at a time, advancing the cursor after each chunk.
func (p *Polling) poll(ctx context.Context) error {
	next, _, err := p.cursor.Load()
	if err != nil {
		return err
	}
	latest := p.head.Latest()
	if next > latest {
		return nil
	}
	p.log.Infow("polling blocks into store", "from", next, "to", latest)

	for next <= latest {
		to := min(next+uint64(p.batch)-1, latest)
		heights := make([]uint64, 0, to-next+1)
		for h := next; h <= to; h++ {
			heights = append(heights, h)
		}

		blocks, err := p.client.Poll(ctx, p.batch, heights...)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			if err := p.store.Put(b); err != nil {
				return err
			}
		}
		next = to + 1
		if err := p.cursor.Store(next); err != nil {
			return err
		}
	}
	return nil
}
