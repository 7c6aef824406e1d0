package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/thegarii/arweave"
)

// GetFirehoseBlockByHeight fetches the block at the given height together
// with all of its transactions. The transaction fetches start immediately
// and run concurrently; if any of them exhausts its retry budget the whole
// assemble fails, there are no partial blocks. Transaction order in the
// result equals the order of the identifiers in the raw block.
func (c *Client) GetFirehoseBlockByHeight(ctx context.Context, height uint64) (*arweave.FirehoseBlock, error) {
	block, err := c.GetBlockByHeight(ctx, height)
	if err != nil {
		return nil, err
	}

	txs := make([]arweave.Transaction, len(block.Txs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range block.Txs {
		g.Go(func() error {
			tx, err := c.GetTransactionByID(gctx, id)
			if err != nil {
				return fmt.Errorf("fetching transaction %s of block %d: %w", id, height, err)
			}
			txs[i] = *tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &arweave.FirehoseBlock{Block: *block, Txs: txs}, nil
}

// Poll assembles the given heights, at most batch at a time, and returns
// the blocks in the order the heights were given.
func (c *Client) Poll(ctx context.Context, batch int, heights ...uint64) ([]*arweave.FirehoseBlock, error) {
	if batch < 1 {
		batch = 1
	}
	blocks := make([]*arweave.FirehoseBlock, len(heights))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batch)
	for i, height := range heights {
		g.Go(func() error {
			block, err := c.GetFirehoseBlockByHeight(gctx, height)
			if err != nil {
				return err
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}
