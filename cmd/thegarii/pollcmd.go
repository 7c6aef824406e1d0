package main

import (
	"errors"
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/client"
)

var pollCommand = &cli.Command{
	Name:  "poll",
	Usage: "Dry-run random polling with a full-sync time estimate",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:    "blocks",
			Aliases: []string{"b"},
			Value:   100,
			Usage:   "how many random blocks to poll",
		},
		&cli.Uint64Flag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "lower bound of the sampled range",
		},
		&cli.Uint64Flag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "upper bound of the sampled range; 0 means the current head",
		},
	},
	Action: runPoll,
}

func runPoll(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cl, err := client.New(cfg.Endpoints, cfg.Timeout, cfg.Retry)
	if err != nil {
		return err
	}

	head, err := cl.GetCurrentBlock(c.Context)
	if err != nil {
		return err
	}
	start, end := c.Uint64("start"), c.Uint64("end")
	if end == 0 {
		end = head.Height
	}
	if start >= end {
		return errors.New("start must be below end")
	}

	count := c.Uint64("blocks")
	heights := make([]uint64, count)
	for i := range heights {
		heights[i] = start + uint64(rand.Int63n(int64(end-start+1)))
	}

	log := zap.S().Named("poll")
	began := time.Now()
	batch := int(cfg.BatchBlocks)
	for from := uint64(0); from < count; from += uint64(batch) {
		to := min(from+uint64(batch), count)
		log.Infow("polling blocks", "heights", heights[from:to])
		if _, err := cl.Poll(c.Context, batch, heights[from:to]...); err != nil {
			return err
		}
	}

	elapsed := time.Since(began)
	log.Infow("polling finished",
		"blocks", count,
		"time_cost", elapsed.Round(time.Second),
		"full_sync_estimate", (elapsed * time.Duration(head.Height) / time.Duration(count)).Round(time.Minute))
	return nil
}
