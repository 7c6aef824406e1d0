package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/chainsafe/thegarii/client"
	"github.com/chainsafe/thegarii/server"
	"github.com/chainsafe/thegarii/service"
	"github.com/chainsafe/thegarii/store"
)

var startCommand = &cli.Command{
	Name:   "start",
	Usage:  "Run the full service: store-filling poller, gap checker and gRPC stream",
	Action: runStart,
}

func runStart(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cl, err := client.New(cfg.Endpoints, cfg.Timeout, cfg.Retry)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cursorPath := cfg.PtrPath
	if cursorPath == "" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create data directory %s: %w", dir, err)
		}
		cursorPath = filepath.Join(dir, cursorFileName)
	}

	head := new(service.Head)
	batch := int(cfg.BatchBlocks)
	return service.Start(c.Context,
		service.NewTracking(cl, head, cfg.Confirms, cfg.BlockTime),
		service.NewPolling(cl, st, head, cursorPath, batch, cfg.BlockTime),
		service.NewChecking(cl, st, batch, cfg.CheckingInterval),
		service.NewGRPC(cfg.GRPCAddr, server.NewFirehose(st, head, cfg.Confirms, cfg.BlockTime)),
	)
}
