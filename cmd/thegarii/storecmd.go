package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/arweave"
	"github.com/chainsafe/thegarii/client"
	"github.com/chainsafe/thegarii/store"
)

var getCommand = &cli.Command{
	Name:      "get",
	Usage:     "Print a block from the local store, fetching it when absent",
	ArgsUsage: "<height>",
	Action:    runGet,
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: thegarii get <height>")
	}
	height, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("height %q is not a valid number: %w", c.Args().First(), err)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var block *arweave.FirehoseBlock
	if st, err := store.OpenReadOnly(cfg.DBPath); err == nil {
		block, err = st.Get(height)
		st.Close()
		if err != nil && !errors.Is(err, store.ErrBlockNotFound) {
			return err
		}
	}
	if block == nil {
		zap.S().Warnw("block not in store, fetching from endpoints", "height", height)
		cl, err := client.New(cfg.Endpoints, cfg.Timeout, cfg.Retry)
		if err != nil {
			return err
		}
		block, err = cl.GetFirehoseBlockByHeight(c.Context, height)
		if err != nil {
			return err
		}
	}

	pretty, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

var backupCommand = &cli.Command{
	Name:      "backup",
	Usage:     "Copy the local block store to a backup path",
	ArgsUsage: "<path>",
	Action:    runBackup,
}

func runBackup(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: thegarii backup <path>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	st, err := store.OpenReadOnly(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Backup(c.Args().First())
}

var restoreCommand = &cli.Command{
	Name:      "restore",
	Usage:     "Restore the local block store from a backup path",
	ArgsUsage: "<path>",
	Action:    runRestore,
}

func runRestore(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: thegarii restore <path>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return store.Restore(c.Args().First(), cfg.DBPath)
}

var syncingCommand = &cli.Command{
	Name:   "syncing",
	Usage:  "Show the syncing status of the local store",
	Action: runSyncing,
}

func runSyncing(c *cli.Context) error {
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

	var count uint64
	if st, err := store.OpenReadOnly(cfg.DBPath); err == nil {
		count, err = st.Count()
		st.Close()
		if err != nil {
			return err
		}
	}

	fmt.Printf("current: %d\nsyncing: %d\n", head.Height, count)
	return nil
}
