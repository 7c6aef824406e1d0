// thegarii polls blocks from Arweave gateways and turns them into a
// firehose stream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var app = &cli.App{
	Name:   "thegarii",
	Usage:  "Arweave block extractor for the firehose",
	Flags:  globalFlags,
	Before: setupLogger,
	Commands: []*cli.Command{
		consoleCommand,
		startCommand,
		getCommand,
		backupCommand,
		restoreCommand,
		syncingCommand,
		pollCommand,
		streamCommand,
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(c *cli.Context) error {
	cfg := zap.NewDevelopmentConfig()
	if c.Bool("debug") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	// stdout belongs to the FIRE stream
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
