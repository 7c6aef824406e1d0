package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/chainsafe/thegarii/config"
)

// Global flags override the environment-resolved configuration. The
// environment (including a .env file) is read first by config.FromEnv;
// flags win when set.
var globalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug logging",
	},
	&cli.StringSliceFlag{
		Name:  "endpoints",
		Usage: "ordered gateway base URLs; the order is the rotation order",
	},
	&cli.Uint64Flag{
		Name:  "timeout",
		Usage: "per-request timeout in milliseconds",
	},
	&cli.Uint64Flag{
		Name:  "retry",
		Usage: "extra retry cycles after every endpoint has been tried once",
	},
	&cli.Uint64Flag{
		Name:  "batch-blocks",
		Usage: "how many blocks are assembled concurrently",
	},
	&cli.Uint64Flag{
		Name:  "confirms",
		Usage: "depth below head considered irreversible",
	},
	&cli.Uint64Flag{
		Name:  "block-time",
		Usage: "sleep interval in milliseconds when caught up to head",
	},
	&cli.StringFlag{
		Name:  "db-path",
		Usage: "path of the local block store",
	},
	&cli.StringFlag{
		Name:  "grpc-addr",
		Usage: "listen address of the firehose gRPC server",
	},
}

// loadConfig resolves the environment and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if c.IsSet("endpoints") {
		cfg.Endpoints = c.StringSlice("endpoints")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = time.Duration(c.Uint64("timeout")) * time.Millisecond
	}
	if c.IsSet("retry") {
		cfg.Retry = c.Uint64("retry")
	}
	if c.IsSet("batch-blocks") {
		cfg.BatchBlocks = c.Uint64("batch-blocks")
	}
	if c.IsSet("confirms") {
		cfg.Confirms = c.Uint64("confirms")
	}
	if c.IsSet("block-time") {
		cfg.BlockTime = time.Duration(c.Uint64("block-time")) * time.Millisecond
	}
	if c.IsSet("db-path") {
		cfg.DBPath = c.String("db-path")
	}
	if c.IsSet("grpc-addr") {
		cfg.GRPCAddr = c.String("grpc-addr")
	}
	return cfg, nil
}
