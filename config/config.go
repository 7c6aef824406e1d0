// Package config resolves the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment does not say otherwise.
const (
	DefaultEndpoint         = "https://arweave.net"
	DefaultBlockTime        = 20 * time.Second
	DefaultBatchBlocks      = 20
	DefaultRetry            = 10
	DefaultConfirms         = 20
	DefaultTimeout          = 120 * time.Second
	DefaultGRPCAddr         = "0.0.0.0:16042"
	DefaultCheckingInterval = 60 * time.Second
)

// Config carries every tunable the services consume. It is resolved once at
// startup from the environment (optionally a .env file) plus CLI flags, and
// is never mutated afterwards.
type Config struct {
	// Endpoints is the ordered list of gateway base URLs; the order is the
	// rotation order.
	Endpoints []string
	// Timeout bounds each individual gateway request.
	Timeout time.Duration
	// Retry is the number of extra backoff cycles after every endpoint has
	// been tried once.
	Retry uint64
	// BatchBlocks caps how many blocks are assembled concurrently.
	BatchBlocks uint64
	// Confirms is the depth below head considered irreversible.
	Confirms uint64
	// BlockTime is the sleep interval once caught up to head.
	BlockTime time.Duration
	// PtrPath overrides the cursor file location; empty derives it from the
	// data directory.
	PtrPath string
	// DBPath locates the local block store.
	DBPath string
	// GRPCAddr is the listen address of the firehose stream server.
	GRPCAddr string
	// CheckingInterval paces the gap re-poll of the checking service.
	CheckingInterval time.Duration
}

// FromEnv builds a Config from the process environment. A .env file in the
// working directory is honored when present. Durations are given in
// milliseconds, matching the upstream variable conventions.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Endpoints:        []string{DefaultEndpoint},
		Timeout:          DefaultTimeout,
		Retry:            DefaultRetry,
		BatchBlocks:      DefaultBatchBlocks,
		Confirms:         DefaultConfirms,
		BlockTime:        DefaultBlockTime,
		GRPCAddr:         DefaultGRPCAddr,
		CheckingInterval: DefaultCheckingInterval,
		DBPath:           defaultDBPath(),
	}

	if v := os.Getenv("ENDPOINTS"); v != "" {
		cfg.Endpoints = splitEndpoints(v)
	}
	if err := envDurationMS("TIMEOUT", &cfg.Timeout); err != nil {
		return nil, err
	}
	if err := envUint("RETRY", &cfg.Retry); err != nil {
		return nil, err
	}
	if err := envUint("BATCH_BLOCKS", &cfg.BatchBlocks); err != nil {
		return nil, err
	}
	if err := envUint("CONFIRMS", &cfg.Confirms); err != nil {
		return nil, err
	}
	if err := envDurationMS("BLOCK_TIME", &cfg.BlockTime); err != nil {
		return nil, err
	}
	if err := envDurationMS("CHECKING_INTERVAL", &cfg.CheckingInterval); err != nil {
		return nil, err
	}
	if v := os.Getenv("PTR_FILE"); v != "" {
		cfg.PtrPath = v
	} else if v := os.Getenv("PTR_PATH"); v != "" {
		cfg.PtrPath = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}

	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("ENDPOINTS resolves to an empty list")
	}
	return cfg, nil
}

func splitEndpoints(v string) []string {
	var endpoints []string
	for _, e := range strings.Split(v, ",") {
		e = strings.TrimSpace(strings.TrimSuffix(e, "/"))
		if e != "" {
			endpoints = append(endpoints, e)
		}
	}
	return endpoints
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join("thegarii", "db")
	}
	return filepath.Join(dir, "thegarii", "db")
}

func envUint(key string, dst *uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s=%q is not a valid unsigned integer: %w", key, v, err)
	}
	*dst = parsed
	return nil
}

func envDurationMS(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s=%q is not a valid millisecond count: %w", key, v, err)
	}
	*dst = time.Duration(parsed) * time.Millisecond
	return nil
}
