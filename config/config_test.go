package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, []string{DefaultEndpoint}, cfg.Endpoints)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, uint64(DefaultRetry), cfg.Retry)
	require.Equal(t, uint64(DefaultBatchBlocks), cfg.BatchBlocks)
	require.Equal(t, uint64(DefaultConfirms), cfg.Confirms)
	require.Equal(t, DefaultBlockTime, cfg.BlockTime)
	require.Equal(t, DefaultGRPCAddr, cfg.GRPCAddr)
	require.NotEmpty(t, cfg.DBPath)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENDPOINTS", "https://a.example/, https://b.example")
	t.Setenv("TIMEOUT", "5000")
	t.Setenv("RETRY", "3")
	t.Setenv("BATCH_BLOCKS", "8")
	t.Setenv("CONFIRMS", "12")
	t.Setenv("BLOCK_TIME", "1000")
	t.Setenv("PTR_FILE", "/tmp/ptr.txt")
	t.Setenv("DB_PATH", "/tmp/db")
	t.Setenv("GRPC_ADDR", "127.0.0.1:7000")

	cfg, err := FromEnv()
	require.NoError(t, err)

	// endpoint order is preserved, trailing slashes and spaces dropped
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Endpoints)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, uint64(3), cfg.Retry)
	require.Equal(t, uint64(8), cfg.BatchBlocks)
	require.Equal(t, uint64(12), cfg.Confirms)
	require.Equal(t, time.Second, cfg.BlockTime)
	require.Equal(t, "/tmp/ptr.txt", cfg.PtrPath)
	require.Equal(t, "/tmp/db", cfg.DBPath)
	require.Equal(t, "127.0.0.1:7000", cfg.GRPCAddr)
}

func TestFromEnvPtrPathFallback(t *testing.T) {
	t.Setenv("PTR_PATH", "/tmp/fallback.txt")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "/tmp/fallback.txt", cfg.PtrPath)
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("RETRY", "many")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvEmptyEndpointList(t *testing.T) {
	t.Setenv("ENDPOINTS", ", ,")
	_, err := FromEnv()
	require.Error(t, err)
}
