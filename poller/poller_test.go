package poller

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainsafe/thegarii/arweave"
	"github.com/chainsafe/thegarii/config"
	"github.com/chainsafe/thegarii/firehose"
)

// fakeChain serves a synthetic weave: every height exists, blocks carry no
// transactions, and the head is fixed.
type fakeChain struct {
	srv  *httptest.Server
	head uint64

	headFailures atomic.Int64 // remaining /current_block requests to fail
}

func newFakeChain(head uint64) *fakeChain {
	c := &fakeChain{head: head}
	mux := http.NewServeMux()
	mux.HandleFunc("/current_block", func(w http.ResponseWriter, r *http.Request) {
		if c.headFailures.Load() > 0 {
			c.headFailures.Add(-1)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, c.blockJSON(c.head))
	})
	mux.HandleFunc("/block/height/", func(w http.ResponseWriter, r *http.Request) {
		var height uint64
		if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/block/height/"), "%d", &height); err != nil {
			http.Error(w, "bad height", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, c.blockJSON(height))
	})
	c.srv = httptest.NewServer(mux)
	return c
}

func (c *fakeChain) blockJSON(height uint64) string {
	indep := arweave.EncodeBase64URL([]byte(fmt.Sprintf("blk-%d", height)))
	prev := ""
	if height > 0 {
		prev = arweave.EncodeBase64URL([]byte(fmt.Sprintf("blk-%d", height-1)))
	}
	return fmt.Sprintf(`{
		"height": %d, "indep_hash": %q, "previous_block": %q,
		"nonce": "AQID", "timestamp": %d, "last_retarget": 0,
		"diff": "10", "hash": "aGFzaA", "txs": [],
		"wallet_list": "d2FsbGV0cw", "reward_addr": "unclaimed", "tags": [],
		"reward_pool": "1", "weave_size": "1", "block_size": "1",
		"cumulative_diff": "%d"
	}`, height, indep, prev, 1528500720+height, height)
}

func (c *fakeChain) config() *config.Config {
	return &config.Config{
		Endpoints:   []string{c.srv.URL},
		Timeout:     time.Second,
		Retry:       0,
		BatchBlocks: 4,
		Confirms:    20,
		BlockTime:   10 * time.Millisecond,
	}
}

// recordingEmitter collects emitted heights.
type recordingEmitter struct {
	inits   int
	heights []uint64
}

func (e *recordingEmitter) Init() error {
	e.inits++
	return nil
}

func (e *recordingEmitter) EmitBlock(b *arweave.FirehoseBlock) error {
	e.heights = append(e.heights, b.Height)
	return nil
}

func uint64ptr(v uint64) *uint64 { return &v }

func TestPollerHistoricalRange(t *testing.T) {
	chain := newFakeChain(200)
	defer chain.srv.Close()

	cursorPath := filepath.Join(t.TempDir(), "cursor.txt")
	emitter := new(recordingEmitter)
	p, err := New(chain.config(), emitter, Options{
		CursorPath: cursorPath,
		Start:      "100",
		End:        uint64ptr(103),
	})
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))

	require.Equal(t, 1, emitter.inits)
	require.Equal(t, []uint64{100, 101, 102, 103}, emitter.heights)

	// after the stop block the cursor points one past it
	v, ok, err := NewCursor(cursorPath).Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(104), v)
}

func TestPollerResumesFromCursorFile(t *testing.T) {
	chain := newFakeChain(269600)
	defer chain.srv.Close()

	cursorPath := filepath.Join(t.TempDir(), "cursor.txt")
	require.NoError(t, NewCursor(cursorPath).Store(269513))

	emitter := new(recordingEmitter)
	p, err := New(chain.config(), emitter, Options{
		CursorPath: cursorPath,
		End:        uint64ptr(269514),
	})
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	require.Equal(t, []uint64{269513, 269514}, emitter.heights)

	v, _, err := NewCursor(cursorPath).Load()
	require.NoError(t, err)
	require.Equal(t, uint64(269515), v)
}

func TestPollerLiveStart(t *testing.T) {
	chain := newFakeChain(1_000_000)
	defer chain.srv.Close()

	emitter := new(recordingEmitter)
	p, err := New(chain.config(), emitter, Options{
		CursorPath: filepath.Join(t.TempDir(), "cursor.txt"),
		Start:      StartLive,
		End:        uint64ptr(999_980),
	})
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	require.Equal(t, []uint64{999_980}, emitter.heights)
}

func TestPollerForeverRestartsOnError(t *testing.T) {
	chain := newFakeChain(200)
	defer chain.srv.Close()
	chain.headFailures.Store(1)

	emitter := new(recordingEmitter)
	p, err := New(chain.config(), emitter, Options{
		CursorPath: filepath.Join(t.TempDir(), "cursor.txt"),
		Start:      "100",
		End:        uint64ptr(100),
		Forever:    true,
	})
	require.NoError(t, err)

	// the first head fetch fails; forever mode restarts and completes
	require.NoError(t, p.Start(context.Background()))
	require.Equal(t, []uint64{100}, emitter.heights)
}

func TestPollerPropagatesErrorWithoutForever(t *testing.T) {
	chain := newFakeChain(200)
	defer chain.srv.Close()
	chain.headFailures.Store(1)

	emitter := new(recordingEmitter)
	p, err := New(chain.config(), emitter, Options{
		CursorPath: filepath.Join(t.TempDir(), "cursor.txt"),
		Start:      "100",
		End:        uint64ptr(100),
	})
	require.NoError(t, err)

	require.Error(t, p.Start(context.Background()))
	require.Empty(t, emitter.heights)
}

func TestPollerEmitsFirehoseLines(t *testing.T) {
	chain := newFakeChain(200)
	defer chain.srv.Close()

	var out bytes.Buffer
	emitter := firehose.New(&firehose.Config{Confirms: 20, Output: &out})
	p, err := New(chain.config(), emitter, Options{
		CursorPath: filepath.Join(t.TempDir(), "cursor.txt"),
		Start:      "100",
		End:        uint64ptr(101),
	})
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "FIRE INIT 1.0 sf.arweave.type.v1", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "FIRE BLOCK 100 "))
	require.True(t, strings.HasPrefix(lines[2], "FIRE BLOCK 101 "))
}
