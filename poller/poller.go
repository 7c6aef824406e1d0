// Package poller advances a durable cursor towards the last irreversible
// head of the weave and hands every assembled block, in strict height order,
// to an emitter.
package poller

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/arweave"
	"github.com/chainsafe/thegarii/client"
	"github.com/chainsafe/thegarii/config"
)

// StartLive is the sentinel accepted by the start flag: begin at the
// current head minus the confirmation depth instead of at a fixed height.
const StartLive = "live"

// ErrStopBlockReached signals that the configured end height was emitted
// and the engine terminated normally.
var ErrStopBlockReached = errors.New("stop block reached")

// Emitter consumes the ordered block stream.
type Emitter interface {
	Init() error
	EmitBlock(*arweave.FirehoseBlock) error
}

// Options select where the poller starts and stops.
type Options struct {
	// CursorPath locates the persistent cursor file.
	CursorPath string
	// Start is a decimal height or StartLive. A cursor file on disk always
	// wins; with neither, polling starts from genesis.
	Start string
	// End, when set, is the last emitted height; reaching it terminates the
	// engine normally.
	End *uint64
	// Forever restarts the polling loop on any non-terminal error instead
	// of propagating it.
	Forever bool
}

// Poller is the polling engine. The cursor and head fields are owned by the
// polling task; Cursor and Latest take the mutex so that other goroutines
// may read them while it runs.
type Poller struct {
	client  *client.Client
	emitter Emitter
	cursorF *Cursor
	window  *forkWindow

	batch     int
	confirms  uint64
	blockTime time.Duration
	start     string
	end       *uint64
	forever   bool

	mu     sync.Mutex
	cursor uint64
	latest uint64

	log *zap.SugaredLogger
}

// New builds the engine on top of a fresh gateway client.
func New(cfg *config.Config, emitter Emitter, opts Options) (*Poller, error) {
	c, err := client.New(cfg.Endpoints, cfg.Timeout, cfg.Retry)
	if err != nil {
		return nil, err
	}
	batch := int(cfg.BatchBlocks)
	if batch < 1 {
		batch = 1
	}
	return &Poller{
		client:    c,
		emitter:   emitter,
		cursorF:   NewCursor(opts.CursorPath),
		window:    newForkWindow(cfg.Confirms),
		batch:     batch,
		confirms:  cfg.Confirms,
		blockTime: cfg.BlockTime,
		start:     opts.Start,
		end:       opts.End,
		forever:   opts.Forever,
		log:       zap.S().Named("poller"),
	}, nil
}

// Start emits the stream header and then polls until the stop block is
// reached, the context is cancelled, or a fatal error occurs. Cancellation
// is graceful: the block being emitted completes and its cursor write lands
// before Start returns.
func (p *Poller) Start(ctx context.Context) error {
	if err := p.initCursor(ctx); err != nil {
		return err
	}
	if err := p.emitter.Init(); err != nil {
		return err
	}

	for {
		err := p.trackHead(ctx)
		switch {
		case errors.Is(err, ErrStopBlockReached):
			p.log.Infow("stop block reached, stopping poller", "end", *p.end)
			return nil
		case ctx.Err() != nil:
			p.log.Info("shutting down, cursor is persisted")
			return nil
		case err != nil:
			p.log.Errorw("head tracking failed", "err", err)
			if !p.forever {
				return err
			}
			p.log.Info("restarting...")
			continue
		}

		if p.end != nil && p.Cursor() > *p.end {
			return nil
		}
		p.log.Debugw("caught up, sleeping before re-checking head",
			"block_time", p.blockTime, "latest", p.Latest())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.blockTime):
		}
	}
}

// initCursor resolves the first height to fetch. A cursor file on disk
// always wins so restarts resume seamlessly.
func (p *Poller) initCursor(ctx context.Context) error {
	v, ok, err := p.cursorF.Load()
	if err != nil {
		return err
	}
	switch {
	case ok:
		p.setCursor(v)
		p.log.Infow("cursor restored from file", "height", v)
	case p.start == StartLive:
		latest, err := p.latestIrreversible(ctx)
		if err != nil {
			return err
		}
		p.setCursor(latest)
		p.log.Infow("live start requested, starting from last irreversible block", "height", latest)
	case p.start != "":
		v, err := strconv.ParseUint(p.start, 10, 64)
		if err != nil {
			return errors.New("start " + p.start + " is not a valid height")
		}
		p.setCursor(v)
		p.log.Infow("start block explicitly provided", "height", v)
	default:
		p.setCursor(0)
		p.log.Info("no cursor file exists, starting from block 0")
	}
	return nil
}

// latestIrreversible returns the current head minus the confirmation depth,
// floored at genesis.
func (p *Poller) latestIrreversible(ctx context.Context) (uint64, error) {
	head, err := p.client.GetCurrentBlock(ctx)
	if err != nil {
		return 0, err
	}
	if head.Height < p.confirms {
		return 0, nil
	}
	return head.Height - p.confirms, nil
}

// trackHead refreshes the irreversible head and polls the cursor up to it
// in chunks of at most batch heights.
func (p *Poller) trackHead(ctx context.Context) error {
	latest, err := p.latestIrreversible(ctx)
	if err != nil {
		return err
	}
	p.setLatest(latest)

	if p.Cursor() > latest {
		return nil
	}
	p.log.Infow("tracking head", "from", p.Cursor(), "to", latest)

	for p.Cursor() <= latest {
		from := p.Cursor()
		to := min(from+uint64(p.batch)-1, latest)
		if err := p.pollRange(ctx, from, to); err != nil {
			return err
		}
	}
	return nil
}

// pollRange assembles [from, to] concurrently, one task per height, and
// drains the results in ascending height order, so a block is emitted as
// soon as it and all of its predecessors in the range are done.
func (p *Poller) pollRange(ctx context.Context, from, to uint64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		block *arweave.FirehoseBlock
		err   error
	}
	pending := make([]chan result, to-from+1)
	for i := range pending {
		ch := make(chan result, 1)
		pending[i] = ch
		height := from + uint64(i)
		go func() {
			block, err := p.client.GetFirehoseBlockByHeight(ctx, height)
			ch <- result{block: block, err: err}
		}()
	}

	for _, ch := range pending {
		r := <-ch
		if r.err != nil {
			return r.err
		}
		if err := p.emit(r.block); err != nil {
			return err
		}
	}
	return nil
}

// emit writes the block downstream, observes it for fork detection and only
// then persists the advanced cursor.
func (p *Poller) emit(b *arweave.FirehoseBlock) error {
	if err := p.emitter.EmitBlock(b); err != nil {
		return err
	}
	p.window.Observe(b, p.Latest())

	p.setCursor(b.Height + 1)
	if err := p.cursorF.Store(b.Height + 1); err != nil {
		return err
	}

	if p.end != nil && b.Height == *p.end {
		return ErrStopBlockReached
	}
	return nil
}

// Cursor returns the next height to fetch.
func (p *Poller) Cursor() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Poller) setCursor(v uint64) {
	p.mu.Lock()
	p.cursor = v
	p.mu.Unlock()
}

// Latest returns the last observed irreversible head. It is safe for
// concurrent use while the poll loop runs.
func (p *Poller) Latest() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

func (p *Poller) setLatest(v uint64) {
	p.mu.Lock()
	p.latest = v
	p.mu.Unlock()
}
