package poller

import (
	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/arweave"
)

// forkWindow remembers the identity of recently emitted blocks, bounded by
// the confirmation depth, and flags heights where a heavier competing block
// shows up later. Replaying the displaced range is not implemented; the
// window detects and logs only.
//
// TODO: re-emit the affected range once a downstream contract for fork
// handling exists.
type forkWindow struct {
	confirms uint64
	entries  map[uint64]forkEntry
	log      *zap.SugaredLogger
}

type forkEntry struct {
	indepHash      string
	cumulativeDiff arweave.BigInt
}

func newForkWindow(confirms uint64) *forkWindow {
	return &forkWindow{
		confirms: confirms,
		entries:  make(map[uint64]forkEntry),
		log:      zap.S().Named("forkwindow"),
	}
}

// Observe records the block and reports whether it displaced a previously
// seen block at the same height. Entries that sank below the confirmation
// depth relative to latest are pruned afterwards.
func (w *forkWindow) Observe(b *arweave.FirehoseBlock, latest uint64) bool {
	forked := false
	prev, seen := w.entries[b.Height]
	switch {
	case !seen:
		w.entries[b.Height] = forkEntry{indepHash: b.IndepHash, cumulativeDiff: b.CumulativeDiff}
	case prev.indepHash == b.IndepHash:
		// duplicate observation
	default:
		cmp, err := b.CumulativeDiff.Cmp(prev.cumulativeDiff)
		if err != nil {
			w.log.Warnw("unparseable cumulative_diff in fork comparison",
				"height", b.Height, "err", err)
		} else if cmp > 0 {
			w.log.Warnw("heavier competing chain detected",
				"height", b.Height,
				"old_hash", prev.indepHash, "new_hash", b.IndepHash)
			w.entries[b.Height] = forkEntry{indepHash: b.IndepHash, cumulativeDiff: b.CumulativeDiff}
			forked = true
		}
	}

	for h := range w.entries {
		if h+w.confirms <= latest {
			delete(w.entries, h)
		}
	}
	return forked
}
