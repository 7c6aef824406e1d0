// Package firehose prints the framed block stream consumed by firehose
// readers.
package firehose

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chainsafe/thegarii/arweave"
	"github.com/chainsafe/thegarii/codec"
)

const (
	protocolVersion = "1.0"
	blockTypeURL    = "sf.arweave.type.v1"
)

// Config tunes one Firehose printer.
type Config struct {
	// Confirms is the irreversibility depth used for the LIB column.
	Confirms uint64
	// Quiet drops the trailing payload from BLOCK lines; every other column
	// stays bit-identical.
	Quiet bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// Firehose writes the line protocol: exactly one INIT line, then one BLOCK
// line per block, heights strictly increasing. Lines are flushed as they
// are produced so a consumer never waits on a buffered block.
type Firehose struct {
	mu       sync.Mutex
	w        *bufio.Writer
	confirms uint64
	quiet    bool
}

// New builds a printer; it emits nothing until Init is called.
func New(cfg *Config) *Firehose {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Firehose{
		w:        bufio.NewWriter(out),
		confirms: cfg.Confirms,
		quiet:    cfg.Quiet,
	}
}

// Init emits the stream header:
//
//	FIRE INIT <VERSION> <BLOCK_TYPE_URL>
func (f *Firehose) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := fmt.Fprintf(f.w, "FIRE INIT %s %s\n", protocolVersion, blockTypeURL); err != nil {
		return err
	}
	return f.w.Flush()
}

// EmitBlock emits one block:
//
//	FIRE BLOCK <NUM> <HASH> <PARENT_NUM> <PARENT_HASH> <LIB> <TIMESTAMP> <ENCODED>
func (f *Firehose) EmitBlock(b *arweave.FirehoseBlock) error {
	blockHash, err := arweave.DecodeBase64URL(b.IndepHash)
	if err != nil {
		return fmt.Errorf("invalid base64url indep_hash on block %d: %w", b.Height, err)
	}
	parentHash, err := arweave.DecodeBase64URL(b.PreviousBlock)
	if err != nil {
		return fmt.Errorf("invalid base64url previous_block on block %d: %w", b.Height, err)
	}

	var parentNum uint64
	if b.PreviousBlock != "" && b.Height > 0 {
		parentNum = b.Height - 1
	}
	var lib uint64
	if b.Height > f.confirms {
		lib = b.Height - f.confirms
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quiet {
		_, err = fmt.Fprintf(f.w, "FIRE BLOCK %d %s %d %s %d %d\n",
			b.Height, hex.EncodeToString(blockHash),
			parentNum, hex.EncodeToString(parentHash),
			lib, b.Timestamp)
	} else {
		wire, cerr := codec.BlockToProto(b)
		if cerr != nil {
			return cerr
		}
		payload, cerr := wire.MarshalWire()
		if cerr != nil {
			return cerr
		}
		_, err = fmt.Fprintf(f.w, "FIRE BLOCK %d %s %d %s %d %d %s\n",
			b.Height, hex.EncodeToString(blockHash),
			parentNum, hex.EncodeToString(parentHash),
			lib, b.Timestamp,
			base64.StdEncoding.EncodeToString(payload))
	}
	if err != nil {
		return err
	}
	return f.w.Flush()
}
