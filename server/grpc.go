// Package server exposes the block stream as the sf.firehose.v1.Stream
// gRPC service, backed by the local block store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chainsafe/thegarii/codec"
	pbfirehose "github.com/chainsafe/thegarii/pb/sf/firehose/v1"
	"github.com/chainsafe/thegarii/store"
)

// HeadTracker reports the last irreversible head height. The polling side
// updates it concurrently with stream handlers reading it.
type HeadTracker interface {
	Latest() uint64
}

// Firehose implements pbfirehose.StreamServer over the block store.
type Firehose struct {
	store     *store.Store
	head      HeadTracker
	confirms  uint64
	blockTime time.Duration
	log       *zap.SugaredLogger
}

// NewFirehose builds the stream service. confirms is the server's default
// irreversibility depth; requests may override it.
func NewFirehose(st *store.Store, head HeadTracker, confirms uint64, blockTime time.Duration) *Firehose {
	return &Firehose{
		store:     st,
		head:      head,
		confirms:  confirms,
		blockTime: blockTime,
		log:       zap.S().Named("grpc"),
	}
}

// Blocks streams stored blocks from the requested start, following the
// store's tail as the poller appends to it. Each response carries the
// canonical wire payload, the fork step relative to the irreversible head,
// and a decimal-height cursor.
func (f *Firehose) Blocks(req *pbfirehose.Request, stream pbfirehose.Stream_BlocksServer) error {
	ctx := stream.Context()

	confirms := f.confirms
	if override, ok := parseIrreversibility(req.IrreversibilityCondition); ok {
		confirms = override
	}

	height, err := f.resolveStart(req)
	if err != nil {
		return err
	}
	f.log.Infow("starting block stream",
		"start", height, "stop", req.StopBlockNum, "confirms", confirms)

	for {
		if req.StopBlockNum != 0 && height > req.StopBlockNum {
			return nil
		}

		block, err := f.store.Get(height)
		if errors.Is(err, store.ErrBlockNotFound) {
			// at the store's tail; wait for the poller to catch up
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(f.blockTime):
			}
			continue
		}
		if err != nil {
			return status.Errorf(codes.Internal, "reading block %d: %v", height, err)
		}

		step := pbfirehose.StepIrreversible
		if height > f.irreversibleAt(confirms) {
			step = pbfirehose.StepNew
		}
		if stepAllowed(req.ForkSteps, step) {
			wire, err := codec.BlockToProto(block)
			if err != nil {
				return status.Errorf(codes.Internal, "encoding block %d: %v", height, err)
			}
			payload, err := wire.MarshalWire()
			if err != nil {
				return status.Errorf(codes.Internal, "serializing block %d: %v", height, err)
			}
			if err := stream.Send(&pbfirehose.Response{
				Block:  payload,
				Step:   step,
				Cursor: strconv.FormatUint(height, 10),
			}); err != nil {
				return err
			}
		}
		height++
	}
}

// resolveStart picks the first streamed height: an explicit cursor resumes
// immediately after the block it points at and overrides start_block_num;
// a negative start_block_num is relative to the irreversible head.
func (f *Firehose) resolveStart(req *pbfirehose.Request) (uint64, error) {
	if req.StartCursor != "" {
		v, err := strconv.ParseUint(req.StartCursor, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "start_cursor %q is not a decimal height", req.StartCursor)
		}
		return v + 1, nil
	}
	if req.StartBlockNum < 0 {
		latest := f.head.Latest()
		behind := uint64(-req.StartBlockNum)
		if behind > latest {
			return 0, nil
		}
		return latest - behind, nil
	}
	return uint64(req.StartBlockNum), nil
}

// irreversibleAt rebuilds the irreversible head for a possibly overridden
// confirmation depth. The tracker already subtracted the server's default.
func (f *Firehose) irreversibleAt(confirms uint64) uint64 {
	head := f.head.Latest() + f.confirms
	if head < confirms {
		return 0
	}
	return head - confirms
}

func stepAllowed(filter []pbfirehose.ForkStep, step pbfirehose.ForkStep) bool {
	if len(filter) == 0 {
		return true
	}
	for _, s := range filter {
		if s == step {
			return true
		}
	}
	return false
}

// parseIrreversibility understands the "confirms:N" condition syntax.
func parseIrreversibility(condition string) (uint64, bool) {
	if condition == "" {
		return 0, false
	}
	value, ok := strings.CutPrefix(condition, "confirms:")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Serve binds addr and serves the Stream service until ctx is cancelled.
func Serve(ctx context.Context, addr string, fh *Firehose) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding gRPC listener on %s: %w", addr, err)
	}
	srv := grpc.NewServer(grpc.ForceServerCodec(pbfirehose.Codec{}))
	pbfirehose.RegisterStreamServer(srv, fh)

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	fh.log.Infow("gRPC server listening", "addr", addr)
	if err := srv.Serve(lis); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
