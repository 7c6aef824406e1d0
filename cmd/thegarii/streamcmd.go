package main

import (
	"errors"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pbarweave "github.com/chainsafe/thegarii/pb/sf/arweave/type/v1"
	pbfirehose "github.com/chainsafe/thegarii/pb/sf/firehose/v1"
)

var streamCommand = &cli.Command{
	Name:  "stream",
	Usage: "Consume blocks from a running firehose gRPC service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "firehose-endpoint",
			Aliases: []string{"f"},
			Value:   "0.0.0.0:16042",
			Usage:   "address of the firehose service",
		},
		&cli.Int64Flag{
			Name:    "start-block-num",
			Aliases: []string{"s"},
			Usage:   "first streamed height; negative is relative to the irreversible head",
		},
		&cli.StringFlag{
			Name:    "start-cursor",
			Aliases: []string{"c"},
			Usage:   "resume immediately after this opaque cursor",
		},
		&cli.Uint64Flag{
			Name:    "stop-block-num",
			Aliases: []string{"e"},
			Usage:   "last streamed height; 0 streams without end",
		},
		&cli.StringFlag{
			Name:    "irreversibility-condition",
			Aliases: []string{"i"},
			Usage:   "override the server's irreversibility policy, e.g. \"confirms:20\"",
		},
	},
	Action: runStream,
}

func runStream(c *cli.Context) error {
	log := zap.S().Named("stream")

	conn, err := grpc.NewClient(c.String("firehose-endpoint"),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	stream, err := pbfirehose.NewStreamClient(conn).Blocks(c.Context, &pbfirehose.Request{
		StartBlockNum:            c.Int64("start-block-num"),
		StartCursor:              c.String("start-cursor"),
		StopBlockNum:             c.Uint64("stop-block-num"),
		IrreversibilityCondition: c.String("irreversibility-condition"),
	})
	if err != nil {
		return err
	}
	log.Infow("connected", "endpoint", c.String("firehose-endpoint"))

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		block := new(pbarweave.Block)
		if err := block.UnmarshalWire(resp.Block); err != nil {
			return err
		}
		log.Infow("block",
			"height", block.Height,
			"step", resp.Step,
			"cursor", resp.Cursor,
			"txs", len(block.Txs))
	}
}
