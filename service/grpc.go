package service

import (
	"context"

	"github.com/chainsafe/thegarii/server"
)

// GRPC runs the firehose stream server as a start-mode service.
type GRPC struct {
	addr     string
	firehose *server.Firehose
}

// NewGRPC builds the gRPC service.
func NewGRPC(addr string, firehose *server.Firehose) *GRPC {
	return &GRPC{addr: addr, firehose: firehose}
}

// Name implements Service.
func (g *GRPC) Name() string { return "grpc" }

// Run implements Service.
func (g *GRPC) Run(ctx context.Context) error {
	return server.Serve(ctx, g.addr, g.firehose)
}
