package pbfirehose

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const streamServiceName = "sf.firehose.v1.Stream"

// Message is implemented by every hand-maintained wire message.
type Message interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire([]byte) error
}

// Codec moves Messages through gRPC without the reflection-based proto
// runtime; the hand-maintained marshalers produce canonical bytes already.
type Codec struct{}

// Marshal implements grpc/encoding.Codec.
func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("cannot marshal %T: not a wire message", v)
	}
	return m.MarshalWire()
}

// Unmarshal implements grpc/encoding.Codec.
func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("cannot unmarshal into %T: not a wire message", v)
	}
	return m.UnmarshalWire(data)
}

// Name implements grpc/encoding.Codec. The wire bytes are plain protobuf, so
// the stream keeps the standard content subtype.
func (Codec) Name() string { return "proto" }

// StreamServer is the server API of the sf.firehose.v1.Stream service.
type StreamServer interface {
	Blocks(*Request, Stream_BlocksServer) error
}

// Stream_BlocksServer is the server side of the Blocks stream.
type Stream_BlocksServer interface {
	Send(*Response) error
	grpc.ServerStream
}

type streamBlocksServer struct {
	grpc.ServerStream
}

func (s *streamBlocksServer) Send(r *Response) error {
	return s.ServerStream.SendMsg(r)
}

// RegisterStreamServer registers the Stream service implementation.
func RegisterStreamServer(s grpc.ServiceRegistrar, srv StreamServer) {
	s.RegisterService(&StreamServiceDesc, srv)
}

func streamBlocksHandler(srv interface{}, stream grpc.ServerStream) error {
	req := new(Request)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(StreamServer).Blocks(req, &streamBlocksServer{stream})
}

// StreamServiceDesc is the grpc.ServiceDesc of the Stream service.
var StreamServiceDesc = grpc.ServiceDesc{
	ServiceName: streamServiceName,
	HandlerType: (*StreamServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Blocks",
			Handler:       streamBlocksHandler,
			ServerStreams: true,
		},
	},
	Metadata: "sf/firehose/v1/firehose.proto",
}

// StreamClient is the client API of the sf.firehose.v1.Stream service.
type StreamClient interface {
	Blocks(ctx context.Context, req *Request, opts ...grpc.CallOption) (Stream_BlocksClient, error)
}

// Stream_BlocksClient is the client side of the Blocks stream.
type Stream_BlocksClient interface {
	Recv() (*Response, error)
	grpc.ClientStream
}

type streamClient struct {
	cc grpc.ClientConnInterface
}

// NewStreamClient returns a Stream service client over the given connection.
func NewStreamClient(cc grpc.ClientConnInterface) StreamClient {
	return &streamClient{cc: cc}
}

func (c *streamClient) Blocks(ctx context.Context, req *Request, opts ...grpc.CallOption) (Stream_BlocksClient, error) {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &StreamServiceDesc.Streams[0], "/"+streamServiceName+"/Blocks", opts...)
	if err != nil {
		return nil, err
	}
	x := &streamBlocksClient{stream}
	if err := x.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type streamBlocksClient struct {
	grpc.ClientStream
}

func (x *streamBlocksClient) Recv() (*Response, error) {
	m := new(Response)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
