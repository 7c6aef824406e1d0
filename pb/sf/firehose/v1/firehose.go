// Package pbfirehose is the hand-maintained wire form of
// proto/sf/firehose/v1/firehose.proto together with the gRPC bindings of the
// sf.firehose.v1.Stream service.
package pbfirehose

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ForkStep qualifies a streamed block relative to the irreversible head.
type ForkStep int32

const (
	StepUnknown ForkStep = 0
	// StepNew marks a block above the irreversible head.
	StepNew ForkStep = 1
	// StepUndo would mark a block removed by a reorganisation; the extractor
	// never emits it.
	StepUndo ForkStep = 2
	// StepIrreversible marks a block at or below the irreversible head.
	StepIrreversible ForkStep = 4
)

// Request selects where the Blocks stream starts and stops.
type Request struct {
	// StartBlockNum is the first streamed height; negative values are
	// relative to the irreversible head.
	StartBlockNum int64
	// StartCursor resumes the stream immediately after the block the cursor
	// points at. When present it overrides StartBlockNum.
	StartCursor string
	// StopBlockNum is the last streamed height, inclusive. Zero streams
	// without end.
	StopBlockNum uint64
	// ForkSteps filters the streamed steps; empty means no filter.
	ForkSteps []ForkStep
	// IrreversibilityCondition optionally overrides the server's
	// confirmation depth, e.g. "confirms:20".
	IrreversibilityCondition string
}

// Response carries one block of the stream.
type Response struct {
	// Block is the canonical sf.arweave.type.v1.Block payload.
	Block []byte
	Step  ForkStep
	// Cursor is the decimal height of the carried block.
	Cursor string
}

func (m *Request) append(b []byte) []byte {
	if m.StartBlockNum != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.StartBlockNum))
	}
	if m.StopBlockNum != 0 {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, m.StopBlockNum)
	}
	if len(m.ForkSteps) > 0 {
		var packed []byte
		for _, s := range m.ForkSteps {
			packed = protowire.AppendVarint(packed, uint64(s))
		}
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if m.StartCursor != "" {
		b = protowire.AppendTag(b, 13, protowire.BytesType)
		b = protowire.AppendString(b, m.StartCursor)
	}
	if m.IrreversibilityCondition != "" {
		b = protowire.AppendTag(b, 17, protowire.BytesType)
		b = protowire.AppendString(b, m.IrreversibilityCondition)
	}
	return b
}

// MarshalWire serializes the message to its canonical wire bytes.
func (m *Request) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

// UnmarshalWire parses wire bytes, accepting both packed and unpacked
// fork_steps.
func (m *Request) UnmarshalWire(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.StartBlockNum = int64(v)
			data = data[n:]
		case num == 5 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.StopBlockNum = v
			data = data[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ForkSteps = append(m.ForkSteps, ForkStep(v))
			data = data[n:]
		case num == 8 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			for len(packed) > 0 {
				v, vn := protowire.ConsumeVarint(packed)
				if vn < 0 {
					return protowire.ParseError(vn)
				}
				m.ForkSteps = append(m.ForkSteps, ForkStep(v))
				packed = packed[vn:]
			}
			data = data[n:]
		case num == 13 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.StartCursor = string(v)
			data = data[n:]
		case num == 17 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.IrreversibilityCondition = string(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func (m *Response) append(b []byte) []byte {
	if len(m.Block) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Block)
	}
	if m.Step != StepUnknown {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Step))
	}
	if m.Cursor != "" {
		b = protowire.AppendTag(b, 10, protowire.BytesType)
		b = protowire.AppendString(b, m.Cursor)
	}
	return b
}

// MarshalWire serializes the message to its canonical wire bytes.
func (m *Response) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

// UnmarshalWire parses wire bytes, skipping unknown fields.
func (m *Response) UnmarshalWire(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Block = append([]byte(nil), v...)
			data = data[n:]
		case num == 6 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Step = ForkStep(v)
			data = data[n:]
		case num == 10 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Cursor = string(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
