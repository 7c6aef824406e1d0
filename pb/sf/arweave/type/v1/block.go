// Package pbarweave is the hand-maintained wire form of
// proto/sf/arweave/type/v1/type.proto. Fields are emitted in ascending tag
// order and defaults are omitted, so every message has exactly one
// serialization.
package pbarweave

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// BigInt carries an unsigned integer as its 32-byte big-endian
// representation.
type BigInt struct {
	Bytes []byte
}

// Tag is one ordered name/value pair.
type Tag struct {
	Name  []byte
	Value []byte
}

// ProofOfAccess is the poa payload of post-v2.4 blocks.
type ProofOfAccess struct {
	Option   string
	TxPath   []byte
	DataPath []byte
	Chunk    []byte
}

// Transaction is the wire form of one transaction.
type Transaction struct {
	Format    uint32
	ID        []byte
	LastTx    []byte
	Owner     []byte
	Tags      []*Tag
	Target    []byte
	Quantity  *BigInt
	Data      []byte
	DataSize  *BigInt
	DataRoot  []byte
	Signature []byte
	Reward    *BigInt
}

// Block is the wire form of one block together with its transactions.
type Block struct {
	Ver            uint32
	IndepHash      []byte
	Nonce          []byte
	PreviousBlock  []byte
	Timestamp      uint64
	LastRetarget   uint64
	Diff           *BigInt
	Height         uint64
	Hash           []byte
	TxRoot         []byte
	Txs            []*Transaction
	WalletList     []byte
	RewardAddr     []byte
	Tags           []*Tag
	RewardPool     *BigInt
	WeaveSize      *BigInt
	BlockSize      *BigInt
	CumulativeDiff *BigInt
	HashListMerkle []byte
	Poa            *ProofOfAccess
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUint64Field(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessageField(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func (m *BigInt) append(b []byte) []byte {
	return appendBytesField(b, 1, m.Bytes)
}

// MarshalWire serializes the message to its canonical wire bytes.
func (m *BigInt) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

// UnmarshalWire parses wire bytes, skipping unknown fields.
func (m *BigInt) UnmarshalWire(data []byte) error {
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
			m.Bytes = append([]byte(nil), v...)
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

func (m *Tag) append(b []byte) []byte {
	b = appendBytesField(b, 1, m.Name)
	b = appendBytesField(b, 2, m.Value)
	return b
}

func (m *Tag) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

func (m *Tag) UnmarshalWire(data []byte) error {
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
			m.Name = append([]byte(nil), v...)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Value = append([]byte(nil), v...)
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

func (m *ProofOfAccess) append(b []byte) []byte {
	b = appendStringField(b, 1, m.Option)
	b = appendBytesField(b, 2, m.TxPath)
	b = appendBytesField(b, 3, m.DataPath)
	b = appendBytesField(b, 4, m.Chunk)
	return b
}

func (m *ProofOfAccess) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

func (m *ProofOfAccess) UnmarshalWire(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		if typ != protowire.BytesType || num < 1 || num > 4 {
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		switch num {
		case 1:
			m.Option = string(v)
		case 2:
			m.TxPath = append([]byte(nil), v...)
		case 3:
			m.DataPath = append([]byte(nil), v...)
		case 4:
			m.Chunk = append([]byte(nil), v...)
		}
		data = data[n:]
	}
	return nil
}

func (m *Transaction) append(b []byte) []byte {
	b = appendUint64Field(b, 1, uint64(m.Format))
	b = appendBytesField(b, 2, m.ID)
	b = appendBytesField(b, 3, m.LastTx)
	b = appendBytesField(b, 4, m.Owner)
	for _, tag := range m.Tags {
		b = appendMessageField(b, 5, tag.append(nil))
	}
	b = appendBytesField(b, 6, m.Target)
	if m.Quantity != nil {
		b = appendMessageField(b, 7, m.Quantity.append(nil))
	}
	b = appendBytesField(b, 8, m.Data)
	if m.DataSize != nil {
		b = appendMessageField(b, 9, m.DataSize.append(nil))
	}
	b = appendBytesField(b, 10, m.DataRoot)
	b = appendBytesField(b, 11, m.Signature)
	if m.Reward != nil {
		b = appendMessageField(b, 12, m.Reward.append(nil))
	}
	return b
}

func (m *Transaction) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

func (m *Transaction) UnmarshalWire(data []byte) error {
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
			m.Format = uint32(v)
			data = data[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 2:
				m.ID = append([]byte(nil), v...)
			case 3:
				m.LastTx = append([]byte(nil), v...)
			case 4:
				m.Owner = append([]byte(nil), v...)
			case 5:
				tag := new(Tag)
				if err := tag.UnmarshalWire(v); err != nil {
					return err
				}
				m.Tags = append(m.Tags, tag)
			case 6:
				m.Target = append([]byte(nil), v...)
			case 7:
				m.Quantity = new(BigInt)
				if err := m.Quantity.UnmarshalWire(v); err != nil {
					return err
				}
			case 8:
				m.Data = append([]byte(nil), v...)
			case 9:
				m.DataSize = new(BigInt)
				if err := m.DataSize.UnmarshalWire(v); err != nil {
					return err
				}
			case 10:
				m.DataRoot = append([]byte(nil), v...)
			case 11:
				m.Signature = append([]byte(nil), v...)
			case 12:
				m.Reward = new(BigInt)
				if err := m.Reward.UnmarshalWire(v); err != nil {
					return err
				}
			}
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

func (m *Block) append(b []byte) []byte {
	b = appendUint64Field(b, 1, uint64(m.Ver))
	b = appendBytesField(b, 2, m.IndepHash)
	b = appendBytesField(b, 3, m.Nonce)
	b = appendBytesField(b, 4, m.PreviousBlock)
	b = appendUint64Field(b, 5, m.Timestamp)
	b = appendUint64Field(b, 6, m.LastRetarget)
	if m.Diff != nil {
		b = appendMessageField(b, 7, m.Diff.append(nil))
	}
	b = appendUint64Field(b, 8, m.Height)
	b = appendBytesField(b, 9, m.Hash)
	b = appendBytesField(b, 10, m.TxRoot)
	for _, tx := range m.Txs {
		b = appendMessageField(b, 11, tx.append(nil))
	}
	b = appendBytesField(b, 12, m.WalletList)
	b = appendBytesField(b, 13, m.RewardAddr)
	for _, tag := range m.Tags {
		b = appendMessageField(b, 14, tag.append(nil))
	}
	if m.RewardPool != nil {
		b = appendMessageField(b, 15, m.RewardPool.append(nil))
	}
	if m.WeaveSize != nil {
		b = appendMessageField(b, 16, m.WeaveSize.append(nil))
	}
	if m.BlockSize != nil {
		b = appendMessageField(b, 17, m.BlockSize.append(nil))
	}
	if m.CumulativeDiff != nil {
		b = appendMessageField(b, 18, m.CumulativeDiff.append(nil))
	}
	b = appendBytesField(b, 19, m.HashListMerkle)
	if m.Poa != nil {
		b = appendMessageField(b, 20, m.Poa.append(nil))
	}
	return b
}

func (m *Block) MarshalWire() ([]byte, error) {
	return m.append(nil), nil
}

func (m *Block) UnmarshalWire(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.Ver = uint32(v)
			case 5:
				m.Timestamp = v
			case 6:
				m.LastRetarget = v
			case 8:
				m.Height = v
			}
			data = data[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 2:
				m.IndepHash = append([]byte(nil), v...)
			case 3:
				m.Nonce = append([]byte(nil), v...)
			case 4:
				m.PreviousBlock = append([]byte(nil), v...)
			case 7:
				m.Diff = new(BigInt)
				if err := m.Diff.UnmarshalWire(v); err != nil {
					return err
				}
			case 9:
				m.Hash = append([]byte(nil), v...)
			case 10:
				m.TxRoot = append([]byte(nil), v...)
			case 11:
				tx := new(Transaction)
				if err := tx.UnmarshalWire(v); err != nil {
					return err
				}
				m.Txs = append(m.Txs, tx)
			case 12:
				m.WalletList = append([]byte(nil), v...)
			case 13:
				m.RewardAddr = append([]byte(nil), v...)
			case 14:
				tag := new(Tag)
				if err := tag.UnmarshalWire(v); err != nil {
					return err
				}
				m.Tags = append(m.Tags, tag)
			case 15:
				m.RewardPool = new(BigInt)
				if err := m.RewardPool.UnmarshalWire(v); err != nil {
					return err
				}
			case 16:
				m.WeaveSize = new(BigInt)
				if err := m.WeaveSize.UnmarshalWire(v); err != nil {
					return err
				}
			case 17:
				m.BlockSize = new(BigInt)
				if err := m.BlockSize.UnmarshalWire(v); err != nil {
					return err
				}
			case 18:
				m.CumulativeDiff = new(BigInt)
				if err := m.CumulativeDiff.UnmarshalWire(v); err != nil {
					return err
				}
			case 19:
				m.HashListMerkle = append([]byte(nil), v...)
			case 20:
				m.Poa = new(ProofOfAccess)
				if err := m.Poa.UnmarshalWire(v); err != nil {
					return err
				}
			}
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
