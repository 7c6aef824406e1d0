package pbarweave

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigIntWireBytes(t *testing.T) {
	m := &BigInt{Bytes: []byte{0x01}}
	data, err := m.MarshalWire()
	require.NoError(t, err)
	// field 1, length-delimited, one byte
	require.Equal(t, []byte{0x0a, 0x01, 0x01}, data)

	var decoded BigInt
	require.NoError(t, decoded.UnmarshalWire(data))
	require.Equal(t, m.Bytes, decoded.Bytes)
}

func TestTagWireBytes(t *testing.T) {
	m := &Tag{Name: []byte("a"), Value: []byte("bc")}
	data, err := m.MarshalWire()
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x01, 'a', 0x12, 0x02, 'b', 'c'}, data)
}

func sampleWireBlock() *Block {
	return &Block{
		Ver:           1,
		IndepHash:     []byte("indep"),
		Nonce:         []byte{1, 2, 3},
		PreviousBlock: []byte("prev"),
		Timestamp:     1528500720,
		LastRetarget:  1528500720,
		Diff:          &BigInt{Bytes: make([]byte, 32)},
		Height:        100,
		Hash:          []byte("hash"),
		Txs: []*Transaction{
			{
				Format:    2,
				ID:        []byte("tx-1"),
				LastTx:    []byte("last"),
				Owner:     []byte("owner"),
				Tags:      []*Tag{{Name: []byte("foo"), Value: []byte("bar")}},
				Quantity:  &BigInt{Bytes: make([]byte, 32)},
				DataSize:  &BigInt{Bytes: make([]byte, 32)},
				Signature: []byte("sig"),
				Reward:    &BigInt{Bytes: make([]byte, 32)},
			},
		},
		WalletList: []byte("wallets"),
		Tags: []*Tag{
			{Name: []byte("foo"), Value: []byte("bar")},
			{Name: []byte("foo"), Value: []byte("baz")},
		},
		RewardPool:     &BigInt{Bytes: make([]byte, 32)},
		WeaveSize:      &BigInt{Bytes: make([]byte, 32)},
		BlockSize:      &BigInt{Bytes: make([]byte, 32)},
		CumulativeDiff: &BigInt{Bytes: make([]byte, 32)},
		Poa: &ProofOfAccess{
			Option: "1",
			TxPath: []byte("path"),
			Chunk:  []byte("chunk"),
		},
	}
}

func TestBlockRoundTrip(t *testing.T) {
	m := sampleWireBlock()
	data, err := m.MarshalWire()
	require.NoError(t, err)

	decoded := new(Block)
	require.NoError(t, decoded.UnmarshalWire(data))
	require.Equal(t, m, decoded)
}

func TestBlockMarshalIsDeterministic(t *testing.T) {
	m := sampleWireBlock()
	a, err := m.MarshalWire()
	require.NoError(t, err)
	b, err := m.MarshalWire()
	require.NoError(t, err)
	require.Equal(t, a, b)

	// a decode/re-encode cycle lands on the same bytes
	decoded := new(Block)
	require.NoError(t, decoded.UnmarshalWire(a))
	c, err := decoded.MarshalWire()
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestBlockUnmarshalSkipsUnknownFields(t *testing.T) {
	data, err := sampleWireBlock().MarshalWire()
	require.NoError(t, err)

	// append an unknown field 99 with a varint payload
	data = append(data, 0x98, 0x06, 0x2a)

	decoded := new(Block)
	require.NoError(t, decoded.UnmarshalWire(data))
	require.Equal(t, uint64(100), decoded.Height)
}
