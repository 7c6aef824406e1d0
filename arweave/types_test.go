package arweave

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// One block per schema era: numeric integers below height 269510, decimal
// strings plus cumulative_diff afterwards, tx_root/poa from 422250 on.
const (
	eraOneBlock = `{
		"nonce": "AQID",
		"previous_block": "cHJldg",
		"timestamp": 1528500720,
		"last_retarget": 1528500720,
		"diff": 10,
		"height": 100,
		"hash": "aGFzaA",
		"indep_hash": "aW5kZXA",
		"txs": ["dHgtMQ", "dHgtMg"],
		"wallet_list": "d2FsbGV0cw",
		"reward_addr": "unclaimed",
		"tags": [],
		"reward_pool": 60770606104,
		"weave_size": 599058,
		"block_size": 0
	}`

	eraTwoBlock = `{
		"nonce": "AQID",
		"previous_block": "cHJldg",
		"timestamp": 1567052949,
		"last_retarget": 1567052114,
		"diff": "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		"height": 300000,
		"hash": "aGFzaA",
		"indep_hash": "aW5kZXA",
		"txs": [],
		"wallet_list": "d2FsbGV0cw",
		"reward_addr": "cmV3YXJk",
		"tags": [],
		"reward_pool": "13064999470",
		"weave_size": "599058",
		"block_size": "0",
		"cumulative_diff": "2043309098318",
		"hash_list_merkle": "bWVya2xl"
	}`

	eraThreeBlock = `{
		"nonce": "AQID",
		"previous_block": "cHJldg",
		"timestamp": 1567052949,
		"last_retarget": 1567052114,
		"diff": "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		"height": 500000,
		"hash": "aGFzaA",
		"indep_hash": "aW5kZXA",
		"txs": [],
		"wallet_list": "d2FsbGV0cw",
		"reward_addr": "cmV3YXJk",
		"tags": [{"name": "Zm9v", "value": "YmFy"}, {"name": "Zm9v", "value": "YmF6"}],
		"reward_pool": "13064999470",
		"weave_size": "599058",
		"block_size": "710",
		"cumulative_diff": "2043309098318",
		"hash_list_merkle": "bWVya2xl",
		"tx_root": "cm9vdA",
		"tx_tree": [],
		"poa": {"option": "1", "tx_path": "cGF0aA", "data_path": "ZHBhdGg", "chunk": "Y2h1bms"}
	}`
)

func TestBlockDecodeEraOne(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(eraOneBlock), &b))

	require.Equal(t, uint64(100), b.Height)
	require.Equal(t, BigInt("10"), b.Diff)
	require.Equal(t, BigInt("60770606104"), b.RewardPool)
	require.Equal(t, "unclaimed", b.RewardAddr)
	require.Equal(t, []string{"dHgtMQ", "dHgtMg"}, b.Txs)
	require.Equal(t, BigInt(""), b.CumulativeDiff)
	require.Empty(t, b.TxRoot)
	require.Nil(t, b.Poa)
}

func TestBlockDecodeEraTwo(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(eraTwoBlock), &b))

	require.Equal(t, uint64(300000), b.Height)
	require.Equal(t, BigInt("115792089237316195423570985008687907853269984665640564039457584007913129639935"), b.Diff)
	require.Equal(t, BigInt("13064999470"), b.RewardPool)
	require.Equal(t, BigInt("2043309098318"), b.CumulativeDiff)
	require.Equal(t, "bWVya2xl", b.HashListMerkle)
	require.Empty(t, b.TxRoot)
	require.Nil(t, b.Poa)
}

func TestBlockDecodeEraThree(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(eraThreeBlock), &b))

	require.Equal(t, uint64(500000), b.Height)
	require.Equal(t, BigInt("115792089237316195423570985008687907853269984665640564039457584007913129639935"), b.Diff)
	require.Equal(t, BigInt("2043309098318"), b.CumulativeDiff)
	require.Equal(t, "cm9vdA", b.TxRoot)
	require.NotNil(t, b.Poa)
	require.Equal(t, "1", b.Poa.Option)

	// tag order is preserved, duplicates stay
	require.Equal(t, []Tag{{Name: "Zm9v", Value: "YmFy"}, {Name: "Zm9v", Value: "YmF6"}}, b.Tags)
}

func TestTransactionDecode(t *testing.T) {
	legacy := `{
		"id": "aWQ",
		"last_tx": "bGFzdA",
		"owner": "b3duZXI",
		"tags": [],
		"target": "",
		"quantity": "0",
		"data": "",
		"reward": "321179212",
		"signature": "c2ln"
	}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(legacy), &tx))
	require.Equal(t, uint32(0), tx.Format)
	require.Equal(t, "aWQ", tx.ID)
	require.Equal(t, BigInt(""), tx.DataSize)
	require.Empty(t, tx.DataRoot)

	v2 := `{
		"format": 2,
		"id": "aWQ",
		"last_tx": "bGFzdA",
		"owner": "b3duZXI",
		"tags": [],
		"target": "",
		"quantity": "0",
		"data": "",
		"data_size": "12301",
		"data_root": "cm9vdA",
		"reward": "321179212",
		"signature": "c2ln"
	}`
	tx = Transaction{}
	require.NoError(t, json.Unmarshal([]byte(v2), &tx))
	require.Equal(t, uint32(2), tx.Format)
	require.Equal(t, BigInt("12301"), tx.DataSize)
}

func TestBase64URLRoundTrip(t *testing.T) {
	for _, b := range [][]byte{nil, {0}, {0xff, 0x00, 0xab}, []byte("hello world")} {
		decoded, err := DecodeBase64URL(EncodeBase64URL(b))
		require.NoError(t, err)
		if len(b) == 0 {
			require.Empty(t, decoded)
		} else {
			require.Equal(t, b, decoded)
		}
	}

	// padded input is rejected, the alphabet is unpadded
	_, err := DecodeBase64URL("aGFzaA==")
	require.Error(t, err)
}

func TestFirehoseBlockJSONShadowsTxIDs(t *testing.T) {
	fb := FirehoseBlock{
		Block: Block{Height: 7, IndepHash: "aW5kZXA", Txs: []string{"aWQ"}},
		Txs:   []Transaction{{ID: "aWQ", Format: 2}},
	}
	data, err := json.Marshal(&fb)
	require.NoError(t, err)

	var decoded FirehoseBlock
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Txs, 1)
	require.Equal(t, "aWQ", decoded.Txs[0].ID)
	require.Equal(t, uint32(2), decoded.Txs[0].Format)
}
