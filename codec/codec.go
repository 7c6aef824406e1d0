// Package codec maps canonical blocks to their sf.arweave.type.v1 wire
// form.
package codec

import (
	"fmt"

	"github.com/chainsafe/thegarii/arweave"
	pbarweave "github.com/chainsafe/thegarii/pb/sf/arweave/type/v1"
)

// rewardAddrUnclaimed is the literal gateways serve while the block reward
// has not been claimed; it maps to empty bytes on the wire.
const rewardAddrUnclaimed = "unclaimed"

// BlockToProto maps a canonical block to its wire form. Required base64url
// fields that fail to decode abort the conversion; optional ones decode to
// empty bytes. Big integers always materialize as 32 big-endian bytes, with
// absent values becoming all zeroes.
func BlockToProto(b *arweave.FirehoseBlock) (*pbarweave.Block, error) {
	indepHash, err := requiredBytes("indep_hash", b.IndepHash)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	nonce, err := requiredBytes("nonce", b.Nonce)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	previousBlock, err := requiredBytes("previous_block", b.PreviousBlock)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	hash, err := requiredBytes("hash", b.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	walletList, err := requiredBytes("wallet_list", b.WalletList)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	rewardAddr, err := rewardAddrBytes(b.RewardAddr)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}

	diff, err := bigIntField("diff", b.Diff)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	rewardPool, err := bigIntField("reward_pool", b.RewardPool)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	weaveSize, err := bigIntField("weave_size", b.WeaveSize)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	blockSize, err := bigIntField("block_size", b.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}
	cumulativeDiff, err := bigIntField("cumulative_diff", b.CumulativeDiff)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}

	txs := make([]*pbarweave.Transaction, len(b.Txs))
	for i := range b.Txs {
		tx, err := transactionToProto(&b.Txs[i])
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", b.Height, err)
		}
		txs[i] = tx
	}

	tags, err := tagsToProto(b.Tags)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", b.Height, err)
	}

	block := &pbarweave.Block{
		Ver:            1,
		IndepHash:      indepHash,
		Nonce:          nonce,
		PreviousBlock:  previousBlock,
		Timestamp:      b.Timestamp,
		LastRetarget:   b.LastRetarget,
		Diff:           diff,
		Height:         b.Height,
		Hash:           hash,
		TxRoot:         optionalBytes(b.TxRoot),
		Txs:            txs,
		WalletList:     walletList,
		RewardAddr:     rewardAddr,
		Tags:           tags,
		RewardPool:     rewardPool,
		WeaveSize:      weaveSize,
		BlockSize:      blockSize,
		CumulativeDiff: cumulativeDiff,
		HashListMerkle: optionalBytes(b.HashListMerkle),
	}
	if b.Poa != nil {
		block.Poa = &pbarweave.ProofOfAccess{
			Option:   b.Poa.Option,
			TxPath:   optionalBytes(b.Poa.TxPath),
			DataPath: optionalBytes(b.Poa.DataPath),
			Chunk:    optionalBytes(b.Poa.Chunk),
		}
	}
	return block, nil
}

func transactionToProto(tx *arweave.Transaction) (*pbarweave.Transaction, error) {
	id, err := requiredBytes("id", tx.ID)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	lastTx, err := requiredBytes("last_tx", tx.LastTx)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	owner, err := requiredBytes("owner", tx.Owner)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	target, err := requiredBytes("target", tx.Target)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	data, err := requiredBytes("data", tx.Data)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	signature, err := requiredBytes("signature", tx.Signature)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	quantity, err := bigIntField("quantity", tx.Quantity)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	dataSize, err := bigIntField("data_size", tx.DataSize)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	reward, err := bigIntField("reward", tx.Reward)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	tags, err := tagsToProto(tx.Tags)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	return &pbarweave.Transaction{
		Format:    tx.Format,
		ID:        id,
		LastTx:    lastTx,
		Owner:     owner,
		Tags:      tags,
		Target:    target,
		Quantity:  quantity,
		Data:      data,
		DataSize:  dataSize,
		DataRoot:  optionalBytes(tx.DataRoot),
		Signature: signature,
		Reward:    reward,
	}, nil
}

func tagsToProto(tags []arweave.Tag) ([]*pbarweave.Tag, error) {
	out := make([]*pbarweave.Tag, len(tags))
	for i, tag := range tags {
		name, err := requiredBytes("tag name", tag.Name)
		if err != nil {
			return nil, err
		}
		value, err := requiredBytes("tag value", tag.Value)
		if err != nil {
			return nil, err
		}
		out[i] = &pbarweave.Tag{Name: name, Value: value}
	}
	return out, nil
}

func requiredBytes(field, s string) ([]byte, error) {
	b, err := arweave.DecodeBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url %s: %w", field, err)
	}
	return b, nil
}

// optionalBytes decodes an optional field, treating undecodable content as
// absent.
func optionalBytes(s string) []byte {
	b, err := arweave.DecodeBase64URL(s)
	if err != nil {
		return nil
	}
	return b
}

func rewardAddrBytes(s string) ([]byte, error) {
	if s == rewardAddrUnclaimed {
		return nil, nil
	}
	return requiredBytes("reward_addr", s)
}

func bigIntField(field string, v arweave.BigInt) (*pbarweave.BigInt, error) {
	b, err := v.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &pbarweave.BigInt{Bytes: b}, nil
}
