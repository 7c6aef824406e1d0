// Package store persists canonical blocks in a local LevelDB, keyed by
// big-endian height so iteration order equals height order.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/chainsafe/thegarii/arweave"
)

// ErrBlockNotFound means the requested height is not in the store.
var ErrBlockNotFound = errors.New("block not found in store")

// Store wraps one LevelDB instance.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) the store at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening block store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing store without write access.
func OpenReadOnly(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		return nil, fmt.Errorf("opening block store %s read-only: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func blockKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)
	return key
}

// Put stores one block, overwriting any previous block at its height.
func (s *Store) Put(b *arweave.FirehoseBlock) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding block %d: %w", b.Height, err)
	}
	if err := s.db.Put(blockKey(b.Height), data, nil); err != nil {
		return fmt.Errorf("storing block %d: %w", b.Height, err)
	}
	return nil
}

// Get returns the block at the given height or ErrBlockNotFound.
func (s *Store) Get(height uint64) (*arweave.FirehoseBlock, error) {
	data, err := s.db.Get(blockKey(height), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("height %d: %w", height, ErrBlockNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading block %d: %w", height, err)
	}
	block := new(arweave.FirehoseBlock)
	if err := json.Unmarshal(data, block); err != nil {
		return nil, fmt.Errorf("decoding stored block %d: %w", height, err)
	}
	return block, nil
}

// Has reports whether a block at the given height is stored.
func (s *Store) Has(height uint64) (bool, error) {
	return s.db.Has(blockKey(height), nil)
}

// Last returns the stored block with the greatest height.
func (s *Store) Last() (*arweave.FirehoseBlock, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, err
		}
		return nil, ErrBlockNotFound
	}
	block := new(arweave.FirehoseBlock)
	if err := json.Unmarshal(iter.Value(), block); err != nil {
		return nil, fmt.Errorf("decoding stored block: %w", err)
	}
	return block, nil
}

// Count returns the number of stored blocks.
func (s *Store) Count() (uint64, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	var n uint64
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Missing filters the given heights down to those not yet stored.
func (s *Store) Missing(heights []uint64) ([]uint64, error) {
	var missing []uint64
	for _, h := range heights {
		ok, err := s.Has(h)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, h)
		}
	}
	return missing, nil
}

// Continuous scans the stored keys for gaps between the lowest and the
// greatest stored height and returns the missing heights in ascending
// order. Heights below the lowest stored one are not reported.
func (s *Store) Continuous() ([]uint64, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var (
		missing []uint64
		next    uint64
		first   = true
	)
	for iter.Next() {
		h := binary.BigEndian.Uint64(iter.Key())
		if first {
			next = h + 1
			first = false
			continue
		}
		for ; next < h; next++ {
			missing = append(missing, next)
		}
		next = h + 1
	}
	return missing, iter.Error()
}

// Backup copies every stored block into a fresh database at dst.
func (s *Store) Backup(dst string) error {
	out, err := leveldb.OpenFile(dst, nil)
	if err != nil {
		return fmt.Errorf("opening backup target %s: %w", dst, err)
	}
	defer out.Close()

	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if err := out.Put(iter.Key(), iter.Value(), nil); err != nil {
			return fmt.Errorf("copying block to backup: %w", err)
		}
	}
	return iter.Error()
}

// Restore copies every block of the backup at src into the store at
// dbPath.
func Restore(src, dbPath string) error {
	in, err := leveldb.OpenFile(src, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		return fmt.Errorf("opening backup %s: %w", src, err)
	}
	defer in.Close()

	out, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return fmt.Errorf("opening block store %s: %w", dbPath, err)
	}
	defer out.Close()

	iter := in.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if err := out.Put(iter.Key(), iter.Value(), nil); err != nil {
			return fmt.Errorf("copying block from backup: %w", err)
		}
	}
	return iter.Error()
}
