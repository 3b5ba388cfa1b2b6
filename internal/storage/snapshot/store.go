// Package snapshot persists raw account bytes in a local key-value
// database so a product directory can be walked offline.
package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"iter"

	"github.com/LeJamon/goPyth/internal/storage/compression"
	"github.com/LeJamon/goPyth/internal/storage/database"
	"github.com/LeJamon/goPyth/internal/storage/database/leveldb"
	"github.com/LeJamon/goPyth/internal/storage/database/pebble"
	"github.com/LeJamon/goPyth/pkg/account"
)

var (
	// ErrAccountNotFound is returned by Load for keys not in the snapshot.
	ErrAccountNotFound = errors.New("account not in snapshot")

	// ErrCorruptValue is returned when a stored value cannot be decoded.
	ErrCorruptValue = errors.New("corrupt snapshot value")

	// ErrNoRoot is returned by Root before SetRoot has been called.
	ErrNoRoot = errors.New("snapshot has no root mapping account")
)

// maxAccountBytes is the largest account Solana allows.
const maxAccountBytes = 10 << 20

var (
	accountPrefix = []byte("a/")
	rootKey       = []byte("m/root")
)

// Config selects the backend, location and value compression of a store.
type Config struct {
	Backend     string
	Path        string
	Compression string
}

// Record is one account as fetched from the chain.
type Record struct {
	Key  account.Key
	Data []byte
}

// Store maps account keys to their raw bytes.
type Store struct {
	db         database.DB
	compressor compression.Compressor
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	compressor, err := compression.Get(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var db database.DB
	switch cfg.Backend {
	case database.BackendPebble:
		db, err = pebble.Open(cfg.Path)
	case database.BackendLevelDB:
		db, err = leveldb.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return New(db, compressor), nil
}

// New wraps an open database. New values are written with compressor;
// values written with any registered compressor can be read back.
func New(db database.DB, compressor compression.Compressor) *Store {
	return &Store{db: db, compressor: compressor}
}

func accountKey(k account.Key) []byte {
	return append(append(make([]byte, 0, len(accountPrefix)+account.KeyBytes), accountPrefix...), k[:]...)
}

// encode frames data as [compressor id][uvarint length][payload].
func (s *Store) encode(data []byte) ([]byte, error) {
	c := s.compressor
	payload, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 && len(payload) == 0 {
		c = &compression.NoCompressor{}
		payload = data
	}

	out := make([]byte, 1, 1+binary.MaxVarintLen64+len(payload))
	out[0] = c.ID()
	out = binary.AppendUvarint(out, uint64(len(data)))
	return append(out, payload...), nil
}

func decode(value []byte) ([]byte, error) {
	if len(value) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptValue, len(value))
	}
	c, err := compression.ByID(value[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptValue, err)
	}
	size, n := binary.Uvarint(value[1:])
	if n <= 0 || size > maxAccountBytes {
		return nil, fmt.Errorf("%w: bad length prefix", ErrCorruptValue)
	}
	data, err := c.Decompress(value[1+n:], int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptValue, err)
	}
	return data, nil
}

// Put stores the bytes of one account, replacing any previous value.
func (s *Store) Put(ctx context.Context, key account.Key, data []byte) error {
	value, err := s.encode(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Write(ctx, accountKey(key), value)
}

// PutBatch stores several accounts atomically.
func (s *Store) PutBatch(ctx context.Context, records []Record) error {
	ops := make([]database.BatchOperation, 0, len(records))
	for _, r := range records {
		value, err := s.encode(r.Data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.Key, err)
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: accountKey(r.Key), Value: value})
	}
	return s.db.Batch(ctx, ops)
}

// Load returns the stored bytes of key. It satisfies traverse.Loader.
func (s *Store) Load(ctx context.Context, key account.Key) ([]byte, error) {
	value, err := s.db.Read(ctx, accountKey(key))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	data, err := decode(value)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Has(ctx context.Context, key account.Key) (bool, error) {
	return s.db.Has(ctx, accountKey(key))
}

// Keys yields every stored account key in byte order.
func (s *Store) Keys(ctx context.Context) iter.Seq2[account.Key, error] {
	return func(yield func(account.Key, error) bool) {
		it, err := s.db.Iterator(ctx, accountPrefix, prefixEnd(accountPrefix))
		if err != nil {
			yield(account.Key{}, err)
			return
		}
		defer it.Close()

		for it.Next() {
			var k account.Key
			raw := it.Key()[len(accountPrefix):]
			if len(raw) != account.KeyBytes {
				if !yield(k, fmt.Errorf("%w: key of %d bytes", ErrCorruptValue, len(raw))) {
					return
				}
				continue
			}
			copy(k[:], raw)
			if !yield(k, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(account.Key{}, err)
		}
	}
}

// Count returns the number of stored accounts.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	for _, err := range s.Keys(ctx) {
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SetRoot records the mapping account the snapshot was taken from.
func (s *Store) SetRoot(ctx context.Context, key account.Key) error {
	return s.db.Write(ctx, rootKey, key[:])
}

// Root returns the key stored by SetRoot.
func (s *Store) Root(ctx context.Context) (account.Key, error) {
	raw, err := s.db.Read(ctx, rootKey)
	if errors.Is(err, database.ErrKeyNotFound) {
		return account.Key{}, ErrNoRoot
	}
	if err != nil {
		return account.Key{}, err
	}
	if len(raw) != account.KeyBytes {
		return account.Key{}, fmt.Errorf("%w: root of %d bytes", ErrCorruptValue, len(raw))
	}
	var k account.Key
	copy(k[:], raw)
	return k, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
