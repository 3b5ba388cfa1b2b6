// Package leveldb implements database.DB on goleveldb.
package leveldb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goPyth/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type DB struct {
	mu sync.RWMutex
	db *leveldb.DB
}

var _ database.DB = (*DB)(nil)

var syncWrites = &opt.WriteOptions{Sync: true}

// Open opens or creates a LevelDB database at path.
func Open(path string) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb database %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

func (l *DB) handle() (*leveldb.DB, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	return l.db, nil
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return nil, err
	}

	val, err := db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, database.ErrKeyNotFound
	}
	return val, err
}

func (l *DB) Has(ctx context.Context, key []byte) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return false, err
	}
	return db.Has(key, nil)
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return err
	}
	return db.Put(key, value, syncWrites)
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return err
	}
	return db.Delete(key, syncWrites)
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("%w: %d", database.ErrUnknownBatchOp, op.Type)
		}
	}
	return db.Write(batch, syncWrites)
}

func (l *DB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

type Iterator struct {
	iterator.Iterator
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	db, err := l.handle()
	if err != nil {
		return nil, err
	}
	return &Iterator{db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

func (it *Iterator) Close() error {
	err := it.Error()
	it.Release()
	return err
}
