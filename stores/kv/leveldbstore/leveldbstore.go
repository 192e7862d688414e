// Package leveldbstore implements the kv.Store interface on top of LevelDB.
package leveldbstore

import (
	"context"

	"github.com/btcsuite/goleveldb/leveldb"
	ldberrors "github.com/btcsuite/goleveldb/leveldb/errors"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

// LevelDB wraps a goleveldb database. LevelDB write batches are atomic and
// point reads never observe a partially applied batch, which is exactly the
// contract kv.Store demands.
var _ kv.Store = (*LevelDB)(nil)

type LevelDB struct {
	logger ulogger.Logger
	db     *leveldb.DB
	path   string
}

func New(logger ulogger.Logger, path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		if ldberrors.IsCorrupted(err) {
			db, err = leveldb.RecoverFile(path, nil)
		}

		if err != nil {
			return nil, errors.NewStorageError("failed to open leveldb at %s", path, err)
		}
	}

	return &LevelDB{
		logger: logger,
		db:     db,
		path:   path,
	}, nil
}

func (l *LevelDB) Get(_ context.Context, key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, errors.NewNotFoundError("key not found")
		}

		return nil, errors.NewStorageError("failed to read key", err)
	}

	return value, nil
}

func (l *LevelDB) Exists(_ context.Context, key []byte) (bool, error) {
	found, err := l.db.Has(key, nil)
	if err != nil {
		return false, errors.NewStorageError("failed to check key", err)
	}

	return found, nil
}

func (l *LevelDB) Set(_ context.Context, key []byte, value []byte) error {
	if err := l.db.Put(key, value, nil); err != nil {
		return errors.NewStorageError("failed to write key", err)
	}

	return nil
}

func (l *LevelDB) Write(_ context.Context, batch *kv.Batch) error {
	ldbBatch := new(leveldb.Batch)

	for _, op := range batch.Ops() {
		if op.Delete {
			ldbBatch.Delete(op.Key)
		} else {
			ldbBatch.Put(op.Key, op.Value)
		}
	}

	if err := l.db.Write(ldbBatch, nil); err != nil {
		return errors.NewStorageError("failed to commit batch of %d ops", batch.Len(), err)
	}

	return nil
}

func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.NewStorageError("failed to close leveldb at %s", l.path, err)
	}

	return nil
}
