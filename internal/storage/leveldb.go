package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBBackend is a durable Backend over an embedded LevelDB database
type LevelDBBackend struct {
	db     *leveldb.DB
	logger *logrus.Logger
}

// NewLevelDBBackend opens (or creates) a LevelDB database at path
func NewLevelDBBackend(path string, logger *logrus.Logger) (*LevelDBBackend, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}

	logger.WithField("path", path).Info("LevelDB storage opened")

	return &LevelDBBackend{db: db, logger: logger}, nil
}

// Get retrieves a value by key
func (b *LevelDBBackend) Get(_ context.Context, key string) ([]byte, error) {
	value, err := b.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get failed: %w", err)
	}
	return value, nil
}

// Put stores a key-value pair
func (b *LevelDBBackend) Put(_ context.Context, key string, value []byte) error {
	if err := b.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put failed: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *LevelDBBackend) Delete(_ context.Context, key string) error {
	if err := b.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("leveldb delete failed: %w", err)
	}
	return nil
}

// List returns all pairs whose key starts with prefix
func (b *LevelDBBackend) List(_ context.Context, prefix string) (map[string][]byte, error) {
	result := make(map[string][]byte)

	iter := b.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	for iter.Next() {
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		result[string(iter.Key())] = value
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb iteration failed: %w", err)
	}

	return result, nil
}

// Close closes the underlying database
func (b *LevelDBBackend) Close() error {
	b.logger.Info("Closing LevelDB storage...")
	return b.db.Close()
}
