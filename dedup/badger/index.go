// Package badger provides a BadgerDB-backed dedup.Index.
//
// Each marked content hash is stored under its own key with a small MUS
// encoded entry as the value, so lookups are single key reads.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/corvid-labs/magpie/dedup"
)

const hashKeyPrefix = "dedup"

// Index is a BadgerDB-backed dedup index.
type Index struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

var _ dedup.Index = (*Index)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badgerdb.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenIndex opens a BadgerDB-backed index at the specified path.
// Creates the directory if it doesn't exist. With inMemory set, the path is
// ignored and nothing is persisted.
func OpenIndex(filePath string, inMemory bool) (*Index, error) {
	var opts badgerdb.Options

	if inMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badgerdb.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Index{
		db:     db,
		logger: slog.Default().With("component", "dedup.badger"),
	}, nil
}

// makeHashKey generates the storage key for a content hash.
func makeHashKey(hash string) []byte {
	return []byte(fmt.Sprintf("%s:%s", hashKeyPrefix, hash))
}

// Seen reports whether the hash has been marked.
func (idx *Index) Seen(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, dedup.ErrEmptyHash
	}
	if idx.db.IsClosed() {
		return false, dedup.ErrIndexClosed
	}

	err := idx.db.View(func(tx *badgerdb.Txn) error {
		_, err := tx.Get(makeHashKey(hash))
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Mark records the hash with its entry, overwriting any previous entry.
func (idx *Index) Mark(ctx context.Context, hash string, entry dedup.Entry) error {
	if hash == "" {
		return dedup.ErrEmptyHash
	}
	if idx.db.IsClosed() {
		return dedup.ErrIndexClosed
	}

	return idx.db.Update(func(tx *badgerdb.Txn) error {
		return tx.Set(makeHashKey(hash), dedup.MarshalEntry(entry))
	})
}

// Get returns the stored entry for a hash.
// Returns dedup.ErrSerializationFailed wrapped around decode failures.
func (idx *Index) Get(ctx context.Context, hash string) (dedup.Entry, bool, error) {
	if hash == "" {
		return dedup.Entry{}, false, dedup.ErrEmptyHash
	}
	if idx.db.IsClosed() {
		return dedup.Entry{}, false, dedup.ErrIndexClosed
	}

	var entry dedup.Entry
	err := idx.db.View(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(makeHashKey(hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := dedup.UnmarshalEntry(val)
			if err != nil {
				return fmt.Errorf("%w: %w", dedup.ErrSerializationFailed, err)
			}
			entry = decoded
			return nil
		})
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return dedup.Entry{}, false, nil
	}
	if err != nil {
		return dedup.Entry{}, false, err
	}
	return entry, true, nil
}

// Len counts the marked hashes. Iterates all keys, intended for tests and
// stats output rather than hot paths.
func (idx *Index) Len() (int, error) {
	if idx.db.IsClosed() {
		return 0, dedup.ErrIndexClosed
	}

	count := 0
	err := idx.db.View(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(hashKeyPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
