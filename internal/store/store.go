// Package store provides the local persistent key/value store backed by Badger.
// It holds the bearer token, the cached daily-progress fields, and the catalog
// cache envelopes. Values are plain strings; higher-level accessors parse them.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
)

// Persisted keys. The progress service is the sole writer of the progress
// keys; the catalog service is the sole writer of the cache keys.
const (
	KeyToken          = "token"
	KeyGoalMinutes    = "goalMinutes"
	KeyCurrentMinutes = "currentMinutes"
	KeyGoalReached    = "goalReached"
	KeyDateString     = "dateString"
	KeyVideosData     = "videosData"
	KeyVideosStamp    = "videosTimestamp"
	KeySeriesData     = "seriesData"
	KeySeriesStamp    = "seriesTimestamp"
)

// ErrKeyNotFound is returned when a requested key has no value.
var ErrKeyNotFound = domainerrors.ErrNotFound.WithMessage("key not found")

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates a new Store at the given directory.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Progress writes must survive a crash before the next reconcile

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("local store opened", "path", path)
	}

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// OpenReadOnly opens an existing store without taking the write lock.
// Used by inspection tooling.
func OpenReadOnly(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ReadOnly = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db read-only: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the string value for a key. Returns ErrKeyNotFound when absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})

	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a string value under a key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeleteAll removes every given key in a single transaction.
func (s *Store) DeleteAll(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}

// Keys returns every key currently present, for inspection tooling.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
