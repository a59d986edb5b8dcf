package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"
)

const badgerKeyPrefix = "replay/"

// BadgerStore keeps records in an embedded Badger database. Keys are
// "replay/<ended-at-nanos>/<id>" so iteration yields records oldest first;
// an index key "id/<id>" points at the record key.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger

	mu    sync.RWMutex
	stats StoreStats
}

// NewBadgerStore opens or creates a database in dir. An empty dir opens an
// in-memory database.
func NewBadgerStore(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "replay_badger_store").Logger(),
	}, nil
}

func recordKey(rec *Record) []byte {
	var ts int64
	if !rec.EndedAt.IsZero() && rec.EndedAt.Year() < 2262 {
		ts = rec.EndedAt.UnixNano()
	}
	if ts < 0 {
		ts = 0
	}
	return []byte(fmt.Sprintf("%s%020d/%s", badgerKeyPrefix, ts, rec.ID))
}

func indexKey(id string) []byte {
	return []byte("id/" + id)
}

func (bs *BadgerStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal replay: %w", err)
	}

	key := recordKey(rec)
	err = bs.db.Update(func(txn *badger.Txn) error {
		if old, err := txn.Get(indexKey(rec.ID)); err == nil {
			oldKey, err := old.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Delete(oldKey); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey(rec.ID), key)
	})

	bs.mu.Lock()
	defer bs.mu.Unlock()
	if err != nil {
		bs.stats.WriteErrors++
		return fmt.Errorf("failed to write replay: %w", err)
	}
	bs.stats.TotalWritten++
	bs.stats.BytesWritten += int64(len(data))
	bs.stats.LastWriteTime = time.Now()
	return nil
}

func (bs *BadgerStore) Load(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := bs.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get(indexKey(id))
		if err != nil {
			return err
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read replay %s: %w", id, err)
	}

	bs.mu.Lock()
	bs.stats.TotalRead++
	bs.mu.Unlock()
	return &rec, nil
}

func (bs *BadgerStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	prefix := []byte(badgerKeyPrefix)
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			// replay/<20 digit timestamp>/<id>
			ids = append(ids, string(key[len(prefix)+21:]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list replays: %w", err)
	}
	return ids, nil
}

func (bs *BadgerStore) Delete(ctx context.Context, id string) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		idx, err := txn.Get(indexKey(id))
		if err != nil {
			return err
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete replay: %w", err)
	}

	bs.mu.Lock()
	bs.stats.TotalDeleted++
	bs.mu.Unlock()
	return nil
}

func (bs *BadgerStore) Close() error {
	bs.logger.Debug().Msg("Closing replay store")
	return bs.db.Close()
}

func (bs *BadgerStore) Stats() StoreStats {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.stats
}
