package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Badger holds an exclusive lock on its directory, so every BadgerCache
// opened on the same directory in this process shares one handle.
var (
	openMu sync.Mutex
	openDB = map[string]*sharedDB{}
)

type sharedDB struct {
	db   *badger.DB
	dir  string
	refs int
	stop chan struct{}
}

// BadgerCache is a cache implementation using BadgerDB
type BadgerCache struct {
	shared *sharedDB
	once   sync.Once
}

// NewBadgerCache opens a BadgerDB cache, reusing the handle of an
// already open cache on the same directory
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	if opts.InMemory {
		s, err := openShared("", badger.DefaultOptions("").WithInMemory(true), opts.Logger)
		if err != nil {
			return nil, err
		}
		return &BadgerCache{shared: s}, nil
	}

	if opts.Directory == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	dir, err := filepath.Abs(utils.ExpandPath(opts.Directory))
	if err != nil {
		return nil, err
	}

	openMu.Lock()
	defer openMu.Unlock()

	if s, ok := openDB[dir]; ok {
		s.refs++
		return &BadgerCache{shared: s}, nil
	}

	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	s, err := openShared(dir, badger.DefaultOptions(dir), opts.Logger)
	if err != nil {
		return nil, err
	}
	openDB[dir] = s
	return &BadgerCache{shared: s}, nil
}

func openShared(dir string, badgerOpts badger.Options, logger *utils.Logger) (*sharedDB, error) {
	if logger != nil {
		badgerOpts = badgerOpts.WithLogger(&badgerLogger{log: logger.WithComponent("badger")})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %q: %w", dir, err)
	}

	s := &sharedDB{db: db, dir: dir, refs: 1, stop: make(chan struct{})}
	if dir != "" {
		go s.runGC()
	}
	return s, nil
}

func (s *sharedDB) runGC() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.db.RunValueLogGC(0.5)
		case <-s.stop:
			return
		}
	}
}

// Get retrieves a value from cache
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	cacheKey := GenerateKey(key)

	var value []byte
	err := c.shared.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a value in cache with TTL
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cacheKey := GenerateKey(key)

	return c.shared.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(cacheKey), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Has checks if a key exists in cache
func (c *BadgerCache) Has(ctx context.Context, key string) bool {
	cacheKey := GenerateKey(key)
	err := c.shared.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(cacheKey))
		return err
	})
	return err == nil
}

// Delete removes a key from cache
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	cacheKey := GenerateKey(key)
	return c.shared.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(cacheKey))
	})
}

// Close releases this handle; the database closes with its last handle
func (c *BadgerCache) Close() error {
	var err error
	c.once.Do(func() {
		openMu.Lock()
		defer openMu.Unlock()

		s := c.shared
		s.refs--
		if s.refs > 0 {
			return
		}
		if s.dir != "" {
			delete(openDB, s.dir)
		}
		close(s.stop)
		err = s.db.Close()
	})
	return err
}

// Clear removes all entries from the cache
func (c *BadgerCache) Clear() error {
	return c.shared.db.DropAll()
}

// Directory returns the directory backing the cache, empty when in memory
func (c *BadgerCache) Directory() string {
	return c.shared.dir
}

// Size returns the number of entries in the cache
func (c *BadgerCache) Size() int64 {
	var count int64
	_ = c.shared.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Stats returns cache statistics
func (c *BadgerCache) Stats() Stats {
	lsm, vlog := c.shared.db.Size()
	return Stats{
		Entries:  c.Size(),
		LSMSize:  lsm,
		VlogSize: vlog,
	}
}

// badgerLogger routes badger's logging through zerolog
type badgerLogger struct {
	log *utils.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
