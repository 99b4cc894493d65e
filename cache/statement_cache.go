package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/erpcall/database"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 64

// Preparer creates prepared statements.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (database.Statement, error)
}

// entry counts the callers currently holding a statement. A statement that
// leaves the cache is closed once the last holder releases it.
type entry struct {
	stmt    database.Statement
	mu      sync.Mutex
	refs    int
	dropped bool
}

func (e *entry) acquire() {
	e.mu.Lock()
	e.refs++
	e.mu.Unlock()
}

func (e *entry) release() {
	e.mu.Lock()
	e.refs--
	closeNow := e.dropped && e.refs == 0
	e.mu.Unlock()
	if closeNow {
		_ = e.stmt.Close()
	}
}

func (e *entry) drop() {
	e.mu.Lock()
	e.dropped = true
	closeNow := e.refs == 0
	e.mu.Unlock()
	if closeNow {
		_ = e.stmt.Close()
	}
}

// StatementCache keeps prepared calls keyed by a fingerprint of the call
// text. Evicted statements are closed after their last in-flight use.
type StatementCache struct {
	cache *lru.Cache[uint64, *entry]
	mu    sync.RWMutex
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.NewWithEvict(size, func(key uint64, e *entry) {
		e.drop()
	})

	return &StatementCache{
		cache: cache,
	}
}

// GetOrPrepare returns the statement for key, preparing it on a miss. The
// caller must call release when done with the statement; until then it
// stays open even if it is evicted or removed.
func (s *StatementCache) GetOrPrepare(ctx context.Context, key uint64, p Preparer, query string) (stmt database.Statement, release func(), err error) {
	// Eviction needs the write lock, so an entry found here cannot be
	// dropped before it is acquired.
	s.mu.RLock()
	if e, ok := s.cache.Get(key); ok {
		e.acquire()
		s.mu.RUnlock()
		return e.stmt, e.release, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(key); ok {
		e.acquire()
		return e.stmt, e.release, nil
	}

	prepared, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	e := &entry{stmt: prepared, refs: 1}
	s.cache.Add(key, e)
	return prepared, e.release, nil
}

// Remove drops the statement stored under key. It is closed once no caller
// holds it.
func (s *StatementCache) Remove(key uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
}

// Contains reports whether key is cached without touching its recency.
func (s *StatementCache) Contains(key uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Contains(key)
}

func (s *StatementCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Len()
}

func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge() // This will trigger the evict callback for all items
	return nil
}
