// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/models"
)

var ErrNoSource = errors.New("session has no ballot source")

// maxLoggedConflicts caps per-conflict log lines on load
const maxLoggedConflicts = 20

// Session owns the current ballot store and every structure derived from
// it. Derived results are memoised under the store version, so a query is
// computed at most once per loaded table; Reload clears the cache.
type Session struct {
	source ballots.Source
	logger *zap.Logger

	mu       sync.RWMutex
	store    *ballots.Store
	loadedAt time.Time

	cache *xsync.Map[string, any]
}

// NewSession loads the source once and returns a ready session
func NewSession(ctx context.Context, source ballots.Source, logger *zap.Logger) (*Session, error) {
	s := &Session{
		source: source,
		logger: logger,
		cache:  xsync.NewMap[string, any](),
	}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticSession serves a fixed store; Reload returns ErrNoSource
func NewStaticSession(store *ballots.Store, logger *zap.Logger) *Session {
	s := &Session{
		logger:   logger,
		cache:    xsync.NewMap[string, any](),
		store:    store,
		loadedAt: time.Now(),
	}
	s.logStore(store)
	return s
}

// Store returns the current ballot table
func (s *Session) Store() *ballots.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Reload reads the source again. On failure the previous store stays in
// service.
func (s *Session) Reload(ctx context.Context) (*ballots.Store, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	start := time.Now()
	store, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("ballot load failed",
			zap.String("source", s.source.Describe()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load ballots: %w", err)
	}

	s.mu.Lock()
	s.store = store
	s.loadedAt = time.Now()
	s.cache.Clear()
	s.mu.Unlock()

	s.logger.Info("ballots loaded",
		zap.String("source", s.source.Describe()),
		zap.Duration("took", time.Since(start)),
	)
	s.logStore(store)
	return store, nil
}

func (s *Session) logStore(store *ballots.Store) {
	s.logger.Info("ballot store ready",
		zap.String("version", store.Version()),
		zap.Int("ballots", store.Len()),
		zap.Int("skipped", store.Skipped()),
		zap.Int("districts", len(store.Districts())),
	)
	if missing := store.Missing(); len(missing) > 0 {
		s.logger.Warn("ballot table is missing columns", zap.Strings("columns", missing))
	}

	conflicts := s.indexFor(store).Conflicts()
	for i, c := range conflicts {
		if i == maxLoggedConflicts {
			s.logger.Warn("more candidate party conflicts not logged",
				zap.Int("remaining", len(conflicts)-maxLoggedConflicts))
			break
		}
		s.logger.Warn("candidate seen under several parties, keeping last",
			zap.String("candidate", c.Candidate),
			zap.String("previous", c.Previous),
			zap.String("party", c.Party),
			zap.Int("row", c.Row),
		)
	}
}

// memo returns the cached value of key for the current store, computing it
// on first use
func memo[T any](s *Session, key string, fn func(*ballots.Store) T) T {
	return memoFor(s, s.Store(), key, fn)
}

// memoFor caches under the version of st. A query reads the store once and
// passes it down so every derived structure it touches comes from the same
// table. Results for a store that was replaced meanwhile are not cached.
func memoFor[T any](s *Session, st *ballots.Store, key string, fn func(*ballots.Store) T) T {
	k := st.Version() + "/" + key
	if v, ok := s.cache.Load(k); ok {
		return v.(T)
	}
	v := fn(st)
	if s.Store() != st {
		return v
	}
	actual, _ := s.cache.LoadOrStore(k, v)
	return actual.(T)
}

func (s *Session) indexFor(st *ballots.Store) *analysis.CandidateIndex {
	return memoFor(s, st, "index/city", func(st *ballots.Store) *analysis.CandidateIndex {
		return analysis.BuildCandidateIndex(st.Ballots())
	})
}

func (s *Session) districtIndexFor(st *ballots.Store) *analysis.CandidateIndex {
	return memoFor(s, st, "index/district", func(st *ballots.Store) *analysis.CandidateIndex {
		return analysis.BuildContestIndex(st.Ballots(), models.ContestDistrict)
	})
}

// Index exposes the city candidate-party index
func (s *Session) Index() *analysis.CandidateIndex { return s.indexFor(s.Store()) }

func (s *Session) partitionsFor(st *ballots.Store) *analysis.Partitions {
	return memoFor(s, st, "partitions", func(st *ballots.Store) *analysis.Partitions {
		return analysis.PartitionBySignature(st.Ballots())
	})
}

func (s *Session) pairTableFor(st *ballots.Store, c models.Contest, d models.Dimension) *analysis.PairTable {
	return memoFor(s, st, "pairs/"+string(c)+"/"+string(d), func(st *ballots.Store) *analysis.PairTable {
		return analysis.CountPairs(st.Ballots(), c, d)
	})
}
