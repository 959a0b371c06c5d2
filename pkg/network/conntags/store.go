// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package conntags keeps the static tags (protocol and TLS library) observed
// on each live connection.
//
// Producers merge tags with Observe, the connection tracker opens and closes
// entries with Track and Remove, and reporters read them with Get or
// Snapshot. All operations are non-blocking apart from short critical
// sections, and safe for concurrent use.
//
// Removal racing an observation on the same key is resolved by last writer
// wins: an observation merged before the removal is lost with the entry, an
// observation made after the removal recreates the entry in auto-create mode
// and is dropped otherwise.
package conntags

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cihub/seelog"
	"github.com/twmb/murmur3"
	"go.uber.org/atomic"

	"github.com/DataDog/conntags/pkg/network/config"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/network/types"
	"github.com/DataDog/conntags/pkg/util/log"
)

// Entry is the tag set of one connection
type Entry struct {
	Key  types.ConnectionKey
	Tags tags.Set
}

type entry struct {
	mux      sync.Mutex
	tags     tags.Set
	lastSeen int64
	// set once the entry left the store, under both the shard and entry locks
	removed bool
}

// merge returns false if the entry was removed from the store
func (e *entry) merge(s tags.Set, now int64) bool {
	e.mux.Lock()
	defer e.mux.Unlock()

	if e.removed {
		return false
	}
	e.tags |= s
	e.lastSeen = now
	return true
}

func (e *entry) load() (tags.Set, bool) {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.tags, !e.removed
}

type shard struct {
	mux     sync.RWMutex
	entries map[types.ConnectionKey]*entry
}

// Store maps live connections to their tag Set
type Store struct {
	shards    []shard
	shardMask uint64

	autoCreate       bool
	maxEntries       int64
	ttl              time.Duration
	expirationPeriod time.Duration
	clock            clock.Clock

	length    *atomic.Int64
	telemetry *storeTelemetry

	running   *atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	exit      chan struct{}
	done      chan struct{}
}

// Option customizes a Store
type Option func(*Store)

// WithClock sets the clock used to timestamp entries and drive expiration
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// NewStore creates an empty Store configured by cfg. Store metrics are
// registered process-wide and aggregate every Store of the process.
func NewStore(cfg *config.Config, opts ...Option) *Store {
	shardCount := 1
	for shardCount < cfg.ConnTagsShardCount {
		shardCount <<= 1
	}

	s := &Store{
		shards:           make([]shard, shardCount),
		shardMask:        uint64(shardCount - 1),
		autoCreate:       cfg.ConnTagsAutoCreate,
		maxEntries:       int64(cfg.MaxTrackedConnections),
		ttl:              cfg.ConnTagsEntryTTL,
		expirationPeriod: cfg.ConnTagsExpirationPeriod,
		clock:            clock.New(),
		length:           atomic.NewInt64(0),
		telemetry:        newStoreTelemetry(),
		running:          atomic.NewBool(false),
		exit:             make(chan struct{}),
		done:             make(chan struct{}),
	}
	if s.expirationPeriod <= 0 {
		s.expirationPeriod = s.ttl
	}
	for i := range s.shards {
		s.shards[i].entries = make(map[types.ConnectionKey]*entry)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Track opens an entry with an empty Set for key, as done by the connection
// tracker when a connection is opened. Tracking a known key keeps its tags.
// It returns false if the store is full.
func (s *Store) Track(key types.ConnectionKey) bool {
	now := s.clock.Now().UnixNano()
	for {
		e := s.getOrCreate(key, now)
		if e == nil {
			return false
		}
		if e.merge(tags.Empty(), now) {
			return true
		}
	}
}

// Observe merges tag into the entry of key. See ObserveSet.
func (s *Store) Observe(key types.ConnectionKey, tag tags.Tag) bool {
	return s.ObserveSet(key, tag.Mask())
}

// ObserveSet merges a Set into the entry of key. Observations for keys the
// store does not track are dropped, unless the store runs in auto-create mode
// in which case the entry is created. It returns whether the tags were merged.
func (s *Store) ObserveSet(key types.ConnectionKey, set tags.Set) bool {
	now := s.clock.Now().UnixNano()
	for {
		e := s.lookup(key)
		if e == nil {
			if !s.autoCreate {
				s.telemetry.dropped.Add(1)
				if log.ShouldLog(seelog.TraceLvl) {
					log.Tracef("dropping tags %s for untracked connection %s", set, key)
				}
				return false
			}
			if e = s.getOrCreate(key, now); e == nil {
				s.telemetry.dropped.Add(1)
				return false
			}
		}

		if e.merge(set, now) {
			s.telemetry.observe(set)
			return true
		}
		// the entry was removed after the lookup: start over against the
		// current state of the store
	}
}

// Get returns the tags of key, or an empty Set if the key is not tracked
func (s *Store) Get(key types.ConnectionKey) tags.Set {
	e := s.lookup(key)
	if e == nil {
		return tags.Empty()
	}
	set, ok := e.load()
	if !ok {
		return tags.Empty()
	}
	return set
}

// Remove deletes the entry of key. Removing an unknown key is a no-op.
func (s *Store) Remove(key types.ConnectionKey) {
	sh := s.shardFor(key)

	sh.mux.Lock()
	e, ok := sh.entries[key]
	if ok {
		e.mux.Lock()
		e.removed = true
		e.mux.Unlock()
		delete(sh.entries, key)
	}
	sh.mux.Unlock()

	if ok {
		s.telemetry.removed.Add(1)
		s.length.Dec()
		s.telemetry.tracked.Add(-1)
	}
}

// Len returns the number of tracked connections
func (s *Store) Len() int {
	return int(s.length.Load())
}

// Snapshot returns every entry of the store. Each entry is read atomically,
// but the snapshot as a whole is not: concurrent updates on other keys may or
// may not be part of it. Entries come in no particular order.
func (s *Store) Snapshot() []Entry {
	buf := NewEntryBuffer(s.Len(), 0)
	s.SnapshotInto(buf)
	return buf.Entries()
}

// SnapshotInto appends every entry of the store to buf
func (s *Store) SnapshotInto(buf *EntryBuffer) {
	for i := range s.shards {
		sh := &s.shards[i]

		sh.mux.RLock()
		for key, e := range sh.entries {
			set, _ := e.load()
			out := buf.Next()
			out.Key = key
			out.Tags = set
		}
		sh.mux.RUnlock()
	}
}

// Expire evicts the entries not observed nor tracked during the configured
// TTL before now. It returns the number of evicted entries.
func (s *Store) Expire(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	deadline := now.Add(-s.ttl).UnixNano()
	expired := 0
	for i := range s.shards {
		sh := &s.shards[i]

		sh.mux.Lock()
		for key, e := range sh.entries {
			e.mux.Lock()
			if e.lastSeen < deadline {
				e.removed = true
				delete(sh.entries, key)
				expired++
			}
			e.mux.Unlock()
		}
		sh.mux.Unlock()
	}

	if expired > 0 {
		s.telemetry.expired.Add(int64(expired))
		s.length.Sub(int64(expired))
		s.telemetry.tracked.Add(-int64(expired))
		log.Debugf("expired %d connection tag entries", expired)
	}
	return expired
}

// Start runs the expiration loop in the background. It does nothing if
// expiration is disabled.
func (s *Store) Start() {
	if s.ttl <= 0 {
		log.Debugf("connection tags expiration disabled")
		return
	}

	s.startOnce.Do(func() {
		s.running.Store(true)
		ticker := s.clock.Ticker(s.expirationPeriod)
		go func() {
			defer close(s.done)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.Expire(s.clock.Now())
					s.telemetry.log()
				case <-s.exit:
					return
				}
			}
		}()
	})
}

// Stop terminates the expiration loop and waits for it to return
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.exit)
		if s.running.Load() {
			<-s.done
		}
	})
}

func (s *Store) shardFor(key types.ConnectionKey) *shard {
	var buf [types.ConnectionKeySize]byte
	h := murmur3.Sum64(key.AppendBinary(buf[:0]))
	return &s.shards[h&s.shardMask]
}

func (s *Store) lookup(key types.ConnectionKey) *entry {
	sh := s.shardFor(key)
	sh.mux.RLock()
	e := sh.entries[key]
	sh.mux.RUnlock()
	return e
}

// getOrCreate returns the entry of key, creating it if needed.
// It returns nil if the store is full.
func (s *Store) getOrCreate(key types.ConnectionKey, now int64) *entry {
	sh := s.shardFor(key)

	sh.mux.Lock()
	defer sh.mux.Unlock()

	if e, ok := sh.entries[key]; ok {
		return e
	}
	if !s.reserve() {
		s.telemetry.overCapacity.Add(1)
		return nil
	}

	e := &entry{lastSeen: now}
	sh.entries[key] = e
	s.telemetry.created.Add(1)
	s.telemetry.tracked.Add(1)
	return e
}

// reserve accounts for one more entry, unless the store is full
func (s *Store) reserve() bool {
	for {
		n := s.length.Load()
		if s.maxEntries > 0 && n >= s.maxEntries {
			return false
		}
		if s.length.CompareAndSwap(n, n+1) {
			return true
		}
	}
}
