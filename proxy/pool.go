/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"container/list"
	"sync"
	"time"
)

// PoolItem is the teacher's "keyed pool of reusable handles with global and
// per-key caps and FIFO waiters" pattern (grounded on the deleted
// httpserver/pool.go's runMapCommand fan-out and folbricht-routedns's
// per-upstream connection reuse), generalized from a single handler map to
// the reverse-proxy's per-backend Sender pool.
type PoolItem struct {
	mu          sync.Mutex
	globalLimit int
	perKeyLimit int
	idle        map[PoolKey]*list.List // idle-ready or idle-unready senders
	waiters     map[PoolKey]*list.List // FIFO chan *Sender per key
	globalCount int
	idleTimeout time.Duration
}

// NewPoolItem builds a pool. A limit of 0 means unbounded.
func NewPoolItem(globalLimit, perKeyLimit int, idleTimeout time.Duration) *PoolItem {
	return &PoolItem{
		globalLimit: globalLimit,
		perKeyLimit: perKeyLimit,
		idle:        make(map[PoolKey]*list.List),
		waiters:     make(map[PoolKey]*list.List),
		idleTimeout: idleTimeout,
	}
}

// Acquire returns an idle-ready sender for key if one exists. Otherwise it
// returns a nil sender and a nil channel when the caller should dial a new
// connection, or a nil sender and a waiter channel (served FIFO by Release)
// when the key or global cap is already saturated; Acquire itself never
// blocks. Callers under cap create a new Sender themselves and call
// Track to register it.
func (p *PoolItem) Acquire(key PoolKey) (sender *Sender, waitCh chan *Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.evictExpiredLocked(key)

	if l, ok := p.idle[key]; ok {
		for e := l.Front(); e != nil; e = e.Next() {
			s := e.Value.(*Sender)
			if s.State() == StateIdleReady {
				l.Remove(e)
				s.state = StateInUse
				return s, nil
			}
		}
	}

	if p.atCapacityLocked(key) {
		ch := make(chan *Sender, 1)
		wl, ok := p.waiters[key]
		if !ok {
			wl = list.New()
			p.waiters[key] = wl
		}
		wl.PushBack(ch)
		return nil, ch
	}

	return nil, nil
}

func (p *PoolItem) atCapacityLocked(key PoolKey) bool {
	if p.globalLimit > 0 && p.globalCount >= p.globalLimit {
		return true
	}
	if p.perKeyLimit > 0 {
		n := 0
		if l, ok := p.idle[key]; ok {
			n += l.Len()
		}
		if n >= p.perKeyLimit {
			return true
		}
	}
	return false
}

// Track registers a freshly dialed sender against the pool's counters.
func (p *PoolItem) Track(key PoolKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.globalCount++
	_ = key
}

// Release returns a sender to the idle set for key, handing it directly to
// the oldest waiter if one is queued (FIFO).
func (p *PoolItem) Release(key PoolKey, s *Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.State() == StateClosed {
		p.globalCount--
		return
	}
	s.LastUsed = time.Now()

	if wl, ok := p.waiters[key]; ok && wl.Len() > 0 {
		e := wl.Front()
		wl.Remove(e)
		ch := e.Value.(chan *Sender)
		s.state = StateInUse
		ch <- s
		return
	}

	s.state = StateIdleReady
	l, ok := p.idle[key]
	if !ok {
		l = list.New()
		p.idle[key] = l
	}
	l.PushBack(s)
}

// Drop removes a sender from the pool entirely (closed or unrecoverable),
// decrementing the global counter exactly once regardless of how many
// times Drop is called for the same sender.
func (p *PoolItem) Drop(key PoolKey, s *Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.State() != StateClosed {
		_ = s.Close()
		p.globalCount--
	}
	if l, ok := p.idle[key]; ok {
		for e := l.Front(); e != nil; e = e.Next() {
			if e.Value.(*Sender) == s {
				l.Remove(e)
				break
			}
		}
	}
}

// evictExpiredLocked closes and drops idle senders that exceeded the pool's
// idle timeout. Caller holds p.mu.
func (p *PoolItem) evictExpiredLocked(key PoolKey) {
	l, ok := p.idle[key]
	if !ok {
		return
	}
	var next *list.Element
	for e := l.Front(); e != nil; e = next {
		next = e.Next()
		s := e.Value.(*Sender)
		if s.Expired(p.idleTimeout) {
			l.Remove(e)
			_ = s.Close()
			p.globalCount--
		}
	}
}

// Len reports the number of idle senders currently pooled for key.
func (p *PoolItem) Len(key PoolKey) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.idle[key]; ok {
		return l.Len()
	}
	return 0
}

// GlobalCount reports the total number of tracked senders across all keys.
func (p *PoolItem) GlobalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.globalCount
}
