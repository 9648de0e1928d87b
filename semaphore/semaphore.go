/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package semaphore provides a context-scoped worker limiter used by the
// listener pool's restart/shutdown fan-out.
package semaphore

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

var simultaneous int64 = int64(runtime.NumCPU() * 4)

// MaxSimultaneous returns the process-wide default worker ceiling used
// when a caller does not size its own semaphore.
func MaxSimultaneous() int64 {
	return atomic.LoadInt64(&simultaneous)
}

// SetSimultaneous updates the process-wide default, ignoring non-positive
// values and returning the value now in effect.
func SetSimultaneous(n int64) int64 {
	if n <= 0 {
		return MaxSimultaneous()
	}
	atomic.StoreInt64(&simultaneous, n)
	return n
}

// BarWorker is a named sub-counter of a progress-enabled Semaphore: a
// worker slot plus a monotonic completion count.
type BarWorker interface {
	NewWorker() error
	NewWorkerTry() bool
	DeferWorker()
	Current() int64
	Completed() bool
	Inc(n int64)
}

// Semaphore bounds concurrent workers under a parent context, closing
// every worker and releasing Done() when DeferMain is called.
type Semaphore interface {
	context.Context

	Weighted() int64
	NewWorker() error
	NewWorkerTry() bool
	DeferWorker()
	WaitAll() error
	DeferMain()
	Clone() Semaphore
	New() Semaphore
	BarNumber(title, unit string, total int64, final bool, extra interface{}) BarWorker
	GetMPB() interface{}
}

// progressHandle is a placeholder for a real progress-rendering
// container: it carries no rendering logic, only the non-nil identity
// tests rely on to tell a progress-enabled semaphore from a plain one.
type progressHandle struct {
	mu   sync.Mutex
	bars []*barWorker
}

type sem struct {
	ctx    context.Context
	cancel context.CancelFunc
	max    int64
	ch     chan struct{}
	wg     sync.WaitGroup
	mpb    *progressHandle
}

// New builds a Semaphore bounding concurrency to max simultaneous workers.
// max <= 0 means unlimited. withProgress requests a non-nil GetMPB handle
// for binding named BarWorker sub-counters.
func New(ctx context.Context, max int64, withProgress bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}
	cctx, cancel := context.WithCancel(ctx)

	s := &sem{ctx: cctx, cancel: cancel, max: max}
	if max > 0 {
		s.ch = make(chan struct{}, max)
	}
	if withProgress {
		s.mpb = &progressHandle{}
	}
	return s
}

func (s *sem) unlimited() bool { return s.max <= 0 }

func (s *sem) Weighted() int64 { return s.max }

func (s *sem) NewWorker() error {
	s.wg.Add(1)
	if s.unlimited() {
		return nil
	}
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-s.ctx.Done():
		s.wg.Done()
		return s.ctx.Err()
	}
}

func (s *sem) NewWorkerTry() bool {
	s.wg.Add(1)
	if s.unlimited() {
		return true
	}
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		s.wg.Done()
		return false
	}
}

func (s *sem) DeferWorker() {
	if !s.unlimited() {
		select {
		case <-s.ch:
		default:
		}
	}
	s.wg.Done()
}

func (s *sem) WaitAll() error {
	s.wg.Wait()
	return nil
}

func (s *sem) DeferMain() {
	s.cancel()
}

func (s *sem) Clone() Semaphore {
	c := &sem{ctx: context.Background(), max: s.max, mpb: s.mpb}
	cctx, cancel := context.WithCancel(context.Background())
	c.ctx, c.cancel = cctx, cancel
	if s.max > 0 {
		c.ch = make(chan struct{}, s.max)
	}
	return c
}

func (s *sem) New() Semaphore { return s.Clone() }

func (s *sem) GetMPB() interface{} {
	if s.mpb == nil {
		return nil
	}
	return s.mpb
}

func (s *sem) BarNumber(title, unit string, total int64, final bool, extra interface{}) BarWorker {
	b := &barWorker{parent: s, title: title, unit: unit, total: total, final: final}
	if s.mpb != nil {
		s.mpb.mu.Lock()
		s.mpb.bars = append(s.mpb.bars, b)
		s.mpb.mu.Unlock()
	}
	return b
}

// barWorker is a named counter bound to the parent semaphore's slots:
// DeferWorker both releases the slot and advances the counter.
type barWorker struct {
	parent *sem
	title  string
	unit   string
	total  int64
	final  bool
	count  int64
}

func (b *barWorker) NewWorker() error    { return b.parent.NewWorker() }
func (b *barWorker) NewWorkerTry() bool  { return b.parent.NewWorkerTry() }
func (b *barWorker) DeferWorker() {
	b.parent.DeferWorker()
	b.Inc(1)
}
func (b *barWorker) Current() int64   { return atomic.LoadInt64(&b.count) }
func (b *barWorker) Completed() bool  { return atomic.LoadInt64(&b.count) >= b.total }
func (b *barWorker) Inc(n int64)      { atomic.AddInt64(&b.count, n) }

// context.Context delegation.

func (s *sem) Deadline() (time.Time, bool)        { return s.ctx.Deadline() }
func (s *sem) Done() <-chan struct{}              { return s.ctx.Done() }
func (s *sem) Err() error                         { return s.ctx.Err() }
func (s *sem) Value(key interface{}) interface{}  { return s.ctx.Value(key) }
