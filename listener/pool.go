/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package listener

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nabbar/kestrel/errors"
	"github.com/nabbar/kestrel/semaphore"
)

// FieldType selects which Entry field List matches against or returns.
type FieldType uint8

const (
	FieldName FieldType = iota
	FieldBind
)

const timeoutShutdown = 15 * time.Second

// Pool is a set of listener Entry values keyed by bind address, mirroring
// the add/merge-or-replace semantics a config reload needs.
type Pool []*Entry

// NewPool builds a Pool from zero or more entries, merging duplicates by
// bind address the same way Add does.
func NewPool(entries ...*Entry) Pool {
	p, _ := Pool(nil).Add(entries...)
	return p
}

func (p Pool) Has(bind string) bool {
	for _, e := range p {
		if e.GetBindable() == bind {
			return true
		}
	}
	return false
}

func (p Pool) Get(bind string) *Entry {
	for _, e := range p {
		if e.GetBindable() == bind {
			return e
		}
	}
	return nil
}

func (p Pool) Del(bind string) Pool {
	r := make(Pool, 0, len(p))
	for _, e := range p {
		if e.GetBindable() == bind {
			if e.IsRunning() {
				_ = e.Shutdown()
			}
			continue
		}
		r = append(r, e)
	}
	return r
}

// Add appends each entry, merging into an existing entry with the same
// bind address when possible and replacing it outright otherwise.
func (p Pool) Add(entries ...*Entry) (Pool, errors.Error) {
	r := p
	if r == nil {
		r = make(Pool, 0, len(entries))
	}

	for _, e := range entries {
		existing := r.Get(e.GetBindable())
		if existing == nil {
			r = append(r, e)
			continue
		}

		if !existing.Merge(e) {
			r = r.Del(e.GetBindable())
			r = append(r, e)
		}
	}

	return r, nil
}

func (p Pool) Len() int {
	return len(p)
}

func (p Pool) MapRun(f func(e *Entry)) {
	for _, e := range p {
		f(e)
	}
}

func (p Pool) List(fieldFilter, fieldReturn FieldType, pattern string) []string {
	r := make([]string, 0)
	pattern = strings.ToLower(pattern)

	p.MapRun(func(e *Entry) {
		f := strings.ToLower(fieldValue(e, fieldFilter))
		if pattern == "" || !strings.Contains(f, pattern) {
			return
		}
		r = append(r, fieldValue(e, fieldReturn))
	})

	return r
}

func fieldValue(e *Entry, field FieldType) string {
	switch field {
	case FieldBind:
		return e.GetBindable()
	default:
		return e.GetName()
	}
}

func (p Pool) IsRunning(atLeast bool) bool {
	if p.Len() < 1 {
		return false
	}

	running := false
	for _, e := range p {
		if e.IsRunning() {
			running = true
			continue
		}
		if !atLeast {
			return false
		}
	}

	return running
}

// Listen starts every entry, binding stream entries with h and packet
// (QUIC) entries via ListenPacket so the caller can drive them
// separately; handlers is an optional name-keyed override for stream
// entries, falling back to h when absent.
func (p Pool) Listen(h ConnHandler, handlers map[string]ConnHandler) errors.Error {
	if p.Len() < 1 {
		return nil
	}

	err := ErrorPoolListen.Error(nil)

	p.MapRun(func(e *Entry) {
		if e.IsQUIC() {
			if _, e2 := e.ListenPacket(); e2 != nil {
				err.Add(e2)
			}
			return
		}

		handler := h
		if hh, ok := handlers[strings.ToLower(e.GetName())]; ok {
			handler = hh
		}

		if e2 := e.Listen(handler); e2 != nil {
			err.Add(e2)
		}
	})

	if !err.HasParent() {
		return nil
	}
	return err
}

func (p Pool) runConcurrent(f func(e *Entry)) {
	if p.Len() < 1 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutShutdown)
	defer cancel()

	s := semaphore.New(ctx, 0, false)
	defer s.DeferMain()

	p.MapRun(func(e *Entry) {
		_ = s.NewWorker()
		go func(e *Entry) {
			defer s.DeferWorker()
			f(e)
		}(e)
	})

	_ = s.WaitAll()
}

// Restart rebinds every entry concurrently, bounded by timeoutShutdown.
func (p Pool) Restart() {
	p.runConcurrent(func(e *Entry) {
		_ = e.Restart()
	})
}

// Shutdown drains every running entry concurrently, bounded by
// timeoutShutdown.
func (p Pool) Shutdown() {
	p.runConcurrent(func(e *Entry) {
		if e.IsRunning() {
			_ = e.Shutdown()
		}
	})
}

// WaitNotify blocks until SIGINT/SIGTERM/SIGQUIT or ctx is done, then
// shuts the pool down and invokes cancel.
func (p Pool) WaitNotify(ctx context.Context, cancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}

	p.Shutdown()
	if cancel != nil {
		cancel()
	}
}
