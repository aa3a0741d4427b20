// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/atomic"

	"github.com/ava-labs/niftyvm/state"
)

// Metrics is notified whenever a task has to wait for another task or can
// start right away.
type Metrics interface {
	RecordBlocked()
	RecordExecutable()
}

// Executor runs tasks concurrently while keeping tasks that touch the same
// keys in the order they were queued.
//
// Two tasks conflict when they share a key and at least one of them needs
// more than [state.Read] on it. Tasks that only read a key may run side by
// side.
type Executor struct {
	added   int
	tasks   []*task
	writers map[string]int
	readers map[string][]int

	cores       chan struct{}
	outstanding sync.WaitGroup
	metrics     Metrics

	err atomic.Error
}

// New creates an [Executor] that accepts up to [items] tasks and runs at most
// [concurrency] of them at once. [metrics] may be nil.
func New(items, concurrency int, metrics Metrics) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		tasks:   make([]*task, items),
		writers: make(map[string]int, items),
		readers: make(map[string][]int, items),
		cores:   make(chan struct{}, concurrency),
		metrics: metrics,
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  []*sync.WaitGroup
	executed bool
}

// Run executes [f] after every previously queued task it conflicts with
// (on [conflicts]) has finished.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, ErrTooManyTasks)
		return
	}

	id := e.added
	e.added++
	t := &task{f: f}
	e.tasks[id] = t
	e.outstanding.Add(1)

	deps := set.NewSet[int](len(conflicts))
	for k, perm := range conflicts {
		if latest, ok := e.writers[k]; ok {
			deps.Add(latest)
		}
		if perm == state.Read {
			e.readers[k] = append(e.readers[k], id)
			continue
		}
		deps.Add(e.readers[k]...)
		delete(e.readers, k)
		e.writers[k] = id
	}

	wg := &sync.WaitGroup{}
	for dep := range deps {
		dt := e.tasks[dep]
		dt.l.Lock()
		if !dt.executed {
			wg.Add(1)
			dt.waiters = append(dt.waiters, wg)
		}
		dt.l.Unlock()
	}
	if e.metrics != nil {
		if deps.Len() > 0 {
			e.metrics.RecordBlocked()
		} else {
			e.metrics.RecordExecutable()
		}
	}

	go func() {
		wg.Wait()

		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			e.outstanding.Done()
		}()

		if e.err.Load() != nil {
			return
		}

		e.cores <- struct{}{}
		defer func() { <-e.cores }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

// Stop prevents tasks that have not started from running.
func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait blocks until every queued task has finished and returns the first
// error any of them returned.
//
// Run must not be called after Wait.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
