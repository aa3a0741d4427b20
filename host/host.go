// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host runs signed invocations against durable state. Every
// invocation either commits all of its writes in a single database batch
// or leaves the database untouched.
package host

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/executor"
	"github.com/ava-labs/niftyvm/genesis"
	"github.com/ava-labs/niftyvm/lockmap"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
	"github.com/ava-labs/niftyvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Database is the committed state. Both memdb and pebble satisfy it.
type Database interface {
	database.KeyValueReader
	database.Batcher
}

// Result is the outcome of one invocation of a batch.
type Result struct {
	Receipt *processor.Receipt
	Err     error
}

type Host struct {
	cfg    config.Host
	policy *config.Policy

	db        Database
	processor *processor.Processor
	locks     *lockmap.Lockmap

	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics

	// Invocations hold closeLock for reading so Close waits for them.
	closeLock sync.RWMutex
	closed    atomic.Bool
}

func New(
	cfg config.Host,
	policy *config.Policy,
	db Database,
	p *processor.Processor,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*Host, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Host{
		cfg:       cfg,
		policy:    policy,
		db:        db,
		processor: p,
		locks:     lockmap.New(64),
		log:       log,
		tracer:    tracer,
		metrics:   m,
	}, nil
}

// Initialize writes [g] unless the counter account already belongs to the
// program, in which case the database has been initialized before.
func (h *Host) Initialize(ctx context.Context, g *genesis.Genesis) error {
	if err := h.acquire(); err != nil {
		return err
	}
	defer h.closeLock.RUnlock()

	metas := []processor.AccountMeta{{Address: h.policy.CounterAccount, IsWritable: true}}
	for _, alloc := range g.Allocations {
		metas = append(metas, processor.AccountMeta{Address: alloc.Address, IsWritable: true})
	}
	unlock := h.lockAccounts(metas)
	defer unlock()

	keys := g.Keys(h.policy)
	values, err := h.fetch(keys)
	if err != nil {
		return err
	}
	ts := tstate.New(len(keys))
	view := ts.NewView(keys, values)
	owner, exists, err := storage.GetOwner(ctx, view, h.policy.CounterAccount)
	if err != nil {
		return err
	}
	if exists {
		h.log.Info("state already initialized",
			zap.Stringer("counter", h.policy.CounterAccount),
			zap.Stringer("owner", owner),
		)
		return nil
	}
	if err := g.InitializeState(ctx, h.tracer, view, h.policy); err != nil {
		return err
	}
	view.Commit()
	if err := h.commit(ctx, ts); err != nil {
		return err
	}
	h.log.Info("initialized state",
		zap.Int("allocations", len(g.Allocations)),
		zap.Int("keys", ts.PendingChanges()),
	)
	return nil
}

// Invoke verifies and runs [inv]. On error nothing is written.
func (h *Host) Invoke(ctx context.Context, inv *Invocation) (*processor.Receipt, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.closeLock.RUnlock()

	ctx, span := h.tracer.Start(ctx, "Host.Invoke", oteltrace.WithAttributes(
		attribute.Int("accounts", len(inv.Accounts)),
		attribute.Int("signatures", len(inv.Signatures)),
	))
	defer span.End()

	start := time.Now()
	h.metrics.invocations.Inc()
	accounts, err := inv.verify()
	if err != nil {
		h.metrics.rejected.Inc()
		return nil, err
	}

	unlock := h.lockAccounts(accounts)
	defer unlock()

	keys := scope(accounts)
	values, err := h.fetch(keys)
	if err != nil {
		h.metrics.rejected.Inc()
		return nil, err
	}
	ts := tstate.New(len(keys))
	receipt, err := h.execute(ctx, ts, keys, values, inv.ProgramID, accounts, inv.Data)
	if err != nil {
		return nil, err
	}
	if err := h.commit(ctx, ts); err != nil {
		return nil, err
	}
	h.metrics.invoke.Observe(float64(time.Since(start)))
	return receipt, nil
}

// InvokeBatch runs [invs] and commits the writes of every successful one in
// a single database batch. Invocations that share a writable account run in
// the order given; the rest run concurrently.
//
// A failing invocation only fails its own [Result]. The returned error is
// set when the batch as a whole could not be executed or committed.
func (h *Host) InvokeBatch(ctx context.Context, invs []*Invocation) ([]*Result, error) {
	switch {
	case len(invs) == 0:
		return nil, ErrEmptyBatch
	case len(invs) > h.cfg.MaxBatchSize:
		return nil, ErrBatchTooLarge
	}
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.closeLock.RUnlock()

	ctx, span := h.tracer.Start(ctx, "Host.InvokeBatch", oteltrace.WithAttributes(
		attribute.Int("invocations", len(invs)),
	))
	defer span.End()

	h.metrics.batches.Inc()
	h.metrics.invocations.Add(float64(len(invs)))

	var (
		results  = make([]*Result, len(invs))
		verified = make([][]processor.AccountMeta, len(invs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)
	for i, inv := range invs {
		i, inv := i, inv
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			accounts, err := inv.verify()
			if err != nil {
				results[i] = &Result{Err: err}
				return nil
			}
			verified[i] = accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		all      = []processor.AccountMeta{}
		scopes   = make([]state.Keys, len(invs))
		union    = state.Keys{}
		runnable int
	)
	for i, accounts := range verified {
		if accounts == nil {
			h.metrics.rejected.Inc()
			continue
		}
		runnable++
		all = append(all, accounts...)
		scopes[i] = scope(accounts)
		for k, perm := range scopes[i] {
			union.Add(k, perm)
		}
	}
	unlock := h.lockAccounts(all)
	defer unlock()

	values, err := h.fetch(union)
	if err != nil {
		h.metrics.rejected.Add(float64(runnable))
		return nil, err
	}
	ts := tstate.New(len(union))
	e := executor.New(len(invs), h.cfg.Concurrency, h.metrics.executor)
	for i, inv := range invs {
		if verified[i] == nil {
			continue
		}
		i, inv := i, inv
		e.Run(scopes[i], func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := h.execute(ctx, ts, scopes[i], values, inv.ProgramID, verified[i], inv.Data)
			results[i] = &Result{Receipt: r, Err: err}
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}
	if err := h.commit(ctx, ts); err != nil {
		return nil, err
	}
	return results, nil
}

// View runs [f] over the committed state while holding read locks on
// [addrs].
func (h *Host) View(ctx context.Context, addrs []ed25519.PublicKey, f func(context.Context, state.Immutable) error) error {
	if err := h.acquire(); err != nil {
		return err
	}
	defer h.closeLock.RUnlock()

	metas := make([]processor.AccountMeta, len(addrs))
	for i, addr := range addrs {
		metas[i] = processor.AccountMeta{Address: addr}
	}
	unlock := h.lockAccounts(metas)
	defer unlock()
	return f(ctx, state.NewReader(h.db))
}

// Close waits for running invocations and rejects new ones. It does not
// close the database.
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	h.closeLock.Lock()
	defer h.closeLock.Unlock()
	h.log.Info("host closed")
	return nil
}

// acquire read locks closeLock unless the host is closed.
func (h *Host) acquire() error {
	h.closeLock.RLock()
	if h.closed.Load() {
		h.closeLock.RUnlock()
		return ErrClosed
	}
	return nil
}

func (h *Host) execute(
	ctx context.Context,
	ts *tstate.TState,
	keys state.Keys,
	values map[string][]byte,
	programID ed25519.PublicKey,
	accounts []processor.AccountMeta,
	data []byte,
) (*processor.Receipt, error) {
	view := ts.NewView(keys, values)
	receipt, err := h.processor.Process(ctx, view, programID, accounts, data)
	if err != nil {
		view.Rollback(ctx, 0)
		h.metrics.rejected.Inc()
		return nil, err
	}
	view.Commit()
	h.metrics.accepted.Inc()
	return receipt, nil
}

// lockAccounts locks every account in [accounts] in key order, for writing
// if any entry marks it writable. The returned func releases the locks.
func (h *Host) lockAccounts(accounts []processor.AccountMeta) func() {
	writable := make(map[string]bool, len(accounts))
	for _, acct := range accounts {
		k := string(acct.Address[:])
		writable[k] = writable[k] || acct.IsWritable
	}
	keys := maps.Keys(writable)
	slices.Sort(keys)
	for _, k := range keys {
		if writable[k] {
			h.locks.Lock(k)
		} else {
			h.locks.RLock(k)
		}
	}
	return func() {
		for _, k := range keys {
			if writable[k] {
				h.locks.Unlock(k)
			} else {
				h.locks.RUnlock(k)
			}
		}
	}
}

func (h *Host) fetch(keys state.Keys) (map[string][]byte, error) {
	values := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := h.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, nil
}

func (h *Host) commit(ctx context.Context, ts *tstate.TState) error {
	changes := ts.PendingChanges()
	if changes == 0 {
		return nil
	}
	_, span := h.tracer.Start(ctx, "Host.commit", oteltrace.WithAttributes(
		attribute.Int("changes", changes),
	))
	defer span.End()

	start := time.Now()
	batch := h.db.NewBatch()
	if err := ts.WriteChanges(ctx, batch); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	h.metrics.stateChanges.Add(float64(changes))
	h.metrics.commit.Observe(float64(time.Since(start)))
	return nil
}
