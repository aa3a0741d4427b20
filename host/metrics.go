// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type executorMetrics struct {
	blocked    prometheus.Counter
	executable prometheus.Counter
}

func (em *executorMetrics) RecordBlocked() {
	em.blocked.Inc()
}

func (em *executorMetrics) RecordExecutable() {
	em.executable.Inc()
}

type metrics struct {
	invocations  prometheus.Counter
	accepted     prometheus.Counter
	rejected     prometheus.Counter
	stateChanges prometheus.Counter
	batches      prometheus.Counter
	invoke       metric.Averager
	commit       metric.Averager

	executor *executorMetrics
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	invoke, err := metric.NewAverager(
		"host_invoke",
		"time spent executing an invocation",
		r,
	)
	if err != nil {
		return nil, err
	}
	commit, err := metric.NewAverager(
		"host_commit",
		"time spent writing changes to the database",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &metrics{
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "host",
			Name:      "invocations",
			Help:      "number of invocations received",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "host",
			Name:      "accepted",
			Help:      "number of invocations committed",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "host",
			Name:      "rejected",
			Help:      "number of invocations rolled back",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "host",
			Name:      "state_changes",
			Help:      "number of keys written to the database",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "host",
			Name:      "batches",
			Help:      "number of invocation batches executed",
		}),
		invoke: invoke,
		commit: commit,
		executor: &executorMetrics{
			blocked: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "host",
				Name:      "executor_blocked",
				Help:      "invocations that waited on a conflicting invocation",
			}),
			executable: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "host",
				Name:      "executor_executable",
				Help:      "invocations that could start immediately",
			}),
		},
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.invocations),
		r.Register(m.accepted),
		r.Register(m.rejected),
		r.Register(m.stateChanges),
		r.Register(m.batches),
		r.Register(m.executor.blocked),
		r.Register(m.executor.executable),
	)
	return m, errs.Err
}
