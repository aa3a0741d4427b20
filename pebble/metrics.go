// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager

	readLatency  metric.Averager
	batchLatency metric.Averager

	batches    prometheus.Counter
	batchOps   prometheus.Counter
	compaction *prometheus.CounterVec
	compacting prometheus.Gauge

	diskUsage  prometheus.Gauge
	tombstones prometheus.Gauge
	obsolete   *prometheus.GaugeVec
}

func newAverager(r prometheus.Registerer, name, help string, errs *wrappers.Errs) metric.Averager {
	a, err := metric.NewAverager(namespace+"_"+name, help, r)
	errs.Add(err)
	return a
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	errs := wrappers.Errs{}
	m := &metrics{
		writeStall:   newAverager(r, "write_stall", "time spent stalled on writes", &errs),
		readLatency:  newAverager(r, "read_latency", "time spent reading a single account key", &errs),
		batchLatency: newAverager(r, "batch_latency", "time spent committing a state batch", &errs),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches",
			Help:      "number of state batches committed",
		}),
		batchOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_ops",
			Help:      "number of puts and deletes committed through batches",
		}),
		compaction: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started",
		}, []string{"level"}),
		compacting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of compactions in progress",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage",
			Help:      "bytes on disk used by the account store",
		}),
		tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
		obsolete: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "obsolete_bytes",
			Help:      "bytes no longer referenced by the db",
		}, []string{"kind"}),
	}
	errs.Add(
		r.Register(m.batches),
		r.Register(m.batchOps),
		r.Register(m.compaction),
		r.Register(m.compacting),
		r.Register(m.diskUsage),
		r.Register(m.tombstones),
		r.Register(m.obsolete),
	)
	return m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.compacting.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compaction.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.compacting.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) recordBatch(ops int, start time.Time) {
	db.metrics.batches.Inc()
	db.metrics.batchOps.Add(float64(ops))
	db.metrics.batchLatency.Observe(float64(time.Since(start)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			pm := db.db.Metrics()
			db.metrics.diskUsage.Set(float64(pm.DiskSpaceUsage()))
			db.metrics.tombstones.Set(float64(pm.Keys.TombstoneCount))
			db.metrics.obsolete.WithLabelValues("table").Set(float64(pm.Table.ObsoleteSize))
			db.metrics.obsolete.WithLabelValues("zombie").Set(float64(pm.Table.ZombieSize))
			db.metrics.obsolete.WithLabelValues("wal").Set(float64(pm.WAL.ObsoletePhysicalSize))
		case <-db.closing:
			return
		}
	}
}
