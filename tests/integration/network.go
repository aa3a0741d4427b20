// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package integration starts a complete in-process node (pebble, host,
// JSON-RPC and HTTP server) for end to end tests.
package integration

import (
	"context"
	"net"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/genesis"
	"github.com/ava-labs/niftyvm/host"
	"github.com/ava-labs/niftyvm/pebble"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/system"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/rpc"
	"github.com/ava-labs/niftyvm/server"
	"github.com/ava-labs/niftyvm/storage"
	"github.com/ava-labs/niftyvm/trace"

	atrace "github.com/ava-labs/avalanchego/trace"
)

const MetricsEndpoint = "/metrics"

// Node is a running instance serving JSON-RPC on URI.
type Node struct {
	URI string

	db   *pebble.Database
	host *host.Host
	srv  *server.Server
	done chan error
}

// Start opens (or reopens) the database under cfg.DataDir, applies [g] if
// the state is new and serves on a random local port.
func Start(ctx context.Context, cfg *config.Config, g *genesis.Genesis) (*Node, error) {
	var (
		log    = logging.NoLog{}
		tracer = trace.Noop("integration")
	)

	gatherer := metrics.NewPrefixGatherer()
	db, err := storage.New(cfg.Pebble, cfg.DataDir, "state", gatherer)
	if err != nil {
		return nil, err
	}
	n, err := start(ctx, cfg, g, db, gatherer, log, tracer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return n, nil
}

func start(
	ctx context.Context,
	cfg *config.Config,
	g *genesis.Genesis,
	db *pebble.Database,
	gatherer metrics.MultiGatherer,
	log logging.Logger,
	tracer atrace.Tracer,
) (*Node, error) {
	policy := &cfg.Policy
	tp := token.New()
	p := processor.New(policy, log, tp, metadata.New(tp.ID(), system.New(), policy.MetadataRentLamports))
	registry := prometheus.NewRegistry()
	h, err := host.New(cfg.Host, policy, db, p, log, tracer, registry)
	if err != nil {
		return nil, err
	}
	if err := gatherer.Register("host", registry); err != nil {
		return nil, err
	}
	if err := h.Initialize(ctx, g); err != nil {
		return nil, err
	}

	svc, err := rpc.NewJSONRPCServer(h, policy, log, tracer)
	if err != nil {
		return nil, err
	}
	handler, err := server.NewHandler(svc, rpc.Name)
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	srv := server.New(cfg.HTTP, log, listener)
	srv.AddRoute(handler, rpc.JSONRPCEndpoint)
	srv.AddRoute(server.NewMetricsHandler(gatherer), MetricsEndpoint)

	n := &Node{
		URI:  "http://" + listener.Addr().String(),
		db:   db,
		host: h,
		srv:  srv,
		done: make(chan error, 1),
	}
	go func() {
		n.done <- srv.Dispatch()
	}()
	return n, nil
}

// Stop shuts the server down and closes the database.
func (n *Node) Stop() error {
	if err := n.srv.Shutdown(); err != nil {
		return err
	}
	if err := <-n.done; err != nil {
		return err
	}
	if err := n.host.Close(); err != nil {
		return err
	}
	return n.db.Close()
}
