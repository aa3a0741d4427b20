// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"net"
	"os"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/genesis"
	"github.com/ava-labs/niftyvm/host"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/system"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/rpc"
	"github.com/ava-labs/niftyvm/server"
	"github.com/ava-labs/niftyvm/storage"
	"github.com/ava-labs/niftyvm/trace"
)

const metricsEndpoint = "/metrics"

var _ Cmd = (*runCmd)(nil)

type runCmd struct {
	cmd *argparse.Command

	config  *string
	genesis *string
}

func (c *runCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("run", "Serves the minting program")
	c.config = c.cmd.String("c", "config", &argparse.Options{
		Help:     "path to a json or yaml config",
		Required: true,
	})
	c.genesis = c.cmd.String("g", "genesis", &argparse.Options{
		Help: "path to a json genesis, overrides the config",
	})
}

func (c *runCmd) Happened() bool {
	return c.cmd.Happened()
}

func (c *runCmd) Run(ctx context.Context) error {
	raw, err := os.ReadFile(*c.config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(raw)
	if err != nil {
		return err
	}
	if *c.genesis != "" {
		cfg.Genesis = *c.genesis
	}

	log, err := config.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Stop()

	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Warn("failed to close tracer", zap.Error(err))
		}
	}()

	gatherer := metrics.NewPrefixGatherer()
	db, err := storage.New(cfg.Pebble, cfg.DataDir, "state", gatherer)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	policy := &cfg.Policy
	tp := token.New()
	p := processor.New(
		policy,
		log,
		tp,
		metadata.New(tp.ID(), system.New(), policy.MetadataRentLamports),
		processor.WithTracer(tracer),
	)
	registry := prometheus.NewRegistry()
	h, err := host.New(cfg.Host, policy, db, p, log, tracer, registry)
	if err != nil {
		return err
	}
	if err := gatherer.Register("host", registry); err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn("failed to close host", zap.Error(err))
		}
	}()

	g := genesis.New(nil)
	if cfg.Genesis != "" {
		b, err := os.ReadFile(cfg.Genesis)
		if err != nil {
			return err
		}
		g, err = genesis.Load(b)
		if err != nil {
			return err
		}
	}
	if err := h.Initialize(ctx, g); err != nil {
		return err
	}

	svc, err := rpc.NewJSONRPCServer(h, policy, log, tracer)
	if err != nil {
		return err
	}
	handler, err := server.NewHandler(svc, rpc.Name)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.HTTP.Address)
	if err != nil {
		return err
	}
	srv := server.New(cfg.HTTP, log, listener)
	srv.AddRoute(handler, rpc.JSONRPCEndpoint)
	srv.AddRoute(server.NewMetricsHandler(gatherer), metricsEndpoint)

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- srv.Dispatch()
	}()
	log.Info("serving",
		zap.String("address", listener.Addr().String()),
		zap.Stringer("program", policy.ProgramID),
		zap.Uint64("issuanceCeiling", policy.IssuanceCeiling),
	)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-dispatched:
	}
	log.Info("shutting down")
	shutdownErr := srv.Shutdown()
	errs := wrappers.Errs{}
	errs.Add(serveErr, shutdownErr)
	return errs.Err
}
