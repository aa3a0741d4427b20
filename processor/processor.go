// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package processor executes minting instructions.
package processor

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/registry"
	"github.com/ava-labs/niftyvm/state"

	ntrace "github.com/ava-labs/niftyvm/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Receipt describes the asset issued by a successful mint.
type Receipt struct {
	Serial   uint64            `json:"serial"`
	Mint     ed25519.PublicKey `json:"mint"`
	Holding  ed25519.PublicKey `json:"holding"`
	Metadata ed25519.PublicKey `json:"metadata"`
	Name     string            `json:"name"`
	URI      string            `json:"uri"`
}

type Option func(*Processor)

func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) {
		p.tracer = t
	}
}

// WithCounterStore replaces the store the counter is loaded from and
// persisted to. By default the counter lives in the state passed to
// [Processor.Process].
func WithCounterStore(f func(state.Mutable) counter.Store) Option {
	return func(p *Processor) {
		p.newStore = f
	}
}

type Processor struct {
	policy   *config.Policy
	bindings *Bindings

	token    programs.TokenProgram
	metadata programs.MetadataProgram

	log      logging.Logger
	tracer   trace.Tracer
	newStore func(state.Mutable) counter.Store
}

func New(
	policy *config.Policy,
	log logging.Logger,
	token programs.TokenProgram,
	metadata programs.MetadataProgram,
	opts ...Option,
) *Processor {
	p := &Processor{
		policy: policy,
		bindings: &Bindings{
			Registry:        registry.New(policy.CounterAccount, policy.FeeDestination),
			TokenProgram:    policy.TokenProgram,
			MetadataProgram: policy.MetadataProgram,
			SystemProgram:   policy.SystemProgram,
			RentSysvar:      policy.RentSysvar,
		},
		token:    token,
		metadata: metadata,
		log:      log,
		tracer:   ntrace.Noop("processor"),
		newStore: func(mu state.Mutable) counter.Store {
			return counter.NewStateStore(mu)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes [data] and runs the instruction against [mu]. On error
// [mu] may hold partial writes; callers that need all-or-nothing behavior
// must discard them.
func (p *Processor) Process(
	ctx context.Context,
	mu state.Mutable,
	programID ed25519.PublicKey,
	accounts []AccountMeta,
	data []byte,
) (*Receipt, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Process", oteltrace.WithAttributes(
		attribute.Int("accounts", len(accounts)),
		attribute.Int("dataLen", len(data)),
	))
	defer span.End()

	ins, err := UnpackInstruction(data)
	if err != nil {
		return nil, err
	}
	if programID != p.policy.ProgramID {
		return nil, fmt.Errorf("%w: %s", ErrIncorrectProgramID, programID)
	}

	switch ins {
	case MintNFT:
		r, err := p.processMint(ctx, mu, programID, accounts)
		if err != nil {
			p.log.Debug("mint rejected",
				zap.Stringer("instruction", ins),
				zap.Error(err),
			)
			return nil, err
		}
		p.log.Info("minted",
			zap.Uint64("serial", r.Serial),
			zap.Stringer("mint", r.Mint),
			zap.Stringer("holding", r.Holding),
			zap.String("uri", r.URI),
		)
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidInstruction, ins)
	}
}

func (p *Processor) processMint(
	ctx context.Context,
	mu state.Mutable,
	programID ed25519.PublicKey,
	accounts []AccountMeta,
) (*Receipt, error) {
	accts, err := BindMintAccounts(programID, accounts, p.bindings)
	if err != nil {
		return nil, err
	}
	return p.mint(ctx, mu, accts)
}
