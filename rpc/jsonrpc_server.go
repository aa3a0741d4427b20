// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/host"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

// Host is the part of [host.Host] the service needs.
type Host interface {
	Invoke(ctx context.Context, inv *host.Invocation) (*processor.Receipt, error)
	InvokeBatch(ctx context.Context, invs []*host.Invocation) ([]*host.Result, error)
	View(ctx context.Context, addrs []ed25519.PublicKey, f func(context.Context, state.Immutable) error) error
}

type JSONRPCServer struct {
	host   Host
	policy *config.Policy
	auth   *authority.Authority

	log    logging.Logger
	tracer trace.Tracer
}

func NewJSONRPCServer(h Host, policy *config.Policy, log logging.Logger, tracer trace.Tracer) (*JSONRPCServer, error) {
	auth, err := authority.Derive(policy.ProgramID, authority.MintAuthorityLabel)
	if err != nil {
		return nil, err
	}
	return &JSONRPCServer{
		host:   h,
		policy: policy,
		auth:   auth,
		log:    log,
		tracer: tracer,
	}, nil
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Debug("ping")
	reply.Success = true
	return nil
}

type PolicyReply struct {
	ProgramID       ed25519.PublicKey `json:"programID"`
	Authority       ed25519.PublicKey `json:"authority"`
	AuthorityBump   uint8             `json:"authorityBump"`
	CounterAccount  ed25519.PublicKey `json:"counterAccount"`
	FeeDestination  ed25519.PublicKey `json:"feeDestination"`
	TokenProgram    ed25519.PublicKey `json:"tokenProgram"`
	MetadataProgram ed25519.PublicKey `json:"metadataProgram"`
	SystemProgram   ed25519.PublicKey `json:"systemProgram"`
	RentSysvar      ed25519.PublicKey `json:"rentSysvar"`
	Fee             uint64            `json:"fee"`
	IssuanceCeiling uint64            `json:"issuanceCeiling"`
	SeriesName      string            `json:"seriesName"`
	BaseURI         string            `json:"baseURI"`
}

// Policy returns everything a client needs to build a mint invocation.
func (j *JSONRPCServer) Policy(_ *http.Request, _ *struct{}, reply *PolicyReply) error {
	p := j.policy
	reply.ProgramID = p.ProgramID
	reply.Authority = j.auth.Address
	reply.AuthorityBump = j.auth.Bump
	reply.CounterAccount = p.CounterAccount
	reply.FeeDestination = p.FeeDestination
	reply.TokenProgram = p.TokenProgram
	reply.MetadataProgram = p.MetadataProgram
	reply.SystemProgram = p.SystemProgram
	reply.RentSysvar = p.RentSysvar
	reply.Fee = p.Fee
	reply.IssuanceCeiling = p.IssuanceCeiling
	reply.SeriesName = p.SeriesName
	reply.BaseURI = p.BaseURI
	return nil
}

type CounterReply struct {
	Initialized bool   `json:"initialized"`
	NextSerial  uint64 `json:"nextSerial"`
	Remaining   uint64 `json:"remaining"`
}

func (j *JSONRPCServer) Counter(req *http.Request, _ *struct{}, reply *CounterReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Counter")
	defer span.End()

	account := j.policy.CounterAccount
	return j.host.View(ctx, []ed25519.PublicKey{account}, func(ctx context.Context, im state.Immutable) error {
		raw, _, err := storage.GetData(ctx, im, account)
		if err != nil {
			return err
		}
		st, err := counter.Unmarshal(raw)
		if err != nil {
			return err
		}
		reply.Initialized = st.Initialized
		reply.NextSerial = st.NextSerial
		next := st.NextSerial
		if !st.Initialized {
			next = counter.FirstSerial
		}
		if next <= j.policy.IssuanceCeiling {
			reply.Remaining = j.policy.IssuanceCeiling - next + 1
		}
		return nil
	})
}

type AddressArgs struct {
	Address ed25519.PublicKey `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *AddressArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	return j.host.View(ctx, []ed25519.PublicKey{args.Address}, func(ctx context.Context, im state.Immutable) error {
		bal, err := storage.GetBalance(ctx, im, args.Address)
		reply.Amount = bal
		return err
	})
}

type MintReply struct {
	Supply        uint64            `json:"supply"`
	Decimals      uint8             `json:"decimals"`
	MintAuthority ed25519.PublicKey `json:"mintAuthority"`
}

func (j *JSONRPCServer) Mint(req *http.Request, args *AddressArgs, reply *MintReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Mint")
	defer span.End()

	return j.host.View(ctx, []ed25519.PublicKey{args.Address}, func(ctx context.Context, im state.Immutable) error {
		mint, err := token.GetMint(ctx, im, j.policy.TokenProgram, args.Address)
		if err != nil {
			return err
		}
		if !mint.Initialized {
			return ErrAccountNotFound
		}
		reply.Supply = mint.Supply
		reply.Decimals = mint.Decimals
		if mint.HasMintAuthority {
			reply.MintAuthority = mint.MintAuthority
		}
		return nil
	})
}

type TokenAccountReply struct {
	Mint   ed25519.PublicKey `json:"mint"`
	Owner  ed25519.PublicKey `json:"owner"`
	Amount uint64            `json:"amount"`
}

func (j *JSONRPCServer) TokenAccount(req *http.Request, args *AddressArgs, reply *TokenAccountReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.TokenAccount")
	defer span.End()

	return j.host.View(ctx, []ed25519.PublicKey{args.Address}, func(ctx context.Context, im state.Immutable) error {
		acct, err := token.GetAccount(ctx, im, j.policy.TokenProgram, args.Address)
		if err != nil {
			return err
		}
		if !acct.Initialized {
			return ErrAccountNotFound
		}
		reply.Mint = acct.Mint
		reply.Owner = acct.Owner
		reply.Amount = acct.Amount
		return nil
	})
}

type MetadataArgs struct {
	// Mint is used to derive the record address when Address is empty.
	Mint    ed25519.PublicKey `json:"mint"`
	Address ed25519.PublicKey `json:"address"`
}

type MetadataReply struct {
	Address         ed25519.PublicKey     `json:"address"`
	UpdateAuthority ed25519.PublicKey     `json:"updateAuthority"`
	Mint            ed25519.PublicKey     `json:"mint"`
	Data            programs.MetadataData `json:"data"`
	IsMutable       bool                  `json:"isMutable"`
}

func (j *JSONRPCServer) Metadata(req *http.Request, args *MetadataArgs, reply *MetadataReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Metadata")
	defer span.End()

	addr := args.Address
	if addr == ed25519.EmptyPublicKey {
		var err error
		addr, _, err = programs.FindMetadataAddress(j.policy.MetadataProgram, args.Mint)
		if err != nil {
			return err
		}
	}
	return j.host.View(ctx, []ed25519.PublicKey{addr}, func(ctx context.Context, im state.Immutable) error {
		record, exists, err := metadata.Get(ctx, im, j.policy.MetadataProgram, addr)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAccountNotFound
		}
		reply.Address = addr
		reply.UpdateAuthority = record.UpdateAuthority
		reply.Mint = record.Mint
		reply.Data = record.Data
		reply.IsMutable = record.IsMutable
		return nil
	})
}

type SubmitArgs struct {
	Invocation *host.Invocation `json:"invocation"`
}

type SubmitReply struct {
	Receipt *processor.Receipt `json:"receipt"`
}

func (j *JSONRPCServer) Submit(req *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Submit")
	defer span.End()

	if args.Invocation == nil {
		return ErrMissingInvocation
	}
	r, err := j.host.Invoke(ctx, args.Invocation)
	if err != nil {
		j.log.Debug("invocation rejected", zap.Error(err))
		return err
	}
	reply.Receipt = r
	return nil
}

type SubmitBatchArgs struct {
	Invocations []*host.Invocation `json:"invocations"`
}

type BatchResult struct {
	Receipt *processor.Receipt `json:"receipt,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type SubmitBatchReply struct {
	Results []*BatchResult `json:"results"`
}

func (j *JSONRPCServer) SubmitBatch(req *http.Request, args *SubmitBatchArgs, reply *SubmitBatchReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.SubmitBatch")
	defer span.End()

	for _, inv := range args.Invocations {
		if inv == nil {
			return ErrMissingInvocation
		}
	}
	results, err := j.host.InvokeBatch(ctx, args.Invocations)
	if err != nil {
		return err
	}
	reply.Results = make([]*BatchResult, len(results))
	for i, r := range results {
		br := &BatchResult{Receipt: r.Receipt}
		if r.Err != nil {
			br.Error = r.Err.Error()
		}
		reply.Results[i] = br
	}
	return nil
}
