// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/genesis"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/system"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
	"github.com/ava-labs/niftyvm/trace"
)

const (
	testFee     = 1_000
	testRent    = 10
	testCeiling = 5
	testBalance = 1_000_000
)

func newPrivateKey(t *testing.T) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

func newKey(t *testing.T) ed25519.PublicKey {
	return newPrivateKey(t).PublicKey()
}

type env struct {
	policy *config.Policy
	auth   *authority.Authority

	signer    ed25519.PrivateKey
	feeSource ed25519.PrivateKey

	db *memdb.Database
}

func newEnv(t *testing.T) *env {
	require := require.New(t)

	policy := config.Default().Policy
	policy.ProgramID = newKey(t)
	policy.CounterAccount = newKey(t)
	policy.FeeDestination = newKey(t)
	policy.Fee = testFee
	policy.IssuanceCeiling = testCeiling
	policy.BaseURI = "https://arweave.net/punks"
	policy.SeriesName = "Solana Punk"
	require.NoError(policy.Validate())

	auth, err := authority.Derive(policy.ProgramID, authority.MintAuthorityLabel)
	require.NoError(err)

	return &env{
		policy:    &policy,
		auth:      auth,
		signer:    newPrivateKey(t),
		feeSource: newPrivateKey(t),
		db:        memdb.New(),
	}
}

func (e *env) genesis() *genesis.Genesis {
	return genesis.New([]*genesis.Allocation{
		{Address: e.signer.PublicKey(), Balance: testBalance},
		{Address: e.feeSource.PublicKey(), Balance: testBalance},
	})
}

func (e *env) processor(tp programs.TokenProgram, mp programs.MetadataProgram) *processor.Processor {
	if tp == nil {
		tp = token.New()
	}
	if mp == nil {
		mp = metadata.New(tp.ID(), system.New(), testRent)
	}
	return processor.New(e.policy, logging.NoLog{}, tp, mp)
}

func (e *env) host(t *testing.T, db Database, p *processor.Processor) *Host {
	require := require.New(t)
	if p == nil {
		p = e.processor(nil, nil)
	}
	h, err := New(
		config.Host{Concurrency: 4, MaxBatchSize: 16},
		e.policy,
		db,
		p,
		logging.NoLog{},
		trace.Noop("host"),
		prometheus.NewRegistry(),
	)
	require.NoError(err)
	require.NoError(h.Initialize(context.TODO(), e.genesis()))
	return h
}

// invocation returns a signed mint of a fresh asset.
func (e *env) invocation(t *testing.T) *Invocation {
	require := require.New(t)

	mint := newKey(t)
	record, _, err := programs.FindMetadataAddress(e.policy.MetadataProgram, mint)
	require.NoError(err)

	inv := &Invocation{
		ProgramID: e.policy.ProgramID,
		Accounts: []processor.AccountMeta{
			{Address: e.signer.PublicKey(), IsSigner: true, IsWritable: true},
			{Address: e.auth.Address},
			{Address: e.feeSource.PublicKey(), IsSigner: true, IsWritable: true},
			{Address: e.policy.FeeDestination, IsWritable: true},
			{Address: e.policy.CounterAccount, IsWritable: true},
			{Address: e.policy.TokenProgram},
			{Address: e.policy.RentSysvar},
			{Address: mint, IsWritable: true},
			{Address: newKey(t), IsWritable: true},
			{Address: record, IsWritable: true},
			{Address: e.policy.MetadataProgram},
			{Address: e.policy.SystemProgram},
		},
		Data: []byte{byte(processor.MintNFT)},
	}
	require.NoError(inv.Sign(e.signer))
	require.NoError(inv.Sign(e.feeSource))
	return inv
}

// withMint points [inv] at [mint], derives its metadata account and signs
// the result again.
func (e *env) withMint(t *testing.T, inv *Invocation, mint ed25519.PublicKey) *Invocation {
	require := require.New(t)
	record, _, err := programs.FindMetadataAddress(e.policy.MetadataProgram, mint)
	require.NoError(err)
	inv.Accounts[processor.MintIndex].Address = mint
	inv.Accounts[processor.MetadataIndex].Address = record
	inv.Signatures = nil
	require.NoError(inv.Sign(e.signer))
	require.NoError(inv.Sign(e.feeSource))
	return inv
}

func (e *env) counter(t *testing.T, h *Host) counter.State {
	var st *counter.State
	require.NoError(t, h.View(context.TODO(), []ed25519.PublicKey{e.policy.CounterAccount}, func(ctx context.Context, im state.Immutable) error {
		var err error
		st, err = counter.Unmarshal(mustData(ctx, t, im, e.policy.CounterAccount))
		return err
	}))
	return *st
}

func (e *env) balance(t *testing.T, h *Host, addr ed25519.PublicKey) uint64 {
	var bal uint64
	require.NoError(t, h.View(context.TODO(), []ed25519.PublicKey{addr}, func(ctx context.Context, im state.Immutable) error {
		var err error
		bal, err = storage.GetBalance(ctx, im, addr)
		return err
	}))
	return bal
}

func (e *env) exists(t *testing.T, h *Host, addr ed25519.PublicKey) bool {
	var exists bool
	require.NoError(t, h.View(context.TODO(), []ed25519.PublicKey{addr}, func(ctx context.Context, im state.Immutable) error {
		var err error
		_, exists, err = storage.GetOwner(ctx, im, addr)
		return err
	}))
	return exists
}

func mustData(ctx context.Context, t *testing.T, im state.Immutable, addr ed25519.PublicKey) []byte {
	data, _, err := storage.GetData(ctx, im, addr)
	require.NoError(t, err)
	return data
}
