// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/system"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
	"github.com/ava-labs/niftyvm/tstate"
)

const (
	testFee     = 1_000
	testRent    = 10
	testCeiling = 5
	testBalance = 1_000_000
)

func newKey(t *testing.T) ed25519.PublicKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv.PublicKey()
}

// env is a single minting deployment with funded wallets.
type env struct {
	policy *config.Policy
	auth   *authority.Authority

	signer    ed25519.PublicKey
	feeSource ed25519.PublicKey

	mint     ed25519.PublicKey
	holding  ed25519.PublicKey
	metadata ed25519.PublicKey

	ts   *tstate.TState
	view *tstate.TStateView
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

	e := &env{
		policy:    &policy,
		auth:      auth,
		signer:    newKey(t),
		feeSource: newKey(t),
		ts:        tstate.New(64),
	}
	e.nextAsset(t)

	ctx := context.TODO()
	require.NoError(storage.SetBalance(ctx, e.view, e.signer, testBalance))
	require.NoError(storage.SetBalance(ctx, e.view, e.feeSource, testBalance))
	e.view.Commit()
	e.reset()
	return e
}

// nextAsset picks fresh mint, holding and metadata accounts and opens a
// new view over them.
func (e *env) nextAsset(t *testing.T) {
	e.mint = newKey(t)
	e.holding = newKey(t)
	record, _, err := programs.FindMetadataAddress(e.policy.MetadataProgram, e.mint)
	require.NoError(t, err)
	e.metadata = record
	e.reset()
}

// reset discards uncommitted changes.
func (e *env) reset() {
	scope := state.Keys{}
	for _, addr := range []ed25519.PublicKey{
		e.signer,
		e.feeSource,
		e.policy.FeeDestination,
		e.policy.CounterAccount,
		e.mint,
		e.holding,
		e.metadata,
	} {
		storage.AccountKeys(scope, addr, state.All)
	}
	e.view = e.ts.NewView(scope, map[string][]byte{})
}

func (e *env) accounts() []AccountMeta {
	return []AccountMeta{
		{Address: e.signer, IsSigner: true, IsWritable: true},
		{Address: e.auth.Address},
		{Address: e.feeSource, IsSigner: true, IsWritable: true},
		{Address: e.policy.FeeDestination, IsWritable: true},
		{Address: e.policy.CounterAccount, IsWritable: true},
		{Address: e.policy.TokenProgram},
		{Address: e.policy.RentSysvar},
		{Address: e.mint, IsWritable: true},
		{Address: e.holding, IsWritable: true},
		{Address: e.metadata, IsWritable: true},
		{Address: e.policy.MetadataProgram},
		{Address: e.policy.SystemProgram},
	}
}

func (e *env) bindings() *Bindings {
	return New(e.policy, logging.NoLog{}, nil, nil).bindings
}

func (e *env) processor(opts ...Option) *Processor {
	tp := token.New()
	mp := metadata.New(tp.ID(), system.New(), testRent)
	return New(e.policy, logging.NoLog{}, tp, mp, opts...)
}

func (e *env) process(p *Processor) (*Receipt, error) {
	return p.Process(context.TODO(), e.view, e.policy.ProgramID, e.accounts(), []byte{byte(MintNFT)})
}

func (e *env) counter(t *testing.T) counter.State {
	st, err := counter.NewStateStore(e.view).Load(context.TODO(), e.policy.CounterAccount)
	require.NoError(t, err)
	return *st
}

func (e *env) setCounter(t *testing.T, st counter.State) {
	require.NoError(t, counter.NewStateStore(e.view).Persist(context.TODO(), e.policy.CounterAccount, &st))
}

func (e *env) balance(t *testing.T, addr ed25519.PublicKey) uint64 {
	bal, err := storage.GetBalance(context.TODO(), e.view, addr)
	require.NoError(t, err)
	return bal
}

func (e *env) exists(t *testing.T, addr ed25519.PublicKey) bool {
	_, exists, err := storage.GetOwner(context.TODO(), e.view, addr)
	require.NoError(t, err)
	return exists
}
