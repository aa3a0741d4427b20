// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/genesis"
	"github.com/ava-labs/niftyvm/host"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/system"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/server"
	"github.com/ava-labs/niftyvm/trace"
)

const (
	testFee     = 500
	testRent    = 7
	testCeiling = 2
	testBalance = 100_000
)

func newPrivateKey(t *testing.T) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

type env struct {
	policy *config.Policy
	payer  ed25519.PrivateKey
	client *JSONRPCClient
}

func newEnv(t *testing.T) *env {
	require := require.New(t)
	ctx := context.TODO()

	policy := config.Default().Policy
	policy.ProgramID = newPrivateKey(t).PublicKey()
	policy.CounterAccount = newPrivateKey(t).PublicKey()
	policy.FeeDestination = newPrivateKey(t).PublicKey()
	policy.Fee = testFee
	policy.IssuanceCeiling = testCeiling
	policy.BaseURI = "https://arweave.net/punks"
	policy.SeriesName = "Punk"
	policy.Symbol = "PNK"
	require.NoError(policy.Validate())

	payer := newPrivateKey(t)
	tp := token.New()
	p := processor.New(&policy, logging.NoLog{}, tp, metadata.New(tp.ID(), system.New(), testRent))
	h, err := host.New(
		config.Host{Concurrency: 2, MaxBatchSize: 8},
		&policy,
		memdb.New(),
		p,
		logging.NoLog{},
		trace.Noop("rpc"),
		prometheus.NewRegistry(),
	)
	require.NoError(err)
	require.NoError(h.Initialize(ctx, genesis.New([]*genesis.Allocation{
		{Address: payer.PublicKey(), Balance: testBalance},
	})))

	svc, err := NewJSONRPCServer(h, &policy, logging.NoLog{}, trace.Noop("rpc"))
	require.NoError(err)
	handler, err := server.NewHandler(svc, Name)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &env{
		policy: &policy,
		payer:  payer,
		client: NewJSONRPCClient(srv.URL),
	}
}

func (e *env) mint(t *testing.T) (*host.Invocation, ed25519.PublicKey, ed25519.PublicKey) {
	require := require.New(t)
	mint := newPrivateKey(t).PublicKey()
	holding := newPrivateKey(t).PublicKey()
	inv, err := e.client.MintInvocation(context.TODO(), e.payer.PublicKey(), e.payer.PublicKey(), mint, holding)
	require.NoError(err)
	require.NoError(inv.Sign(e.payer))
	return inv, mint, holding
}

func TestPingAndPolicy(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)

	ok, err := e.client.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	p, err := e.client.Policy(ctx)
	require.NoError(err)
	require.Equal(e.policy.ProgramID, p.ProgramID)
	require.Equal(e.policy.CounterAccount, p.CounterAccount)
	require.Equal(uint64(testFee), p.Fee)
	require.Equal(uint64(testCeiling), p.IssuanceCeiling)
	require.NotEqual(ed25519.EmptyPublicKey, p.Authority)
}

func TestSubmitAndQuery(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)

	c, err := e.client.Counter(ctx)
	require.NoError(err)
	require.False(c.Initialized)
	require.Equal(uint64(testCeiling), c.Remaining)

	inv, mint, holding := e.mint(t)
	r, err := e.client.Submit(ctx, inv)
	require.NoError(err)
	require.Equal(uint64(1), r.Serial)
	require.Equal("Punk 1", r.Name)
	require.Equal("https://arweave.net/punks/punk_1.json", r.URI)

	c, err = e.client.Counter(ctx)
	require.NoError(err)
	require.True(c.Initialized)
	require.Equal(uint64(2), c.NextSerial)
	require.Equal(uint64(1), c.Remaining)

	bal, err := e.client.Balance(ctx, e.policy.FeeDestination)
	require.NoError(err)
	require.Equal(uint64(testFee), bal)
	bal, err = e.client.Balance(ctx, e.payer.PublicKey())
	require.NoError(err)
	require.Equal(uint64(testBalance-testFee-testRent), bal)

	m, err := e.client.Mint(ctx, mint)
	require.NoError(err)
	require.Equal(uint64(1), m.Supply)
	require.Zero(m.Decimals)

	acct, err := e.client.TokenAccount(ctx, holding)
	require.NoError(err)
	require.Equal(mint, acct.Mint)
	require.Equal(e.payer.PublicKey(), acct.Owner)
	require.Equal(uint64(1), acct.Amount)

	md, err := e.client.Metadata(ctx, mint)
	require.NoError(err)
	require.Equal(mint, md.Mint)
	require.Equal("Punk 1", md.Data.Name)
	require.Equal("PNK", md.Data.Symbol)
	require.True(md.IsMutable)

	unknown := newPrivateKey(t).PublicKey()
	_, err = e.client.Mint(ctx, unknown)
	require.ErrorContains(err, ErrAccountNotFound.Error())
	_, err = e.client.TokenAccount(ctx, unknown)
	require.ErrorContains(err, ErrAccountNotFound.Error())
	_, err = e.client.Metadata(ctx, unknown)
	require.ErrorContains(err, ErrAccountNotFound.Error())
}

func TestSubmitRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)

	inv, _, _ := e.mint(t)
	inv.Signatures = nil
	_, err := e.client.Submit(ctx, inv)
	require.ErrorContains(err, processor.ErrMissingSignature.Error())

	_, err = e.client.Submit(ctx, nil)
	require.ErrorContains(err, ErrMissingInvocation.Error())
}

func TestSubmitBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)

	invs := make([]*host.Invocation, testCeiling+1)
	for i := range invs {
		invs[i], _, _ = e.mint(t)
	}
	results, err := e.client.SubmitBatch(ctx, invs)
	require.NoError(err)
	require.Len(results, len(invs))
	for i := 0; i < testCeiling; i++ {
		require.Empty(results[i].Error)
		require.Equal(uint64(i+1), results[i].Receipt.Serial)
	}
	require.Nil(results[testCeiling].Receipt)
	require.Contains(results[testCeiling].Error, processor.ErrIssuanceLimitExceeded.Error())

	c, err := e.client.Counter(ctx)
	require.NoError(err)
	require.Zero(c.Remaining)
}
