// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/metadata"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

func TestMintFreshCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)
	require.Equal(counter.State{}, e.counter(t))

	r, err := e.process(e.processor())
	require.NoError(err)
	require.Equal(uint64(1), r.Serial)
	require.Equal("Solana Punk 1", r.Name)
	require.True(strings.HasSuffix(r.URI, "punk_1.json"))
	require.Equal("https://arweave.net/punks/punk_1.json", r.URI)
	require.Equal(e.mint, r.Mint)
	require.Equal(e.holding, r.Holding)
	require.Equal(e.metadata, r.Metadata)

	require.Equal(counter.State{Initialized: true, NextSerial: 2}, e.counter(t))

	m, err := token.GetMint(ctx, e.view, e.policy.TokenProgram, e.mint)
	require.NoError(err)
	require.True(m.Initialized)
	require.Equal(uint64(1), m.Supply)
	require.Zero(m.Decimals)
	require.Equal(e.auth.Address, m.MintAuthority)
	require.False(m.HasFreezeAuthority)

	a, err := token.GetAccount(ctx, e.view, e.policy.TokenProgram, e.holding)
	require.NoError(err)
	require.Equal(e.mint, a.Mint)
	require.Equal(e.signer, a.Owner)
	require.Equal(uint64(1), a.Amount)

	rec, exists, err := metadata.Get(ctx, e.view, e.policy.MetadataProgram, e.metadata)
	require.NoError(err)
	require.True(exists)
	require.Equal("Solana Punk 1", rec.Data.Name)
	require.Empty(rec.Data.Symbol)
	require.True(strings.HasSuffix(rec.Data.URI, "punk_1.json"))
	require.Zero(rec.Data.SellerFeeBasisPoints)
	require.Empty(rec.Data.Creators)
	require.Equal(e.mint, rec.Mint)

	require.Equal(uint64(testBalance-testFee), e.balance(t, e.feeSource))
	require.Equal(uint64(testFee), e.balance(t, e.policy.FeeDestination))
	require.Equal(uint64(testBalance-testRent), e.balance(t, e.signer))
}

func TestMintSequentialSerials(t *testing.T) {
	require := require.New(t)
	e := newEnv(t)
	p := e.processor()

	for i := uint64(1); i <= testCeiling; i++ {
		r, err := e.process(p)
		require.NoError(err)
		require.Equal(i, r.Serial)
		require.Equal(e.policy.Name(i), r.Name)
		e.view.Commit()
		e.nextAsset(t)
	}
	require.Equal(counter.State{Initialized: true, NextSerial: testCeiling + 1}, e.counter(t))
	require.Equal(uint64(testCeiling*testFee), e.balance(t, e.policy.FeeDestination))

	_, err := e.process(p)
	require.ErrorIs(err, ErrIssuanceLimitExceeded)
}

func TestMintAtCeiling(t *testing.T) {
	require := require.New(t)
	e := newEnv(t)
	p := e.processor()
	e.setCounter(t, counter.State{Initialized: true, NextSerial: testCeiling})
	e.view.Commit()
	e.reset()

	r, err := e.process(p)
	require.NoError(err)
	require.Equal(uint64(testCeiling), r.Serial)
	require.Equal(counter.State{Initialized: true, NextSerial: testCeiling + 1}, e.counter(t))
	e.view.Commit()
	e.nextAsset(t)

	_, err = e.process(p)
	require.ErrorIs(err, ErrIssuanceLimitExceeded)
	require.Equal(counter.State{Initialized: true, NextSerial: testCeiling + 1}, e.counter(t))
	require.False(e.exists(t, e.mint))
	require.Equal(uint64(testFee), e.balance(t, e.policy.FeeDestination))
}

func TestMintRejectedWithoutChanges(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, e *env)
		data        []byte
		mutate      func(e *env, accounts []AccountMeta) []AccountMeta
		expectedErr error
	}{
		{
			name:        "unknown instruction",
			data:        []byte{2},
			expectedErr: ErrInvalidInstruction,
		},
		{
			name:        "empty instruction",
			data:        []byte{},
			expectedErr: ErrInvalidInstruction,
		},
		{
			name: "wrong fee destination",
			mutate: func(e *env, accounts []AccountMeta) []AccountMeta {
				accounts[FeeDestinationIndex].Address = e.signer
				return accounts
			},
			expectedErr: ErrUnauthorizedAccount,
		},
		{
			name: "wrong counter",
			mutate: func(e *env, accounts []AccountMeta) []AccountMeta {
				accounts[CounterIndex].Address = e.holding
				return accounts
			},
			expectedErr: ErrUnauthorizedAccount,
		},
		{
			name: "insufficient funds",
			setup: func(t *testing.T, e *env) {
				require.NoError(t, storage.SetBalance(context.TODO(), e.view, e.feeSource, testFee-1))
			},
			expectedErr: ErrInsufficientFunds,
		},
		{
			name: "unreadable counter",
			setup: func(t *testing.T, e *env) {
				require.NoError(t, storage.SetData(context.TODO(), e.view, e.policy.CounterAccount, []byte{7, 7}))
			},
			expectedErr: ErrDeserialization,
		},
		{
			name: "limit reached",
			setup: func(t *testing.T, e *env) {
				e.setCounter(t, counter.State{Initialized: true, NextSerial: testCeiling + 1})
			},
			expectedErr: ErrIssuanceLimitExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			e := newEnv(t)
			if tt.setup != nil {
				tt.setup(t, e)
				e.view.Commit()
				e.reset()
			}
			before := e.counterRaw(t)
			feeSourceBal := e.balance(t, e.feeSource)

			accounts := e.accounts()
			if tt.mutate != nil {
				accounts = tt.mutate(e, accounts)
			}
			data := []byte{byte(MintNFT)}
			if tt.data != nil {
				data = tt.data
			}
			_, err := e.processor().Process(context.TODO(), e.view, e.policy.ProgramID, accounts, data)
			require.ErrorIs(err, tt.expectedErr)

			require.Zero(e.view.PendingChanges())
			require.Equal(before, e.counterRaw(t))
			require.Equal(feeSourceBal, e.balance(t, e.feeSource))
			require.Zero(e.balance(t, e.policy.FeeDestination))
			require.False(e.exists(t, e.mint))
			require.False(e.exists(t, e.holding))
			require.False(e.exists(t, e.metadata))
		})
	}
}

func (e *env) counterRaw(t *testing.T) []byte {
	b, _, err := storage.GetData(context.TODO(), e.view, e.policy.CounterAccount)
	require.NoError(t, err)
	return b
}

func TestWrongProgramID(t *testing.T) {
	require := require.New(t)
	e := newEnv(t)

	_, err := e.processor().Process(context.TODO(), e.view, e.signer, e.accounts(), []byte{byte(MintNFT)})
	require.ErrorIs(err, ErrIncorrectProgramID)
}

func TestDelegatedCallSequence(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	e := newEnv(t)

	tp := programs.NewMockTokenProgram(ctrl)
	mp := programs.NewMockMetadataProgram(ctrl)
	p := New(e.policy, logging.NoLog{}, tp, mp)

	hasMintAuthority := gomock.Cond(func(x any) bool {
		signers, ok := x.([]authority.Signer)
		return ok && authority.SignedBy(e.auth.Address, signers)
	})
	gomock.InOrder(
		tp.EXPECT().InitializeMint(gomock.Any(), e.view, &programs.InitializeMintArgs{
			Mint:          e.mint,
			MintAuthority: e.auth.Address,
			Decimals:      0,
		}).Return(nil),
		tp.EXPECT().InitializeAccount(gomock.Any(), e.view, &programs.InitializeAccountArgs{
			Account: e.holding,
			Mint:    e.mint,
			Owner:   e.signer,
		}).Return(nil),
		tp.EXPECT().MintTo(gomock.Any(), e.view, &programs.MintToArgs{
			Mint:      e.mint,
			Account:   e.holding,
			Authority: e.auth.Address,
			Amount:    1,
		}, hasMintAuthority).Return(nil),
		mp.EXPECT().CreateMetadata(gomock.Any(), e.view, &programs.CreateMetadataArgs{
			Metadata:        e.metadata,
			Mint:            e.mint,
			MintAuthority:   e.auth.Address,
			Payer:           e.signer,
			UpdateAuthority: e.auth.Address,
			Data: programs.MetadataData{
				Name: "Solana Punk 1",
				URI:  "https://arweave.net/punks/punk_1.json",
			},
			IsMutable: true,
		}, hasMintAuthority).Return(nil),
	)

	r, err := e.process(p)
	require.NoError(err)
	require.Equal(uint64(1), r.Serial)
	require.Equal(counter.State{Initialized: true, NextSerial: 2}, e.counter(t))
}

var errCallee = errors.New("callee failed")

func TestDelegatedCallFailure(t *testing.T) {
	tests := []struct {
		kind  CallKind
		setup func(tp *programs.MockTokenProgram, mp *programs.MockMetadataProgram)
	}{
		{
			kind: InitializeMint,
			setup: func(tp *programs.MockTokenProgram, _ *programs.MockMetadataProgram) {
				tp.EXPECT().InitializeMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCallee)
			},
		},
		{
			kind: InitializeAccount,
			setup: func(tp *programs.MockTokenProgram, _ *programs.MockMetadataProgram) {
				tp.EXPECT().InitializeMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tp.EXPECT().InitializeAccount(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCallee)
			},
		},
		{
			kind: MintTo,
			setup: func(tp *programs.MockTokenProgram, _ *programs.MockMetadataProgram) {
				tp.EXPECT().InitializeMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tp.EXPECT().InitializeAccount(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tp.EXPECT().MintTo(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errCallee)
			},
		},
		{
			kind: CreateMetadata,
			setup: func(tp *programs.MockTokenProgram, mp *programs.MockMetadataProgram) {
				tp.EXPECT().InitializeMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tp.EXPECT().InitializeAccount(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tp.EXPECT().MintTo(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				mp.EXPECT().CreateMetadata(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errCallee)
			},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)
			e := newEnv(t)

			tp := programs.NewMockTokenProgram(ctrl)
			mp := programs.NewMockMetadataProgram(ctrl)
			tt.setup(tp, mp)

			_, err := e.process(New(e.policy, logging.NoLog{}, tp, mp))
			require.ErrorIs(err, ErrDelegatedCallFailed)
			require.ErrorIs(err, errCallee)
			var derr *DelegatedCallError
			require.ErrorAs(err, &derr)
			require.Equal(tt.kind, derr.Kind)
			require.Equal(errCallee, derr.Err)

			// The serial is not consumed.
			require.Equal(counter.State{}, e.counter(t))
		})
	}
}

// Without an enclosing transaction, a failed delegated call leaves the fee
// transfer and earlier delegated writes in place but never the counter.
func TestDelegatedFailureWithoutRollback(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	e := newEnv(t)
	e.setCounter(t, counter.State{Initialized: true, NextSerial: 3})
	e.view.Commit()
	e.reset()

	tp := token.New()
	mp := programs.NewMockMetadataProgram(ctrl)
	mp.EXPECT().CreateMetadata(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(metadata.ErrURITooLong)

	_, err := e.process(New(e.policy, logging.NoLog{}, tp, mp))
	require.ErrorIs(err, metadata.ErrURITooLong)

	require.Equal(counter.State{Initialized: true, NextSerial: 3}, e.counter(t))
	require.Equal(uint64(testFee), e.balance(t, e.policy.FeeDestination))
	require.True(e.exists(t, e.mint))

	// Rolling back the view restores everything.
	e.view.Rollback(context.TODO(), 0)
	require.Zero(e.balance(t, e.policy.FeeDestination))
	require.False(e.exists(t, e.mint))

	// The same serial is issued by the next successful mint.
	r, err := e.process(e.processor())
	require.NoError(err)
	require.Equal(uint64(3), r.Serial)
}

func TestWithCounterStore(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)
	mem := counter.NewMemoryStore()
	require.NoError(mem.Persist(ctx, e.policy.CounterAccount, &counter.State{Initialized: true, NextSerial: 4}))

	p := e.processor(WithCounterStore(func(state.Mutable) counter.Store { return mem }))
	r, err := e.process(p)
	require.NoError(err)
	require.Equal(uint64(4), r.Serial)

	st, err := mem.Load(ctx, e.policy.CounterAccount)
	require.NoError(err)
	require.Equal(uint64(5), st.NextSerial)
	// The state-backed counter was never touched.
	require.Equal(counter.State{}, e.counter(t))
}

func TestPolicyRoyaltiesAndCreators(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newEnv(t)
	e.policy.Symbol = "SPUNK"
	e.policy.SellerFeeBasisPoints = 250
	e.policy.Creators = []config.Creator{{Address: e.auth.Address, Share: 100}}

	_, err := e.process(e.processor())
	require.NoError(err)

	rec, _, err := metadata.Get(ctx, e.view, e.policy.MetadataProgram, e.metadata)
	require.NoError(err)
	require.Equal("SPUNK", rec.Data.Symbol)
	require.Equal(uint16(250), rec.Data.SellerFeeBasisPoints)
	require.Len(rec.Data.Creators, 1)
	require.True(rec.Data.Creators[0].Verified)
}
