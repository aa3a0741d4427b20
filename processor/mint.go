// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"context"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

// mint issues the next serial to [accts.Signer].
//
// The counter is only persisted once every delegated call has succeeded,
// so a rejected mint never consumes a serial.
func (p *Processor) mint(ctx context.Context, mu state.Mutable, accts *MintAccounts) (*Receipt, error) {
	store := p.newStore(mu)
	st, err := store.Load(ctx, accts.Counter)
	if err != nil {
		return nil, err
	}
	serial, next, err := counter.Reserve(st, p.policy.IssuanceCeiling)
	if err != nil {
		return nil, err
	}

	if err := storage.Transfer(ctx, mu, accts.FeeSource, accts.FeeDestination, p.policy.Fee); err != nil {
		return nil, err
	}

	auth := accts.Authority
	signers := []authority.Signer{auth.Signer()}
	if err := delegated(InitializeMint, p.token.InitializeMint(ctx, mu, &programs.InitializeMintArgs{
		Mint:          accts.Mint,
		MintAuthority: auth.Address,
		Decimals:      0,
	})); err != nil {
		return nil, err
	}
	if err := delegated(InitializeAccount, p.token.InitializeAccount(ctx, mu, &programs.InitializeAccountArgs{
		Account: accts.Holding,
		Mint:    accts.Mint,
		Owner:   accts.Signer,
	})); err != nil {
		return nil, err
	}
	if err := delegated(MintTo, p.token.MintTo(ctx, mu, &programs.MintToArgs{
		Mint:      accts.Mint,
		Account:   accts.Holding,
		Authority: auth.Address,
		Amount:    1,
	}, signers)); err != nil {
		return nil, err
	}

	name := p.policy.Name(serial)
	uri := p.policy.URI(serial)
	if err := delegated(CreateMetadata, p.metadata.CreateMetadata(ctx, mu, &programs.CreateMetadataArgs{
		Metadata:        accts.Metadata,
		Mint:            accts.Mint,
		MintAuthority:   auth.Address,
		Payer:           accts.Signer,
		UpdateAuthority: auth.Address,
		Data: programs.MetadataData{
			Name:                 name,
			Symbol:               p.policy.Symbol,
			URI:                  uri,
			SellerFeeBasisPoints: p.policy.SellerFeeBasisPoints,
			Creators:             p.policy.MetadataCreators(),
		},
		IsMutable: true,
	}, signers)); err != nil {
		return nil, err
	}

	if err := store.Persist(ctx, accts.Counter, next); err != nil {
		return nil, err
	}
	return &Receipt{
		Serial:   serial,
		Mint:     accts.Mint,
		Holding:  accts.Holding,
		Metadata: accts.Metadata,
		Name:     name,
		URI:      uri,
	}, nil
}
