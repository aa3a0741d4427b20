// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token is the reference fungible/non-fungible token program.
package token

import (
	"context"
	"fmt"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ programs.TokenProgram = (*Program)(nil)

type Program struct {
	id ed25519.PublicKey
}

func New() *Program {
	return &Program{id: programs.TokenProgramID}
}

func (p *Program) ID() ed25519.PublicKey {
	return p.id
}

func (p *Program) InitializeMint(ctx context.Context, mu state.Mutable, args *programs.InitializeMintArgs) error {
	m, err := GetMint(ctx, mu, p.id, args.Mint)
	if err != nil {
		return err
	}
	if m.Initialized {
		return fmt.Errorf("%w: mint %s", ErrAlreadyInUse, args.Mint)
	}
	if err := unused(ctx, mu, args.Mint); err != nil {
		return err
	}
	m = &Mint{
		HasMintAuthority: true,
		MintAuthority:    args.MintAuthority,
		Decimals:         args.Decimals,
		Initialized:      true,
	}
	if args.FreezeAuthority != nil {
		m.HasFreezeAuthority = true
		m.FreezeAuthority = *args.FreezeAuthority
	}
	return store(ctx, mu, p.id, args.Mint, m)
}

func (p *Program) InitializeAccount(ctx context.Context, mu state.Mutable, args *programs.InitializeAccountArgs) error {
	m, err := GetMint(ctx, mu, p.id, args.Mint)
	if err != nil {
		return err
	}
	if !m.Initialized {
		return fmt.Errorf("%w: %s", ErrUninitializedMint, args.Mint)
	}
	a, err := GetAccount(ctx, mu, p.id, args.Account)
	if err != nil {
		return err
	}
	if a.Initialized {
		return fmt.Errorf("%w: account %s", ErrAlreadyInUse, args.Account)
	}
	if err := unused(ctx, mu, args.Account); err != nil {
		return err
	}
	return store(ctx, mu, p.id, args.Account, &Account{
		Mint:        args.Mint,
		Owner:       args.Owner,
		Initialized: true,
	})
}

func (p *Program) MintTo(
	ctx context.Context,
	mu state.Mutable,
	args *programs.MintToArgs,
	signers []authority.Signer,
) error {
	m, err := GetMint(ctx, mu, p.id, args.Mint)
	if err != nil {
		return err
	}
	if !m.Initialized {
		return fmt.Errorf("%w: %s", ErrUninitializedMint, args.Mint)
	}
	a, err := GetAccount(ctx, mu, p.id, args.Account)
	if err != nil {
		return err
	}
	if !a.Initialized {
		return fmt.Errorf("%w: %s", ErrUninitializedAccount, args.Account)
	}
	if a.Mint != args.Mint {
		return fmt.Errorf("%w: %s holds %s", ErrMintMismatch, args.Account, a.Mint)
	}
	if !m.HasMintAuthority {
		return ErrFixedSupply
	}
	if m.MintAuthority != args.Authority {
		return fmt.Errorf("%w: expected %s, got %s", ErrOwnerMismatch, m.MintAuthority, args.Authority)
	}
	if !authority.SignedBy(args.Authority, signers) {
		return ErrMissingSignature
	}

	supply, err := smath.Add(m.Supply, args.Amount)
	if err != nil {
		return fmt.Errorf("%w: supply", ErrOverflow)
	}
	amount, err := smath.Add(a.Amount, args.Amount)
	if err != nil {
		return fmt.Errorf("%w: account amount", ErrOverflow)
	}
	m.Supply = supply
	a.Amount = amount
	if err := store(ctx, mu, p.id, args.Mint, m); err != nil {
		return err
	}
	return store(ctx, mu, p.id, args.Account, a)
}
