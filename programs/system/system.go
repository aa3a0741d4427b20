// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system is the reference account-creation program.
package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

var (
	ErrAccountAlreadyInUse = errors.New("account already in use")
	ErrMissingSignature    = errors.New("new account must sign")
	ErrInvalidSpace        = errors.New("requested space too large")
)

var _ programs.SystemProgram = (*Program)(nil)

type Program struct {
	id ed25519.PublicKey
}

func New() *Program {
	return &Program{id: programs.SystemProgramID}
}

func (p *Program) ID() ed25519.PublicKey {
	return p.id
}

// CreateAccount funds [args.Account] from [args.Payer] and assigns it to
// [args.Owner]. The new account must be proven by one of [signers].
func (*Program) CreateAccount(
	ctx context.Context,
	mu state.Mutable,
	args *programs.CreateAccountArgs,
	signers []authority.Signer,
) error {
	if _, exists, err := storage.GetOwner(ctx, mu, args.Account); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, args.Account)
	}
	if !authority.SignedBy(args.Account, signers) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, args.Account)
	}
	if args.Space > storage.MaxDataSize {
		return fmt.Errorf("%w: %d", ErrInvalidSpace, args.Space)
	}
	if err := storage.Transfer(ctx, mu, args.Payer, args.Account, args.Lamports); err != nil {
		return err
	}
	return storage.SetOwner(ctx, mu, args.Account, args.Owner)
}
