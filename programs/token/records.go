// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

// Mint describes a token. Optional authorities are stored behind a flag.
type Mint struct {
	HasMintAuthority   bool
	MintAuthority      ed25519.PublicKey
	Supply             uint64
	Decimals           uint8
	Initialized        bool
	HasFreezeAuthority bool
	FreezeAuthority    ed25519.PublicKey
}

// Account holds units of a single mint for an owner.
type Account struct {
	Mint        ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
	Initialized bool
}

// GetMint loads the mint at [addr] as recorded by the program [id]. A
// missing account yields an uninitialized mint.
func GetMint(ctx context.Context, im state.Immutable, id ed25519.PublicKey, addr ed25519.PublicKey) (*Mint, error) {
	m := &Mint{}
	return m, load(ctx, im, id, addr, m)
}

// GetAccount loads the token account at [addr] as recorded by the program
// [id]. A missing account yields an uninitialized token account.
func GetAccount(ctx context.Context, im state.Immutable, id ed25519.PublicKey, addr ed25519.PublicKey) (*Account, error) {
	a := &Account{}
	return a, load(ctx, im, id, addr, a)
}

func load(ctx context.Context, im state.Immutable, id ed25519.PublicKey, addr ed25519.PublicKey, v interface{}) error {
	owner, exists, err := storage.GetOwner(ctx, im, addr)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if owner != id {
		return fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, addr, owner)
	}
	b, exists, err := storage.GetData(ctx, im, addr)
	if err != nil || !exists {
		return err
	}
	if err := borsh.Deserialize(v, b); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// unused fails unless [addr] has never been touched: no owner, no data
// and no lamports. Mints and token accounts are only created over such
// accounts.
func unused(ctx context.Context, im state.Immutable, addr ed25519.PublicKey) error {
	owner, exists, err := storage.GetOwner(ctx, im, addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s owned by %s", ErrAlreadyInUse, addr, owner)
	}
	_, exists, err = storage.GetData(ctx, im, addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s holds data", ErrAlreadyInUse, addr)
	}
	bal, err := storage.GetBalance(ctx, im, addr)
	if err != nil {
		return err
	}
	if bal > 0 {
		return fmt.Errorf("%w: %s holds %d lamports", ErrAlreadyInUse, addr, bal)
	}
	return nil
}

func store(ctx context.Context, mu state.Mutable, id ed25519.PublicKey, addr ed25519.PublicKey, v interface{}) error {
	b, err := borsh.Serialize(v)
	if err != nil {
		return err
	}
	if err := storage.SetOwner(ctx, mu, addr, id); err != nil {
		return err
	}
	return storage.SetData(ctx, mu, addr, b)
}
