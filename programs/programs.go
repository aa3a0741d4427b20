// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package programs defines the contracts of the programs a mint delegates
// to.
package programs

import (
	"context"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/state"
)

var (
	TokenProgramID    = ed25519.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	MetadataProgramID = ed25519.MustParseAddress("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	SystemProgramID   = ed25519.MustParseAddress("11111111111111111111111111111111")
	RentSysvarID      = ed25519.MustParseAddress("SysvarRent111111111111111111111111111111111")
)

type InitializeMintArgs struct {
	Mint          ed25519.PublicKey
	MintAuthority ed25519.PublicKey
	// FreezeAuthority is optional.
	FreezeAuthority *ed25519.PublicKey
	Decimals        uint8
}

type InitializeAccountArgs struct {
	Account ed25519.PublicKey
	Mint    ed25519.PublicKey
	Owner   ed25519.PublicKey
}

type MintToArgs struct {
	Mint      ed25519.PublicKey
	Account   ed25519.PublicKey
	Authority ed25519.PublicKey
	Amount    uint64
}

type Creator struct {
	Address  ed25519.PublicKey `json:"address"`
	Verified bool              `json:"verified"`
	Share    uint8             `json:"share"`
}

type MetadataData struct {
	Name                 string    `json:"name"`
	Symbol               string    `json:"symbol"`
	URI                  string    `json:"uri"`
	SellerFeeBasisPoints uint16    `json:"sellerFeeBasisPoints"`
	Creators             []Creator `json:"creators"`
}

type CreateMetadataArgs struct {
	Metadata        ed25519.PublicKey
	Mint            ed25519.PublicKey
	MintAuthority   ed25519.PublicKey
	Payer           ed25519.PublicKey
	UpdateAuthority ed25519.PublicKey
	Data            MetadataData
	IsMutable       bool
}

type CreateAccountArgs struct {
	Payer    ed25519.PublicKey
	Account  ed25519.PublicKey
	Owner    ed25519.PublicKey
	Lamports uint64
	Space    uint64
}

// TokenProgram manages mints and the accounts that hold their units.
type TokenProgram interface {
	ID() ed25519.PublicKey
	InitializeMint(ctx context.Context, mu state.Mutable, args *InitializeMintArgs) error
	InitializeAccount(ctx context.Context, mu state.Mutable, args *InitializeAccountArgs) error
	// MintTo requires [args.Authority] to be proven by one of [signers].
	MintTo(ctx context.Context, mu state.Mutable, args *MintToArgs, signers []authority.Signer) error
}

// MetadataProgram attaches descriptive records to mints.
type MetadataProgram interface {
	ID() ed25519.PublicKey
	CreateMetadata(ctx context.Context, mu state.Mutable, args *CreateMetadataArgs, signers []authority.Signer) error
}

// SystemProgram creates accounts.
type SystemProgram interface {
	ID() ed25519.PublicKey
	CreateAccount(ctx context.Context, mu state.Mutable, args *CreateAccountArgs, signers []authority.Signer) error
}
