// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metadata is the reference program that attaches name, symbol,
// uri and royalty information to a mint.
package metadata

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/consts"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/programs/token"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

const (
	MaxNameLen         = 32
	MaxSymbolLen       = 10
	MaxURILen          = 200
	MaxBasisPoints     = 10_000
	MaxCreators        = 5
	TotalCreatorShares = 100
)

const (
	keyMetadataV1 uint8 = 4

	maxRecordSize = consts.ByteLen + 2*ed25519.PublicKeyLen +
		consts.Uint32Len + MaxNameLen +
		consts.Uint32Len + MaxSymbolLen +
		consts.Uint32Len + MaxURILen +
		consts.Uint16Len +
		consts.Uint32Len + MaxCreators*(ed25519.PublicKeyLen+consts.BoolLen+consts.ByteLen) +
		2*consts.BoolLen
)

// Record is the stored form of a metadata account.
type Record struct {
	Key                 uint8
	UpdateAuthority     ed25519.PublicKey
	Mint                ed25519.PublicKey
	Data                programs.MetadataData
	PrimarySaleHappened bool
	IsMutable           bool
}

var _ programs.MetadataProgram = (*Program)(nil)

type Program struct {
	id           ed25519.PublicKey
	tokenID      ed25519.PublicKey
	system       programs.SystemProgram
	rentLamports uint64
}

// New returns the metadata program. Records are allocated through
// [system] and funded with [rentLamports] taken from the payer.
func New(tokenID ed25519.PublicKey, system programs.SystemProgram, rentLamports uint64) *Program {
	return &Program{
		id:           programs.MetadataProgramID,
		tokenID:      tokenID,
		system:       system,
		rentLamports: rentLamports,
	}
}

func (p *Program) ID() ed25519.PublicKey {
	return p.id
}

// Validate checks [d] against the limits enforced on every record.
func Validate(d *programs.MetadataData) error {
	if len(d.Name) > MaxNameLen {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(d.Name), MaxNameLen)
	}
	if len(d.Symbol) > MaxSymbolLen {
		return fmt.Errorf("%w: %d > %d", ErrSymbolTooLong, len(d.Symbol), MaxSymbolLen)
	}
	if len(d.URI) > MaxURILen {
		return fmt.Errorf("%w: %d > %d", ErrURITooLong, len(d.URI), MaxURILen)
	}
	if d.SellerFeeBasisPoints > MaxBasisPoints {
		return fmt.Errorf("%w: %d", ErrInvalidBasisPoints, d.SellerFeeBasisPoints)
	}
	if len(d.Creators) == 0 {
		return nil
	}
	if len(d.Creators) > MaxCreators {
		return fmt.Errorf("%w: %d > %d", ErrTooManyCreators, len(d.Creators), MaxCreators)
	}
	seen := make(map[ed25519.PublicKey]struct{}, len(d.Creators))
	total := 0
	for _, c := range d.Creators {
		if _, ok := seen[c.Address]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCreator, c.Address)
		}
		seen[c.Address] = struct{}{}
		total += int(c.Share)
	}
	if total != TotalCreatorShares {
		return fmt.Errorf("%w: got %d", ErrInvalidShares, total)
	}
	return nil
}

// CreateMetadata allocates the record of [args.Mint] and stores [args.Data]
// in it. [args.MintAuthority] must be the mint's authority and be proven by
// one of [signers].
func (p *Program) CreateMetadata(
	ctx context.Context,
	mu state.Mutable,
	args *programs.CreateMetadataArgs,
	signers []authority.Signer,
) error {
	if err := Validate(&args.Data); err != nil {
		return err
	}
	addr, bump, err := programs.FindMetadataAddress(p.id, args.Mint)
	if err != nil {
		return err
	}
	if addr != args.Metadata {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidMetadataAccount, addr, args.Metadata)
	}
	if _, exists, err := storage.GetData(ctx, mu, addr); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, addr)
	}

	m, err := token.GetMint(ctx, mu, p.tokenID, args.Mint)
	if err != nil {
		return err
	}
	if !m.Initialized {
		return fmt.Errorf("%w: %s", ErrUninitializedMint, args.Mint)
	}
	if !m.HasMintAuthority || m.MintAuthority != args.MintAuthority {
		return fmt.Errorf("%w: %s", ErrMintAuthorityMismatch, args.MintAuthority)
	}
	if !authority.SignedBy(args.MintAuthority, signers) {
		return ErrMissingSignature
	}

	recordSigner := authority.Signer{
		ProgramID: p.id,
		Seeds:     append(programs.MetadataSeeds(p.id, args.Mint), []byte{bump}),
	}
	if err := p.system.CreateAccount(ctx, mu, &programs.CreateAccountArgs{
		Payer:    args.Payer,
		Account:  addr,
		Owner:    p.id,
		Lamports: p.rentLamports,
		Space:    maxRecordSize,
	}, []authority.Signer{recordSigner}); err != nil {
		return err
	}

	data := args.Data
	data.Creators = make([]programs.Creator, len(args.Data.Creators))
	for i, c := range args.Data.Creators {
		// Only a creator that signed this call can be marked verified.
		c.Verified = authority.SignedBy(c.Address, signers)
		data.Creators[i] = c
	}
	b, err := borsh.Serialize(Record{
		Key:             keyMetadataV1,
		UpdateAuthority: args.UpdateAuthority,
		Mint:            args.Mint,
		Data:            data,
		IsMutable:       args.IsMutable,
	})
	if err != nil {
		return err
	}
	return storage.SetData(ctx, mu, addr, b)
}

// Get loads the metadata record stored at [addr].
func Get(ctx context.Context, im state.Immutable, programID, addr ed25519.PublicKey) (*Record, bool, error) {
	owner, exists, err := storage.GetOwner(ctx, im, addr)
	if err != nil || !exists {
		return nil, false, err
	}
	if owner != programID {
		return nil, false, fmt.Errorf("%w: owned by %s", ErrInvalidRecord, owner)
	}
	b, exists, err := storage.GetData(ctx, im, addr)
	if err != nil || !exists {
		return nil, false, err
	}
	r := &Record{}
	if err := borsh.Deserialize(r, b); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return r, true, nil
}
