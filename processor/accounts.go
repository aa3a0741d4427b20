// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"fmt"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
	"github.com/ava-labs/niftyvm/registry"
)

// AccountMeta is one entry of the positional account list of an
// invocation.
type AccountMeta struct {
	Address    ed25519.PublicKey `json:"address"`
	IsSigner   bool              `json:"isSigner"`
	IsWritable bool              `json:"isWritable"`
}

// Positions of the accounts a mint expects.
const (
	SignerIndex = iota
	AuthorityIndex
	FeeSourceIndex
	FeeDestinationIndex
	CounterIndex
	TokenProgramIndex
	RentSysvarIndex
	MintIndex
	HoldingIndex
	MetadataIndex
	MetadataProgramIndex
	SystemProgramIndex

	NumMintAccounts
)

// Bindings are the fixed identities positional accounts are checked
// against.
type Bindings struct {
	Registry        *registry.Registry
	TokenProgram    ed25519.PublicKey
	MetadataProgram ed25519.PublicKey
	SystemProgram   ed25519.PublicKey
	RentSysvar      ed25519.PublicKey
}

// MintAccounts is the validated view of the accounts of one mint.
type MintAccounts struct {
	Signer          ed25519.PublicKey
	Authority       *authority.Authority
	FeeSource       ed25519.PublicKey
	FeeDestination  ed25519.PublicKey
	Counter         ed25519.PublicKey
	TokenProgram    ed25519.PublicKey
	RentSysvar      ed25519.PublicKey
	Mint            ed25519.PublicKey
	Holding         ed25519.PublicKey
	Metadata        ed25519.PublicKey
	MetadataProgram ed25519.PublicKey
	SystemProgram   ed25519.PublicKey
}

// BindMintAccounts validates [accounts] by position and returns them by
// role. Nothing is read from or written to state. Accounts past
// [NumMintAccounts] are ignored.
func BindMintAccounts(programID ed25519.PublicKey, accounts []AccountMeta, b *Bindings) (*MintAccounts, error) {
	if len(accounts) < NumMintAccounts {
		return nil, fmt.Errorf("%w: expected %d accounts, got %d", ErrInvalidInstruction, NumMintAccounts, len(accounts))
	}
	m := &MintAccounts{
		Signer:          accounts[SignerIndex].Address,
		FeeSource:       accounts[FeeSourceIndex].Address,
		FeeDestination:  accounts[FeeDestinationIndex].Address,
		Counter:         accounts[CounterIndex].Address,
		TokenProgram:    accounts[TokenProgramIndex].Address,
		RentSysvar:      accounts[RentSysvarIndex].Address,
		Mint:            accounts[MintIndex].Address,
		Holding:         accounts[HoldingIndex].Address,
		Metadata:        accounts[MetadataIndex].Address,
		MetadataProgram: accounts[MetadataProgramIndex].Address,
		SystemProgram:   accounts[SystemProgramIndex].Address,
	}

	if !b.Registry.IsFeeDestination(m.FeeDestination) {
		return nil, fmt.Errorf("%w: fee destination %s", ErrUnauthorizedAccount, m.FeeDestination)
	}
	if !b.Registry.IsCounter(m.Counter) {
		return nil, fmt.Errorf("%w: counter %s", ErrUnauthorizedAccount, m.Counter)
	}
	if registry.Matches(m.FeeSource, m.Counter) || registry.Matches(m.FeeSource, programID) {
		return nil, fmt.Errorf("%w: fee source %s", ErrUnauthorizedAccount, m.FeeSource)
	}

	auth, err := authority.Derive(programID, authority.MintAuthorityLabel)
	if err != nil {
		return nil, err
	}
	if !registry.Matches(accounts[AuthorityIndex].Address, auth.Address) {
		return nil, fmt.Errorf("%w: program authority %s", ErrUnauthorizedAccount, accounts[AuthorityIndex].Address)
	}
	m.Authority = auth
	if err := checkAssetAccounts(programID, m); err != nil {
		return nil, err
	}

	for _, i := range []int{SignerIndex, FeeSourceIndex} {
		if !accounts[i].IsSigner {
			return nil, fmt.Errorf("%w: account %d (%s)", ErrMissingSignature, i, accounts[i].Address)
		}
	}
	for _, i := range []int{SignerIndex, FeeSourceIndex, FeeDestinationIndex, CounterIndex, MintIndex, HoldingIndex, MetadataIndex} {
		if !accounts[i].IsWritable {
			return nil, fmt.Errorf("%w: account %d (%s)", ErrAccountNotWritable, i, accounts[i].Address)
		}
	}

	for _, c := range []struct {
		name     string
		got      ed25519.PublicKey
		expected ed25519.PublicKey
	}{
		{"token program", m.TokenProgram, b.TokenProgram},
		{"rent sysvar", m.RentSysvar, b.RentSysvar},
		{"metadata program", m.MetadataProgram, b.MetadataProgram},
		{"system program", m.SystemProgram, b.SystemProgram},
	} {
		if !registry.Matches(c.got, c.expected) {
			return nil, fmt.Errorf("%w: %w: %s %s", ErrUnauthorizedAccount, ErrIncorrectProgramID, c.name, c.got)
		}
	}

	record, _, err := programs.FindMetadataAddress(m.MetadataProgram, m.Mint)
	if err != nil {
		return nil, err
	}
	if !registry.Matches(m.Metadata, record) {
		return nil, fmt.Errorf("%w: metadata %s, expected %s", ErrUnauthorizedAccount, m.Metadata, record)
	}
	return m, nil
}

type namedAccount struct {
	name string
	addr ed25519.PublicKey
}

// checkAssetAccounts rejects a mint, holding or metadata account that is
// also one of the fixed role accounts or another asset account. Those
// three are created by the mint and must start out unused.
func checkAssetAccounts(programID ed25519.PublicKey, m *MintAccounts) error {
	roles := []namedAccount{
		{"program", programID},
		{"signer", m.Signer},
		{"program authority", m.Authority.Address},
		{"fee source", m.FeeSource},
		{"fee destination", m.FeeDestination},
		{"counter", m.Counter},
		{"token program", m.TokenProgram},
		{"rent sysvar", m.RentSysvar},
		{"metadata program", m.MetadataProgram},
		{"system program", m.SystemProgram},
	}
	assets := []namedAccount{
		{"mint", m.Mint},
		{"holding", m.Holding},
		{"metadata", m.Metadata},
	}
	for i, a := range assets {
		for _, other := range append(roles, assets[i+1:]...) {
			if registry.Matches(a.addr, other.addr) {
				return fmt.Errorf("%w: %s %s is also the %s", ErrUnauthorizedAccount, a.name, a.addr, other.name)
			}
		}
	}
	return nil
}
