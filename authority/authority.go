// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package authority derives program controlled addresses.
//
// A derived address is the hash of a set of seeds and the owning program id
// that is guaranteed to be off the ed25519 curve. Because no private key
// exists for it, the only way to act as the address is to present the seeds
// (and bump) that produce it for the owning program. The seeds are the proof
// and are recomputed on every invocation.
package authority

import (
	"bytes"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/niftyvm/consts"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
)

// MintAuthorityLabel is the seed of the authority that owns every mint
// issued by the program.
const MintAuthorityLabel = "mint_authority"

var pdaMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress hashes [seeds] with [programID] and fails if the
// result lands on the curve.
func CreateProgramAddress(seeds [][]byte, programID ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(seeds) > consts.MaxSeeds {
		return ed25519.EmptyPublicKey, ErrMaxSeedsExceeded
	}
	size := ed25519.PublicKeyLen + len(pdaMarker)
	for _, seed := range seeds {
		if len(seed) > consts.MaxSeedLen {
			return ed25519.EmptyPublicKey, ErrMaxSeedLengthExceeded
		}
		size += len(seed)
	}
	buf := make([]byte, 0, size)
	for _, seed := range seeds {
		buf = append(buf, seed...)
	}
	buf = append(buf, programID[:]...)
	buf = append(buf, pdaMarker...)

	addr := ed25519.PublicKey(hashing.ComputeHash256Array(buf))
	if addr.IsOnCurve() {
		return ed25519.EmptyPublicKey, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the first
// address that is off the curve.
func FindProgramAddress(seeds [][]byte, programID ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	bumped := make([][]byte, len(seeds)+1)
	copy(bumped, seeds)
	for bump := int(consts.MaxUint8); bump >= 0; bump-- {
		bumped[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(bumped, programID)
		switch err {
		case nil:
			return addr, uint8(bump), nil
		case ErrInvalidSeeds:
			continue
		default:
			return ed25519.EmptyPublicKey, 0, err
		}
	}
	return ed25519.EmptyPublicKey, 0, ErrNoViableBump
}

// Authority is an address derived for a program together with the bump that
// produced it.
type Authority struct {
	Address ed25519.PublicKey
	Bump    uint8

	programID ed25519.PublicKey
	seeds     [][]byte
}

// Derive returns the authority of [programID] for [label]. It is a pure
// function of its inputs.
func Derive(programID ed25519.PublicKey, label string) (*Authority, error) {
	seeds := [][]byte{[]byte(label)}
	addr, bump, err := FindProgramAddress(seeds, programID)
	if err != nil {
		return nil, err
	}
	return &Authority{
		Address:   addr,
		Bump:      bump,
		programID: programID,
		seeds:     seeds,
	}, nil
}

// Signer returns the capability that lets a callee accept [a.Address] as a
// signer.
func (a *Authority) Signer() Signer {
	seeds := make([][]byte, 0, len(a.seeds)+1)
	for _, seed := range a.seeds {
		seeds = append(seeds, bytes.Clone(seed))
	}
	seeds = append(seeds, []byte{a.Bump})
	return Signer{ProgramID: a.programID, Seeds: seeds}
}

// Signer carries the seeds (including the bump) that re-derive a program
// address.
type Signer struct {
	ProgramID ed25519.PublicKey
	Seeds     [][]byte
}

// Address re-derives the address proven by s.
func (s Signer) Address() (ed25519.PublicKey, error) {
	return CreateProgramAddress(s.Seeds, s.ProgramID)
}

// Verify reports whether s proves [addr].
func (s Signer) Verify(addr ed25519.PublicKey) bool {
	derived, err := s.Address()
	return err == nil && derived == addr
}

// SignedBy reports whether any of [signers] proves [addr].
func SignedBy(addr ed25519.PublicKey, signers []Signer) bool {
	for _, s := range signers {
		if s.Verify(addr) {
			return true
		}
	}
	return false
}
