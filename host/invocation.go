// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/niftyvm/consts"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

const maxDigestSize = 64 * 1024

type Signature struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`
}

// Invocation is a signed request to run an instruction of a program.
type Invocation struct {
	ProgramID  ed25519.PublicKey       `json:"programID"`
	Accounts   []processor.AccountMeta `json:"accounts"`
	Data       []byte                  `json:"data"`
	Signatures []*Signature            `json:"signatures"`
}

// Digest is the message every signature of [inv] covers.
func (inv *Invocation) Digest() ([]byte, error) {
	p := &wrappers.Packer{
		MaxSize: maxDigestSize,
		Bytes:   make([]byte, 0, ed25519.PublicKeyLen+consts.Uint32Len+len(inv.Accounts)*(ed25519.PublicKeyLen+2)+len(inv.Data)),
	}
	p.PackFixedBytes(inv.ProgramID[:])
	p.PackInt(uint32(len(inv.Accounts)))
	for _, acct := range inv.Accounts {
		p.PackFixedBytes(acct.Address[:])
		p.PackBool(acct.IsSigner)
		p.PackBool(acct.IsWritable)
	}
	p.PackBytes(inv.Data)
	if p.Errored() {
		return nil, p.Err
	}
	return hashing.ComputeHash256(p.Bytes), nil
}

// Sign adds a signature by [priv] over the digest of [inv].
func (inv *Invocation) Sign(priv ed25519.PrivateKey) error {
	digest, err := inv.Digest()
	if err != nil {
		return err
	}
	inv.Signatures = append(inv.Signatures, &Signature{
		Signer:    priv.PublicKey(),
		Signature: ed25519.Sign(digest, priv),
	})
	return nil
}

// verify checks every signature of [inv] and returns the account list with
// IsSigner set only for accounts that produced a valid signature.
func (inv *Invocation) verify() ([]processor.AccountMeta, error) {
	digest, err := inv.Digest()
	if err != nil {
		return nil, err
	}

	signed := make(map[ed25519.PublicKey]struct{}, len(inv.Signatures))
	if len(inv.Signatures) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(inv.Signatures))
		for _, sig := range inv.Signatures {
			batch.Add(digest, sig.Signer, sig.Signature)
		}
		if !batch.Verify() {
			return nil, ErrInvalidSignature
		}
		for _, sig := range inv.Signatures {
			signed[sig.Signer] = struct{}{}
		}
	} else {
		for _, sig := range inv.Signatures {
			if !ed25519.Verify(digest, sig.Signer, sig.Signature) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, sig.Signer)
			}
			signed[sig.Signer] = struct{}{}
		}
	}

	accounts := make([]processor.AccountMeta, len(inv.Accounts))
	listed := make(map[ed25519.PublicKey]struct{}, len(inv.Accounts))
	for i, acct := range inv.Accounts {
		_, ok := signed[acct.Address]
		if acct.IsSigner && !ok {
			return nil, fmt.Errorf("%w: %s", processor.ErrMissingSignature, acct.Address)
		}
		accounts[i] = processor.AccountMeta{
			Address:    acct.Address,
			IsSigner:   ok,
			IsWritable: acct.IsWritable,
		}
		listed[acct.Address] = struct{}{}
	}
	for signer := range signed {
		if _, ok := listed[signer]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedSignature, signer)
		}
	}
	return accounts, nil
}

// scope returns the keys an invocation over [accounts] may touch. Writable
// accounts get every permission, the rest are read only.
func scope(accounts []processor.AccountMeta) state.Keys {
	keys := make(state.Keys, len(accounts)*3)
	for _, acct := range accounts {
		perm := state.Read
		if acct.IsWritable {
			perm = state.All
		}
		storage.AccountKeys(keys, acct.Address, perm)
	}
	return keys
}
