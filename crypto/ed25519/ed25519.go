// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"bytes"
	"crypto/ed25519"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hdevalence/ed25519consensus"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

// We use the ZIP-215 specification for ed25519 signature
// verification (https://zips.z.cash/zip-0215) because it provides
// an explicit validity criteria for signatures, supports batch
// verification, and is broadly compatible with signatures produced
// by almost all ed25519 implementations (which don't require
// canonically-encoded points).
const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// PrivateKeySeedLen is defined because ed25519.PrivateKey
	// is formatted as privateKey = seed|publicKey. We use this const
	// to extract the publicKey below.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize

	MinBatchSize = 4
)

var (
	EmptyPublicKey  = PublicKey{}
	EmptyPrivateKey = PrivateKey{}
	EmptySignature  = Signature{}
)

// GeneratePrivateKey returns a Ed25519 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PublicKey returns a PublicKey associated with the Ed25519 PrivateKey p.
// The PublicKey is the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

// Sign returns a valid signature for msg using pk.
func Sign(msg []byte, pk PrivateKey) Signature {
	sig := ed25519.Sign(pk[:], msg)
	return Signature(sig)
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}

type Batch struct {
	bv ed25519consensus.BatchVerifier
}

func NewBatch(size int) *Batch {
	return &Batch{bv: ed25519consensus.NewPreallocatedBatchVerifier(size)}
}

func (b *Batch) Add(msg []byte, p PublicKey, s Signature) {
	b.bv.Add(p[:], msg, s[:])
}

func (b *Batch) Verify() bool {
	return b.bv.Verify()
}

// IsOnCurve reports whether p decodes to a point on the ed25519 curve.
//
// Program derived addresses are required to be off the curve so that no
// private key can ever sign for them.
func (p PublicKey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// Compare orders keys bytewise. It is used to lock accounts in a
// deterministic order.
func (p PublicKey) Compare(o PublicKey) int {
	return bytes.Compare(p[:], o[:])
}

// String returns the base58 encoding of p.
func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

// MarshalText encodes p as base58.
func (p PublicKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a base58 encoded public key.
func (p *PublicKey) UnmarshalText(text []byte) error {
	pk, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// ParseAddress parses a base58 encoded address into a PublicKey.
func ParseAddress(s string) (PublicKey, error) {
	if len(s) == 0 {
		return EmptyPublicKey, ErrInvalidAddress
	}
	b := base58.Decode(s)
	if len(b) != PublicKeyLen {
		return EmptyPublicKey, ErrInvalidAddress
	}
	return PublicKey(b), nil
}

// MustParseAddress is ParseAddress for well known constants.
func MustParseAddress(s string) PublicKey {
	pk, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// MarshalText encodes s as base58.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(base58.Encode(s[:])), nil
}

// UnmarshalText parses a base58 encoded signature.
func (s *Signature) UnmarshalText(text []byte) error {
	b := base58.Decode(string(text))
	if len(b) != SignatureLen {
		return ErrInvalidSignature
	}
	*s = Signature(b)
	return nil
}

// String returns the base58 encoding of p.
func (p PrivateKey) String() string {
	return base58.Encode(p[:])
}

// ParsePrivateKey parses a base58 encoded private key.
func ParsePrivateKey(s string) (PrivateKey, error) {
	b := base58.Decode(s)
	if len(b) != PrivateKeyLen {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	return PrivateKey(b), nil
}
