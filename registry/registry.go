// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry holds the fixed identities a mint is checked against.
package registry

import "github.com/ava-labs/niftyvm/crypto/ed25519"

type Registry struct {
	counter        ed25519.PublicKey
	feeDestination ed25519.PublicKey
}

func New(counter, feeDestination ed25519.PublicKey) *Registry {
	return &Registry{
		counter:        counter,
		feeDestination: feeDestination,
	}
}

// Counter is the only account allowed to hold the issuance counter.
func (r *Registry) Counter() ed25519.PublicKey {
	return r.counter
}

// FeeDestination is the only account allowed to receive the mint fee.
func (r *Registry) FeeDestination() ed25519.PublicKey {
	return r.feeDestination
}

func (r *Registry) IsCounter(addr ed25519.PublicKey) bool {
	return Matches(addr, r.counter)
}

func (r *Registry) IsFeeDestination(addr ed25519.PublicKey) bool {
	return Matches(addr, r.feeDestination)
}

// Matches reports whether [provided] is exactly [expected].
func Matches(provided, expected ed25519.PublicKey) bool {
	return provided == expected
}
