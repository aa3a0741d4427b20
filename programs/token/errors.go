// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrAlreadyInUse         = errors.New("account already in use")
	ErrUninitializedMint    = errors.New("mint is not initialized")
	ErrUninitializedAccount = errors.New("token account is not initialized")
	ErrInvalidAccountOwner  = errors.New("account is not owned by the token program")
	ErrMintMismatch         = errors.New("account does not hold this mint")
	ErrFixedSupply          = errors.New("mint has no mint authority")
	ErrOwnerMismatch        = errors.New("mint authority mismatch")
	ErrMissingSignature     = errors.New("mint authority did not sign")
	ErrOverflow             = errors.New("amount overflow")
	ErrInvalidRecord        = errors.New("invalid token record")
)
