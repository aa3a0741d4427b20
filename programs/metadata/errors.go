// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import "errors"

var (
	ErrNameTooLong            = errors.New("name too long")
	ErrSymbolTooLong          = errors.New("symbol too long")
	ErrURITooLong             = errors.New("uri too long")
	ErrInvalidBasisPoints     = errors.New("seller fee basis points above 10000")
	ErrTooManyCreators        = errors.New("too many creators")
	ErrDuplicateCreator       = errors.New("duplicate creator")
	ErrInvalidShares          = errors.New("creator shares must add up to 100")
	ErrInvalidMetadataAccount = errors.New("metadata account is not derived from the mint")
	ErrUninitializedMint      = errors.New("mint is not initialized")
	ErrMintAuthorityMismatch  = errors.New("mint authority mismatch")
	ErrMissingSignature       = errors.New("mint authority did not sign")
	ErrAlreadyInitialized     = errors.New("metadata already exists")
	ErrInvalidRecord          = errors.New("invalid metadata record")
)
