// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidBalance    = errors.New("invalid balance")
	ErrInvalidOwner      = errors.New("invalid owner")
	ErrDataTooLarge      = errors.New("account data too large")
)
