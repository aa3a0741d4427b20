// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import "errors"

var (
	ErrClosed              = errors.New("host closed")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrUnexpectedSignature = errors.New("signature from an account not in the invocation")
	ErrBatchTooLarge       = errors.New("batch too large")
	ErrEmptyBatch          = errors.New("empty batch")
)
