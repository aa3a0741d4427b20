// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrMissingInvocation = errors.New("missing invocation")
	ErrAccountNotFound   = errors.New("account not found")
)
