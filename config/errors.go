// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrInvalidConfigFormat = errors.New("config is neither json nor yaml")
	ErrMissingIdentity     = errors.New("missing identity")
	ErrIdentityConflict    = errors.New("identities must be distinct")
	ErrInvalidPolicy       = errors.New("invalid policy")
)
