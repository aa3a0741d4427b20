// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "errors"

var (
	ErrDeserialization       = errors.New("counter record is not parsable")
	ErrIssuanceLimitExceeded = errors.New("issuance limit exceeded")
)
