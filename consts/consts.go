// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used for logging, metrics namespaces and the JSON-RPC service.
	Name = "nifty"

	BoolLen   = 1
	ByteLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)

	// MaxSeedLen and MaxSeeds bound the inputs of program address derivation.
	MaxSeedLen = 32
	MaxSeeds   = 16
)
