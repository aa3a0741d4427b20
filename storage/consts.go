// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// State
// 0x0/ (balance)
//   -> [account] => lamports
// 0x1/ (owner)
//   -> [account] => owning program id
// 0x2/ (data)
//   -> [account] => program-defined record

const (
	balancePrefix byte = 0x0
	ownerPrefix   byte = 0x1
	dataPrefix    byte = 0x2
)

const (
	BalanceChunks uint16 = 1
	OwnerChunks   uint16 = 1

	// MaxDataSize is the largest record any program may store in an
	// account.
	MaxDataSize = 1_024
)

// DataChunks is the number of chunks reserved for an account record.
var DataChunks = uint16(MaxDataSize/64 + 1)
