// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import "fmt"

type Instruction uint8

// MintNFT is the only instruction the program accepts.
const MintNFT Instruction = 1

func (i Instruction) String() string {
	switch i {
	case MintNFT:
		return "MintNFT"
	default:
		return fmt.Sprintf("Instruction(%d)", uint8(i))
	}
}

// UnpackInstruction reads the tag in the first byte of [data]. Any bytes
// after the tag are ignored.
func UnpackInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidInstruction)
	}
	switch i := Instruction(data[0]); i {
	case MintNFT:
		return i, nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrInvalidInstruction, data[0])
	}
}
