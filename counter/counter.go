// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/niftyvm/consts"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// StateLen is the size of an encoded [State].
const StateLen = consts.BoolLen + consts.Uint64Len

// FirstSerial is the serial handed out by a counter that has never been
// used.
const FirstSerial uint64 = 1

// State is the global issuance counter. Once Initialized is set it is never
// cleared, and NextSerial never decreases.
type State struct {
	Initialized bool   `json:"initialized"`
	NextSerial  uint64 `json:"nextSerial"`
}

// Marshal encodes [s] as a bool byte followed by a little endian uint64.
func (s *State) Marshal() ([]byte, error) {
	return borsh.Serialize(*s)
}

// Unmarshal decodes a counter record. An empty record is the zero value.
func Unmarshal(b []byte) (*State, error) {
	s := &State{}
	if len(b) == 0 {
		return s, nil
	}
	if len(b) != StateLen {
		return nil, fmt.Errorf("%w: length %d", ErrDeserialization, len(b))
	}
	if b[0] > 1 {
		return nil, fmt.Errorf("%w: bool byte %d", ErrDeserialization, b[0])
	}
	if err := borsh.Deserialize(s, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	return s, nil
}

// Reserve returns the serial the next mint receives and the state to
// persist once that mint has fully succeeded. [s] is not modified.
//
// An uninitialized counter behaves as if NextSerial were [FirstSerial].
// Serials up to and including [ceiling] may be issued.
func Reserve(s *State, ceiling uint64) (uint64, *State, error) {
	serial := s.NextSerial
	if !s.Initialized {
		serial = FirstSerial
	}
	if serial > ceiling {
		return 0, nil, fmt.Errorf("%w: next serial %d, ceiling %d", ErrIssuanceLimitExceeded, serial, ceiling)
	}
	next, err := smath.Add(serial, 1)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrIssuanceLimitExceeded, err)
	}
	return serial, &State{Initialized: true, NextSerial: next}, nil
}
