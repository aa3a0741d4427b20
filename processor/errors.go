// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"errors"
	"fmt"

	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/storage"
)

var (
	ErrInvalidInstruction  = errors.New("invalid instruction")
	ErrUnauthorizedAccount = errors.New("unauthorized account")
	ErrMissingSignature    = errors.New("missing required signature")
	ErrAccountNotWritable  = errors.New("account not writable")
	ErrIncorrectProgramID  = errors.New("incorrect program id")
	ErrDelegatedCallFailed = errors.New("delegated call failed")

	ErrIssuanceLimitExceeded = counter.ErrIssuanceLimitExceeded
	ErrDeserialization       = counter.ErrDeserialization
	ErrInsufficientFunds     = storage.ErrInsufficientFunds
)

// CallKind names a delegated call.
type CallKind string

const (
	InitializeMint    CallKind = "InitializeMint"
	InitializeAccount CallKind = "InitializeAccount"
	MintTo            CallKind = "MintTo"
	CreateMetadata    CallKind = "CreateMetadata"
)

// DelegatedCallError carries the unmodified error of a delegated call.
// It matches both [ErrDelegatedCallFailed] and the callee's error.
type DelegatedCallError struct {
	Kind CallKind
	Err  error
}

func (e *DelegatedCallError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDelegatedCallFailed, e.Kind, e.Err)
}

func (e *DelegatedCallError) Unwrap() []error {
	return []error{ErrDelegatedCallFailed, e.Err}
}

func delegated(kind CallKind, err error) error {
	if err == nil {
		return nil
	}
	return &DelegatedCallError{Kind: kind, Err: err}
}
