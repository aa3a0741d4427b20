// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/niftyvm/consts"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/keys"
	"github.com/ava-labs/niftyvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func accountKey(prefix byte, addr ed25519.PublicKey, chunks uint16) []byte {
	k := make([]byte, 0, consts.ByteLen+ed25519.PublicKeyLen)
	k = append(k, prefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, chunks)
}

// [balancePrefix] + [address]
func BalanceKey(addr ed25519.PublicKey) []byte {
	return accountKey(balancePrefix, addr, BalanceChunks)
}

// [ownerPrefix] + [address]
func OwnerKey(addr ed25519.PublicKey) []byte {
	return accountKey(ownerPrefix, addr, OwnerChunks)
}

// [dataPrefix] + [address]
func DataKey(addr ed25519.PublicKey) []byte {
	return accountKey(dataPrefix, addr, DataChunks)
}

// AccountKeys adds every key of [addr] to [scope] with [perm].
func AccountKeys(scope state.Keys, addr ed25519.PublicKey, perm state.Permissions) {
	scope.Add(string(BalanceKey(addr)), perm)
	scope.Add(string(OwnerKey(addr)), perm)
	scope.Add(string(DataKey(addr)), perm)
}

// GetBalance returns the lamports held by [addr]. A missing account holds
// nothing.
func GetBalance(ctx context.Context, im state.Immutable, addr ed25519.PublicKey) (uint64, error) {
	_, bal, err := getBalance(ctx, im, addr)
	return bal, err
}

func getBalance(ctx context.Context, im state.Immutable, addr ed25519.PublicKey) ([]byte, uint64, error) {
	k := BalanceKey(addr)
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return k, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	bal, err := database.ParseUInt64(v)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	return k, bal, nil
}

func SetBalance(ctx context.Context, mu state.Mutable, addr ed25519.PublicKey, balance uint64) error {
	return setBalance(ctx, mu, BalanceKey(addr), balance)
}

func setBalance(ctx context.Context, mu state.Mutable, key []byte, balance uint64) error {
	if balance == 0 {
		// An empty balance is not stored.
		return mu.Remove(ctx, key)
	}
	return mu.Insert(ctx, key, binary.BigEndian.AppendUint64(nil, balance))
}

func AddBalance(ctx context.Context, mu state.Mutable, addr ed25519.PublicKey, amount uint64) (uint64, error) {
	key, bal, err := getBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, setBalance(ctx, mu, key, nbal)
}

func SubBalance(ctx context.Context, mu state.Mutable, addr ed25519.PublicKey, amount uint64) (uint64, error) {
	key, bal, err := getBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInsufficientFunds,
			bal,
			addr,
			amount,
		)
	}
	return nbal, setBalance(ctx, mu, key, nbal)
}

// Transfer moves [amount] lamports from [from] to [to]. Both new balances
// are computed before anything is written, so a failed transfer leaves
// both accounts untouched.
func Transfer(ctx context.Context, mu state.Mutable, from, to ed25519.PublicKey, amount uint64) error {
	fromKey, fromBal, err := getBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	nfrom, err := smath.Sub(fromBal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: cannot move %d from %s (bal=%d)",
			ErrInsufficientFunds,
			amount,
			from,
			fromBal,
		)
	}
	if from == to {
		return nil
	}
	toKey, toBal, err := getBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	nto, err := smath.Add(toBal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: cannot credit %d to %s (bal=%d)",
			ErrInvalidBalance,
			amount,
			to,
			toBal,
		)
	}
	if err := setBalance(ctx, mu, fromKey, nfrom); err != nil {
		return err
	}
	return setBalance(ctx, mu, toKey, nto)
}

// GetOwner returns the program that owns [addr] and whether the account
// has been created.
func GetOwner(ctx context.Context, im state.Immutable, addr ed25519.PublicKey) (ed25519.PublicKey, bool, error) {
	v, err := im.GetValue(ctx, OwnerKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPublicKey, false, nil
	}
	if err != nil {
		return ed25519.EmptyPublicKey, false, err
	}
	if len(v) != ed25519.PublicKeyLen {
		return ed25519.EmptyPublicKey, false, fmt.Errorf("%w: length %d", ErrInvalidOwner, len(v))
	}
	return ed25519.PublicKey(v), true, nil
}

func SetOwner(ctx context.Context, mu state.Mutable, addr ed25519.PublicKey, owner ed25519.PublicKey) error {
	return mu.Insert(ctx, OwnerKey(addr), owner[:])
}

// GetData returns the record stored in [addr], if any.
func GetData(ctx context.Context, im state.Immutable, addr ed25519.PublicKey) ([]byte, bool, error) {
	v, err := im.GetValue(ctx, DataKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func SetData(ctx context.Context, mu state.Mutable, addr ed25519.PublicKey, data []byte) error {
	if len(data) > MaxDataSize {
		return fmt.Errorf("%w: %d > %d", ErrDataTooLarge, len(data), MaxDataSize)
	}
	return mu.Insert(ctx, DataKey(addr), data)
}
