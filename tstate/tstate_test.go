// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/niftyvm/keys"
	"github.com/ava-labs/niftyvm/state"
)

var (
	testKey = []byte("key")
	testVal = []byte("value")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key1str = string(key1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
	key3    = keys.EncodeChunks([]byte("key3"), 3)
	key3str = string(key3)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	// No Scope
	tsv := ts.NewView(state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.Read}, map[string][]byte{key1str: testVal})
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestGetValueNotFound(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.Read}, map[string][]byte{})
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key2str: state.All}, map[string][]byte{})
	require.NoError(tsv.Insert(ctx, key2, testVal))
	val, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex())
	require.Equal(testVal, val)

	tsv.Commit()
	require.Equal(1, ts.OpIndex())
	require.Equal(1, ts.PendingChanges())

	// A fresh view sees committed changes over its storage.
	tsv = ts.NewView(state.Keys{key2str: state.Read}, map[string][]byte{})
	val, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	key := keys.EncodeChunks([]byte("hello"), 0)
	tsv := ts.NewView(state.Keys{string(key): state.All}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)
	require.Zero(tsv.OpIndex())
}

func TestInsertUpdate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key2str: state.Read | state.Write}, map[string][]byte{key2str: testVal})
	newVal := []byte("newVal")
	require.NoError(tsv.Insert(ctx, key2, newVal))
	val, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(newVal, val)
	require.Equal(1, tsv.OpIndex())
}

func TestRemoveInsertRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)
	tsv := ts.NewView(state.Keys{key2str: state.All}, map[string][]byte{})

	// Insert
	require.NoError(tsv.Insert(ctx, key2, testVal))
	v, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, v)
	require.Equal(1, tsv.OpIndex())

	// Remove
	require.NoError(tsv.Remove(ctx, key2))
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
	require.Equal(2, tsv.OpIndex())

	// Insert
	require.NoError(tsv.Insert(ctx, key2, testVal))
	v, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, v)
	require.Equal(3, tsv.OpIndex())
	require.Equal(1, tsv.PendingChanges())

	// Rollback
	tsv.Rollback(ctx, 2)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	// Rollback
	tsv.Rollback(ctx, 1)
	v, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, v)

	// Rollback to the start
	tsv.Rollback(ctx, 0)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.PendingChanges())
}

func TestRollbackRestoresStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)
	tsv := ts.NewView(
		state.Keys{key1str: state.Write, key3str: state.All},
		map[string][]byte{key1str: testVal},
	)

	require.NoError(tsv.Insert(ctx, key1, []byte("a")))
	require.NoError(tsv.Insert(ctx, key3, []byte("b")))
	require.NoError(tsv.Remove(ctx, key1))
	require.Equal(3, tsv.OpIndex())

	tsv.Rollback(ctx, 0)
	v, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, v)
	_, err = tsv.GetValue(ctx, key3)
	require.ErrorIs(err, database.ErrNotFound)

	// Nothing reaches the parent after a full rollback.
	tsv.Commit()
	require.Zero(ts.PendingChanges())
	require.Zero(ts.OpIndex())
}

func TestRemoveMissing(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.Write}, map[string][]byte{})
	require.NoError(tsv.Remove(ctx, key1))
	require.Zero(tsv.OpIndex())
}

func TestGetValuePermissions(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		permission  state.Permissions
		expectedErr error
	}{
		{
			name:        "key has read permissions",
			key:         key1str,
			permission:  state.Read,
			expectedErr: nil,
		},
		{
			name:        "key has write permissions",
			key:         key1str,
			permission:  state.Write,
			expectedErr: nil,
		},
		{
			name:        "key has allocate permissions",
			key:         key1str,
			permission:  state.Allocate,
			expectedErr: nil,
		},
		{
			name:        "key has no permissions",
			key:         key1str,
			permission:  state.None,
			expectedErr: ErrInvalidKeyOrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			ts := New(10)
			tsv := ts.NewView(
				state.Keys{tt.key: tt.permission},
				map[string][]byte{tt.key: testVal},
			)
			_, err := tsv.GetValue(ctx, []byte(tt.key))
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

func TestInsertPermissions(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		permission  state.Permissions
		exists      bool
		expectedErr error
	}{
		{
			name:        "key exists and has write permissions",
			key:         key1str,
			permission:  state.Write,
			exists:      true,
			expectedErr: nil,
		},
		{
			name:        "key exists and has read permissions",
			key:         key1str,
			permission:  state.Read,
			exists:      true,
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "key exists and has allocate permissions",
			key:         key1str,
			permission:  state.Allocate,
			exists:      true,
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "key is new and has write permissions",
			key:         key1str,
			permission:  state.Write,
			exists:      false,
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "key is new and has allocate permissions",
			key:         key1str,
			permission:  state.Allocate,
			exists:      false,
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "key is new and has allocate and write permissions",
			key:         key1str,
			permission:  state.Allocate | state.Write,
			exists:      false,
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			ts := New(10)
			storage := map[string][]byte{}
			if tt.exists {
				storage[tt.key] = testVal
			}
			tsv := ts.NewView(state.Keys{tt.key: tt.permission}, storage)
			err := tsv.Insert(ctx, []byte(tt.key), []byte("val"))
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

func TestDeletePermissions(t *testing.T) {
	tests := []struct {
		name        string
		permission  state.Permissions
		expectedErr error
	}{
		{
			name:        "key has write permissions",
			permission:  state.Write,
			expectedErr: nil,
		},
		{
			name:        "key has read permissions",
			permission:  state.Read,
			expectedErr: ErrInvalidKeyOrPermission,
		},
		{
			name:        "key has allocate permissions",
			permission:  state.Allocate,
			expectedErr: ErrInvalidKeyOrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			ts := New(10)
			tsv := ts.NewView(
				state.Keys{key1str: tt.permission},
				map[string][]byte{key1str: testVal},
			)
			require.ErrorIs(tsv.Remove(ctx, key1), tt.expectedErr)
		})
	}
}

func TestWriteChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(key1, testVal))

	ts := New(10)
	tsv := ts.NewView(
		state.Keys{key1str: state.Write, key2str: state.All, key3str: state.All},
		map[string][]byte{key1str: testVal},
	)
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, []byte("two")))
	require.NoError(tsv.Insert(ctx, key3, []byte("three")))
	tsv.Commit()

	batch := db.NewBatch()
	require.NoError(ts.WriteChanges(ctx, batch))

	// Nothing lands before the batch is written.
	has, err := db.Has(key2)
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())
	has, err = db.Has(key1)
	require.NoError(err)
	require.False(has)
	v, err := db.Get(key2)
	require.NoError(err)
	require.Equal([]byte("two"), v)
	v, err = db.Get(key3)
	require.NoError(err)
	require.Equal([]byte("three"), v)
}
