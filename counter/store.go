// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"context"
	"sync"

	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"
)

// Store loads and persists the counter kept in an account.
type Store interface {
	Load(ctx context.Context, account ed25519.PublicKey) (*State, error)
	Persist(ctx context.Context, account ed25519.PublicKey, s *State) error
}

var (
	_ Store = (*StateStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// StateStore keeps the counter in the data record of its account.
type StateStore struct {
	mu state.Mutable
}

func NewStateStore(mu state.Mutable) *StateStore {
	return &StateStore{mu: mu}
}

func (s *StateStore) Load(ctx context.Context, account ed25519.PublicKey) (*State, error) {
	b, _, err := storage.GetData(ctx, s.mu, account)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

func (s *StateStore) Persist(ctx context.Context, account ed25519.PublicKey, st *State) error {
	b, err := st.Marshal()
	if err != nil {
		return err
	}
	return storage.SetData(ctx, s.mu, account, b)
}

// MemoryStore keeps encoded counters in memory.
type MemoryStore struct {
	l       sync.Mutex
	records map[ed25519.PublicKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[ed25519.PublicKey][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, account ed25519.PublicKey) (*State, error) {
	m.l.Lock()
	defer m.l.Unlock()

	return Unmarshal(m.records[account])
}

func (m *MemoryStore) Persist(_ context.Context, account ed25519.PublicKey, st *State) error {
	b, err := st.Marshal()
	if err != nil {
		return err
	}

	m.l.Lock()
	defer m.l.Unlock()

	m.records[account] = b
	return nil
}

// SetRaw stores [b] as the record of [account] without validation.
func (m *MemoryStore) SetRaw(account ed25519.PublicKey, b []byte) {
	m.l.Lock()
	defer m.l.Unlock()

	m.records[account] = b
}
