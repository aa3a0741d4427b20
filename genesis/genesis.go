// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/niftyvm/config"
	"github.com/ava-labs/niftyvm/counter"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/state"
	"github.com/ava-labs/niftyvm/storage"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

type Allocation struct {
	Address ed25519.PublicKey `json:"address"`
	Balance uint64            `json:"balance"`
}

// Genesis is the initial state of a deployment.
type Genesis struct {
	Allocations []*Allocation `json:"allocations"`
	// Counter seeds the issuance counter. When nil the counter starts
	// uninitialized and the first mint issues serial 1.
	Counter *counter.State `json:"counter,omitempty"`
}

func New(allocations []*Allocation) *Genesis {
	return &Genesis{Allocations: allocations}
}

func Load(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Keys returns every key [InitializeState] may write.
func (g *Genesis) Keys(policy *config.Policy) state.Keys {
	keys := state.Keys{}
	for _, alloc := range g.Allocations {
		storage.AccountKeys(keys, alloc.Address, state.All)
	}
	storage.AccountKeys(keys, policy.CounterAccount, state.All)
	return keys
}

// InitializeState credits every allocation and assigns the counter
// account to the program.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable, policy *config.Policy) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	supply := uint64(0)
	for _, alloc := range g.Allocations {
		var err error
		supply, err = safemath.Add(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if _, err := storage.AddBalance(ctx, mu, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	if err := storage.SetOwner(ctx, mu, policy.CounterAccount, policy.ProgramID); err != nil {
		return err
	}
	if g.Counter == nil {
		return nil
	}
	return counter.NewStateStore(mu).Persist(ctx, policy.CounterAccount, g.Counter)
}
