// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/niftyvm/pebble"
)

const dirPerms = 0o750

// New opens the pebble database kept under [dataDir]/[namespace] and
// registers its metrics with [gatherer].
func New(cfg pebble.Config, dataDir string, namespace string, gatherer metrics.MultiGatherer) (*pebble.Database, error) {
	path := filepath.Join(dataDir, namespace)
	if err := os.MkdirAll(path, dirPerms); err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(namespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
