// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package programs

import (
	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
)

// MetadataPrefix is the first seed of every metadata record address.
const MetadataPrefix = "metadata"

// MetadataSeeds are the seeds, without bump, of the metadata record of
// [mint] under the metadata program [programID].
func MetadataSeeds(programID, mint ed25519.PublicKey) [][]byte {
	return [][]byte{[]byte(MetadataPrefix), programID[:], mint[:]}
}

// FindMetadataAddress returns the metadata record address of [mint] and
// its bump.
func FindMetadataAddress(programID, mint ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return authority.FindProgramAddress(MetadataSeeds(programID, mint), programID)
}
