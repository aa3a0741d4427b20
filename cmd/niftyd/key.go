// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/niftyvm/crypto/ed25519"
)

var _ Cmd = (*keyCmd)(nil)

type keyCmd struct {
	cmd *argparse.Command
}

func (c *keyCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key", "Generates an ed25519 key pair")
}

func (*keyCmd) Run(context.Context) error {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return err
	}
	fmt.Printf("address: %s\nprivate key: %s\n", priv.PublicKey(), priv)
	return nil
}

func (c *keyCmd) Happened() bool {
	return c.cmd.Happened()
}
