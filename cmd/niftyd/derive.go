// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/niftyvm/authority"
	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/programs"
)

var _ Cmd = (*deriveCmd)(nil)

type deriveCmd struct {
	cmd *argparse.Command

	program *string
	mint    *string
}

func (c *deriveCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("derive", "Prints the mint authority of a program and the metadata address of a mint")
	c.program = c.cmd.String("p", "program", &argparse.Options{
		Help:     "base58 program id",
		Required: true,
	})
	c.mint = c.cmd.String("m", "mint", &argparse.Options{
		Help: "base58 mint address",
	})
}

func (c *deriveCmd) Run(context.Context) error {
	programID, err := ed25519.ParseAddress(*c.program)
	if err != nil {
		return err
	}
	auth, err := authority.Derive(programID, authority.MintAuthorityLabel)
	if err != nil {
		return err
	}
	fmt.Printf("authority: %s (bump %d)\n", auth.Address, auth.Bump)

	if *c.mint == "" {
		return nil
	}
	mint, err := ed25519.ParseAddress(*c.mint)
	if err != nil {
		return err
	}
	record, bump, err := programs.FindMetadataAddress(programs.MetadataProgramID, mint)
	if err != nil {
		return err
	}
	fmt.Printf("metadata: %s (bump %d)\n", record, bump)
	return nil
}

func (c *deriveCmd) Happened() bool {
	return c.cmd.Happened()
}
