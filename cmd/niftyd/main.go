// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// niftyd serves the minting program over JSON-RPC.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
)

// Cmd is a subcommand of niftyd.
type Cmd interface {
	New(parser *argparse.Parser)
	Run(ctx context.Context) error
	Happened() bool
}

func main() {
	parser := argparse.NewParser("niftyd", "Minting program daemon")
	cmds := []Cmd{
		&runCmd{},
		&keyCmd{},
		&deriveCmd{},
	}
	for _, c := range cmds {
		c.New(parser)
	}
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	for _, c := range cmds {
		if !c.Happened() {
			continue
		}
		if err := c.Run(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			cancel()
			os.Exit(1)
		}
		return
	}
}
