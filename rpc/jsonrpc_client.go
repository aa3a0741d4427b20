// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/niftyvm/crypto/ed25519"
	"github.com/ava-labs/niftyvm/host"
	"github.com/ava-labs/niftyvm/processor"
	"github.com/ava-labs/niftyvm/programs"

	arpc "github.com/ava-labs/avalanchego/utils/rpc"
)

type JSONRPCClient struct {
	requester arpc.EndpointRequester

	policy *PolicyReply
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: arpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, params interface{}, reply interface{}) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, params, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

// Policy is cached after the first successful call.
func (cli *JSONRPCClient) Policy(ctx context.Context) (*PolicyReply, error) {
	if cli.policy != nil {
		return cli.policy, nil
	}
	resp := new(PolicyReply)
	if err := cli.send(ctx, "policy", nil, resp); err != nil {
		return nil, err
	}
	cli.policy = resp
	return resp, nil
}

func (cli *JSONRPCClient) Counter(ctx context.Context) (*CounterReply, error) {
	resp := new(CounterReply)
	err := cli.send(ctx, "counter", nil, resp)
	return resp, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr ed25519.PublicKey) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &AddressArgs{Address: addr}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Mint(ctx context.Context, addr ed25519.PublicKey) (*MintReply, error) {
	resp := new(MintReply)
	err := cli.send(ctx, "mint", &AddressArgs{Address: addr}, resp)
	return resp, err
}

func (cli *JSONRPCClient) TokenAccount(ctx context.Context, addr ed25519.PublicKey) (*TokenAccountReply, error) {
	resp := new(TokenAccountReply)
	err := cli.send(ctx, "tokenAccount", &AddressArgs{Address: addr}, resp)
	return resp, err
}

// Metadata returns the metadata record attached to [mint].
func (cli *JSONRPCClient) Metadata(ctx context.Context, mint ed25519.PublicKey) (*MetadataReply, error) {
	resp := new(MetadataReply)
	err := cli.send(ctx, "metadata", &MetadataArgs{Mint: mint}, resp)
	return resp, err
}

func (cli *JSONRPCClient) Submit(ctx context.Context, inv *host.Invocation) (*processor.Receipt, error) {
	resp := new(SubmitReply)
	if err := cli.send(ctx, "submit", &SubmitArgs{Invocation: inv}, resp); err != nil {
		return nil, err
	}
	return resp.Receipt, nil
}

func (cli *JSONRPCClient) SubmitBatch(ctx context.Context, invs []*host.Invocation) ([]*BatchResult, error) {
	resp := new(SubmitBatchReply)
	if err := cli.send(ctx, "submitBatch", &SubmitBatchArgs{Invocations: invs}, resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// MintInvocation builds an unsigned mint of a new asset at [mint] held in
// [holding]. [payer] and [feeSource] must sign it before submission.
func (cli *JSONRPCClient) MintInvocation(
	ctx context.Context,
	payer ed25519.PublicKey,
	feeSource ed25519.PublicKey,
	mint ed25519.PublicKey,
	holding ed25519.PublicKey,
) (*host.Invocation, error) {
	p, err := cli.Policy(ctx)
	if err != nil {
		return nil, err
	}
	record, _, err := programs.FindMetadataAddress(p.MetadataProgram, mint)
	if err != nil {
		return nil, err
	}
	accounts := make([]processor.AccountMeta, processor.NumMintAccounts)
	accounts[processor.SignerIndex] = processor.AccountMeta{Address: payer, IsSigner: true, IsWritable: true}
	accounts[processor.AuthorityIndex] = processor.AccountMeta{Address: p.Authority}
	accounts[processor.FeeSourceIndex] = processor.AccountMeta{Address: feeSource, IsSigner: true, IsWritable: true}
	accounts[processor.FeeDestinationIndex] = processor.AccountMeta{Address: p.FeeDestination, IsWritable: true}
	accounts[processor.CounterIndex] = processor.AccountMeta{Address: p.CounterAccount, IsWritable: true}
	accounts[processor.TokenProgramIndex] = processor.AccountMeta{Address: p.TokenProgram}
	accounts[processor.RentSysvarIndex] = processor.AccountMeta{Address: p.RentSysvar}
	accounts[processor.MintIndex] = processor.AccountMeta{Address: mint, IsWritable: true}
	accounts[processor.HoldingIndex] = processor.AccountMeta{Address: holding, IsWritable: true}
	accounts[processor.MetadataIndex] = processor.AccountMeta{Address: record, IsWritable: true}
	accounts[processor.MetadataProgramIndex] = processor.AccountMeta{Address: p.MetadataProgram}
	accounts[processor.SystemProgramIndex] = processor.AccountMeta{Address: p.SystemProgram}
	return &host.Invocation{
		ProgramID: p.ProgramID,
		Accounts:  accounts,
		Data:      []byte{byte(processor.MintNFT)},
	}, nil
}
