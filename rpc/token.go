// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/exchange"
)

// Token - token registry query RPCs
type Token struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange
}

const (
	rateLimitToken = 200
	rateBurstToken = 100
)

// NewToken - create the registry query handler
func NewToken(log *logger.L, ex *exchange.Exchange) *Token {
	return &Token{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitToken, rateBurstToken),
		Exchange: ex,
	}
}

// RegistryArguments - registry enumeration page request
type RegistryArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// TokenInfo - one registered class
type TokenInfo struct {
	TokenId uint64          `json:"token_id"`
	Supply  uint64          `json:"supply"`
	Minter  account.Address `json:"minter"`
	URI     string          `json:"uri"`
}

// RegistryReply - one page of the global token registry
type RegistryReply struct {
	Total  uint64      `json:"total,string"`
	Tokens []TokenInfo `json:"tokens"`
	Next   uint64      `json:"next,string"`
}

// Registry - page through all registered token classes
func (t *Token) Registry(arguments *RegistryArguments, reply *RegistryReply) error {
	if err := rateLimitN(t.Limiter, arguments.Count, maximumPageSize); nil != err {
		return err
	}

	ids, err := t.Exchange.Tokens(arguments.Start, uint64(arguments.Count))
	if nil != err {
		return err
	}

	tokens := make([]TokenInfo, len(ids))
	for i, tokenId := range ids {
		minter, err := t.Exchange.MinterOf(tokenId)
		if nil != err {
			return err
		}
		uri, err := t.Exchange.TokenURI(tokenId)
		if nil != err {
			return err
		}
		tokens[i] = TokenInfo{
			TokenId: tokenId,
			Supply:  t.Exchange.SupplyOf(tokenId),
			Minter:  minter,
			URI:     uri,
		}
	}

	reply.Total = t.Exchange.TotalClasses()
	reply.Tokens = tokens
	reply.Next = arguments.Start + uint64(len(tokens))
	return nil
}
