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

// Owner - ownership query RPCs
type Owner struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange
}

const (
	maximumPageSize = 100
	rateLimitOwner  = 200
	rateBurstOwner  = 100
)

// NewOwner - create the owner query handler
func NewOwner(log *logger.L, ex *exchange.Exchange) *Owner {
	return &Owner{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitOwner, rateBurstOwner),
		Exchange: ex,
	}
}

// TokensArguments - owner enumeration page request
type TokensArguments struct {
	Owner string `json:"owner"`        // base58
	Start uint64 `json:"start,string"` // first slot, zero based
	Count int    `json:"count"`        // page size
}

// TokensReply - one page of an owner's token classes
type TokensReply struct {
	Tokens []uint64 `json:"tokens"`
	Next   uint64   `json:"next,string"` // start value for the next call
}

// Tokens - page through the token classes an owner holds
func (o *Owner) Tokens(arguments *TokensArguments, reply *TokensReply) error {
	if err := rateLimitN(o.Limiter, arguments.Count, maximumPageSize); nil != err {
		return err
	}

	owner, err := account.AddressFromBase58(arguments.Owner)
	if nil != err {
		return err
	}

	tokens, err := o.Exchange.TokensOf(owner, arguments.Start, uint64(arguments.Count))
	if nil != err {
		return err
	}

	reply.Tokens = tokens
	reply.Next = arguments.Start + uint64(len(tokens))
	return nil
}

// BalanceArguments - single balance request
type BalanceArguments struct {
	Owner   string `json:"owner"` // base58
	TokenId uint64 `json:"token_id"`
}

// BalanceReply - balance of one owner and class
type BalanceReply struct {
	Balance   uint64 `json:"balance"`
	Locked    uint64 `json:"locked"`
	Available uint64 `json:"available"`
	Classes   uint64 `json:"classes"` // distinct classes held
}

// Balance - balance of one owner and token class
func (o *Owner) Balance(arguments *BalanceArguments, reply *BalanceReply) error {
	if err := rateLimit(o.Limiter); nil != err {
		return err
	}

	owner, err := account.AddressFromBase58(arguments.Owner)
	if nil != err {
		return err
	}

	reply.Balance = o.Exchange.BalanceOf(owner, arguments.TokenId)
	reply.Locked = o.Exchange.LockedOf(owner, arguments.TokenId)
	reply.Available = reply.Balance - reply.Locked
	reply.Classes = o.Exchange.TokenClassCount(owner)
	return nil
}
