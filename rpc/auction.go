// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/auction"
	"github.com/nebula-market/nebulad/exchange"
)

// Auction - auction query RPCs
type Auction struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange
}

const (
	rateLimitAuction = 200
	rateBurstAuction = 100
)

// NewAuction - create the auction query handler
func NewAuction(log *logger.L, ex *exchange.Exchange) *Auction {
	return &Auction{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitAuction, rateBurstAuction),
		Exchange: ex,
	}
}

// AuctionInfoArguments - select the auction by its token id
type AuctionInfoArguments struct {
	TokenId uint64 `json:"token_id"`
}

// AuctionInfoReply - current auction state with its status evaluated
// at the server clock
type AuctionInfoReply struct {
	TokenId       uint64          `json:"token_id"`
	Seller        account.Address `json:"seller"`
	StartingPrice uint64          `json:"starting_price,string"`
	CurrentBid    uint64          `json:"current_bid,string"`
	MinimumBid    uint64          `json:"minimum_bid,string"`
	HighestBidder account.Address `json:"highest_bidder"`
	StartTime     uint64          `json:"start_time,string"`
	EndTime       uint64          `json:"end_time,string"`
	Quantity      uint64          `json:"quantity"`
	Status        string          `json:"status"`
}

// Info - query one live auction
func (a *Auction) Info(arguments *AuctionInfoArguments, reply *AuctionInfoReply) error {
	if err := rateLimit(a.Limiter); nil != err {
		return err
	}

	info, err := a.Exchange.AuctionInfo(arguments.TokenId)
	if nil != err {
		return err
	}

	now := uint64(time.Now().UnixNano() / 1000)

	reply.TokenId = arguments.TokenId
	reply.Seller = info.Seller
	reply.StartingPrice = info.StartingPrice
	reply.CurrentBid = info.CurrentBid
	reply.MinimumBid = info.MinimumBid()
	reply.HighestBidder = info.HighestBidder
	reply.StartTime = info.StartTime
	reply.EndTime = info.EndTime
	reply.Quantity = info.Quantity
	reply.Status = statusName(info.Status(now))
	return nil
}

func statusName(status auction.Status) string {
	switch status {
	case auction.StatusActive:
		return "active"
	case auction.StatusUnclaimed:
		return "unclaimed"
	case auction.StatusUnsold:
		return "unsold"
	}
	return "unknown"
}
