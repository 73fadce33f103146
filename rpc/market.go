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
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
)

// Market - listing and order book query RPCs
type Market struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Exchange *exchange.Exchange
}

const (
	rateLimitMarket = 200
	rateBurstMarket = 100
)

// NewMarket - create the market query handler
func NewMarket(log *logger.L, ex *exchange.Exchange) *Market {
	return &Market{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitMarket, rateBurstMarket),
		Exchange: ex,
	}
}

// ListingsArguments - listings page request; an empty owner selects
// the global list
type ListingsArguments struct {
	Owner string `json:"owner"` // base58, optional
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// ListingInfo - one occupied listing slot
type ListingInfo struct {
	TokenId   uint64          `json:"token_id"`
	Owner     account.Address `json:"owner"`
	Price     uint64          `json:"price"`
	Quantity  uint64          `json:"quantity"`
	OnAuction bool            `json:"on_auction"`
}

// ListingsReply - one page of listing slots
type ListingsReply struct {
	Total    uint64        `json:"total,string"`
	Listings []ListingInfo `json:"listings"`
	Next     uint64        `json:"next,string"`
}

// Listings - page the occupied listing slots, globally or for one
// owner
func (m *Market) Listings(arguments *ListingsArguments, reply *ListingsReply) error {
	if err := rateLimitN(m.Limiter, arguments.Count, maximumPageSize); nil != err {
		return err
	}

	var entries []market.ListingEntry
	var err error
	if "" == arguments.Owner {
		reply.Total = m.Exchange.TotalListed()
		entries, err = m.Exchange.Listings(arguments.Start, uint64(arguments.Count))
	} else {
		owner, aerr := account.AddressFromBase58(arguments.Owner)
		if nil != aerr {
			return aerr
		}
		reply.Total = m.Exchange.ListedCountByOwner(owner)
		entries, err = m.Exchange.ListingsByOwner(owner, arguments.Start, uint64(arguments.Count))
	}
	if nil != err {
		return err
	}

	listings := make([]ListingInfo, len(entries))
	for i, e := range entries {
		listings[i] = ListingInfo{
			TokenId:   e.TokenId,
			Owner:     e.Listing.Owner,
			Price:     e.Listing.Price,
			Quantity:  e.Listing.Quantity,
			OnAuction: market.OnAuctionPrice == e.Listing.Price,
		}
	}
	reply.Listings = listings
	reply.Next = arguments.Start + uint64(len(listings))
	return nil
}

// OrdersArguments - order book page request; book selects sell or
// buy, exactly one of token id or owner scopes the page
type OrdersArguments struct {
	Book    string `json:"book"`  // "sell" | "buy"
	Owner   string `json:"owner"` // base58, optional
	TokenId uint64 `json:"token_id"`
	ByOwner bool   `json:"by_owner"`
	Start   uint64 `json:"start,string"`
	Count   int    `json:"count"`
}

// OrderInfo - one live order
type OrderInfo struct {
	TokenId  uint64          `json:"token_id"`
	Owner    account.Address `json:"owner"`
	Price    uint64          `json:"price"`
	Quantity uint64          `json:"quantity"`
}

// OrdersReply - one page of an order book
type OrdersReply struct {
	Orders []OrderInfo `json:"orders"`
	Next   uint64      `json:"next,string"`
}

// Orders - page one side of an order book
func (m *Market) Orders(arguments *OrdersArguments, reply *OrdersReply) error {
	if err := rateLimitN(m.Limiter, arguments.Count, maximumPageSize); nil != err {
		return err
	}

	var orders []market.Order
	var err error

	switch {
	case "sell" == arguments.Book && arguments.ByOwner:
		owner, aerr := account.AddressFromBase58(arguments.Owner)
		if nil != aerr {
			return aerr
		}
		orders, err = m.Exchange.SellOrdersByOwner(owner, arguments.Start, uint64(arguments.Count))
	case "sell" == arguments.Book:
		orders, err = m.Exchange.SellOrders(arguments.TokenId, arguments.Start, uint64(arguments.Count))
	case "buy" == arguments.Book && arguments.ByOwner:
		owner, aerr := account.AddressFromBase58(arguments.Owner)
		if nil != aerr {
			return aerr
		}
		orders, err = m.Exchange.BuyOrdersByOwner(owner, arguments.Start, uint64(arguments.Count))
	case "buy" == arguments.Book:
		orders, err = m.Exchange.BuyOrders(arguments.TokenId, arguments.Start, uint64(arguments.Count))
	default:
		return fault.ErrMissingParameters
	}
	if nil != err {
		return err
	}

	page := make([]OrderInfo, len(orders))
	for i, order := range orders {
		page[i] = OrderInfo{
			TokenId:  order.TokenId,
			Owner:    order.Owner,
			Price:    order.Price,
			Quantity: order.Quantity,
		}
	}
	reply.Orders = page
	reply.Next = arguments.Start + uint64(len(page))
	return nil
}
