// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package auction - English auctions layered on the market's listing
// slots
//
// all times are microseconds supplied by the caller; status is a
// pure function of the stored record and now, there is no timer
package auction

import (
	"encoding/binary"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
	"github.com/nebula-market/nebulad/ownership"
	"github.com/nebula-market/nebulad/pay"
	"github.com/nebula-market/nebulad/salerecord"
	"github.com/nebula-market/nebulad/storage"
)

// auction limits, times in microseconds
const (
	MaxDurationHours    uint64 = 336
	MinIncrementPercent uint64 = 5
	AntiSnipeWindow     uint64 = 60 * 1_000_000
	AntiSnipeExtension  uint64 = 120 * 1_000_000
	microsPerHour       uint64 = 3600 * 1_000_000
)

// Status - lazily evaluated lifecycle state
type Status int

// auction states
const (
	StatusActive Status = iota
	StatusUnclaimed
	StatusUnsold
)

// Auction - live auction record of one token id
type Auction struct {
	Seller        account.Address
	StartingPrice uint64
	CurrentBid    uint64
	HighestBidder account.Address
	StartTime     uint64
	EndTime       uint64
	Quantity      uint64
}

// Status - active until the end time passes, then unclaimed when a
// bid stands, unsold otherwise
func (a Auction) Status(now uint64) Status {
	if now < a.EndTime {
		return StatusActive
	}
	if a.CurrentBid > 0 {
		return StatusUnclaimed
	}
	return StatusUnsold
}

// MinimumBid - starting price before any bid, then five percent over
// the standing bid
func (a Auction) MinimumBid() uint64 {
	if 0 == a.CurrentBid {
		return a.StartingPrice
	}
	return a.CurrentBid + a.CurrentBid*MinIncrementPercent/100
}

const packedAuctionSize = 2*account.AddressLength + 5*8

func (a Auction) pack() []byte {
	buffer := make([]byte, packedAuctionSize)
	copy(buffer, a.Seller.Bytes())
	copy(buffer[account.AddressLength:], a.HighestBidder.Bytes())
	n := 2 * account.AddressLength
	binary.BigEndian.PutUint64(buffer[n:], a.StartingPrice)
	binary.BigEndian.PutUint64(buffer[n+8:], a.CurrentBid)
	binary.BigEndian.PutUint64(buffer[n+16:], a.StartTime)
	binary.BigEndian.PutUint64(buffer[n+24:], a.EndTime)
	binary.BigEndian.PutUint64(buffer[n+32:], a.Quantity)
	return buffer
}

func unpack(buffer []byte) (Auction, error) {
	if packedAuctionSize != len(buffer) {
		return Auction{}, fault.ErrNotOnAuction
	}
	a := Auction{}
	copy(a.Seller[:], buffer)
	copy(a.HighestBidder[:], buffer[account.AddressLength:])
	n := 2 * account.AddressLength
	a.StartingPrice = binary.BigEndian.Uint64(buffer[n:])
	a.CurrentBid = binary.BigEndian.Uint64(buffer[n+8:])
	a.StartTime = binary.BigEndian.Uint64(buffer[n+16:])
	a.EndTime = binary.BigEndian.Uint64(buffer[n+24:])
	a.Quantity = binary.BigEndian.Uint64(buffer[n+32:])
	return a, nil
}

// Engine - auction operations over the shared market structures
type Engine struct {
	market   *market.Market
	ledger   *ownership.Ledger
	sales    *salerecord.Ledger
	treasury pay.Treasury
	records  *storage.PoolHandle
}

// NewEngine - assemble the auction engine
func NewEngine(store *storage.Store, m *market.Market, ledger *ownership.Ledger, sales *salerecord.Ledger, treasury pay.Treasury) *Engine {
	return &Engine{
		market:   m,
		ledger:   ledger,
		sales:    sales,
		treasury: treasury,
		records:  store.Pool.Auctions,
	}
}

func tokenIdBytes(tokenId uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenId)
	return b
}

// Info - the live auction record of a token id
func (e *Engine) Info(trx storage.Transaction, tokenId uint64) (Auction, error) {
	var value []byte
	if nil != trx {
		value = trx.Get(e.records, tokenIdBytes(tokenId))
	} else {
		value = e.records.Get(tokenIdBytes(tokenId))
	}
	if nil == value {
		return Auction{}, fault.ErrNotOnAuction
	}
	return unpack(value)
}

// Create - open an auction; occupies the token's listing slot with
// the auction sentinel and locks the quantity
func (e *Engine) Create(trx storage.Transaction, seller account.Address, tokenId uint64, quantity uint64, startingPrice uint64, durationHours uint64, now uint64) error {
	if 0 == startingPrice || market.OnAuctionPrice == startingPrice {
		return fault.ErrInvalidPrice
	}
	if 0 == durationHours || durationHours > MaxDurationHours {
		return fault.ErrDurationTooLong
	}
	err := e.market.MarkAuctioned(trx, seller, tokenId, quantity)
	if nil != err {
		return err
	}
	a := Auction{
		Seller:        seller,
		StartingPrice: startingPrice,
		StartTime:     now,
		EndTime:       now + durationHours*microsPerHour,
		Quantity:      quantity,
	}
	trx.Put(e.records, tokenIdBytes(tokenId), a.pack())
	return nil
}

// PlaceBid - accept a bid at or above the minimum, refunding the
// displaced bidder; a bid inside the closing window pushes the end
// time out so the auction cannot be sniped
func (e *Engine) PlaceBid(trx storage.Transaction, bidder account.Address, tokenId uint64, amount uint64, now uint64) error {
	a, err := e.Info(trx, tokenId)
	if nil != err {
		return err
	}
	if now >= a.EndTime {
		return fault.ErrAuctionEnded
	}
	if bidder == a.Seller {
		return fault.ErrUnauthorized
	}
	if amount < a.MinimumBid() {
		return fault.ErrBidTooLow
	}
	if a.CurrentBid > 0 {
		// best effort, a failed refund must not block the new bid
		_ = e.treasury.Pay(a.HighestBidder, a.CurrentBid)
	}
	a.CurrentBid = amount
	a.HighestBidder = bidder
	if now > a.EndTime-AntiSnipeWindow {
		a.EndTime += AntiSnipeExtension
	}
	trx.Put(e.records, tokenIdBytes(tokenId), a.pack())
	return nil
}

func (e *Engine) close(trx storage.Transaction, tokenId uint64, sold bool) error {
	_, err := e.market.ReleaseAuction(trx, tokenId, sold)
	if nil != err {
		return err
	}
	trx.Delete(e.records, tokenIdBytes(tokenId))
	return nil
}

// Finalize - settle a won auction: token to the highest bidder,
// proceeds less the marketplace fee to the seller; seller or winner
// may trigger it
func (e *Engine) Finalize(trx storage.Transaction, caller account.Address, tokenId uint64, feeBps uint64, now uint64) error {
	a, err := e.Info(trx, tokenId)
	if nil != err {
		return err
	}
	if StatusUnclaimed != a.Status(now) {
		return fault.ErrAuctionNotUnclaimed
	}
	if caller != a.Seller && caller != a.HighestBidder {
		return fault.ErrUnauthorized
	}
	if err := e.close(trx, tokenId, true); nil != err {
		return err
	}
	if err := e.ledger.Credit(trx, a.HighestBidder, tokenId, a.Quantity); nil != err {
		return err
	}
	fee := market.SellerFee(a.CurrentBid, feeBps)
	if err := e.treasury.Pay(a.Seller, a.CurrentBid-fee); nil != err {
		return err
	}
	e.sales.Append(trx, salerecord.Record{
		TokenId:       tokenId,
		Type:          salerecord.SaleSuccess,
		Seller:        a.Seller,
		Buyer:         a.HighestBidder,
		StartingPrice: a.StartingPrice,
		FinalPrice:    a.CurrentBid,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Quantity:      a.Quantity,
	})
	return nil
}

// ReturnUnsold - release an auction that ended without a bid; seller
// only, no funds move
func (e *Engine) ReturnUnsold(trx storage.Transaction, caller account.Address, tokenId uint64, now uint64) error {
	a, err := e.Info(trx, tokenId)
	if nil != err {
		return err
	}
	if StatusUnsold != a.Status(now) {
		return fault.ErrAuctionNotUnsold
	}
	if caller != a.Seller {
		return fault.ErrUnauthorized
	}
	if err := e.close(trx, tokenId, false); nil != err {
		return err
	}
	e.sales.Append(trx, salerecord.Record{
		TokenId:       tokenId,
		Type:          salerecord.AuctionUnsold,
		Seller:        a.Seller,
		StartingPrice: a.StartingPrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Quantity:      a.Quantity,
	})
	return nil
}

// Cancel - abort a running auction; the seller may only while no bid
// stands, the director may always and the standing bid is refunded
func (e *Engine) Cancel(trx storage.Transaction, caller account.Address, tokenId uint64, isDirector bool, now uint64) error {
	a, err := e.Info(trx, tokenId)
	if nil != err {
		return err
	}
	if StatusActive != a.Status(now) {
		return fault.ErrAuctionNotActive
	}
	if caller != a.Seller && !isDirector {
		return fault.ErrUnauthorized
	}
	if a.CurrentBid > 0 {
		if !isDirector {
			return fault.ErrBidAlreadyMade
		}
		if err := e.treasury.Pay(a.HighestBidder, a.CurrentBid); nil != err {
			return err
		}
	}
	if err := e.close(trx, tokenId, false); nil != err {
		return err
	}
	e.sales.Append(trx, salerecord.Record{
		TokenId:       tokenId,
		Type:          salerecord.AuctionCancelled,
		Seller:        a.Seller,
		StartingPrice: a.StartingPrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Quantity:      a.Quantity,
	})
	return nil
}
