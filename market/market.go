// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package market - fixed price listings and the sell/buy order books
//
// every enumerable structure is a pair of swap-remove arrays over KV
// pools; removing from one side always repairs the other so a later
// cancellation can never chase a stale slot
package market

import (
	"encoding/binary"
	"math"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/ownership"
	"github.com/nebula-market/nebulad/slot"
	"github.com/nebula-market/nebulad/storage"
)

// OnAuctionPrice - sentinel stored in place of a fixed price while a
// token is on auction; keeps listings and auctions mutually exclusive
const OnAuctionPrice uint64 = math.MaxUint64

// MaxWindow - upper bound on one enumeration page
const MaxWindow uint64 = 100

func clampWindow(limit uint64) uint64 {
	if limit > MaxWindow {
		return MaxWindow
	}
	return limit
}

// SellerFee - marketplace cut of a sale, floor division; feeBps is
// parts per 100000
func SellerFee(price uint64, feeBps uint64) uint64 {
	return price * feeBps / 100000
}

// Listing - one fixed price listing, or an auction occupation when
// Price is the sentinel
type Listing struct {
	Owner    account.Address
	Price    uint64
	Quantity uint64
}

const packedListingSize = account.AddressLength + 8 + 8

func (listing Listing) pack() []byte {
	buffer := make([]byte, packedListingSize)
	copy(buffer, listing.Owner.Bytes())
	binary.BigEndian.PutUint64(buffer[account.AddressLength:], listing.Price)
	binary.BigEndian.PutUint64(buffer[account.AddressLength+8:], listing.Quantity)
	return buffer
}

func unpackListing(buffer []byte) (Listing, error) {
	if packedListingSize != len(buffer) {
		return Listing{}, fault.ErrNotListed
	}
	listing := Listing{}
	copy(listing.Owner[:], buffer)
	listing.Price = binary.BigEndian.Uint64(buffer[account.AddressLength:])
	listing.Quantity = binary.BigEndian.Uint64(buffer[account.AddressLength+8:])
	return listing, nil
}

// Market - fixed listings plus the two order books, sharing one
// ownership ledger for quantity locking
type Market struct {
	ledger *ownership.Ledger
	listed slot.Array // collections: nil for the global list, owner bytes per owner
	prices *storage.PoolHandle
	Sell   *Book
	Buy    *Book
}

// NewMarket - bind the market to the listing and order book pools of
// a store
func NewMarket(store *storage.Store, ledger *ownership.Ledger) *Market {
	return &Market{
		ledger: ledger,
		listed: slot.NewArray(
			store.Pool.ListedCounts,
			store.Pool.ListedTokens,
			store.Pool.ListedIndex,
		),
		prices: store.Pool.Prices,
		Sell: NewBook(
			store.Pool.SellTokenCounts,
			store.Pool.SellTokenOrders,
			store.Pool.SellOwnerCounts,
			store.Pool.SellOwnerOrders,
			store.Pool.SellCrossIndex,
			store.Pool.SellBackIndex,
		),
		Buy: NewBook(
			store.Pool.BuyTokenCounts,
			store.Pool.BuyTokenOrders,
			store.Pool.BuyOwnerCounts,
			store.Pool.BuyOwnerOrders,
			store.Pool.BuyCrossIndex,
			store.Pool.BuyBackIndex,
		),
	}
}

func tokenIdBytes(tokenId uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenId)
	return b
}

// Listing - the live listing record of a token id
func (m *Market) Listing(trx storage.Transaction, tokenId uint64) (Listing, error) {
	var value []byte
	if nil != trx {
		value = trx.Get(m.prices, tokenIdBytes(tokenId))
	} else {
		value = m.prices.Get(tokenIdBytes(tokenId))
	}
	if nil == value {
		return Listing{}, fault.ErrNotListed
	}
	return unpackListing(value)
}

// IsListed - true while a fixed price listing is live
func (m *Market) IsListed(trx storage.Transaction, tokenId uint64) bool {
	listing, err := m.Listing(trx, tokenId)
	return nil == err && OnAuctionPrice != listing.Price
}

// IsOnAuction - true while the token occupies its listing slot with
// the auction sentinel
func (m *Market) IsOnAuction(trx storage.Transaction, tokenId uint64) bool {
	listing, err := m.Listing(trx, tokenId)
	return nil == err && OnAuctionPrice == listing.Price
}

func (m *Market) checkUnoccupied(trx storage.Transaction, tokenId uint64) error {
	listing, err := m.Listing(trx, tokenId)
	if nil != err {
		return nil
	}
	if OnAuctionPrice == listing.Price {
		return fault.ErrTokenAlreadyAuctioned
	}
	return fault.ErrTokenAlreadyListed
}

func (m *Market) occupy(trx storage.Transaction, tokenId uint64, listing Listing) error {
	if err := m.ledger.Lock(trx, listing.Owner, tokenId, listing.Quantity); nil != err {
		return err
	}
	id := tokenIdBytes(tokenId)
	m.listed.Insert(trx, nil, id)
	m.listed.Insert(trx, listing.Owner.Bytes(), id)
	trx.Put(m.prices, id, listing.pack())
	return nil
}

func (m *Market) vacate(trx storage.Transaction, tokenId uint64, owner account.Address) {
	id := tokenIdBytes(tokenId)
	m.listed.RemoveValue(trx, nil, id)
	m.listed.RemoveValue(trx, owner.Bytes(), id)
	trx.Delete(m.prices, id)
}

// Place - create a fixed price listing; one listing per token id,
// the quantity is locked against transfer for the duration
func (m *Market) Place(trx storage.Transaction, seller account.Address, tokenId uint64, price uint64, quantity uint64) error {
	if 0 == price || OnAuctionPrice == price {
		return fault.ErrInvalidPrice
	}
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	if err := m.checkUnoccupied(trx, tokenId); nil != err {
		return err
	}
	return m.occupy(trx, tokenId, Listing{Owner: seller, Price: price, Quantity: quantity})
}

// Withdraw - cancel a fixed price listing; only the seller may, the
// locked quantity is released
func (m *Market) Withdraw(trx storage.Transaction, caller account.Address, tokenId uint64) error {
	listing, err := m.Listing(trx, tokenId)
	if nil != err {
		return err
	}
	if OnAuctionPrice == listing.Price {
		return fault.ErrTokenAlreadyAuctioned
	}
	if caller != listing.Owner {
		return fault.ErrUnauthorized
	}
	m.vacate(trx, tokenId, listing.Owner)
	return m.ledger.Unlock(trx, listing.Owner, tokenId, listing.Quantity)
}

// Take - consume a fixed price listing on purchase: the structures
// are released and the seller's locked units are debited; crediting
// the buyer is the caller's part
func (m *Market) Take(trx storage.Transaction, tokenId uint64) (Listing, error) {
	listing, err := m.Listing(trx, tokenId)
	if nil != err {
		return Listing{}, err
	}
	if OnAuctionPrice == listing.Price {
		return Listing{}, fault.ErrNotListed
	}
	m.vacate(trx, tokenId, listing.Owner)
	err = m.ledger.DebitLocked(trx, listing.Owner, tokenId, listing.Quantity)
	if nil != err {
		return Listing{}, err
	}
	return listing, nil
}

// MarkAuctioned - occupy the listing slot with the auction sentinel,
// locking the auctioned quantity
func (m *Market) MarkAuctioned(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	if err := m.checkUnoccupied(trx, tokenId); nil != err {
		return err
	}
	return m.occupy(trx, tokenId, Listing{Owner: owner, Price: OnAuctionPrice, Quantity: quantity})
}

// ReleaseAuction - free the listing slot at auction end; a sold
// auction consumes the seller's locked units, otherwise they unlock
func (m *Market) ReleaseAuction(trx storage.Transaction, tokenId uint64, sold bool) (Listing, error) {
	listing, err := m.Listing(trx, tokenId)
	if nil != err {
		return Listing{}, fault.ErrNotOnAuction
	}
	if OnAuctionPrice != listing.Price {
		return Listing{}, fault.ErrNotOnAuction
	}
	m.vacate(trx, tokenId, listing.Owner)
	if sold {
		err = m.ledger.DebitLocked(trx, listing.Owner, tokenId, listing.Quantity)
	} else {
		err = m.ledger.Unlock(trx, listing.Owner, tokenId, listing.Quantity)
	}
	if nil != err {
		return Listing{}, err
	}
	return listing, nil
}

// TotalListed - number of occupied listing slots, auctions included
func (m *Market) TotalListed(trx storage.Transaction) uint64 {
	return m.listed.Count(trx, nil)
}

// ListedCountByOwner - occupied listing slots of one owner
func (m *Market) ListedCountByOwner(trx storage.Transaction, owner account.Address) uint64 {
	return m.listed.Count(trx, owner.Bytes())
}

// ListingEntry - one row of a listings enumeration page
type ListingEntry struct {
	TokenId uint64
	Listing Listing
}

func (m *Market) listingPage(trx storage.Transaction, collection []byte, offset uint64, limit uint64) ([]ListingEntry, error) {
	entries, err := m.listed.Window(trx, collection, offset, clampWindow(limit))
	if nil != err {
		return nil, err
	}
	page := make([]ListingEntry, len(entries))
	for i, e := range entries {
		tokenId := binary.BigEndian.Uint64(e)
		listing, err := m.Listing(trx, tokenId)
		if nil != err {
			return nil, err
		}
		page[i] = ListingEntry{TokenId: tokenId, Listing: listing}
	}
	return page, nil
}

// Listings - page the global listing slots
func (m *Market) Listings(trx storage.Transaction, offset uint64, limit uint64) ([]ListingEntry, error) {
	return m.listingPage(trx, nil, offset, limit)
}

// ListingsByOwner - page one owner's listing slots
func (m *Market) ListingsByOwner(trx storage.Transaction, owner account.Address, offset uint64, limit uint64) ([]ListingEntry, error) {
	return m.listingPage(trx, owner.Bytes(), offset, limit)
}

// PlaceSellOrder - lock the quantity and enter the order into the
// sell book
func (m *Market) PlaceSellOrder(trx storage.Transaction, seller account.Address, tokenId uint64, price uint64, quantity uint64) (uint64, uint64, error) {
	if 0 == price || OnAuctionPrice == price {
		return 0, 0, fault.ErrInvalidPrice
	}
	if 0 == quantity {
		return 0, 0, fault.ErrInvalidQuantity
	}
	if err := m.ledger.Lock(trx, seller, tokenId, quantity); nil != err {
		return 0, 0, err
	}
	tokenSlot, ownerSlot := m.Sell.Place(trx, Order{
		TokenId:  tokenId,
		Owner:    seller,
		Price:    price,
		Quantity: quantity,
	})
	return tokenSlot, ownerSlot, nil
}

// CancelSellOrder - release a sell order and its quantity lock; only
// the order owner may cancel
func (m *Market) CancelSellOrder(trx storage.Transaction, caller account.Address, tokenId uint64, tokenSlot uint64) error {
	order, err := m.Sell.OrderAt(trx, tokenId, tokenSlot)
	if nil != err {
		return err
	}
	if caller != order.Owner {
		return fault.ErrUnauthorized
	}
	if _, err := m.Sell.RemoveByToken(trx, tokenId, tokenSlot); nil != err {
		return err
	}
	return m.ledger.Unlock(trx, order.Owner, tokenId, order.Quantity)
}

// TakeSellOrder - consume a sell order on purchase: removes it from
// the book and debits the seller's locked units
func (m *Market) TakeSellOrder(trx storage.Transaction, tokenId uint64, tokenSlot uint64) (Order, error) {
	order, err := m.Sell.RemoveByToken(trx, tokenId, tokenSlot)
	if nil != err {
		return Order{}, err
	}
	err = m.ledger.DebitLocked(trx, order.Owner, tokenId, order.Quantity)
	if nil != err {
		return Order{}, err
	}
	return order, nil
}

// PlaceBuyOrder - enter a funded bid into the buy book; the escrow
// of the offered price is the caller's part
func (m *Market) PlaceBuyOrder(trx storage.Transaction, buyer account.Address, tokenId uint64, price uint64, quantity uint64) (uint64, uint64, error) {
	if 0 == price || OnAuctionPrice == price {
		return 0, 0, fault.ErrInvalidPrice
	}
	if 0 == quantity {
		return 0, 0, fault.ErrInvalidQuantity
	}
	tokenSlot, ownerSlot := m.Buy.Place(trx, Order{
		TokenId:  tokenId,
		Owner:    buyer,
		Price:    price,
		Quantity: quantity,
	})
	return tokenSlot, ownerSlot, nil
}

// CancelBuyOrder - withdraw a buy order; refunding the escrow is the
// caller's part, only the order owner may cancel
func (m *Market) CancelBuyOrder(trx storage.Transaction, caller account.Address, tokenId uint64, tokenSlot uint64) (Order, error) {
	order, err := m.Buy.OrderAt(trx, tokenId, tokenSlot)
	if nil != err {
		return Order{}, err
	}
	if caller != order.Owner {
		return Order{}, fault.ErrUnauthorized
	}
	return m.Buy.RemoveByToken(trx, tokenId, tokenSlot)
}

// TakeBuyOrder - consume a buy order on acceptance by a seller
func (m *Market) TakeBuyOrder(trx storage.Transaction, tokenId uint64, tokenSlot uint64) (Order, error) {
	return m.Buy.RemoveByToken(trx, tokenId, tokenSlot)
}
