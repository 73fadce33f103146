// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
	"github.com/nebula-market/nebulad/salerecord"
	"github.com/nebula-market/nebulad/storage"
)

// checkSoleHolder - fixed listings and auctions cover a token's full
// outstanding supply, so the seller must hold all of it
func (ex *Exchange) checkSoleHolder(trx storage.Transaction, owner account.Address, tokenId uint64) (uint64, error) {
	supply := ex.registry.SupplyOf(trx, tokenId)
	if 0 == supply {
		return 0, fault.ErrTokenNotMinted
	}
	if ex.ledger.Balance(trx, owner, tokenId) != supply {
		return 0, fault.ErrNotSoleHolder
	}
	return supply, nil
}

func (ex *Exchange) checkSeller(trx storage.Transaction, caller account.Address) error {
	if err := ex.roles.CheckActive(trx, caller); nil != err {
		return err
	}
	return ex.roles.CheckSaleAllowed(trx, caller)
}

// List - create a fixed price listing over the full supply of a
// token the caller solely holds
func (ex *Exchange) List(caller account.Address, tokenId uint64, price uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.checkSeller(trx, caller); nil != err {
			return err
		}
		quantity, err := ex.checkSoleHolder(trx, caller, tokenId)
		if nil != err {
			return err
		}
		return ex.market.Place(trx, caller, tokenId, price, quantity)
	})
}

// Delist - withdraw the caller's fixed price listing
func (ex *Exchange) Delist(caller account.Address, tokenId uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		return ex.market.Withdraw(trx, caller, tokenId)
	})
}

// Purchase - buy a fixed price listing; payment must equal the
// listed price exactly, the seller receives it less the fee
func (ex *Exchange) Purchase(caller account.Address, tokenId uint64, payment uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		listing, err := ex.market.Listing(trx, tokenId)
		if nil != err {
			return err
		}
		if market.OnAuctionPrice == listing.Price {
			return fault.ErrNotListed
		}
		if payment != listing.Price {
			return fault.ErrAmountMismatch
		}
		if _, err := ex.market.Take(trx, tokenId); nil != err {
			return err
		}
		if err := ex.ledger.Credit(trx, caller, tokenId, listing.Quantity); nil != err {
			return err
		}
		fee := market.SellerFee(listing.Price, ex.feeBps(trx))
		if err := ex.treasury.Pay(listing.Owner, listing.Price-fee); nil != err {
			return err
		}
		ex.sales.Append(trx, salerecord.Record{
			TokenId:       tokenId,
			Type:          salerecord.SaleSuccess,
			Seller:        listing.Owner,
			Buyer:         caller,
			StartingPrice: listing.Price,
			FinalPrice:    listing.Price,
			Quantity:      listing.Quantity,
		})
		return nil
	})
}

// PlaceSellOrder - offer part of the caller's holding at a price;
// the quantity is locked until the order resolves
func (ex *Exchange) PlaceSellOrder(caller account.Address, tokenId uint64, price uint64, quantity uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.checkSeller(trx, caller); nil != err {
			return err
		}
		if !ex.registry.IsRegistered(trx, tokenId) {
			return fault.ErrTokenNotMinted
		}
		_, _, err := ex.market.PlaceSellOrder(trx, caller, tokenId, price, quantity)
		return err
	})
}

// CancelSellOrder - withdraw a sell order by its token side slot
func (ex *Exchange) CancelSellOrder(caller account.Address, tokenId uint64, tokenSlot uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		return ex.market.CancelSellOrder(trx, caller, tokenId, tokenSlot)
	})
}

// PurchaseSellOrder - buy out a sell order; payment must equal the
// ask exactly, no partial fills
func (ex *Exchange) PurchaseSellOrder(caller account.Address, tokenId uint64, tokenSlot uint64, payment uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		order, err := ex.market.Sell.OrderAt(trx, tokenId, tokenSlot)
		if nil != err {
			return err
		}
		if payment != order.Price {
			return fault.ErrAmountMismatch
		}
		if _, err := ex.market.TakeSellOrder(trx, tokenId, tokenSlot); nil != err {
			return err
		}
		if err := ex.ledger.Credit(trx, caller, tokenId, order.Quantity); nil != err {
			return err
		}
		fee := market.SellerFee(order.Price, ex.feeBps(trx))
		if err := ex.treasury.Pay(order.Owner, order.Price-fee); nil != err {
			return err
		}
		ex.sales.Append(trx, salerecord.Record{
			TokenId:       tokenId,
			Type:          salerecord.SaleSuccess,
			Seller:        order.Owner,
			Buyer:         caller,
			StartingPrice: order.Price,
			FinalPrice:    order.Price,
			Quantity:      order.Quantity,
		})
		return nil
	})
}

// PlaceBuyOrder - post a funded bid for a quantity of a token; the
// payment is escrowed and must equal the offered price
func (ex *Exchange) PlaceBuyOrder(caller account.Address, tokenId uint64, price uint64, quantity uint64, payment uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		if !ex.registry.IsRegistered(trx, tokenId) {
			return fault.ErrTokenNotMinted
		}
		if payment != price {
			return fault.ErrAmountMismatch
		}
		_, _, err := ex.market.PlaceBuyOrder(trx, caller, tokenId, price, quantity)
		return err
	})
}

// CancelBuyOrder - withdraw a buy order, refunding its escrow; the
// refund must succeed for the cancellation to stand
func (ex *Exchange) CancelBuyOrder(caller account.Address, tokenId uint64, tokenSlot uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		order, err := ex.market.CancelBuyOrder(trx, caller, tokenId, tokenSlot)
		if nil != err {
			return err
		}
		return ex.treasury.Pay(order.Owner, order.Price)
	})
}

// AcceptBuyOrder - sell into a buy order: the caller's tokens go to
// the buyer, the escrowed price less the fee goes to the caller
func (ex *Exchange) AcceptBuyOrder(caller account.Address, tokenId uint64, tokenSlot uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		order, err := ex.market.TakeBuyOrder(trx, tokenId, tokenSlot)
		if nil != err {
			return err
		}
		if err := ex.ledger.Transfer(trx, caller, order.Owner, tokenId, order.Quantity); nil != err {
			return err
		}
		fee := market.SellerFee(order.Price, ex.feeBps(trx))
		if err := ex.treasury.Pay(caller, order.Price-fee); nil != err {
			return err
		}
		ex.sales.Append(trx, salerecord.Record{
			TokenId:       tokenId,
			Type:          salerecord.BuySuccess,
			Seller:        caller,
			Buyer:         order.Owner,
			StartingPrice: order.Price,
			FinalPrice:    order.Price,
			Quantity:      order.Quantity,
		})
		return nil
	})
}

// ListingOf - the live listing record of a token
func (ex *Exchange) ListingOf(tokenId uint64) (market.Listing, error) {
	return ex.market.Listing(nil, tokenId)
}

// TotalListed - occupied listing slots, auctions included
func (ex *Exchange) TotalListed() uint64 {
	return ex.market.TotalListed(nil)
}

// ListedCountByOwner - occupied listing slots of one owner
func (ex *Exchange) ListedCountByOwner(owner account.Address) uint64 {
	return ex.market.ListedCountByOwner(nil, owner)
}

// Listings - page the global listing slots
func (ex *Exchange) Listings(offset uint64, limit uint64) ([]market.ListingEntry, error) {
	return ex.market.Listings(nil, offset, limit)
}

// ListingsByOwner - page one owner's listing slots
func (ex *Exchange) ListingsByOwner(owner account.Address, offset uint64, limit uint64) ([]market.ListingEntry, error) {
	return ex.market.ListingsByOwner(nil, owner, offset, limit)
}

// SellOrders - page the sell orders against a token
func (ex *Exchange) SellOrders(tokenId uint64, offset uint64, limit uint64) ([]market.Order, error) {
	return ex.market.Sell.WindowByToken(nil, tokenId, offset, limit)
}

// SellOrdersByOwner - page one owner's sell orders
func (ex *Exchange) SellOrdersByOwner(owner account.Address, offset uint64, limit uint64) ([]market.Order, error) {
	return ex.market.Sell.WindowByOwner(nil, owner, offset, limit)
}

// SellOrderCount - live sell orders against a token
func (ex *Exchange) SellOrderCount(tokenId uint64) uint64 {
	return ex.market.Sell.CountByToken(nil, tokenId)
}

// BuyOrders - page the buy orders against a token
func (ex *Exchange) BuyOrders(tokenId uint64, offset uint64, limit uint64) ([]market.Order, error) {
	return ex.market.Buy.WindowByToken(nil, tokenId, offset, limit)
}

// BuyOrdersByOwner - page one owner's buy orders
func (ex *Exchange) BuyOrdersByOwner(owner account.Address, offset uint64, limit uint64) ([]market.Order, error) {
	return ex.market.Buy.WindowByOwner(nil, owner, offset, limit)
}

// BuyOrderCount - live buy orders against a token
func (ex *Exchange) BuyOrderCount(tokenId uint64) uint64 {
	return ex.market.Buy.CountByToken(nil, tokenId)
}
