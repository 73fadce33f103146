// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/auction"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/storage"
)

// CreateAuction - open an English auction over the full supply of a
// token the caller solely holds; now is microseconds
func (ex *Exchange) CreateAuction(caller account.Address, tokenId uint64, startingPrice uint64, durationHours uint64, now uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.checkSeller(trx, caller); nil != err {
			return err
		}
		quantity, err := ex.checkSoleHolder(trx, caller, tokenId)
		if nil != err {
			return err
		}
		return ex.auctions.Create(trx, caller, tokenId, quantity, startingPrice, durationHours, now)
	})
}

// PlaceBid - bid on a running auction; the payment is escrowed and
// must equal the bid amount
func (ex *Exchange) PlaceBid(caller account.Address, tokenId uint64, amount uint64, payment uint64, now uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		if payment != amount {
			return fault.ErrAmountMismatch
		}
		return ex.auctions.PlaceBid(trx, caller, tokenId, amount, now)
	})
}

// FinalizeAuction - settle a won auction; seller or winner only
func (ex *Exchange) FinalizeAuction(caller account.Address, tokenId uint64, now uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		return ex.auctions.Finalize(trx, caller, tokenId, ex.feeBps(trx), now)
	})
}

// ReturnUnsoldAuction - release an auction that ended with no bid
func (ex *Exchange) ReturnUnsoldAuction(caller account.Address, tokenId uint64, now uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		return ex.auctions.ReturnUnsold(trx, caller, tokenId, now)
	})
}

// CancelAuction - abort a running auction; sellers may while no bid
// stands, the director may always
func (ex *Exchange) CancelAuction(caller account.Address, tokenId uint64, now uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		isDirector := caller == ex.roles.Director(trx)
		return ex.auctions.Cancel(trx, caller, tokenId, isDirector, now)
	})
}

// AuctionInfo - the live auction record of a token
func (ex *Exchange) AuctionInfo(tokenId uint64) (auction.Auction, error) {
	return ex.auctions.Info(nil, tokenId)
}

// AuctionStatus - lazily evaluated auction state at a caller
// supplied time
func (ex *Exchange) AuctionStatus(tokenId uint64, now uint64) (auction.Status, error) {
	a, err := ex.auctions.Info(nil, tokenId)
	if nil != err {
		return auction.StatusActive, err
	}
	return a.Status(now), nil
}
