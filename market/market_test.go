// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
	"github.com/nebula-market/nebulad/storage"
)

func TestSellerFee(t *testing.T) {
	assert.Equal(t, uint64(2), market.SellerFee(100, 2500), "fractional fee floors")
	assert.Equal(t, uint64(25), market.SellerFee(1000, 2500), "exact fee")
	assert.Equal(t, uint64(0), market.SellerFee(1, 2500), "tiny price")
}

func TestPlaceAndWithdrawListing(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 1, 5)

	err := mutate(t, store, func(trx storage.Transaction) error {
		return m.Place(trx, anna, 1, 0, 5)
	})
	assert.Equal(t, fault.ErrInvalidPrice, err, "zero price")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Place(trx, anna, 1, 100, 5)
	})
	assert.Nil(t, err, "place error")
	assert.True(t, m.IsListed(nil, 1), "listed flag")
	assert.Equal(t, uint64(1), m.TotalListed(nil), "global count")
	assert.Equal(t, uint64(1), m.ListedCountByOwner(nil, anna), "owner count")
	assert.Equal(t, uint64(5), ledger.Locked(nil, anna, 1), "locked quantity")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Place(trx, anna, 1, 200, 5)
	})
	assert.Equal(t, fault.ErrTokenAlreadyListed, err, "double listing")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, ben, 1)
	})
	assert.Equal(t, fault.ErrUnauthorized, err, "foreign withdraw")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, anna, 1)
	})
	assert.Nil(t, err, "withdraw error")
	assert.False(t, m.IsListed(nil, 1), "delisted flag")
	assert.Equal(t, uint64(0), ledger.Locked(nil, anna, 1), "lock released")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, anna, 1)
	})
	assert.Equal(t, fault.ErrNotListed, err, "double withdraw")
}

func TestCancelKeepsOtherListingResolvable(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 1, 1)
	fund(t, store, ledger, anna, 2, 1)

	err := mutate(t, store, func(trx storage.Transaction) error {
		if err := m.Place(trx, anna, 1, 100, 1); nil != err {
			return err
		}
		return m.Place(trx, anna, 2, 200, 1)
	})
	assert.Nil(t, err, "place error")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, anna, 1)
	})
	assert.Nil(t, err, "withdraw error")

	assert.Equal(t, uint64(1), m.TotalListed(nil), "global count after cancel")

	// the surviving listing moved into the vacated slot and must
	// still be reachable through every path
	page, err := m.Listings(nil, 0, 10)
	assert.Nil(t, err, "listings error")
	assert.Equal(t, 1, len(page), "page size")
	assert.Equal(t, uint64(2), page[0].TokenId, "surviving listing")
	assert.Equal(t, uint64(200), page[0].Listing.Price, "surviving price")

	page, err = m.ListingsByOwner(nil, anna, 0, 10)
	assert.Nil(t, err, "owner listings error")
	assert.Equal(t, 1, len(page), "owner page size")
	assert.Equal(t, uint64(2), page[0].TokenId, "surviving owner listing")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, anna, 2)
	})
	assert.Nil(t, err, "second withdraw error")
	assert.Equal(t, uint64(0), m.TotalListed(nil), "empty market")
}

func TestTakeListing(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 1, 5)
	err := mutate(t, store, func(trx storage.Transaction) error {
		return m.Place(trx, anna, 1, 100, 5)
	})
	assert.Nil(t, err, "place error")

	err = mutate(t, store, func(trx storage.Transaction) error {
		listing, err := m.Take(trx, 1)
		if nil != err {
			return err
		}
		assert.Equal(t, anna, listing.Owner, "taken listing owner")
		assert.Equal(t, uint64(5), listing.Quantity, "taken listing quantity")
		return ledger.Credit(trx, ben, 1, listing.Quantity)
	})
	assert.Nil(t, err, "take error")

	assert.Equal(t, uint64(0), ledger.Balance(nil, anna, 1), "seller emptied")
	assert.Equal(t, uint64(5), ledger.Balance(nil, ben, 1), "buyer credited")
	assert.False(t, m.IsListed(nil, 1), "slot released")
}

func TestAuctionSentinelExcludesListing(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 1, 1)
	err := mutate(t, store, func(trx storage.Transaction) error {
		return m.MarkAuctioned(trx, anna, 1, 1)
	})
	assert.Nil(t, err, "mark error")
	assert.True(t, m.IsOnAuction(nil, 1), "auction flag")
	assert.False(t, m.IsListed(nil, 1), "not a fixed listing")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Place(trx, anna, 1, 100, 1)
	})
	assert.Equal(t, fault.ErrTokenAlreadyAuctioned, err, "listing while auctioned")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.Withdraw(trx, anna, 1)
	})
	assert.Equal(t, fault.ErrTokenAlreadyAuctioned, err, "withdraw while auctioned")

	err = mutate(t, store, func(trx storage.Transaction) error {
		_, err := m.Take(trx, 1)
		return err
	})
	assert.Equal(t, fault.ErrNotListed, err, "purchase while auctioned")

	err = mutate(t, store, func(trx storage.Transaction) error {
		_, err := m.ReleaseAuction(trx, 1, false)
		return err
	})
	assert.Nil(t, err, "release error")
	assert.False(t, m.IsOnAuction(nil, 1), "slot released")
	assert.Equal(t, uint64(0), ledger.Locked(nil, anna, 1), "lock released")

	err = mutate(t, store, func(trx storage.Transaction) error {
		_, err := m.ReleaseAuction(trx, 1, false)
		return err
	})
	assert.Equal(t, fault.ErrNotOnAuction, err, "double release")
}
