// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
	"github.com/nebula-market/nebulad/ownership"
	"github.com/nebula-market/nebulad/storage"
)

var (
	anna  = account.Address{0x0a}
	ben   = account.Address{0x0b}
	carol = account.Address{0x0c}
)

func setupMarket(t *testing.T) (*storage.Store, *ownership.Ledger, *market.Market, func()) {
	dir, err := ioutil.TempDir("", "market-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}

	store, err := storage.Initialise(filepath.Join(dir, "test.leveldb"), false)
	if nil != err {
		t.Fatalf("cannot initialise store: %s", err)
	}

	ledger := ownership.NewLedger(store)
	return store, ledger, market.NewMarket(store, ledger), func() {
		store.Close()
		_ = os.RemoveAll(dir)
	}
}

func mutate(t *testing.T, store *storage.Store, f func(trx storage.Transaction) error) error {
	trx := store.Transaction()
	if err := trx.Begin(); nil != err {
		t.Fatalf("begin error: %s", err)
	}
	err := f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}
	return nil
}

// every live order must resolve to itself through cross then back
func assertBookSymmetry(t *testing.T, b *market.Book, tokenIds []uint64) {
	for _, tokenId := range tokenIds {
		count := b.CountByToken(nil, tokenId)
		for tokenSlot := uint64(1); tokenSlot <= count; tokenSlot += 1 {
			order, err := b.OrderAt(nil, tokenId, tokenSlot)
			assert.Nil(t, err, "order at token slot")

			owner, ownerSlot, ok := b.CrossSlot(nil, tokenId, tokenSlot)
			assert.True(t, ok, "cross entry present")
			assert.Equal(t, order.Owner, owner, "cross owner")

			backId, backSlot, ok := b.BackSlot(nil, owner, ownerSlot)
			assert.True(t, ok, "back entry present")
			assert.Equal(t, tokenId, backId, "back token id")
			assert.Equal(t, tokenSlot, backSlot, "back token slot")

			mirror, err := b.OwnerOrderAt(nil, owner, ownerSlot)
			assert.Nil(t, err, "order at owner slot")
			assert.Equal(t, order, mirror, "both sides store the record")
		}
	}
}

func fund(t *testing.T, store *storage.Store, ledger *ownership.Ledger, owner account.Address, tokenId uint64, quantity uint64) {
	err := mutate(t, store, func(trx storage.Transaction) error {
		return ledger.Credit(trx, owner, tokenId, quantity)
	})
	assert.Nil(t, err, "credit error")
}

func TestSellOrderPlaceAndCancel(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 1, 10)

	err := mutate(t, store, func(trx storage.Transaction) error {
		_, _, err := m.PlaceSellOrder(trx, anna, 1, 100, 4)
		return err
	})
	assert.Nil(t, err, "place error")
	assert.Equal(t, uint64(1), m.Sell.CountByToken(nil, 1), "token side count")
	assert.Equal(t, uint64(1), m.Sell.CountByOwner(nil, anna), "owner side count")
	assert.Equal(t, uint64(4), ledger.Locked(nil, anna, 1), "locked quantity")

	// cannot oversell the remaining unlocked units
	err = mutate(t, store, func(trx storage.Transaction) error {
		_, _, err := m.PlaceSellOrder(trx, anna, 1, 100, 7)
		return err
	})
	assert.Equal(t, fault.ErrInsufficientUnlocked, err, "oversell")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.CancelSellOrder(trx, ben, 1, 1)
	})
	assert.Equal(t, fault.ErrUnauthorized, err, "foreign cancel")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.CancelSellOrder(trx, anna, 1, 1)
	})
	assert.Nil(t, err, "cancel error")
	assert.Equal(t, uint64(0), m.Sell.CountByToken(nil, 1), "token side empty")
	assert.Equal(t, uint64(0), ledger.Locked(nil, anna, 1), "lock released")
}

func TestRemovalRepairsBothSides(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	// anna places three orders on token 1; ben interleaves orders so
	// the owner side slots diverge from the token side slots
	fund(t, store, ledger, anna, 1, 10)
	fund(t, store, ledger, ben, 1, 10)
	fund(t, store, ledger, anna, 2, 10)

	err := mutate(t, store, func(trx storage.Transaction) error {
		place := func(owner account.Address, tokenId uint64, price uint64) error {
			_, _, err := m.PlaceSellOrder(trx, owner, tokenId, price, 1)
			return err
		}
		if err := place(anna, 1, 100); nil != err {
			return err
		}
		if err := place(ben, 1, 110); nil != err {
			return err
		}
		if err := place(anna, 2, 200); nil != err {
			return err
		}
		if err := place(anna, 1, 120); nil != err {
			return err
		}
		return place(ben, 1, 130)
	})
	assert.Nil(t, err, "place error")
	assertBookSymmetry(t, m.Sell, []uint64{1, 2})

	// removing the first token slot moves the last order of token 1
	// (ben's 130) into slot 1; both its pointers must follow
	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.CancelSellOrder(trx, anna, 1, 1)
	})
	assert.Nil(t, err, "cancel error")
	assert.Equal(t, uint64(3), m.Sell.CountByToken(nil, 1), "token side count")
	assertBookSymmetry(t, m.Sell, []uint64{1, 2})

	moved, err := m.Sell.OrderAt(nil, 1, 1)
	assert.Nil(t, err, "moved order read")
	assert.Equal(t, uint64(130), moved.Price, "last order took the vacated slot")

	// the repaired pointers must still support cancellation of every
	// remaining order from the owner side
	err = mutate(t, store, func(trx storage.Transaction) error {
		for m.Sell.CountByOwner(trx, ben) > 0 {
			order, err := m.Sell.RemoveByOwner(trx, ben, 1)
			if nil != err {
				return err
			}
			if err := ledger.Unlock(trx, ben, order.TokenId, order.Quantity); nil != err {
				return err
			}
		}
		return nil
	})
	assert.Nil(t, err, "owner side removal error")
	assert.Equal(t, uint64(1), m.Sell.CountByToken(nil, 1), "anna's order remains")
	assertBookSymmetry(t, m.Sell, []uint64{1, 2})
}

func TestRemoveLastRemaining(t *testing.T) {
	store, ledger, m, teardown := setupMarket(t)
	defer teardown()

	fund(t, store, ledger, anna, 3, 1)
	err := mutate(t, store, func(trx storage.Transaction) error {
		_, _, err := m.PlaceSellOrder(trx, anna, 3, 50, 1)
		return err
	})
	assert.Nil(t, err, "place error")

	err = mutate(t, store, func(trx storage.Transaction) error {
		return m.CancelSellOrder(trx, anna, 3, 1)
	})
	assert.Nil(t, err, "cancel error")

	_, _, ok := m.Sell.CrossSlot(nil, 3, 1)
	assert.False(t, ok, "cross entry cleared")
	_, _, ok = m.Sell.BackSlot(nil, anna, 1)
	assert.False(t, ok, "back entry cleared")
}

func TestBuyOrderBook(t *testing.T) {
	store, _, m, teardown := setupMarket(t)
	defer teardown()

	err := mutate(t, store, func(trx storage.Transaction) error {
		if _, _, err := m.PlaceBuyOrder(trx, ben, 1, 90, 2); nil != err {
			return err
		}
		_, _, err := m.PlaceBuyOrder(trx, carol, 1, 95, 1)
		return err
	})
	assert.Nil(t, err, "place error")
	assertBookSymmetry(t, m.Buy, []uint64{1})

	err = mutate(t, store, func(trx storage.Transaction) error {
		_, err := m.CancelBuyOrder(trx, carol, 1, 1)
		return err
	})
	assert.Equal(t, fault.ErrUnauthorized, err, "foreign cancel")

	err = mutate(t, store, func(trx storage.Transaction) error {
		order, err := m.CancelBuyOrder(trx, ben, 1, 1)
		assert.Equal(t, uint64(90), order.Price, "cancelled order record")
		return err
	})
	assert.Nil(t, err, "cancel error")
	assert.Equal(t, uint64(1), m.Buy.CountByToken(nil, 1), "remaining order")
	assertBookSymmetry(t, m.Buy, []uint64{1})

	orders, err := m.Buy.WindowByToken(nil, 1, 0, 10)
	assert.Nil(t, err, "window error")
	assert.Equal(t, 1, len(orders), "window size")
	assert.Equal(t, carol, orders[0].Owner, "surviving order owner")
}

func TestWindowOffsetPastEnd(t *testing.T) {
	store, _, m, teardown := setupMarket(t)
	defer teardown()

	err := mutate(t, store, func(trx storage.Transaction) error {
		_, _, err := m.PlaceBuyOrder(trx, ben, 1, 90, 2)
		return err
	})
	assert.Nil(t, err, "place error")

	_, err = m.Buy.WindowByToken(nil, 1, 2, 10)
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "offset past end")
}
