// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/storage"
)

func setupTestStore(t *testing.T) (*storage.Store, func()) {
	dir, err := ioutil.TempDir("", "storage-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}

	store, err := storage.Initialise(filepath.Join(dir, "test.leveldb"), false)
	if nil != err {
		t.Fatalf("cannot initialise store: %s", err)
	}

	return store, func() {
		store.Close()
		_ = os.RemoveAll(dir)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "begin error")

	trx.Put(store.Pool.Vars, []byte("seller_fee"), []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, trx.Get(store.Pool.Vars, []byte("seller_fee")), "overlay read mismatch")
	assert.Nil(t, trx.Commit(), "commit error")

	assert.Equal(t, []byte{1, 2, 3}, store.Pool.Vars.Get([]byte("seller_fee")), "committed read mismatch")
}

func TestGetNRoundTrip(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "begin error")
	trx.PutN(store.Pool.ClassCounts, []byte("owner"), 42)
	assert.Nil(t, trx.Commit(), "commit error")

	n, ok := store.Pool.ClassCounts.GetN([]byte("owner"))
	assert.True(t, ok, "counter missing")
	assert.Equal(t, uint64(42), n, "wrong counter value")
}

func TestAbortDiscardsWrites(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "begin error")
	trx.Put(store.Pool.Prices, []byte{1}, []byte{9})
	trx.Abort()

	assert.Nil(t, store.Pool.Prices.Get([]byte{1}), "aborted write reached the database")
}

func TestDeleteInsideTransaction(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "begin error")
	trx.Put(store.Pool.TokenURIs, []byte{7}, []byte("spec/7"))
	assert.Nil(t, trx.Commit(), "commit error")

	assert.Nil(t, trx.Begin(), "second begin error")
	trx.Delete(store.Pool.TokenURIs, []byte{7})

	// the pending delete must be visible inside the transaction
	assert.Nil(t, trx.Get(store.Pool.TokenURIs, []byte{7}), "pending delete not observed")
	assert.False(t, trx.Has(store.Pool.TokenURIs, []byte{7}), "pending delete not observed by Has")
	assert.Nil(t, trx.Commit(), "commit error")

	assert.False(t, store.Pool.TokenURIs.Has([]byte{7}), "delete did not reach the database")
}

func TestSingleWriter(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "first begin error")
	assert.Equal(t, fault.ErrTransactionInUse, trx.Begin(), "nested begin was allowed")
	trx.Abort()
	assert.Nil(t, trx.Begin(), "begin after abort error")
	trx.Abort()
}

func TestPoolsAreDisjoint(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	key := []byte{0x55}
	trx := store.Transaction()
	assert.Nil(t, trx.Begin(), "begin error")
	trx.Put(store.Pool.Balances, key, []byte("balances"))
	trx.Put(store.Pool.Prices, key, []byte("prices"))
	assert.Nil(t, trx.Commit(), "commit error")

	assert.Equal(t, []byte("balances"), store.Pool.Balances.Get(key), "balances pool clobbered")
	assert.Equal(t, []byte("prices"), store.Pool.Prices.Get(key), "prices pool clobbered")
	assert.Nil(t, store.Pool.Auctions.Get(key), "auctions pool not empty")
}
