// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/registry"
	"github.com/nebula-market/nebulad/storage"
)

var minter = account.Address{0x0e, 0x0f}

func setupRegistry(t *testing.T) (*storage.Store, *registry.Registry, func()) {
	dir, err := ioutil.TempDir("", "registry-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}

	store, err := storage.Initialise(filepath.Join(dir, "test.leveldb"), false)
	if nil != err {
		t.Fatalf("cannot initialise store: %s", err)
	}

	return store, registry.NewRegistry(store), func() {
		store.Close()
		_ = os.RemoveAll(dir)
	}
}

func inTransaction(t *testing.T, store *storage.Store, f func(trx storage.Transaction) error) error {
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

func TestRegisterAndQuery(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 7, minter, 1000, "planet/7.json")
	})
	assert.Nil(t, err, "register error")

	assert.True(t, reg.IsRegistered(nil, 7), "registered flag")
	assert.Equal(t, uint64(1), reg.TotalClasses(nil), "class count")
	assert.Equal(t, uint64(1000), reg.SupplyOf(nil, 7), "supply")

	id, err := reg.TokenByIndex(nil, 1)
	assert.Nil(t, err, "token by index error")
	assert.Equal(t, uint64(7), id, "token by index")

	who, err := reg.MinterOf(nil, 7)
	assert.Nil(t, err, "minter error")
	assert.Equal(t, minter, who, "minter address")
}

func TestRegisterDuplicate(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 7, minter, 10, "a")
	})
	assert.Nil(t, err, "register error")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 7, minter, 10, "a")
	})
	assert.Equal(t, fault.ErrTokenAlreadyMinted, err, "duplicate register")
}

func TestRegisterValidation(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 7, minter, 0, "a")
	})
	assert.Equal(t, fault.ErrInvalidSupply, err, "zero supply")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 7, minter, 10, "")
	})
	assert.Equal(t, fault.ErrTokenURIRequired, err, "empty uri")
}

func TestRetireRenumbers(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		for id := uint64(1); id <= 3; id += 1 {
			if err := reg.Register(trx, id, minter, 10, "a"); nil != err {
				return err
			}
		}
		return nil
	})
	assert.Nil(t, err, "register error")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Retire(trx, 1)
	})
	assert.Nil(t, err, "retire error")

	assert.Equal(t, uint64(2), reg.TotalClasses(nil), "class count after retire")
	assert.False(t, reg.IsRegistered(nil, 1), "retired flag")
	assert.Equal(t, uint64(0), reg.SupplyOf(nil, 1), "retired supply cleared")

	// last class takes the vacated slot
	id, err := reg.TokenByIndex(nil, 1)
	assert.Nil(t, err, "token by index error")
	assert.Equal(t, uint64(3), id, "renumbered slot")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Retire(trx, 1)
	})
	assert.Equal(t, fault.ErrTokenNotMinted, err, "double retire")
}

func TestSubtractSupply(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.Register(trx, 9, minter, 10, "a")
	})
	assert.Nil(t, err, "register error")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		remaining, err := reg.SubtractSupply(trx, 9, 4)
		assert.Equal(t, uint64(6), remaining, "remaining supply")
		return err
	})
	assert.Nil(t, err, "subtract error")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		_, err := reg.SubtractSupply(trx, 9, 7)
		return err
	})
	assert.Equal(t, fault.ErrInsufficientBalance, err, "over burn")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		remaining, err := reg.SubtractSupply(trx, 9, 6)
		assert.Equal(t, uint64(0), remaining, "exhausted supply")
		return err
	})
	assert.Nil(t, err, "subtract to zero error")
	assert.False(t, reg.IsRegistered(nil, 9), "auto retired")
}

func TestURIs(t *testing.T) {
	store, reg, teardown := setupRegistry(t)
	defer teardown()

	err := inTransaction(t, store, func(trx storage.Transaction) error {
		reg.SetBaseURL(trx, "https://meta.nebula.example/")
		return reg.Register(trx, 7, minter, 10, "planet/7.json")
	})
	assert.Nil(t, err, "setup error")

	uri, err := reg.URI(nil, 7)
	assert.Nil(t, err, "uri error")
	assert.Equal(t, "https://meta.nebula.example/planet/7.json", uri, "joined uri")

	err = inTransaction(t, store, func(trx storage.Transaction) error {
		return reg.SetTokenURI(trx, 7, "planet/7-v2.json")
	})
	assert.Nil(t, err, "set uri error")

	uri, err = reg.URI(nil, 7)
	assert.Nil(t, err, "uri error")
	assert.Equal(t, "https://meta.nebula.example/planet/7-v2.json", uri, "updated uri")

	_, err = reg.URI(nil, 8)
	assert.Equal(t, fault.ErrTokenNotMinted, err, "unknown class uri")
}
