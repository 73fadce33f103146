// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package slot_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/slot"
	"github.com/nebula-market/nebulad/storage"
)

var owner = []byte("owner-one")

func setupArray(t *testing.T) (slot.Array, storage.Transaction, func()) {
	dir, err := ioutil.TempDir("", "slot-test")
	if nil != err {
		t.Fatalf("cannot create test directory: %s", err)
	}

	store, err := storage.Initialise(filepath.Join(dir, "test.leveldb"), false)
	if nil != err {
		t.Fatalf("cannot initialise store: %s", err)
	}

	a := slot.NewArray(store.Pool.ClassCounts, store.Pool.OwnerTokens, store.Pool.OwnerTokenIndex)

	trx := store.Transaction()
	if err := trx.Begin(); nil != err {
		t.Fatalf("cannot begin transaction: %s", err)
	}

	return a, trx, func() {
		trx.Abort()
		store.Close()
		_ = os.RemoveAll(dir)
	}
}

// collect all values and assert slots 1..count are densely occupied
func snapshot(t *testing.T, a slot.Array, trx storage.Transaction) [][]byte {
	count := a.Count(trx, owner)
	values := make([][]byte, 0, count)
	for i := uint64(1); i <= count; i += 1 {
		value, err := a.Get(trx, owner, i)
		assert.Nil(t, err, "hole at index %d with count %d", i, count)
		values = append(values, value)
	}
	_, err := a.Get(trx, owner, count+1)
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "entry beyond count")
	return values
}

func TestInsertAssignsDenseIndexes(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	assert.Equal(t, uint64(1), a.Insert(trx, owner, []byte("a")), "first index")
	assert.Equal(t, uint64(2), a.Insert(trx, owner, []byte("b")), "second index")
	assert.Equal(t, uint64(3), a.Insert(trx, owner, []byte("c")), "third index")
	assert.Equal(t, uint64(3), a.Count(trx, owner), "count after inserts")

	values := snapshot(t, a, trx)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, values, "wrong enumeration")
}

func TestRemoveMiddleMovesLast(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	a.Insert(trx, owner, []byte("a"))
	a.Insert(trx, owner, []byte("b"))
	a.Insert(trx, owner, []byte("c"))

	moved, movedFrom, err := a.RemoveAt(trx, owner, 1)
	assert.Nil(t, err, "remove error")
	assert.Equal(t, []byte("c"), moved, "moved value")
	assert.Equal(t, uint64(3), movedFrom, "moved from index")

	values := snapshot(t, a, trx)
	assert.Equal(t, [][]byte{[]byte("c"), []byte("b")}, values, "swap-remove result")

	// the reverse map must follow the moved value
	index, ok := a.Position(trx, owner, []byte("c"))
	assert.True(t, ok, "moved value lost from positions")
	assert.Equal(t, uint64(1), index, "moved value position not repaired")
	_, ok = a.Position(trx, owner, []byte("a"))
	assert.False(t, ok, "removed value still in positions")
}

func TestRemoveLastIsPlainClear(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	a.Insert(trx, owner, []byte("a"))
	a.Insert(trx, owner, []byte("b"))

	moved, _, err := a.RemoveAt(trx, owner, 2)
	assert.Nil(t, err, "remove error")
	assert.Nil(t, moved, "removing the last slot must not move anything")
	assert.Equal(t, uint64(1), a.Count(trx, owner), "count after remove")
}

func TestRemoveSoleElement(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	a.Insert(trx, owner, []byte("only"))

	moved, _, err := a.RemoveAt(trx, owner, 1)
	assert.Nil(t, err, "remove error")
	assert.Nil(t, moved, "sole element remove must not move anything")
	assert.Equal(t, uint64(0), a.Count(trx, owner), "count after remove")

	_, ok := a.Position(trx, owner, []byte("only"))
	assert.False(t, ok, "positions entry survived sole element remove")
}

func TestRemoveOutOfRange(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	a.Insert(trx, owner, []byte("a"))

	_, _, err := a.RemoveAt(trx, owner, 0)
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "index 0 accepted")
	_, _, err = a.RemoveAt(trx, owner, 2)
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "index beyond count accepted")
}

func TestRemoveValue(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	a.Insert(trx, owner, []byte("a"))
	a.Insert(trx, owner, []byte("b"))

	_, _, err := a.RemoveValue(trx, owner, []byte("a"))
	assert.Nil(t, err, "remove error")
	values := snapshot(t, a, trx)
	assert.Equal(t, [][]byte{[]byte("b")}, values, "wrong remainder")

	_, _, err = a.RemoveValue(trx, owner, []byte("missing"))
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "missing value accepted")
}

func TestDensityAfterChurn(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	values := [][]byte{
		[]byte("a"), []byte("b"), []byte("c"), []byte("d"),
		[]byte("e"), []byte("f"), []byte("g"), []byte("h"),
	}
	for _, v := range values {
		a.Insert(trx, owner, v)
	}

	// remove every second live value, always through the reverse map
	for _, v := range [][]byte{[]byte("b"), []byte("d"), []byte("f"), []byte("h")} {
		_, _, err := a.RemoveValue(trx, owner, v)
		assert.Nil(t, err, "remove %q error", v)
		snapshot(t, a, trx) // density invariant after every removal
	}

	remainder := snapshot(t, a, trx)
	assert.Equal(t, 4, len(remainder), "wrong remainder size")
	for _, v := range [][]byte{[]byte("a"), []byte("c"), []byte("e"), []byte("g")} {
		index, ok := a.Position(trx, owner, v)
		assert.True(t, ok, "value %q lost", v)
		got, err := a.Get(trx, owner, index)
		assert.Nil(t, err, "get error")
		assert.Equal(t, v, got, "positions map disagrees with entries")
	}
}

func TestWindow(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	for _, v := range [][]byte{[]byte("a"), []byte("b"), []byte("c")} {
		a.Insert(trx, owner, v)
	}

	page, err := a.Window(trx, owner, 0, 2)
	assert.Nil(t, err, "window error")
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, page, "first page")

	page, err = a.Window(trx, owner, 2, 2)
	assert.Nil(t, err, "window error")
	assert.Equal(t, [][]byte{[]byte("c")}, page, "second page")

	page, err = a.Window(trx, owner, 3, 2)
	assert.Nil(t, err, "window at bound error")
	assert.Equal(t, 0, len(page), "page at exact bound should be empty")

	_, err = a.Window(trx, owner, 4, 2)
	assert.Equal(t, fault.ErrIndexOutOfBounds, err, "offset past bound accepted")
}

func TestCollectionsAreIndependent(t *testing.T) {
	a, trx, teardown := setupArray(t)
	defer teardown()

	other := []byte("owner-two")
	a.Insert(trx, owner, []byte("a"))
	a.Insert(trx, other, []byte("z"))

	assert.Equal(t, uint64(1), a.Count(trx, owner), "owner count")
	assert.Equal(t, uint64(1), a.Count(trx, other), "other count")

	_, _, err := a.RemoveAt(trx, owner, 1)
	assert.Nil(t, err, "remove error")
	assert.Equal(t, uint64(1), a.Count(trx, other), "other collection disturbed")
}
