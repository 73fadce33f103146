// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package slot

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/storage"
)

// Array - a family of dense 1-based arrays over three storage pools
//
// every collection in the family is addressed by its collection key;
// occupied slots are always exactly 1..count with no holes. The
// positions pool is optional: when present the reverse map
// (value → index) is maintained through every swap-remove, which
// requires values to be unique within a collection.
type Array struct {
	counts    *storage.PoolHandle
	entries   *storage.PoolHandle
	positions *storage.PoolHandle
}

const uint64ByteSize = 8

// NewArray - bind an array family to its pools
//
// positions may be nil for collections that repair their own external
// references from the RemoveAt return values
func NewArray(counts *storage.PoolHandle, entries *storage.PoolHandle, positions *storage.PoolHandle) Array {
	return Array{
		counts:    counts,
		entries:   entries,
		positions: positions,
	}
}

func indexBytes(index uint64) []byte {
	buffer := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(buffer, index)
	return buffer
}

func entryKey(collection []byte, index uint64) []byte {
	key := make([]byte, 0, len(collection)+uint64ByteSize)
	key = append(key, collection...)
	return append(key, indexBytes(index)...)
}

func positionKey(collection []byte, value []byte) []byte {
	key := make([]byte, 0, len(collection)+len(value))
	key = append(key, collection...)
	return append(key, value...)
}

// reads fall back to the pool when no transaction is open
func get(trx storage.Transaction, pool *storage.PoolHandle, key []byte) []byte {
	if nil == trx {
		return pool.Get(key)
	}
	return trx.Get(pool, key)
}

func getN(trx storage.Transaction, pool *storage.PoolHandle, key []byte) (uint64, bool) {
	if nil == trx {
		return pool.GetN(key)
	}
	return trx.GetN(pool, key)
}

// Count - number of occupied slots in a collection
func (a Array) Count(trx storage.Transaction, collection []byte) uint64 {
	n, _ := getN(trx, a.counts, collection)
	return n
}

// Insert - append a value, returning its new 1-based index
func (a Array) Insert(trx storage.Transaction, collection []byte, value []byte) uint64 {
	index := a.Count(trx, collection) + 1
	trx.Put(a.entries, entryKey(collection, index), value)
	trx.PutN(a.counts, collection, index)
	if nil != a.positions {
		trx.PutN(a.positions, positionKey(collection, value), index)
	}
	return index
}

// Get - value stored at a 1-based index
func (a Array) Get(trx storage.Transaction, collection []byte, index uint64) ([]byte, error) {
	if 0 == index || index > a.Count(trx, collection) {
		return nil, fault.ErrIndexOutOfBounds
	}
	value := get(trx, a.entries, entryKey(collection, index))
	if nil == value {
		logger.Panicf("slot.Get missing entry: collection %x index %d", collection, index)
	}
	return value, nil
}

// Position - locate a value through the reverse map
//
// only available on arrays constructed with a positions pool
func (a Array) Position(trx storage.Transaction, collection []byte, value []byte) (uint64, bool) {
	if nil == a.positions {
		logger.Panic("slot.Position on array without positions pool")
	}
	return getN(trx, a.positions, positionKey(collection, value))
}

// RemoveAt - swap-remove the slot at a 1-based index
//
// when the removed slot was not the last one, the last value is moved
// into its place and returned together with the index it moved from,
// so the caller can repair any external reference that pointed at it.
// moved is nil when no value was displaced.
func (a Array) RemoveAt(trx storage.Transaction, collection []byte, index uint64) (moved []byte, movedFrom uint64, err error) {
	count := a.Count(trx, collection)
	if 0 == index || index > count {
		return nil, 0, fault.ErrIndexOutOfBounds
	}

	removed := trx.Get(a.entries, entryKey(collection, index))
	if nil == removed {
		logger.Panicf("slot.RemoveAt missing entry: collection %x index %d", collection, index)
	}
	if nil != a.positions {
		trx.Delete(a.positions, positionKey(collection, removed))
	}

	if index != count {
		last := trx.Get(a.entries, entryKey(collection, count))
		if nil == last {
			logger.Panicf("slot.RemoveAt missing last entry: collection %x index %d", collection, count)
		}
		trx.Put(a.entries, entryKey(collection, index), last)
		if nil != a.positions {
			trx.PutN(a.positions, positionKey(collection, last), index)
		}
		moved = last
		movedFrom = count
	}

	trx.Delete(a.entries, entryKey(collection, count))
	if 1 == count {
		trx.Delete(a.counts, collection)
	} else {
		trx.PutN(a.counts, collection, count-1)
	}

	return moved, movedFrom, nil
}

// RemoveValue - swap-remove a value located through the reverse map
func (a Array) RemoveValue(trx storage.Transaction, collection []byte, value []byte) (moved []byte, movedFrom uint64, err error) {
	index, ok := a.Position(trx, collection, value)
	if !ok {
		return nil, 0, fault.ErrIndexOutOfBounds
	}
	return a.RemoveAt(trx, collection, index)
}

// Window - enumerate up to limit values starting after offset
//
// an offset beyond the current count is an error, not an empty page
func (a Array) Window(trx storage.Transaction, collection []byte, offset uint64, limit uint64) ([][]byte, error) {
	count := a.Count(trx, collection)
	if offset > count {
		return nil, fault.ErrIndexOutOfBounds
	}

	end := offset + limit
	if end > count {
		end = count
	}

	values := make([][]byte, 0, end-offset)
	for index := offset + 1; index <= end; index += 1 {
		value := get(trx, a.entries, entryKey(collection, index))
		if nil == value {
			logger.Panicf("slot.Window missing entry: collection %x index %d", collection, index)
		}
		values = append(values, value)
	}
	return values, nil
}
