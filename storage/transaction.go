// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/fault"
)

// Transaction - all-or-nothing write access to the pools
//
// a transaction accumulates writes in an overlay that its own reads
// observe; nothing reaches the database until Commit. Abort throws the
// overlay away leaving the database exactly as it was at Begin.
type Transaction interface {
	Begin() error
	Put(pool *PoolHandle, key []byte, value []byte)
	PutN(pool *PoolHandle, key []byte, value uint64)
	Get(pool *PoolHandle, key []byte) []byte
	GetN(pool *PoolHandle, key []byte) (uint64, bool)
	Has(pool *PoolHandle, key []byte) bool
	Delete(pool *PoolHandle, key []byte)
	Commit() error
	Abort()
}

// single writer per store; Begin fails if a transaction is open
type transaction struct {
	sync.Mutex
	store   *Store
	inUse   bool
	overlay map[string][]byte // prefixed key → value, nil marks a pending delete
}

func (trx *transaction) Begin() error {
	trx.Lock()
	defer trx.Unlock()

	if trx.inUse {
		return fault.ErrTransactionInUse
	}
	trx.inUse = true
	return nil
}

func (trx *transaction) Put(pool *PoolHandle, key []byte, value []byte) {
	if !trx.inUse {
		logger.Panic("transaction.Put without Begin")
	}
	if nil == value {
		logger.Panicf("transaction.Put nil value for: %x", key)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	trx.overlay[string(pool.prefixKey(key))] = stored
}

func (trx *transaction) PutN(pool *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(buffer, value)
	trx.Put(pool, key, buffer)
}

func (trx *transaction) Get(pool *PoolHandle, key []byte) []byte {
	if value, ok := trx.overlay[string(pool.prefixKey(key))]; ok {
		return value
	}
	return pool.Get(key)
}

func (trx *transaction) GetN(pool *PoolHandle, key []byte) (uint64, bool) {
	buffer := trx.Get(pool, key)
	if nil == buffer {
		return 0, false
	}
	if uint64ByteSize != len(buffer) {
		logger.Panicf("transaction.GetN truncated record for: %x: %x", key, buffer)
	}
	return binary.BigEndian.Uint64(buffer), true
}

func (trx *transaction) Has(pool *PoolHandle, key []byte) bool {
	if value, ok := trx.overlay[string(pool.prefixKey(key))]; ok {
		return nil != value
	}
	return pool.Has(key)
}

func (trx *transaction) Delete(pool *PoolHandle, key []byte) {
	if !trx.inUse {
		logger.Panic("transaction.Delete without Begin")
	}
	trx.overlay[string(pool.prefixKey(key))] = nil
}

func (trx *transaction) Commit() error {
	trx.Lock()
	defer trx.Unlock()

	if !trx.inUse {
		return fault.ErrTransactionNotStarted
	}

	batch := new(leveldb.Batch)
	for key, value := range trx.overlay {
		if nil == value {
			batch.Delete([]byte(key))
		} else {
			batch.Put([]byte(key), value)
		}
	}

	trx.store.RLock()
	defer trx.store.RUnlock()
	if nil == trx.store.db {
		return fault.ErrNotInitialised
	}
	err := trx.store.db.Write(batch, nil)
	if nil != err {
		return err
	}

	trx.overlay = make(map[string][]byte)
	trx.inUse = false
	return nil
}

func (trx *transaction) Abort() {
	trx.Lock()
	defer trx.Unlock()

	trx.overlay = make(map[string][]byte)
	trx.inUse = false
}
