// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/nebula-market/nebulad/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {

	// ownership ledger
	Balances        *PoolHandle `prefix:"B"` // owner ⧺ id → quantity
	ClassCounts     *PoolHandle `prefix:"C"` // owner → owned index count
	OwnerTokens     *PoolHandle `prefix:"W"` // owner ⧺ index → id
	OwnerTokenIndex *PoolHandle `prefix:"X"` // owner ⧺ id → index
	LockedBalances  *PoolHandle `prefix:"Q"` // owner ⧺ id → locked quantity
	Approvals       *PoolHandle `prefix:"O"` // owner ⧺ operator → flag

	// global token registry
	TokenCounts *PoolHandle `prefix:"G"` // ∅ → registered token count
	TokenList   *PoolHandle `prefix:"T"` // index → id
	TokenIndex  *PoolHandle `prefix:"I"` // id → index
	TokenSupply *PoolHandle `prefix:"S"` // id → outstanding supply
	TokenMinter *PoolHandle `prefix:"M"` // id → minting account
	TokenURIs   *PoolHandle `prefix:"U"` // id → metadata URI

	// fixed price listings (global and per owner collections)
	ListedCounts *PoolHandle `prefix:"l"` // ∅ | owner → listed count
	ListedTokens *PoolHandle `prefix:"e"` // (∅ | owner) ⧺ index → id
	ListedIndex  *PoolHandle `prefix:"i"` // (∅ | owner) ⧺ id → index
	Prices       *PoolHandle `prefix:"P"` // id → price (sentinel = auctioned)

	// sell order book
	SellTokenCounts *PoolHandle `prefix:"s"` // id → order count
	SellTokenOrders *PoolHandle `prefix:"a"` // id ⧺ slot → packed order
	SellOwnerCounts *PoolHandle `prefix:"t"` // owner → order count
	SellOwnerOrders *PoolHandle `prefix:"b"` // owner ⧺ slot → packed order
	SellCrossIndex  *PoolHandle `prefix:"x"` // id ⧺ slot → owner ⧺ slot
	SellBackIndex   *PoolHandle `prefix:"y"` // owner ⧺ slot → id ⧺ slot

	// buy order book
	BuyTokenCounts *PoolHandle `prefix:"u"` // id → order count
	BuyTokenOrders *PoolHandle `prefix:"c"` // id ⧺ slot → packed order
	BuyOwnerCounts *PoolHandle `prefix:"v"` // owner → order count
	BuyOwnerOrders *PoolHandle `prefix:"d"` // owner ⧺ slot → packed order
	BuyCrossIndex  *PoolHandle `prefix:"j"` // id ⧺ slot → owner ⧺ slot
	BuyBackIndex   *PoolHandle `prefix:"k"` // owner ⧺ slot → id ⧺ slot

	// auctions, history and contract variables
	Auctions    *PoolHandle `prefix:"A"` // id → packed auction state
	SaleRecords *PoolHandle `prefix:"R"` // record id → packed sale record
	Vars        *PoolHandle `prefix:"V"` // name → scalar contract variable
}

// Store - a database and its pools, one per ledger instance
type Store struct {
	sync.RWMutex
	db   *leveldb.DB
	trx  *transaction
	Pool pools
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
	uint64ByteSize   = 8
)

// Initialise - open up the database connection and set up all pools
func Initialise(database string, readOnly bool) (*Store, error) {

	db, version, err := getDB(database, readOnly)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		db.Close()
		return nil, fault.ErrDatabaseVersion
	}

	if 0 == version {
		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	store := &Store{
		db: db,
	}
	store.trx = &transaction{
		store:   store,
		overlay: make(map[string][]byte),
	}

	// this will be a struct type
	poolType := reflect.TypeOf(store.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&store.Pool).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			db.Close()
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		p := &PoolHandle{
			prefix: prefixTag[0],
			store:  store,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	return store, nil
}

// Close - finalise the database connection
func (store *Store) Close() {
	store.Lock()
	defer store.Unlock()
	if nil != store.db {
		store.db.Close()
		store.db = nil
	}
}

// Transaction - access the single writer transaction for this store
func (store *Store) Transaction() Transaction {
	return store.trx
}

// return: database handle, version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
