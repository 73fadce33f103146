// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package salerecord

import (
	"encoding/binary"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/storage"
)

// RecordType - kind of completed marketplace transaction
type RecordType byte

// record types
const (
	SaleSuccess RecordType = iota + 1
	AuctionUnsold
	AuctionCancelled
	BuySuccess
)

var countKey = []byte("sale-record-count")

// Record - one immutable entry of the historical ledger; buyer,
// prices and times stay zero when they did not apply
type Record struct {
	TokenId       uint64
	Type          RecordType
	Seller        account.Address
	Buyer         account.Address
	StartingPrice uint64
	FinalPrice    uint64
	StartTime     uint64
	EndTime       uint64
	Quantity      uint64
}

const packedSize = 8 + 1 + 2*account.AddressLength + 5*8

// Pack - fixed width binary form
func (record Record) Pack() []byte {
	buffer := make([]byte, packedSize)
	binary.BigEndian.PutUint64(buffer[0:], record.TokenId)
	buffer[8] = byte(record.Type)
	copy(buffer[9:], record.Seller.Bytes())
	copy(buffer[9+account.AddressLength:], record.Buyer.Bytes())
	n := 9 + 2*account.AddressLength
	binary.BigEndian.PutUint64(buffer[n:], record.StartingPrice)
	binary.BigEndian.PutUint64(buffer[n+8:], record.FinalPrice)
	binary.BigEndian.PutUint64(buffer[n+16:], record.StartTime)
	binary.BigEndian.PutUint64(buffer[n+24:], record.EndTime)
	binary.BigEndian.PutUint64(buffer[n+32:], record.Quantity)
	return buffer
}

func unpack(buffer []byte) (Record, error) {
	if packedSize != len(buffer) {
		return Record{}, fault.ErrRecordNotFound
	}
	record := Record{
		TokenId: binary.BigEndian.Uint64(buffer[0:]),
		Type:    RecordType(buffer[8]),
	}
	copy(record.Seller[:], buffer[9:])
	copy(record.Buyer[:], buffer[9+account.AddressLength:])
	n := 9 + 2*account.AddressLength
	record.StartingPrice = binary.BigEndian.Uint64(buffer[n:])
	record.FinalPrice = binary.BigEndian.Uint64(buffer[n+8:])
	record.StartTime = binary.BigEndian.Uint64(buffer[n+16:])
	record.EndTime = binary.BigEndian.Uint64(buffer[n+24:])
	record.Quantity = binary.BigEndian.Uint64(buffer[n+32:])
	return record, nil
}

// Ledger - append-only sale history; record ids start at one and
// only ever grow
type Ledger struct {
	records *storage.PoolHandle
	vars    *storage.PoolHandle
}

// NewLedger - bind the ledger to the sale record pools of a store
func NewLedger(store *storage.Store) *Ledger {
	return &Ledger{
		records: store.Pool.SaleRecords,
		vars:    store.Pool.Vars,
	}
}

func recordKey(recordId uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, recordId)
	return key
}

// Count - number of records appended so far
func (l *Ledger) Count(trx storage.Transaction) uint64 {
	if nil != trx {
		n, _ := trx.GetN(l.vars, countKey)
		return n
	}
	n, _ := l.vars.GetN(countKey)
	return n
}

// Append - store a new record, returning its one based id
func (l *Ledger) Append(trx storage.Transaction, record Record) uint64 {
	recordId := l.Count(trx) + 1
	trx.Put(l.records, recordKey(recordId), record.Pack())
	trx.PutN(l.vars, countKey, recordId)
	return recordId
}

// Get - fetch a record by id
func (l *Ledger) Get(trx storage.Transaction, recordId uint64) (Record, error) {
	if 0 == recordId || recordId > l.Count(trx) {
		return Record{}, fault.ErrRecordNotFound
	}
	var buffer []byte
	if nil != trx {
		buffer = trx.Get(l.records, recordKey(recordId))
	} else {
		buffer = l.records.Get(recordKey(recordId))
	}
	return unpack(buffer)
}
