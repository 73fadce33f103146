// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"encoding/binary"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/slot"
	"github.com/nebula-market/nebulad/storage"
)

// Order - one live entry of an order book, stored in both the
// per-token and the per-owner array
type Order struct {
	TokenId  uint64
	Owner    account.Address
	Price    uint64
	Quantity uint64
}

const packedOrderSize = 8 + account.AddressLength + 8 + 8

// Pack - fixed width binary form
func (order Order) Pack() []byte {
	buffer := make([]byte, packedOrderSize)
	binary.BigEndian.PutUint64(buffer[0:], order.TokenId)
	copy(buffer[8:], order.Owner.Bytes())
	n := 8 + account.AddressLength
	binary.BigEndian.PutUint64(buffer[n:], order.Price)
	binary.BigEndian.PutUint64(buffer[n+8:], order.Quantity)
	return buffer
}

func unpackOrder(buffer []byte) (Order, error) {
	if packedOrderSize != len(buffer) {
		return Order{}, fault.ErrOrderNotFound
	}
	order := Order{
		TokenId: binary.BigEndian.Uint64(buffer[0:]),
	}
	copy(order.Owner[:], buffer[8:])
	n := 8 + account.AddressLength
	order.Price = binary.BigEndian.Uint64(buffer[n:])
	order.Quantity = binary.BigEndian.Uint64(buffer[n+8:])
	return order, nil
}

// Book - a sell or buy order book: two parallel swap-remove arrays
// joined slot-for-slot by the cross and back index pools
type Book struct {
	byToken slot.Array
	byOwner slot.Array
	cross   *storage.PoolHandle // tokenId ⧺ tokenSlot → owner ⧺ ownerSlot
	back    *storage.PoolHandle // owner ⧺ ownerSlot → tokenId ⧺ tokenSlot
}

// NewBook - assemble a book from its six pools; the arrays carry no
// position maps, orders are addressed by slot through the indexes
func NewBook(
	tokenCounts *storage.PoolHandle,
	tokenOrders *storage.PoolHandle,
	ownerCounts *storage.PoolHandle,
	ownerOrders *storage.PoolHandle,
	cross *storage.PoolHandle,
	back *storage.PoolHandle,
) *Book {
	return &Book{
		byToken: slot.NewArray(tokenCounts, tokenOrders, nil),
		byOwner: slot.NewArray(ownerCounts, ownerOrders, nil),
		cross:   cross,
		back:    back,
	}
}

func tokenCollection(tokenId uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenId)
	return b
}

func slotKey(collection []byte, index uint64) []byte {
	key := make([]byte, len(collection)+8)
	copy(key, collection)
	binary.BigEndian.PutUint64(key[len(collection):], index)
	return key
}

func packSlotRef(collection []byte, index uint64) []byte {
	return slotKey(collection, index)
}

func unpackSlotRef(buffer []byte) ([]byte, uint64) {
	n := len(buffer) - 8
	return buffer[:n], binary.BigEndian.Uint64(buffer[n:])
}

// Place - insert an order into both arrays and record the slot
// correspondence in both directions
func (b *Book) Place(trx storage.Transaction, order Order) (uint64, uint64) {
	packed := order.Pack()
	tokenC := tokenCollection(order.TokenId)
	ownerC := order.Owner.Bytes()

	tokenSlot := b.byToken.Insert(trx, tokenC, packed)
	ownerSlot := b.byOwner.Insert(trx, ownerC, packed)

	trx.Put(b.cross, slotKey(tokenC, tokenSlot), packSlotRef(ownerC, ownerSlot))
	trx.Put(b.back, slotKey(ownerC, ownerSlot), packSlotRef(tokenC, tokenSlot))
	return tokenSlot, ownerSlot
}

// OrderAt - read an order through its per-token slot
func (b *Book) OrderAt(trx storage.Transaction, tokenId uint64, tokenSlot uint64) (Order, error) {
	value, err := b.byToken.Get(trx, tokenCollection(tokenId), tokenSlot)
	if nil != err {
		return Order{}, err
	}
	return unpackOrder(value)
}

// OwnerOrderAt - read an order through its per-owner slot
func (b *Book) OwnerOrderAt(trx storage.Transaction, owner account.Address, ownerSlot uint64) (Order, error) {
	value, err := b.byOwner.Get(trx, owner.Bytes(), ownerSlot)
	if nil != err {
		return Order{}, err
	}
	return unpackOrder(value)
}

// CountByToken - live orders against a token id
func (b *Book) CountByToken(trx storage.Transaction, tokenId uint64) uint64 {
	return b.byToken.Count(trx, tokenCollection(tokenId))
}

// CountByOwner - live orders placed by an owner
func (b *Book) CountByOwner(trx storage.Transaction, owner account.Address) uint64 {
	return b.byOwner.Count(trx, owner.Bytes())
}

// CrossSlot - owner side location of the order at a token slot
func (b *Book) CrossSlot(trx storage.Transaction, tokenId uint64, tokenSlot uint64) (account.Address, uint64, bool) {
	var value []byte
	key := slotKey(tokenCollection(tokenId), tokenSlot)
	if nil != trx {
		value = trx.Get(b.cross, key)
	} else {
		value = b.cross.Get(key)
	}
	if nil == value {
		return account.Zero, 0, false
	}
	ownerBytes, ownerSlot := unpackSlotRef(value)
	owner, err := account.AddressFromBytes(ownerBytes)
	if nil != err {
		return account.Zero, 0, false
	}
	return owner, ownerSlot, true
}

// BackSlot - token side location of the order at an owner slot
func (b *Book) BackSlot(trx storage.Transaction, owner account.Address, ownerSlot uint64) (uint64, uint64, bool) {
	var value []byte
	key := slotKey(owner.Bytes(), ownerSlot)
	if nil != trx {
		value = trx.Get(b.back, key)
	} else {
		value = b.back.Get(key)
	}
	if nil == value {
		return 0, 0, false
	}
	tokenBytes, tokenSlot := unpackSlotRef(value)
	return binary.BigEndian.Uint64(tokenBytes), tokenSlot, true
}

// RemoveByToken - release the order at a token slot from both
// arrays, repairing the cross references of whichever orders the two
// swap-removes relocated
func (b *Book) RemoveByToken(trx storage.Transaction, tokenId uint64, tokenSlot uint64) (Order, error) {
	order, err := b.OrderAt(trx, tokenId, tokenSlot)
	if nil != err {
		return Order{}, err
	}

	tokenC := tokenCollection(tokenId)
	owner, ownerSlot, ok := b.CrossSlot(trx, tokenId, tokenSlot)
	if !ok || owner != order.Owner {
		return Order{}, fault.ErrOrderNotFound
	}
	ownerC := owner.Bytes()

	// token side: the last order of this token moves into the
	// vacated slot, so its owner side pointer must follow it
	moved, movedFrom, err := b.byToken.RemoveAt(trx, tokenC, tokenSlot)
	if nil != err {
		return Order{}, err
	}
	if nil != moved {
		movedRef := trx.Get(b.cross, slotKey(tokenC, movedFrom))
		trx.Put(b.cross, slotKey(tokenC, tokenSlot), movedRef)
		trx.Delete(b.cross, slotKey(tokenC, movedFrom))
		trx.Put(b.back, movedRef, packSlotRef(tokenC, tokenSlot))
	} else {
		trx.Delete(b.cross, slotKey(tokenC, tokenSlot))
	}

	// owner side: same repair in the opposite direction
	moved, movedFrom, err = b.byOwner.RemoveAt(trx, ownerC, ownerSlot)
	if nil != err {
		return Order{}, err
	}
	if nil != moved {
		movedRef := trx.Get(b.back, slotKey(ownerC, movedFrom))
		trx.Put(b.back, slotKey(ownerC, ownerSlot), movedRef)
		trx.Delete(b.back, slotKey(ownerC, movedFrom))
		trx.Put(b.cross, movedRef, packSlotRef(ownerC, ownerSlot))
	} else {
		trx.Delete(b.back, slotKey(ownerC, ownerSlot))
	}

	return order, nil
}

// RemoveByOwner - release the order at an owner slot; resolves the
// token side location and runs the same removal
func (b *Book) RemoveByOwner(trx storage.Transaction, owner account.Address, ownerSlot uint64) (Order, error) {
	tokenId, tokenSlot, ok := b.BackSlot(trx, owner, ownerSlot)
	if !ok {
		return Order{}, fault.ErrOrderNotFound
	}
	return b.RemoveByToken(trx, tokenId, tokenSlot)
}

// WindowByToken - page the live orders against a token id
func (b *Book) WindowByToken(trx storage.Transaction, tokenId uint64, offset uint64, limit uint64) ([]Order, error) {
	entries, err := b.byToken.Window(trx, tokenCollection(tokenId), offset, clampWindow(limit))
	if nil != err {
		return nil, err
	}
	return unpackOrders(entries)
}

// WindowByOwner - page the live orders placed by an owner
func (b *Book) WindowByOwner(trx storage.Transaction, owner account.Address, offset uint64, limit uint64) ([]Order, error) {
	entries, err := b.byOwner.Window(trx, owner.Bytes(), offset, clampWindow(limit))
	if nil != err {
		return nil, err
	}
	return unpackOrders(entries)
}

func unpackOrders(entries [][]byte) ([]Order, error) {
	orders := make([]Order, len(entries))
	for i, e := range entries {
		order, err := unpackOrder(e)
		if nil != err {
			return nil, err
		}
		orders[i] = order
	}
	return orders, nil
}
