// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"encoding/binary"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/slot"
	"github.com/nebula-market/nebulad/storage"
)

// Ledger - per-owner token balances and the dense index of token
// classes each owner holds
type Ledger struct {
	balances *storage.PoolHandle
	locked   *storage.PoolHandle
	owned    slot.Array
}

// NewLedger - bind a ledger to the balance pools of a store
func NewLedger(store *storage.Store) *Ledger {
	return &Ledger{
		balances: store.Pool.Balances,
		locked:   store.Pool.LockedBalances,
		owned: slot.NewArray(
			store.Pool.ClassCounts,
			store.Pool.OwnerTokens,
			store.Pool.OwnerTokenIndex,
		),
	}
}

// balanceKey - owner ⧺ big endian token id
func balanceKey(owner account.Address, tokenId uint64) []byte {
	key := make([]byte, account.AddressLength+8)
	copy(key, owner.Bytes())
	binary.BigEndian.PutUint64(key[account.AddressLength:], tokenId)
	return key
}

func tokenIdBytes(tokenId uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenId)
	return b
}

func getN(trx storage.Transaction, pool *storage.PoolHandle, key []byte) uint64 {
	if nil != trx {
		n, _ := trx.GetN(pool, key)
		return n
	}
	n, _ := pool.GetN(key)
	return n
}

// Balance - total units of a token class held by an owner, locked
// units included
func (l *Ledger) Balance(trx storage.Transaction, owner account.Address, tokenId uint64) uint64 {
	return getN(trx, l.balances, balanceKey(owner, tokenId))
}

// Locked - units held back for open sell orders and fixed price
// listings
func (l *Ledger) Locked(trx storage.Transaction, owner account.Address, tokenId uint64) uint64 {
	return getN(trx, l.locked, balanceKey(owner, tokenId))
}

// Available - spendable units, i.e. balance less locked
func (l *Ledger) Available(trx storage.Transaction, owner account.Address, tokenId uint64) uint64 {
	return l.Balance(trx, owner, tokenId) - l.Locked(trx, owner, tokenId)
}

// ClassCount - number of distinct token classes the owner holds
func (l *Ledger) ClassCount(trx storage.Transaction, owner account.Address) uint64 {
	return l.owned.Count(trx, owner.Bytes())
}

// TokensOf - page through the token ids an owner holds; ordering is
// by slot and changes when a class balance reaches zero
func (l *Ledger) TokensOf(trx storage.Transaction, owner account.Address, offset uint64, limit uint64) ([]uint64, error) {
	entries, err := l.owned.Window(trx, owner.Bytes(), offset, limit)
	if nil != err {
		return nil, err
	}
	ids := make([]uint64, len(entries))
	for i, e := range entries {
		ids[i] = binary.BigEndian.Uint64(e)
	}
	return ids, nil
}

// Credit - add units to an owner, registering the class in the
// owner's index on the zero to non-zero edge
func (l *Ledger) Credit(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	key := balanceKey(owner, tokenId)
	balance := getN(trx, l.balances, key)
	if 0 == balance {
		l.owned.Insert(trx, owner.Bytes(), tokenIdBytes(tokenId))
	}
	trx.PutN(l.balances, key, balance+quantity)
	return nil
}

// Debit - remove unlocked units from an owner, dropping the class
// from the owner's index when the balance reaches zero
func (l *Ledger) Debit(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	key := balanceKey(owner, tokenId)
	balance := getN(trx, l.balances, key)
	if quantity > balance {
		return fault.ErrInsufficientBalance
	}
	if quantity > balance-getN(trx, l.locked, key) {
		return fault.ErrInsufficientUnlocked
	}
	l.writeBalance(trx, owner, tokenId, key, balance-quantity)
	return nil
}

// DebitLocked - consume units previously locked for an order or
// listing, reducing the lock and the balance together
func (l *Ledger) DebitLocked(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	key := balanceKey(owner, tokenId)
	locked := getN(trx, l.locked, key)
	if quantity > locked {
		return fault.ErrInsufficientUnlocked
	}
	balance := getN(trx, l.balances, key)
	if quantity > balance {
		return fault.ErrInsufficientBalance
	}
	if quantity == locked {
		trx.Delete(l.locked, key)
	} else {
		trx.PutN(l.locked, key, locked-quantity)
	}
	l.writeBalance(trx, owner, tokenId, key, balance-quantity)
	return nil
}

// Lock - hold units back from spending; fails when the unlocked
// balance is short
func (l *Ledger) Lock(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	if 0 == quantity {
		return fault.ErrInvalidQuantity
	}
	key := balanceKey(owner, tokenId)
	locked := getN(trx, l.locked, key)
	if quantity > getN(trx, l.balances, key)-locked {
		return fault.ErrInsufficientUnlocked
	}
	trx.PutN(l.locked, key, locked+quantity)
	return nil
}

// Unlock - release previously locked units
func (l *Ledger) Unlock(trx storage.Transaction, owner account.Address, tokenId uint64, quantity uint64) error {
	key := balanceKey(owner, tokenId)
	locked := getN(trx, l.locked, key)
	if quantity > locked {
		return fault.ErrInsufficientUnlocked
	}
	if quantity == locked {
		trx.Delete(l.locked, key)
	} else {
		trx.PutN(l.locked, key, locked-quantity)
	}
	return nil
}

// Transfer - move unlocked units between owners; a self transfer is
// a no-op on the balance but still validated
func (l *Ledger) Transfer(trx storage.Transaction, from account.Address, to account.Address, tokenId uint64, quantity uint64) error {
	if to.IsZero() {
		return fault.ErrZeroAddress
	}
	err := l.Debit(trx, from, tokenId, quantity)
	if nil != err {
		return err
	}
	return l.Credit(trx, to, tokenId, quantity)
}

func (l *Ledger) writeBalance(trx storage.Transaction, owner account.Address, tokenId uint64, key []byte, balance uint64) {
	if 0 == balance {
		trx.Delete(l.balances, key)
		l.owned.RemoveValue(trx, owner.Bytes(), tokenIdBytes(tokenId))
	} else {
		trx.PutN(l.balances, key, balance)
	}
}
