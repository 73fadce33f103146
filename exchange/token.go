// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package exchange

import (
	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/pay"
	"github.com/nebula-market/nebulad/storage"
)

func approvalKey(owner account.Address, operator account.Address) []byte {
	key := make([]byte, 2*account.AddressLength)
	copy(key, owner.Bytes())
	copy(key[account.AddressLength:], operator.Bytes())
	return key
}

// Mint - minter only; register a new class and credit its full
// supply to the minter
func (ex *Exchange) Mint(caller account.Address, tokenId uint64, supply uint64, uri string) error {
	return ex.MintTo(caller, caller, tokenId, supply, uri)
}

// MintTo - minter only; register a new class crediting the supply to
// another holder
func (ex *Exchange) MintTo(caller account.Address, to account.Address, tokenId uint64, supply uint64, uri string) error {
	return ex.update(func(trx storage.Transaction) error {
		if caller != ex.roles.Minter(trx) {
			return fault.ErrUnauthorized
		}
		if to.IsZero() {
			return fault.ErrZeroAddress
		}
		if err := ex.registry.Register(trx, tokenId, caller, supply, uri); nil != err {
			return err
		}
		return ex.ledger.Credit(trx, to, tokenId, supply)
	})
}

// Burn - destroy part of the caller's holding; the class retires
// when the outstanding supply reaches zero
func (ex *Exchange) Burn(caller account.Address, tokenId uint64, quantity uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		if err := ex.ledger.Debit(trx, caller, tokenId, quantity); nil != err {
			return err
		}
		_, err := ex.registry.SubtractSupply(trx, tokenId, quantity)
		return err
	})
}

func (ex *Exchange) transfer(trx storage.Transaction, operator account.Address, from account.Address, to pay.Recipient, tokenId uint64, quantity uint64, data []byte) error {
	if err := ex.ledger.Transfer(trx, from, to.Address, tokenId, quantity); nil != err {
		return err
	}
	if nil != to.Receiver {
		return to.Receiver.NotifyReceived(operator, from, tokenId, quantity, data)
	}
	return nil
}

// Transfer - move the caller's unlocked units; a contract recipient
// is notified synchronously, its failure aborts the transfer
func (ex *Exchange) Transfer(caller account.Address, to pay.Recipient, tokenId uint64, quantity uint64, data []byte) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		return ex.transfer(trx, caller, caller, to, tokenId, quantity, data)
	})
}

// TransferFrom - operator transfer on behalf of an approving owner
func (ex *Exchange) TransferFrom(caller account.Address, from account.Address, to pay.Recipient, tokenId uint64, quantity uint64, data []byte) error {
	return ex.update(func(trx storage.Transaction) error {
		if err := ex.roles.CheckActive(trx, caller); nil != err {
			return err
		}
		if caller != from && !ex.isApproved(trx, from, caller) {
			return fault.ErrUnauthorized
		}
		return ex.transfer(trx, caller, from, to, tokenId, quantity, data)
	})
}

func (ex *Exchange) isApproved(trx storage.Transaction, owner account.Address, operator account.Address) bool {
	var value []byte
	if nil != trx {
		value = trx.Get(ex.store.Pool.Approvals, approvalKey(owner, operator))
	} else {
		value = ex.store.Pool.Approvals.Get(approvalKey(owner, operator))
	}
	return 1 == len(value) && 1 == value[0]
}

// SetApprovalForAll - grant or revoke an operator over all of the
// caller's classes
func (ex *Exchange) SetApprovalForAll(caller account.Address, operator account.Address, approved bool) error {
	return ex.update(func(trx storage.Transaction) error {
		if operator.IsZero() {
			return fault.ErrZeroAddress
		}
		if approved {
			trx.Put(ex.store.Pool.Approvals, approvalKey(caller, operator), []byte{1})
		} else {
			trx.Delete(ex.store.Pool.Approvals, approvalKey(caller, operator))
		}
		return nil
	})
}

// IsApprovedForAll - operator approval flag
func (ex *Exchange) IsApprovedForAll(owner account.Address, operator account.Address) bool {
	return ex.isApproved(nil, owner, operator)
}

// BalanceOf - units of a class held by an owner
func (ex *Exchange) BalanceOf(owner account.Address, tokenId uint64) uint64 {
	return ex.ledger.Balance(nil, owner, tokenId)
}

// LockedOf - units held back for live listings and sell orders
func (ex *Exchange) LockedOf(owner account.Address, tokenId uint64) uint64 {
	return ex.ledger.Locked(nil, owner, tokenId)
}

// BalanceOfBatch - balances for parallel owner and id slices
func (ex *Exchange) BalanceOfBatch(owners []account.Address, tokenIds []uint64) ([]uint64, error) {
	if len(owners) != len(tokenIds) {
		return nil, fault.ErrMissingParameters
	}
	balances := make([]uint64, len(owners))
	for i, owner := range owners {
		balances[i] = ex.ledger.Balance(nil, owner, tokenIds[i])
	}
	return balances, nil
}

// TokenClassCount - distinct classes held by an owner
func (ex *Exchange) TokenClassCount(owner account.Address) uint64 {
	return ex.ledger.ClassCount(nil, owner)
}

// TokensOf - page through an owner's classes
func (ex *Exchange) TokensOf(owner account.Address, offset uint64, limit uint64) ([]uint64, error) {
	return ex.ledger.TokensOf(nil, owner, offset, limit)
}

// TotalClasses - registered token classes
func (ex *Exchange) TotalClasses() uint64 {
	return ex.registry.TotalClasses(nil)
}

// TokenByIndex - global enumeration by 1 based position
func (ex *Exchange) TokenByIndex(index uint64) (uint64, error) {
	return ex.registry.TokenByIndex(nil, index)
}

// Tokens - page through all registered classes
func (ex *Exchange) Tokens(offset uint64, limit uint64) ([]uint64, error) {
	return ex.registry.Tokens(nil, offset, limit)
}

// MinterOf - address that registered a class
func (ex *Exchange) MinterOf(tokenId uint64) (account.Address, error) {
	return ex.registry.MinterOf(nil, tokenId)
}

// SupplyOf - outstanding units of a class
func (ex *Exchange) SupplyOf(tokenId uint64) uint64 {
	return ex.registry.SupplyOf(nil, tokenId)
}

// TokenURI - full metadata URI of a class
func (ex *Exchange) TokenURI(tokenId uint64) (string, error) {
	return ex.registry.URI(nil, tokenId)
}

// SetTokenURI - class minter or the minter role
func (ex *Exchange) SetTokenURI(caller account.Address, tokenId uint64, uri string) error {
	return ex.update(func(trx storage.Transaction) error {
		classMinter, err := ex.registry.MinterOf(trx, tokenId)
		if nil != err {
			return err
		}
		if caller != classMinter && caller != ex.roles.Minter(trx) {
			return fault.ErrUnauthorized
		}
		return ex.registry.SetTokenURI(trx, tokenId, uri)
	})
}

// SetBaseURL - director only
func (ex *Exchange) SetBaseURL(caller account.Address, url string) error {
	return ex.update(func(trx storage.Transaction) error {
		if caller != ex.roles.Director(trx) {
			return fault.ErrUnauthorized
		}
		ex.registry.SetBaseURL(trx, url)
		return nil
	})
}
