// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package exchange - the externally callable surface of the
// marketplace
//
// every state changing call runs inside one storage transaction:
// checks first, then mutation, commit at the end; the first failure
// aborts the whole call leaving the ledger untouched; calls are
// serialized, matching the execution model of the hosting platform
package exchange

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/auction"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/market"
	"github.com/nebula-market/nebulad/ownership"
	"github.com/nebula-market/nebulad/pay"
	"github.com/nebula-market/nebulad/registry"
	"github.com/nebula-market/nebulad/roles"
	"github.com/nebula-market/nebulad/salerecord"
	"github.com/nebula-market/nebulad/storage"
)

// DefaultSellerFeeBps - initial marketplace cut, parts per 100000
const DefaultSellerFeeBps uint64 = 2500

var feeKey = []byte("seller-fee")

// Exchange - one marketplace instance over one store
type Exchange struct {
	sync.Mutex

	log      *logger.L
	store    *storage.Store
	ledger   *ownership.Ledger
	registry *registry.Registry
	market   *market.Market
	auctions *auction.Engine
	sales    *salerecord.Ledger
	roles    *roles.Roles
	treasury pay.Treasury
}

// New - assemble an exchange over a store; the genesis address
// receives all roles on the first run and the default fee is set
func New(store *storage.Store, treasury pay.Treasury, genesis account.Address) (*Exchange, error) {
	if genesis.IsZero() {
		return nil, fault.ErrZeroAddress
	}

	ex := &Exchange{
		log:      logger.New("exchange"),
		store:    store,
		treasury: treasury,
	}
	ex.ledger = ownership.NewLedger(store)
	ex.registry = registry.NewRegistry(store)
	ex.market = market.NewMarket(store, ex.ledger)
	ex.sales = salerecord.NewLedger(store)
	ex.roles = roles.NewRoles(store)
	ex.auctions = auction.NewEngine(store, ex.market, ex.ledger, ex.sales, treasury)

	err := ex.update(func(trx storage.Transaction) error {
		ex.roles.Bootstrap(trx, genesis)
		if _, ok := trx.GetN(store.Pool.Vars, feeKey); !ok {
			trx.PutN(store.Pool.Vars, feeKey, DefaultSellerFeeBps)
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	ex.log.Infof("exchange ready: director: %s", ex.roles.Director(nil))
	return ex, nil
}

// update - the transaction boundary of every state changing call
func (ex *Exchange) update(f func(trx storage.Transaction) error) error {
	ex.Lock()
	defer ex.Unlock()

	trx := ex.store.Transaction()
	if err := trx.Begin(); nil != err {
		return err
	}
	if err := f(trx); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

func (ex *Exchange) feeBps(trx storage.Transaction) uint64 {
	if nil != trx {
		n, _ := trx.GetN(ex.store.Pool.Vars, feeKey)
		return n
	}
	n, _ := ex.store.Pool.Vars.GetN(feeKey)
	return n
}

// SellerFeeBps - current marketplace fee, parts per 100000
func (ex *Exchange) SellerFeeBps() uint64 {
	return ex.feeBps(nil)
}

// SetSellerFee - director only
func (ex *Exchange) SetSellerFee(caller account.Address, feeBps uint64) error {
	return ex.update(func(trx storage.Transaction) error {
		if caller != ex.roles.Director(trx) {
			return fault.ErrUnauthorized
		}
		if feeBps > 100000 {
			return fault.ErrInvalidPrice
		}
		trx.PutN(ex.store.Pool.Vars, feeKey, feeBps)
		return nil
	})
}

// Director - current director address
func (ex *Exchange) Director() account.Address { return ex.roles.Director(nil) }

// Treasurer - current treasurer address
func (ex *Exchange) Treasurer() account.Address { return ex.roles.Treasurer(nil) }

// Minter - current minter address
func (ex *Exchange) Minter() account.Address { return ex.roles.Minter(nil) }

// SetDirector - director only
func (ex *Exchange) SetDirector(caller account.Address, to account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.SetDirector(trx, caller, to)
	})
}

// SetTreasurer - director only
func (ex *Exchange) SetTreasurer(caller account.Address, to account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.SetTreasurer(trx, caller, to)
	})
}

// SetMinter - director only
func (ex *Exchange) SetMinter(caller account.Address, to account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.SetMinter(trx, caller, to)
	})
}

// Pause - director only; halts everything except the minter
func (ex *Exchange) Pause(caller account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.Pause(trx, caller)
	})
}

// Unpause - director only
func (ex *Exchange) Unpause(caller account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.Unpause(trx, caller)
	})
}

// IsPaused - global pause flag
func (ex *Exchange) IsPaused() bool { return ex.roles.IsPaused(nil) }

// RestrictSale - director only; new listings and auctions become
// minter only
func (ex *Exchange) RestrictSale(caller account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.RestrictSale(trx, caller)
	})
}

// UnrestrictSale - director only
func (ex *Exchange) UnrestrictSale(caller account.Address) error {
	return ex.update(func(trx storage.Transaction) error {
		return ex.roles.UnrestrictSale(trx, caller)
	})
}

// IsSaleRestricted - restricted sale flag
func (ex *Exchange) IsSaleRestricted() bool { return ex.roles.IsSaleRestricted(nil) }

// WithdrawFunds - treasurer only; moves accumulated fees out through
// the treasury
func (ex *Exchange) WithdrawFunds(caller account.Address, to account.Address, amount uint64) error {
	ex.Lock()
	defer ex.Unlock()
	if caller != ex.roles.Treasurer(nil) {
		return fault.ErrUnauthorized
	}
	if to.IsZero() {
		return fault.ErrZeroAddress
	}
	return ex.treasury.Pay(to, amount)
}

// RecordCount - number of sale records
func (ex *Exchange) RecordCount() uint64 {
	return ex.sales.Count(nil)
}

// Record - one sale record by its one based id
func (ex *Exchange) Record(recordId uint64) (salerecord.Record, error) {
	return ex.sales.Get(nil, recordId)
}
