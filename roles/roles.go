// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package roles

import (
	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/storage"
)

// Vars pool keys
var (
	directorKey   = []byte("director")
	treasurerKey  = []byte("treasurer")
	minterKey     = []byte("minter")
	pausedKey     = []byte("paused")
	restrictedKey = []byte("restricted-sale")
)

// Roles - privileged addresses and the global pause and sale flags
type Roles struct {
	vars *storage.PoolHandle
}

// NewRoles - bind to the variables pool of a store
func NewRoles(store *storage.Store) *Roles {
	return &Roles{vars: store.Pool.Vars}
}

func (r *Roles) get(trx storage.Transaction, key []byte) []byte {
	if nil != trx {
		return trx.Get(r.vars, key)
	}
	return r.vars.Get(key)
}

func (r *Roles) address(trx storage.Transaction, key []byte) account.Address {
	value := r.get(trx, key)
	if nil == value {
		return account.Zero
	}
	addr, err := account.AddressFromBytes(value)
	if nil != err {
		return account.Zero
	}
	return addr
}

func (r *Roles) flag(trx storage.Transaction, key []byte) bool {
	value := r.get(trx, key)
	return 1 == len(value) && 1 == value[0]
}

func (r *Roles) setFlag(trx storage.Transaction, key []byte, on bool) {
	if on {
		trx.Put(r.vars, key, []byte{1})
	} else {
		trx.Delete(r.vars, key)
	}
}

// Bootstrap - assign all roles to the genesis address on first run;
// a no-op once a director exists
func (r *Roles) Bootstrap(trx storage.Transaction, genesis account.Address) {
	if !r.Director(trx).IsZero() {
		return
	}
	trx.Put(r.vars, directorKey, genesis.Bytes())
	trx.Put(r.vars, treasurerKey, genesis.Bytes())
	trx.Put(r.vars, minterKey, genesis.Bytes())
}

// Director - current director address
func (r *Roles) Director(trx storage.Transaction) account.Address {
	return r.address(trx, directorKey)
}

// Treasurer - current treasurer address
func (r *Roles) Treasurer(trx storage.Transaction) account.Address {
	return r.address(trx, treasurerKey)
}

// Minter - current minter address
func (r *Roles) Minter(trx storage.Transaction) account.Address {
	return r.address(trx, minterKey)
}

func (r *Roles) assign(trx storage.Transaction, caller account.Address, key []byte, to account.Address) error {
	if caller != r.Director(trx) {
		return fault.ErrUnauthorized
	}
	if to.IsZero() {
		return fault.ErrZeroAddress
	}
	trx.Put(r.vars, key, to.Bytes())
	return nil
}

// SetDirector - director only
func (r *Roles) SetDirector(trx storage.Transaction, caller account.Address, to account.Address) error {
	return r.assign(trx, caller, directorKey, to)
}

// SetTreasurer - director only
func (r *Roles) SetTreasurer(trx storage.Transaction, caller account.Address, to account.Address) error {
	return r.assign(trx, caller, treasurerKey, to)
}

// SetMinter - director only
func (r *Roles) SetMinter(trx storage.Transaction, caller account.Address, to account.Address) error {
	return r.assign(trx, caller, minterKey, to)
}

// IsPaused - global pause flag
func (r *Roles) IsPaused(trx storage.Transaction) bool {
	return r.flag(trx, pausedKey)
}

// Pause - director only; halts state-changing operations for
// everybody except the minter
func (r *Roles) Pause(trx storage.Transaction, caller account.Address) error {
	if caller != r.Director(trx) {
		return fault.ErrUnauthorized
	}
	if r.IsPaused(trx) {
		return fault.ErrAlreadyPaused
	}
	r.setFlag(trx, pausedKey, true)
	return nil
}

// Unpause - director only
func (r *Roles) Unpause(trx storage.Transaction, caller account.Address) error {
	if caller != r.Director(trx) {
		return fault.ErrUnauthorized
	}
	if !r.IsPaused(trx) {
		return fault.ErrAlreadyUnpaused
	}
	r.setFlag(trx, pausedKey, false)
	return nil
}

// IsSaleRestricted - listings and auctions limited to the minter
func (r *Roles) IsSaleRestricted(trx storage.Transaction) bool {
	return r.flag(trx, restrictedKey)
}

// RestrictSale - director only
func (r *Roles) RestrictSale(trx storage.Transaction, caller account.Address) error {
	if caller != r.Director(trx) {
		return fault.ErrUnauthorized
	}
	if r.IsSaleRestricted(trx) {
		return fault.ErrSaleAlreadyRestricted
	}
	r.setFlag(trx, restrictedKey, true)
	return nil
}

// UnrestrictSale - director only
func (r *Roles) UnrestrictSale(trx storage.Transaction, caller account.Address) error {
	if caller != r.Director(trx) {
		return fault.ErrUnauthorized
	}
	if !r.IsSaleRestricted(trx) {
		return fault.ErrSaleAlreadyUnrestrict
	}
	r.setFlag(trx, restrictedKey, false)
	return nil
}

// CheckActive - reject state changes while paused, the minter is
// exempt
func (r *Roles) CheckActive(trx storage.Transaction, caller account.Address) error {
	if r.IsPaused(trx) && caller != r.Minter(trx) {
		return fault.ErrPaused
	}
	return nil
}

// CheckSaleAllowed - reject new listings while sales are restricted,
// the minter is exempt
func (r *Roles) CheckSaleAllowed(trx storage.Transaction, caller account.Address) error {
	if r.IsSaleRestricted(trx) && caller != r.Minter(trx) {
		return fault.ErrSaleRestricted
	}
	return nil
}
