// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"encoding/binary"

	"github.com/nebula-market/nebulad/account"
	"github.com/nebula-market/nebulad/fault"
	"github.com/nebula-market/nebulad/slot"
	"github.com/nebula-market/nebulad/storage"
)

// Vars pool key for the metadata base URL
var baseURLKey = []byte("base-url")

// Registry - the global list of registered token classes together
// with per-class supply, minter and metadata records
type Registry struct {
	classes slot.Array
	supply  *storage.PoolHandle
	minter  *storage.PoolHandle
	uris    *storage.PoolHandle
	vars    *storage.PoolHandle
}

// NewRegistry - bind a registry to the token pools of a store
func NewRegistry(store *storage.Store) *Registry {
	return &Registry{
		classes: slot.NewArray(
			store.Pool.TokenCounts,
			store.Pool.TokenList,
			store.Pool.TokenIndex,
		),
		supply: store.Pool.TokenSupply,
		minter: store.Pool.TokenMinter,
		uris:   store.Pool.TokenURIs,
		vars:   store.Pool.Vars,
	}
}

func tokenIdBytes(tokenId uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenId)
	return b
}

func get(trx storage.Transaction, pool *storage.PoolHandle, key []byte) []byte {
	if nil != trx {
		return trx.Get(pool, key)
	}
	return pool.Get(key)
}

// Register - record a new token class; each id can only ever be
// registered once while it is outstanding
func (r *Registry) Register(trx storage.Transaction, tokenId uint64, minter account.Address, supply uint64, uri string) error {
	if 0 == supply {
		return fault.ErrInvalidSupply
	}
	if "" == uri {
		return fault.ErrTokenURIRequired
	}
	id := tokenIdBytes(tokenId)
	if _, ok := r.classes.Position(trx, nil, id); ok {
		return fault.ErrTokenAlreadyMinted
	}
	r.classes.Insert(trx, nil, id)
	trx.PutN(r.supply, id, supply)
	trx.Put(r.minter, id, minter.Bytes())
	trx.Put(r.uris, id, []byte(uri))
	return nil
}

// Retire - drop a fully burned class from the global list and clear
// its supply, minter and metadata records
func (r *Registry) Retire(trx storage.Transaction, tokenId uint64) error {
	id := tokenIdBytes(tokenId)
	_, _, err := r.classes.RemoveValue(trx, nil, id)
	if nil != err {
		return fault.ErrTokenNotMinted
	}
	trx.Delete(r.supply, id)
	trx.Delete(r.minter, id)
	trx.Delete(r.uris, id)
	return nil
}

// IsRegistered - true while the class has outstanding supply
func (r *Registry) IsRegistered(trx storage.Transaction, tokenId uint64) bool {
	_, ok := r.classes.Position(trx, nil, tokenIdBytes(tokenId))
	return ok
}

// TotalClasses - number of registered token classes
func (r *Registry) TotalClasses(trx storage.Transaction) uint64 {
	return r.classes.Count(trx, nil)
}

// TokenByIndex - id stored at a 1 based position of the global list
func (r *Registry) TokenByIndex(trx storage.Transaction, index uint64) (uint64, error) {
	value, err := r.classes.Get(trx, nil, index)
	if nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint64(value), nil
}

// Tokens - page through the registered ids
func (r *Registry) Tokens(trx storage.Transaction, offset uint64, limit uint64) ([]uint64, error) {
	entries, err := r.classes.Window(trx, nil, offset, limit)
	if nil != err {
		return nil, err
	}
	ids := make([]uint64, len(entries))
	for i, e := range entries {
		ids[i] = binary.BigEndian.Uint64(e)
	}
	return ids, nil
}

// SupplyOf - outstanding units of a class, zero when not registered
func (r *Registry) SupplyOf(trx storage.Transaction, tokenId uint64) uint64 {
	if nil != trx {
		n, _ := trx.GetN(r.supply, tokenIdBytes(tokenId))
		return n
	}
	n, _ := r.supply.GetN(tokenIdBytes(tokenId))
	return n
}

// SubtractSupply - reduce outstanding supply on burn, the class is
// retired automatically when supply reaches zero
func (r *Registry) SubtractSupply(trx storage.Transaction, tokenId uint64, quantity uint64) (uint64, error) {
	supply := r.SupplyOf(trx, tokenId)
	if 0 == supply {
		return 0, fault.ErrTokenNotMinted
	}
	if quantity > supply {
		return 0, fault.ErrInsufficientBalance
	}
	remaining := supply - quantity
	if 0 == remaining {
		return 0, r.Retire(trx, tokenId)
	}
	trx.PutN(r.supply, tokenIdBytes(tokenId), remaining)
	return remaining, nil
}

// MinterOf - address that registered the class
func (r *Registry) MinterOf(trx storage.Transaction, tokenId uint64) (account.Address, error) {
	value := get(trx, r.minter, tokenIdBytes(tokenId))
	if nil == value {
		return account.Zero, fault.ErrTokenNotMinted
	}
	return account.AddressFromBytes(value)
}

// SetTokenURI - replace the metadata path of a registered class
func (r *Registry) SetTokenURI(trx storage.Transaction, tokenId uint64, uri string) error {
	if "" == uri {
		return fault.ErrTokenURIRequired
	}
	if !r.IsRegistered(trx, tokenId) {
		return fault.ErrTokenNotMinted
	}
	trx.Put(r.uris, tokenIdBytes(tokenId), []byte(uri))
	return nil
}

// URI - metadata base URL joined with the class path
func (r *Registry) URI(trx storage.Transaction, tokenId uint64) (string, error) {
	value := get(trx, r.uris, tokenIdBytes(tokenId))
	if nil == value {
		return "", fault.ErrTokenNotMinted
	}
	return r.BaseURL(trx) + string(value), nil
}

// SetBaseURL - global metadata URL prefix
func (r *Registry) SetBaseURL(trx storage.Transaction, url string) {
	trx.Put(r.vars, baseURLKey, []byte(url))
}

// BaseURL - global metadata URL prefix, empty until set
func (r *Registry) BaseURL(trx storage.Transaction) string {
	return string(get(trx, r.vars, baseURLKey))
}
