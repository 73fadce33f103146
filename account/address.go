// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/nebula-market/nebulad/fault"
)

// AddressLength - number of bytes in a raw address
const AddressLength = 20

// checksum bytes appended to the base58 form
const checksumLength = 4

// Address - a marketplace account address
type Address [AddressLength]byte

// Zero - the all zero address, never a valid holder
var Zero Address

// IsZero - check for the zero address
func (address Address) IsZero() bool {
	return Zero == address
}

// Bytes - raw address as a byte slice, for KV key construction
func (address Address) Bytes() []byte {
	return address[:]
}

// String - base58 encoding with a truncated SHA3-256 checksum
func (address Address) String() string {
	buffer := address.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// MarshalText - convert an address to its base58 JSON form
func (address Address) MarshalText() ([]byte, error) {
	return []byte(address.String()), nil
}

// UnmarshalText - decode the base58 JSON form
func (address *Address) UnmarshalText(s []byte) error {
	a, err := AddressFromBase58(string(s))
	if nil != err {
		return err
	}
	*address = a
	return nil
}

// AddressFromBase58 - decode and checksum verify a base58 address
func AddressFromBase58(addressBase58 string) (Address, error) {
	var address Address

	buffer, err := base58.Decode(addressBase58)
	if nil != err {
		return address, fault.ErrInvalidAddressLength
	}
	if AddressLength+checksumLength != len(buffer) {
		return address, fault.ErrInvalidAddressLength
	}

	checksum := sha3.Sum256(buffer[:AddressLength])
	if !bytes.Equal(checksum[:checksumLength], buffer[AddressLength:]) {
		return address, fault.ErrInvalidAddressLength
	}

	copy(address[:], buffer[:AddressLength])
	return address, nil
}

// AddressFromBytes - build an address from a raw key slice
func AddressFromBytes(buffer []byte) (Address, error) {
	var address Address
	if AddressLength != len(buffer) {
		return address, fault.ErrInvalidAddressLength
	}
	copy(address[:], buffer)
	return address, nil
}
