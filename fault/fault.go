// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type AccessError GenericError
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised    = ProcessError("already initialised")
	ErrAlreadyPaused         = ProcessError("contract is already paused")
	ErrAlreadyUnpaused       = ProcessError("contract is already unpaused")
	ErrAmountMismatch        = InvalidError("payment does not match the price")
	ErrAuctionEnded          = ProcessError("auction has already ended")
	ErrAuctionNotActive      = ProcessError("auction is not active")
	ErrAuctionNotUnclaimed   = ProcessError("auction is not unclaimed")
	ErrAuctionNotUnsold      = ProcessError("auction is not unsold")
	ErrBidAlreadyMade        = ProcessError("bid has already been made")
	ErrBidTooLow             = InvalidError("bid is below the minimum amount")
	ErrCertificateExists     = ExistsError("certificate file already exists")
	ErrDatabaseVersion       = ProcessError("database version mismatch")
	ErrDurationTooLong       = InvalidError("auction duration exceeds two weeks")
	ErrIndexOutOfBounds      = LengthError("index is out of bounds")
	ErrInsufficientBalance   = ProcessError("balance is insufficient")
	ErrInsufficientUnlocked  = ProcessError("unlocked balance is insufficient")
	ErrInvalidAddressLength  = LengthError("address length is invalid")
	ErrInvalidCount          = InvalidError("count is invalid")
	ErrInvalidIpAddress      = InvalidError("invalid ip Address")
	ErrInvalidLoggerChannel  = ProcessError("invalid logger channel")
	ErrInvalidPrice          = InvalidError("price must be positive")
	ErrInvalidQuantity       = InvalidError("quantity must be positive")
	ErrInvalidSupply         = InvalidError("supply must be positive")
	ErrKeyFileExists         = ExistsError("key file already exists")
	ErrMissingParameters     = InvalidError("missing parameters")
	ErrNotInitialised        = ProcessError("not initialised")
	ErrNotListed             = NotFoundError("token is not listed")
	ErrNotOnAuction          = NotFoundError("token is not on auction")
	ErrNotSoleHolder         = ProcessError("caller does not hold the full token supply")
	ErrOrderNotFound         = NotFoundError("order does not exist")
	ErrPaused                = AccessError("contract is currently paused")
	ErrRateLimiting          = ProcessError("rate limit exceeded")
	ErrRecordNotFound        = NotFoundError("sale record does not exist")
	ErrSaleAlreadyRestricted = ProcessError("token sale is already restricted")
	ErrSaleAlreadyUnrestrict = ProcessError("token sale is already without restrictions")
	ErrSaleRestricted        = AccessError("token sale is currently restricted")
	ErrTokenAlreadyAuctioned = ExistsError("token is already on auction")
	ErrTokenAlreadyListed    = ExistsError("token is already listed")
	ErrTokenAlreadyMinted    = ExistsError("token is already minted")
	ErrTokenNotMinted        = NotFoundError("token is not minted")
	ErrTokenURIRequired      = InvalidError("token uri is required")
	ErrTransactionInUse      = ProcessError("transaction already in use")
	ErrTransactionNotStarted = ProcessError("transaction not started")
	ErrUnauthorized          = AccessError("caller is not permitted")
	ErrZeroAddress           = InvalidError("address can not be the zero address")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AccessError) Error() string   { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrAccess(e error) bool   { _, ok := e.(AccessError); return ok }
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
