// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pay - external capabilities consumed by the exchange
//
// currency movement and recipient notification are performed by the
// surrounding platform; the exchange only demands that both complete
// before its own transaction commits
package pay

import (
	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/account"
)

//go:generate mockgen -destination=mocks/pay.go -package=mocks -source=pay.go

// Treasury - atomic currency transfer; an error aborts the whole
// enclosing operation
type Treasury interface {
	Pay(to account.Address, amount uint64) error
}

// Receiver - receive hook of a contract recipient; an error aborts
// the whole enclosing transfer
type Receiver interface {
	NotifyReceived(operator account.Address, from account.Address, tokenId uint64, value uint64, data []byte) error
}

// Recipient - transfer destination with its receive hook resolved at
// the boundary; Receiver is nil for plain external addresses
type Recipient struct {
	Address  account.Address
	Receiver Receiver
}

// ExternalRecipient - destination without a receive hook
func ExternalRecipient(address account.Address) Recipient {
	return Recipient{Address: address}
}

// LogTreasury - treasury that only records payments; used by the
// daemon when no real settlement backend is wired
type LogTreasury struct {
	Log *logger.L
}

// Pay - log and succeed
func (t LogTreasury) Pay(to account.Address, amount uint64) error {
	t.Log.Infof("pay: %d -> %s", amount, to)
	return nil
}
