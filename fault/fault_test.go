// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/nebula-market/nebulad/fault"
)

var (
	ErrAccessOne   = fault.AccessError("access one")
	ErrExistsOne   = fault.ExistsError("exists one")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrLengthOne   = fault.LengthError("length one")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrProcessOne  = fault.ProcessError("process one")
)

// test that the error classes stay distinct
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		access   bool
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
	}{
		{ErrAccessOne, true, false, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false, false},
		{ErrInvalidOne, false, false, true, false, false, false},
		{ErrLengthOne, false, false, false, true, false, false},
		{ErrNotFoundOne, false, false, false, false, true, false},
		{ErrProcessOne, false, false, false, false, false, true},
		{fault.ErrUnauthorized, true, false, false, false, false, false},
		{fault.ErrTokenAlreadyMinted, false, true, false, false, false, false},
		{fault.ErrBidTooLow, false, false, true, false, false, false},
		{fault.ErrIndexOutOfBounds, false, false, false, true, false, false},
		{fault.ErrNotOnAuction, false, false, false, false, true, false},
		{fault.ErrInsufficientBalance, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrAccess(err) != e.access {
			t.Errorf("%d: expected 'access' == %v for err = %v", i, e.access, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'notFound' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}
