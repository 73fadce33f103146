// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - flat key/value pools over a single LevelDB database
//
// Each logical entity lives in its own pool, distinguished by a one
// byte key prefix. Pools only provide get/set/remove on scalar keys;
// all list behaviour is layered on top by the slot package.
//
// Writes go through a Transaction: they accumulate in an overlay that
// reads observe, and reach the database only on Commit. Abort discards
// the overlay, which is the all-or-nothing boundary every marketplace
// operation relies on.
package storage
