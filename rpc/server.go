// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Nebula Market Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nebula-market/nebulad/counter"
	"github.com/nebula-market/nebulad/exchange"
)

// NewServer - create an RPC server with all query handlers registered
func NewServer(log *logger.L, version string, ex *exchange.Exchange, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(NewOwner(log, ex))
	_ = server.Register(NewToken(log, ex))
	_ = server.Register(NewMarket(log, ex))
	_ = server.Register(NewAuction(log, ex))
	_ = server.Register(NewRecord(log, ex))
	_ = server.Register(NewNode(log, ex, start, version, rpcCount))

	return server
}
